package channels

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/fx"

	"github.com/dep2p/go-channels/config"
	"github.com/dep2p/go-channels/internal/core/eventbus"
	"github.com/dep2p/go-channels/internal/core/host"
	"github.com/dep2p/go-channels/internal/core/metrics"
	"github.com/dep2p/go-channels/internal/core/transport"
	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
	"github.com/dep2p/go-channels/pkg/lib/log"
)

var logger = log.Logger("channels")

const (
	// startTimeout 启动超时（Fx App Start）
	startTimeout = 30 * time.Second

	// stopTimeout Close 使用的停止超时
	stopTimeout = 10 * time.Second
)

// Listener 监听器
type Listener = transport.Listener

// Client 自动重连客户端
type Client = host.Client

// ════════════════════════════════════════════════════════════════════════════
//                              Host
// ════════════════════════════════════════════════════════════════════════════

// Host 用户交互的主入口
type Host struct {
	mu      sync.Mutex
	app     *fx.App
	config  *config.Config
	started bool
	closed  bool

	// 由 fx 注入
	host     *host.Host
	registry *eventbus.Registry
	metrics  *metrics.Collector
}

// New 创建 Host，不启动监听器
func New(opts ...Option) (*Host, error) {
	o := &options{}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	cfg, err := o.build()
	if err != nil {
		return nil, err
	}
	cfg.Log.Apply()

	h := &Host{config: cfg}
	app := buildFxApp(o, cfg, h)
	if err := app.Err(); err != nil {
		return nil, fmt.Errorf("build app: %w", err)
	}
	h.app = app
	return h, nil
}

// Start 启动全部监听器和客户端
func (h *Host) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHostClosed
	}
	if h.started {
		return ErrAlreadyStarted
	}

	startCtx, cancel := context.WithTimeout(ctx, startTimeout)
	defer cancel()
	if err := h.app.Start(startCtx); err != nil {
		h.closed = true
		logger.Error("启动失败", "error", err)
		return fmt.Errorf("start failed: %w", err)
	}
	h.started = true
	logger.Info("已启动", "listeners", len(h.host.Listeners()), "clients", len(h.host.Clients()))
	return nil
}

// Stop 停止全部循环并关闭所有通道，Host 不能再次启动
func (h *Host) Stop(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	if !h.started {
		return h.host.Close()
	}
	if err := h.app.Stop(ctx); err != nil {
		return fmt.Errorf("stop failed: %w", err)
	}
	logger.Info("已停止")
	return nil
}

// Close 以默认超时停止（幂等）
func (h *Host) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return h.Stop(ctx)
}

// Config 返回生效的配置
func (h *Host) Config() *config.Config {
	return h.config
}

// Listeners 返回监听器，启动前为空
func (h *Host) Listeners() []Listener {
	return h.host.Listeners()
}

// Listener 按名称查找监听器
func (h *Host) Listener(name string) (Listener, bool) {
	return h.host.Listener(name)
}

// Clients 返回客户端，启动前为空
func (h *Host) Clients() []*Client {
	return h.host.Clients()
}

// Client 按名称查找客户端
func (h *Host) Client(name string) (*Client, bool) {
	return h.host.Client(name)
}

// Channels 返回全部活跃通道
func (h *Host) Channels() []pkgif.Channel {
	return h.host.Channels()
}

// Register 启动后追加事件监听器，返回注销函数
func (h *Host) Register(l pkgif.ChannelEventListener) (unregister func()) {
	return h.registry.Register(l)
}

// Metrics 返回指标集合，禁用指标时为 nil
func (h *Host) Metrics() *metrics.Collector {
	return h.metrics
}

// Done 返回在全部循环退出后关闭的 channel
func (h *Host) Done() <-chan struct{} {
	return h.host.Done()
}
