package channel

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-channels/internal/core/eventbus"
	"github.com/dep2p/go-channels/pkg/buffer"
	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
	"github.com/dep2p/go-channels/pkg/lib/log"
	"github.com/dep2p/go-channels/pkg/types"
)

var logger = log.Logger("core/channel")

// Config 通道构造参数
type Config struct {
	// Transport 传输句柄（必需），通道关闭时一并关闭
	Transport pkgif.Transport

	// Pipelines 输入/输出管道（必需）
	Pipelines *Pipelines

	// Endianness 缓冲区字节序
	Endianness buffer.Endianness

	// Services 附加到通道的服务，每个通道独立实例
	Services []pkgif.ChannelService

	// Listeners 事件监听器，可为 nil
	//
	// 不是 *eventbus.Registry 时会被包装进一个 Registry，监听器的 panic 不会传到通道。
	Listeners pkgif.ChannelEventListener

	// Clock 时钟，默认为系统时钟
	Clock clock.Clock

	// Context 父 context，取消时通道的 Context 也随之取消
	Context context.Context
}

// ============================================================================
//                              Channel 实现
// ============================================================================

// Channel 通道实体
type Channel struct {
	id        types.ChannelID
	transport pkgif.Transport
	pipes     *Pipelines
	order     buffer.Endianness
	services  []pkgif.ChannelService
	listeners pkgif.ChannelEventListener
	clock     clock.Clock
	metadata  *types.Metadata

	createdAt    time.Time
	lastReceived atomic.Pointer[time.Time] // nil 表示尚未接收
	lastSent     atomic.Pointer[time.Time] // nil 表示尚未发送

	// recvMu 串行化接收，保护 buf
	recvMu sync.Mutex
	buf    *buffer.Buffer

	// writeMu 串行化写出
	writeMu sync.Mutex

	ctx         context.Context
	cancel      context.CancelFunc
	initialized atomic.Bool
	closed      atomic.Bool
	done        chan struct{}

	hooksMu sync.Mutex
	onClose []func()
}

var (
	_ pkgif.Channel = (*Channel)(nil)
	_ pkgif.Poller  = (*Channel)(nil)
)

// New 创建通道
func New(cfg Config) (*Channel, error) {
	if cfg.Transport == nil {
		return nil, ErrNoTransport
	}
	if cfg.Pipelines == nil || cfg.Pipelines.Input == nil || cfg.Pipelines.Output == nil {
		return nil, ErrNoPipelines
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}
	var listeners pkgif.ChannelEventListener
	switch l := cfg.Listeners.(type) {
	case nil:
		listeners = pkgif.NoopEventListener{}
	case *eventbus.Registry:
		listeners = l
	default:
		listeners = eventbus.NewRegistry(l)
	}
	parent := cfg.Context
	if parent == nil {
		parent = context.Background()
	}

	ctx, cancel := context.WithCancel(parent)
	c := &Channel{
		id:        types.NewChannelID(),
		transport: cfg.Transport,
		pipes:     cfg.Pipelines,
		order:     cfg.Endianness,
		services:  append([]pkgif.ChannelService(nil), cfg.Services...),
		listeners: listeners,
		clock:     clk,
		metadata:  types.NewMetadata(),
		createdAt: clk.Now(),
		buf:       buffer.NewWritable(cfg.Endianness),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	return c, nil
}

// ============================================================================
//                              访问器
// ============================================================================

// ID 返回通道 ID
func (c *Channel) ID() types.ChannelID {
	return c.id
}

// Transport 返回传输类型
func (c *Channel) Transport() types.TransportKind {
	return c.transport.Kind()
}

// CreatedAt 返回创建时间
func (c *Channel) CreatedAt() time.Time {
	return c.createdAt
}

// LastReceivedAt 返回最后接收时间，尚未接收时为零值
func (c *Channel) LastReceivedAt() time.Time {
	return loadTime(&c.lastReceived)
}

// LastSentAt 返回最后发送时间，尚未发送时为零值
func (c *Channel) LastSentAt() time.Time {
	return loadTime(&c.lastSent)
}

func loadTime(p *atomic.Pointer[time.Time]) time.Time {
	if t := p.Load(); t != nil {
		return *t
	}
	return time.Time{}
}

func (c *Channel) touch(p *atomic.Pointer[time.Time]) {
	now := c.clock.Now()
	p.Store(&now)
}

// Metadata 返回元数据表
func (c *Channel) Metadata() *types.Metadata {
	return c.metadata
}

// Endianness 返回缓冲区字节序
func (c *Channel) Endianness() buffer.Endianness {
	return c.order
}

// LocalAddr 返回本地地址
func (c *Channel) LocalAddr() net.Addr {
	return c.transport.LocalAddr()
}

// RemoteAddr 返回远端地址
func (c *Channel) RemoteAddr() net.Addr {
	return c.transport.RemoteAddr()
}

// Profile 返回管道配置名称
func (c *Channel) Profile() string {
	if c.pipes.Profile == nil {
		return ""
	}
	return c.pipes.Profile.Name
}

// Services 返回附加服务列表的拷贝
func (c *Channel) Services() []pkgif.ChannelService {
	return append([]pkgif.ChannelService(nil), c.services...)
}

// Context 返回通道 context，通道关闭时取消
func (c *Channel) Context() context.Context {
	return c.ctx
}

// Clock 返回通道使用的时钟
func (c *Channel) Clock() clock.Clock {
	return c.clock
}

// IsClosed 是否已关闭
func (c *Channel) IsClosed() bool {
	return c.closed.Load()
}

// Done 返回关闭信号
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

// Poll 探测底层套接字；传输不支持探测时以关闭状态为准
func (c *Channel) Poll() bool {
	if c.IsClosed() {
		return false
	}
	if p, ok := c.transport.(pkgif.Poller); ok {
		return p.Poll()
	}
	return true
}

// Notify 向监听器广播自定义事件
func (c *Channel) Notify(name string, data any) {
	c.listeners.CustomEvent(c, name, data)
}

// OnClose 注册关闭回调；通道已关闭时立即执行
func (c *Channel) OnClose(fn func()) {
	if fn == nil {
		return
	}
	c.hooksMu.Lock()
	if !c.IsClosed() {
		c.onClose = append(c.onClose, fn)
		c.hooksMu.Unlock()
		return
	}
	c.hooksMu.Unlock()
	fn()
}

// String 返回通道简要描述
func (c *Channel) String() string {
	return c.transport.Kind().String() + "/" + c.id.ShortString()
}

func (c *Channel) logAttrs() []any {
	attrs := []any{"channel", c.id.ShortString(), "transport", c.transport.Kind()}
	if addr := c.transport.RemoteAddr(); addr != nil {
		attrs = append(attrs, "remote", addr.String())
	}
	return attrs
}

// ============================================================================
//                              初始化
// ============================================================================

// Initialize 通知创建事件并启动全部服务
//
// 单个服务启动失败只记录日志，不影响其他服务。重复调用无效果。
func (c *Channel) Initialize(ctx context.Context) {
	if !c.initialized.CompareAndSwap(false, true) {
		return
	}

	logger.Info("通道已创建", append(c.logAttrs(), "profile", c.Profile())...)
	c.listeners.ChannelCreated(c)

	for _, svc := range c.services {
		if err := c.startService(ctx, svc); err != nil {
			logger.Error("启动通道服务失败", append(c.logAttrs(), "service", serviceName(svc), "error", err)...)
		}
	}
}

func (c *Channel) startService(ctx context.Context, svc pkgif.ChannelService) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}
	}()
	return svc.Start(ctx, c)
}
