package host

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/clock"
	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-channels/config"
	"github.com/dep2p/go-channels/internal/core/channel"
	"github.com/dep2p/go-channels/internal/core/transport"
	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
	"github.com/dep2p/go-channels/pkg/lib/log"
	"github.com/dep2p/go-channels/pkg/middleware"
)

var logger = log.Logger("core/host")

// ============================================================================
//                              Host 实现
// ============================================================================

// Host 监听器与客户端管理器
type Host struct {
	cfg      *config.Config
	profiles map[string]*middleware.ChannelProfile
	events   pkgif.ChannelEventListener
	clock    clock.Clock

	mu        sync.RWMutex
	pipelines map[string]*channel.Pipelines
	listeners []transport.Listener
	clients   []*Client

	started atomic.Bool
	closed  atomic.Bool
	cancel  context.CancelFunc
	group   *errgroup.Group
	done    chan struct{}
	err     error
}

// New 创建 Host，校验配置引用的管道配置都已注册
func New(opts ...Option) (*Host, error) {
	h := &Host{
		cfg:       config.NewConfig(),
		profiles:  make(map[string]*middleware.ChannelProfile),
		clock:     clock.New(),
		pipelines: make(map[string]*channel.Pipelines),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		if err := opt(h); err != nil {
			return nil, err
		}
	}
	for _, name := range h.cfg.Profiles() {
		if _, ok := h.profiles[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProfile, name)
		}
	}
	return h, nil
}

// Config 返回配置
func (h *Host) Config() *config.Config {
	return h.cfg
}

// Profiles 返回已注册的配置名称（按名称排序）
func (h *Host) Profiles() []string {
	names := make([]string, 0, len(h.profiles))
	for name := range h.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Listeners 返回已启动的监听器
func (h *Host) Listeners() []transport.Listener {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]transport.Listener(nil), h.listeners...)
}

// Listener 按名称查找监听器
func (h *Host) Listener(name string) (transport.Listener, bool) {
	for _, l := range h.Listeners() {
		if l.Name() == name {
			return l, true
		}
	}
	return nil, false
}

// Clients 返回客户端
func (h *Host) Clients() []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]*Client(nil), h.clients...)
}

// Client 按名称查找客户端
func (h *Host) Client(name string) (*Client, bool) {
	for _, c := range h.Clients() {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// Channels 返回所有监听器和已连接客户端的活跃通道
func (h *Host) Channels() []pkgif.Channel {
	var out []pkgif.Channel
	for _, l := range h.Listeners() {
		out = append(out, l.Channels()...)
	}
	for _, c := range h.Clients() {
		if ch := c.Channel(); ch != nil {
			out = append(out, ch)
		}
	}
	return out
}

// Done 返回在全部循环退出后关闭的 channel
func (h *Host) Done() <-chan struct{} {
	return h.done
}

// Err 返回循环退出的原因，Done 关闭前为 nil
func (h *Host) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}

// pipelinesFor 返回配置对应的共享管道，首次使用时构建
func (h *Host) pipelinesFor(name string) (*channel.Pipelines, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if p, ok := h.pipelines[name]; ok {
		return p, nil
	}
	profile, ok := h.profiles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProfile, name)
	}
	p, err := channel.NewPipelines(profile)
	if err != nil {
		return nil, err
	}
	h.pipelines[name] = p
	return p, nil
}
