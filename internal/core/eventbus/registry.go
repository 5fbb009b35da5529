package eventbus

import (
	"sync"

	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
	"github.com/dep2p/go-channels/pkg/lib/log"
)

var logger = log.Logger("core/eventbus")

// ============================================================================
// Registry 实现
// ============================================================================

// Registry 通道事件监听器注册表
//
// Registry 本身也实现 ChannelEventListener，通道只需持有它。
type Registry struct {
	mu        sync.RWMutex
	listeners []*entry
}

type entry struct {
	listener pkgif.ChannelEventListener
}

var _ pkgif.ChannelEventListener = (*Registry)(nil)

// NewRegistry 创建注册表
func NewRegistry(listeners ...pkgif.ChannelEventListener) *Registry {
	r := &Registry{}
	for _, l := range listeners {
		r.Register(l)
	}
	return r
}

// Register 注册监听器，返回注销函数
func (r *Registry) Register(l pkgif.ChannelEventListener) (unregister func()) {
	if l == nil {
		return func() {}
	}

	e := &entry{listener: l}
	r.mu.Lock()
	r.listeners = append(r.listeners, e)
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { r.remove(e) })
	}
}

func (r *Registry) remove(e *entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, cur := range r.listeners {
		if cur == e {
			r.listeners = append(r.listeners[:i:i], r.listeners[i+1:]...)
			return
		}
	}
}

// Len 返回监听器数量
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listeners)
}

func (r *Registry) snapshot() []*entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.listeners) == 0 {
		return nil
	}
	out := make([]*entry, len(r.listeners))
	copy(out, r.listeners)
	return out
}

// each 逐个通知监听器，隔离每个监听器的 panic
func (r *Registry) each(event string, ch pkgif.Channel, fn func(pkgif.ChannelEventListener)) {
	for _, e := range r.snapshot() {
		func() {
			defer func() {
				if p := recover(); p != nil {
					attrs := []any{"event", event, "listener", e.listener, "panic", p}
					if ch != nil {
						attrs = append(attrs, "channel", ch.ID().ShortString())
					}
					logger.Warn("通道事件监听器异常", attrs...)
				}
			}()
			fn(e.listener)
		}()
	}
}

// ============================================================================
// ChannelEventListener 接口实现
// ============================================================================

// ChannelCreated 通知通道创建
func (r *Registry) ChannelCreated(ch pkgif.Channel) {
	r.each("channelCreated", ch, func(l pkgif.ChannelEventListener) { l.ChannelCreated(ch) })
}

// ChannelClosed 通知通道关闭
func (r *Registry) ChannelClosed(ch pkgif.Channel) {
	r.each("channelClosed", ch, func(l pkgif.ChannelEventListener) { l.ChannelClosed(ch) })
}

// DataReceived 通知收到数据
func (r *Registry) DataReceived(ch pkgif.Channel, data []byte) {
	r.each("dataReceived", ch, func(l pkgif.ChannelEventListener) { l.DataReceived(ch, data) })
}

// DataSent 通知发送数据
func (r *Registry) DataSent(ch pkgif.Channel, n int) {
	r.each("dataSent", ch, func(l pkgif.ChannelEventListener) { l.DataSent(ch, n) })
}

// CustomEvent 广播自定义事件
func (r *Registry) CustomEvent(ch pkgif.Channel, name string, data any) {
	r.each(name, ch, func(l pkgif.ChannelEventListener) { l.CustomEvent(ch, name, data) })
}
