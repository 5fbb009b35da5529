package transport

import (
	"context"
	"net"
	"sync"

	"go.uber.org/multierr"

	"github.com/dep2p/go-channels/internal/core/channel"
	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
	"github.com/dep2p/go-channels/pkg/lib/log"
	"github.com/dep2p/go-channels/pkg/types"
)

var logger = log.Logger("core/transport")

// Listener 监听器公共接口
type Listener interface {
	// Name 监听器名称
	Name() string

	// Kind 传输类型
	Kind() types.TransportKind

	// Addr 实际监听地址
	Addr() net.Addr

	// Serve 运行接入循环，直到 ctx 取消或监听器关闭
	Serve(ctx context.Context) error

	// Channels 返回当前活跃通道
	Channels() []pkgif.Channel

	// Close 停止监听并关闭所有通道
	Close() error
}

// ============================================================================
//                              ChannelSet 实现
// ============================================================================

// ChannelSet 活跃通道表
type ChannelSet struct {
	mu       sync.RWMutex
	channels map[types.ChannelID]*channel.Channel
}

// NewChannelSet 创建通道表
func NewChannelSet() *ChannelSet {
	return &ChannelSet{
		channels: make(map[types.ChannelID]*channel.Channel),
	}
}

// Add 登记通道，通道关闭时自动移除
func (s *ChannelSet) Add(ch *channel.Channel) {
	id := ch.ID()
	s.mu.Lock()
	s.channels[id] = ch
	s.mu.Unlock()

	ch.OnClose(func() {
		s.mu.Lock()
		delete(s.channels, id)
		s.mu.Unlock()
	})
}

// Get 按 ID 查找通道
func (s *ChannelSet) Get(id types.ChannelID) (*channel.Channel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ch, ok := s.channels[id]
	return ch, ok
}

// Len 返回通道数
func (s *ChannelSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.channels)
}

// List 返回通道快照
func (s *ChannelSet) List() []pkgif.Channel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]pkgif.Channel, 0, len(s.channels))
	for _, ch := range s.channels {
		out = append(out, ch)
	}
	return out
}

// CloseAll 关闭全部通道
func (s *ChannelSet) CloseAll(ctx context.Context) error {
	s.mu.RLock()
	snapshot := make([]*channel.Channel, 0, len(s.channels))
	for _, ch := range s.channels {
		snapshot = append(snapshot, ch)
	}
	s.mu.RUnlock()

	var errs error
	for _, ch := range snapshot {
		errs = multierr.Append(errs, ch.Close(ctx))
	}
	return errs
}
