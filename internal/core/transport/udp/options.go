package udp

import "github.com/dep2p/go-channels/internal/core/transport"

const (
	// DefaultMaxPeers 默认通道表大小
	DefaultMaxPeers = 1024

	// DefaultInboxSize 默认收件队列长度
	DefaultInboxSize = 64

	// MaxDatagramSize 单个数据报的最大长度
	MaxDatagramSize = 64 * 1024
)

// Options UDP 监听器选项
type Options struct {
	transport.Options

	// MaxPeers 同时存在的远端通道上限，0 时取 MaxConnections 或默认值
	MaxPeers int

	// InboxSize 每个通道的收件队列长度
	InboxSize int
}

func (o *Options) maxPeers() int {
	switch {
	case o.MaxPeers > 0:
		return o.MaxPeers
	case o.MaxConnections > 0:
		return o.MaxConnections
	default:
		return DefaultMaxPeers
	}
}

func (o *Options) inboxSize() int {
	if o.InboxSize > 0 {
		return o.InboxSize
	}
	return DefaultInboxSize
}
