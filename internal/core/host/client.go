package host

import (
	"github.com/dep2p/go-channels/internal/core/reconnect"
	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
	"github.com/dep2p/go-channels/pkg/types"
)

// Client 由 Host 运行的自动重连客户端
type Client struct {
	name string
	kind types.TransportKind
	loop *reconnect.Loop
}

// Name 客户端名称
func (c *Client) Name() string {
	return c.name
}

// Kind 传输类型
func (c *Client) Kind() types.TransportKind {
	return c.kind
}

// State 当前连接状态
func (c *Client) State() types.ConnState {
	return c.loop.State()
}

// Channel 当前通道，未连接时为 nil
func (c *Client) Channel() pkgif.Channel {
	return c.loop.Channel()
}
