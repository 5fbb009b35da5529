package websocket

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/dep2p/go-channels/internal/core/reconnect"
	"github.com/dep2p/go-channels/internal/core/transport"
	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
)

// Client WebSocket 客户端连接器
type Client struct {
	opts   Options
	dialer *websocket.Dialer
}

var _ reconnect.Connector = (*Client)(nil)

// NewClient 创建客户端；opts.URL 为空时连接 ws://Address:Port/Path
func NewClient(opts Options) (*Client, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		opts: opts,
		dialer: &websocket.Dialer{
			Proxy:            websocket.DefaultDialer.Proxy,
			HandshakeTimeout: opts.writeTimeout(),
			ReadBufferSize:   opts.BufferSize(),
			WriteBufferSize:  opts.WriteBufferSize,
		},
	}, nil
}

// Connect 完成握手并创建通道
func (c *Client) Connect(ctx context.Context) (pkgif.Channel, error) {
	url := c.opts.url()
	ws, resp, err := c.dialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket dial %s: %s: %w", url, resp.Status, err)
		}
		return nil, fmt.Errorf("websocket dial %s: %w", url, err)
	}
	conn := newConn(ws, c.opts.writeTimeout())

	ch, err := transport.NewChannel(ctx, &c.opts.Options, conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	ch.Initialize(ctx)
	go run(ch, conn, &c.opts)

	logger.Debug("WebSocket 客户端已连接", "url", url)
	return ch, nil
}
