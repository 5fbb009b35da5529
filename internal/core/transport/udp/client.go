package udp

import (
	"context"
	"fmt"
	"net"

	"github.com/dep2p/go-channels/internal/core/reconnect"
	"github.com/dep2p/go-channels/internal/core/transport"
	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
)

// Client UDP 客户端连接器
//
// 每次 Connect 创建一个已连接的 UDP 套接字。对端不可达时读取会失败，
// 通道随之关闭，由 reconnect.Loop 重新连接。
type Client struct {
	opts transport.Options
}

var _ reconnect.Connector = (*Client)(nil)

// NewClient 创建客户端
func NewClient(opts transport.Options) (*Client, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Client{opts: opts}, nil
}

// Connect 创建套接字和通道
func (c *Client) Connect(ctx context.Context) (pkgif.Channel, error) {
	var d net.Dialer
	nc, err := d.DialContext(ctx, "udp", c.opts.HostPort())
	if err != nil {
		return nil, fmt.Errorf("udp dial %s: %w", c.opts.HostPort(), err)
	}
	conn := &clientConn{conn: nc.(*net.UDPConn)}

	ch, err := transport.NewChannel(ctx, &c.opts, conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	ch.Initialize(ctx)
	go transport.ReceiveLoop(ch, conn, MaxDatagramSize)
	return ch, nil
}
