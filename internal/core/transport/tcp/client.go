package tcp

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/dep2p/go-channels/internal/core/reconnect"
	"github.com/dep2p/go-channels/internal/core/transport"
	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
)

// DefaultDialTimeout 默认拨号超时
const DefaultDialTimeout = 10 * time.Second

// Client TCP 客户端连接器
//
// 每次 Connect 建立一条新连接并返回已初始化的通道，配合 reconnect.Loop 使用。
type Client struct {
	opts   transport.Options
	dialer net.Dialer
}

var _ reconnect.Connector = (*Client)(nil)

// NewClient 创建客户端
func NewClient(opts transport.Options) (*Client, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		opts: opts,
		dialer: net.Dialer{
			Timeout:   DefaultDialTimeout,
			KeepAlive: 30 * time.Second,
		},
	}, nil
}

// Connect 拨号并创建通道
func (c *Client) Connect(ctx context.Context) (pkgif.Channel, error) {
	nc, err := c.dialer.DialContext(ctx, "tcp", c.opts.HostPort())
	if err != nil {
		return nil, fmt.Errorf("tcp dial %s: %w", c.opts.HostPort(), err)
	}
	tc, ok := nc.(*net.TCPConn)
	if !ok {
		_ = nc.Close()
		return nil, ErrNotTCPConn
	}
	conn := newConn(tc)

	ch, err := transport.NewChannel(ctx, &c.opts, conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	ch.Initialize(ctx)
	go transport.ReceiveLoop(ch, conn, c.opts.BufferSize())

	logger.Debug("TCP 客户端已连接", "name", c.opts.Label(conn.Kind()), "local", tc.LocalAddr().String())
	return ch, nil
}
