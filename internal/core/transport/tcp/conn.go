package tcp

import (
	"context"
	"net"
	"sync/atomic"
	"time"

	"github.com/dep2p/go-channels/internal/core/idle"
	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
	"github.com/dep2p/go-channels/pkg/types"
)

// ============================================================================
//                              Conn 实现
// ============================================================================

// Conn 把 TCP 连接适配为通道传输
type Conn struct {
	conn   *net.TCPConn
	closed atomic.Bool
}

var (
	_ pkgif.Transport = (*Conn)(nil)
	_ pkgif.Poller    = (*Conn)(nil)
)

func newConn(c *net.TCPConn) *Conn {
	_ = c.SetNoDelay(true)
	_ = c.SetKeepAlive(true)
	return &Conn{conn: c}
}

// Kind 返回 TransportTCP
func (c *Conn) Kind() types.TransportKind {
	return types.TransportTCP
}

// LocalAddr 返回本地地址
func (c *Conn) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

// RemoteAddr 返回远端地址
func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Send 写出字节，ctx 带截止时间时作为写超时
func (c *Conn) Send(ctx context.Context, p []byte) (int, error) {
	if c.closed.Load() {
		return 0, net.ErrClosed
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetWriteDeadline(deadline)
		defer c.conn.SetWriteDeadline(time.Time{})
	}
	return c.conn.Write(p)
}

// Read 读取字节
func (c *Conn) Read(p []byte) (int, error) {
	return c.conn.Read(p)
}

// Poll 探测套接字是否仍然可用
func (c *Conn) Poll() bool {
	return !c.closed.Load() && idle.SocketAlive(c.conn)
}

// Close 关闭连接
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.conn.Close()
}
