package udp

import (
	"context"
	"net"
	"sync/atomic"

	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
	"github.com/dep2p/go-channels/pkg/types"
)

// peerConn 监听套接字上某个远端的发送句柄
//
// 套接字由监听器共享，关闭只影响这一个远端。
type peerConn struct {
	conn   *net.UDPConn
	remote *net.UDPAddr
	closed atomic.Bool
}

var _ pkgif.Transport = (*peerConn)(nil)

func (c *peerConn) Kind() types.TransportKind { return types.TransportUDP }
func (c *peerConn) LocalAddr() net.Addr { return c.conn.LocalAddr() }
func (c *peerConn) RemoteAddr() net.Addr { return c.remote }

func (c *peerConn) Send(_ context.Context, p []byte) (int, error) {
	if c.closed.Load() {
		return 0, net.ErrClosed
	}
	return c.conn.WriteToUDP(p, c.remote)
}

func (c *peerConn) Close() error {
	c.closed.Store(true)
	return nil
}

// clientConn 客户端使用的已连接套接字
type clientConn struct {
	conn   *net.UDPConn
	closed atomic.Bool
}

var _ pkgif.Transport = (*clientConn)(nil)

func (c *clientConn) Kind() types.TransportKind { return types.TransportUDP }
func (c *clientConn) LocalAddr() net.Addr { return c.conn.LocalAddr() }
func (c *clientConn) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }
func (c *clientConn) Read(p []byte) (int, error) { return c.conn.Read(p) }

func (c *clientConn) Send(_ context.Context, p []byte) (int, error) {
	if c.closed.Load() {
		return 0, net.ErrClosed
	}
	return c.conn.Write(p)
}

func (c *clientConn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.conn.Close()
}
