package websocket

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
	"github.com/dep2p/go-channels/pkg/types"
)

// ============================================================================
//                              Conn 实现
// ============================================================================

// Conn 把 WebSocket 连接适配为面向消息的通道传输
type Conn struct {
	ws           *websocket.Conn
	writeTimeout time.Duration

	// gorilla 的数据帧写出不能并发
	writeMu sync.Mutex
	closed  atomic.Bool
}

var _ pkgif.MessageTransport = (*Conn)(nil)

func newConn(ws *websocket.Conn, writeTimeout time.Duration) *Conn {
	return &Conn{ws: ws, writeTimeout: writeTimeout}
}

// Kind 返回 TransportWebSocket
func (c *Conn) Kind() types.TransportKind {
	return types.TransportWebSocket
}

// LocalAddr 返回本地地址
func (c *Conn) LocalAddr() net.Addr {
	return c.ws.LocalAddr()
}

// RemoteAddr 返回远端地址
func (c *Conn) RemoteAddr() net.Addr {
	return c.ws.RemoteAddr()
}

// Send 以二进制消息写出字节
func (c *Conn) Send(ctx context.Context, p []byte) (int, error) {
	return c.write(ctx, websocket.BinaryMessage, p)
}

// SendMessage 按消息类型写出
func (c *Conn) SendMessage(ctx context.Context, m *types.Message) (int, error) {
	switch m.Type {
	case types.MessageText:
		return c.write(ctx, websocket.TextMessage, m.Bytes())
	case types.MessageBinary:
		return c.write(ctx, websocket.BinaryMessage, m.Bytes())
	case types.MessageClose:
		text := m.Text()
		if err := c.control(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, text)); err != nil {
			return 0, err
		}
		return len(text), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedMessage, m.Type)
	}
}

func (c *Conn) write(ctx context.Context, messageType int, p []byte) (int, error) {
	if c.closed.Load() {
		return 0, net.ErrClosed
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	deadline := time.Now().Add(c.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = c.ws.SetWriteDeadline(deadline)
	if err := c.ws.WriteMessage(messageType, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// control 写出控制帧，可与数据帧并发
func (c *Conn) control(messageType int, data []byte) error {
	if c.closed.Load() {
		return net.ErrClosed
	}
	return c.ws.WriteControl(messageType, data, time.Now().Add(c.writeTimeout))
}

// Ping 发送心跳
func (c *Conn) Ping() error {
	return c.control(websocket.PingMessage, nil)
}

// Close 发送关闭帧并关闭连接
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return c.ws.Close()
}
