package interfaces

import (
	"context"
	"net"

	"github.com/dep2p/go-channels/pkg/types"
)

// Transport 通道持有的传输句柄
//
// 通道拥有传输句柄，关闭通道时会关闭句柄。
type Transport interface {
	// Kind 返回传输类型
	Kind() types.TransportKind

	// LocalAddr 返回本地地址
	LocalAddr() net.Addr

	// RemoteAddr 返回远端地址
	RemoteAddr() net.Addr

	// Send 发送原始字节，返回写出的字节数
	Send(ctx context.Context, p []byte) (int, error)

	// Close 释放传输句柄
	Close() error
}

// MessageTransport 面向消息的传输（WebSocket）
type MessageTransport interface {
	Transport

	// SendMessage 以单条消息发送，返回写出的负载字节数
	SendMessage(ctx context.Context, msg *types.Message) (int, error)
}
