package websocket

import "errors"

var (
	// ErrNoSocket 监听器只作为 http.Handler 使用，没有独立套接字
	ErrNoSocket = errors.New("websocket: handler-only listener has no socket")

	// ErrUnsupportedMessage 不支持的消息类型
	ErrUnsupportedMessage = errors.New("websocket: unsupported message type")
)
