package transport

import "errors"

var (
	// ErrListenerClosed 监听器已关闭
	ErrListenerClosed = errors.New("transport: listener closed")

	// ErrNoPipelines 未提供管道
	ErrNoPipelines = errors.New("transport: pipelines are required")

	// ErrInvalidOptions 选项无效
	ErrInvalidOptions = errors.New("transport: invalid options")
)
