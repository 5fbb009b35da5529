package channels

import "errors"

// 公共错误定义
var (
	// ErrNotStarted Host 未启动
	ErrNotStarted = errors.New("channels: host not started")

	// ErrAlreadyStarted Host 已启动
	ErrAlreadyStarted = errors.New("channels: host already started")

	// ErrHostClosed Host 已关闭
	ErrHostClosed = errors.New("channels: host closed")
)
