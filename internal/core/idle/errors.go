package idle

import "errors"

var (
	// ErrInvalidTimeout 超时配置无效
	ErrInvalidTimeout = errors.New("idle: timeout must be positive unless mode is auto")

	// ErrAlreadyStarted 服务已启动
	ErrAlreadyStarted = errors.New("idle: service already started")
)
