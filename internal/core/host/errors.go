package host

import "errors"

var (
	// ErrAlreadyStarted Host 已启动
	ErrAlreadyStarted = errors.New("host: already started")

	// ErrHostClosed Host 已关闭
	ErrHostClosed = errors.New("host: closed")

	// ErrUnknownProfile 配置引用了未注册的 ChannelProfile
	ErrUnknownProfile = errors.New("host: unknown profile")

	// ErrDuplicateProfile 同名 ChannelProfile 注册了多次
	ErrDuplicateProfile = errors.New("host: duplicate profile")
)
