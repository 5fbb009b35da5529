package types

import "errors"

var (
	// ErrInvalidChannelID 无效的通道 ID
	ErrInvalidChannelID = errors.New("invalid channel ID")

	// ErrUnknownTransport 未知的传输类型
	ErrUnknownTransport = errors.New("unknown transport kind")

	// ErrUnknownIdleMode 未知的空闲检测模式
	ErrUnknownIdleMode = errors.New("unknown idle mode")

	// ErrChannelClosed 通道已关闭
	ErrChannelClosed = errors.New("channel closed")
)
