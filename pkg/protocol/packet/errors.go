package packet

import "errors"

var (
	// ErrBadHead 包头字节不匹配
	ErrBadHead = errors.New("packet: bad head byte")

	// ErrBadTail 包尾字节不匹配
	ErrBadTail = errors.New("packet: bad tail byte")

	// ErrStringTooLong string 字段超过 255 字节
	ErrStringTooLong = errors.New("packet: string field longer than 255 bytes")

	// ErrContentTooLong 内容超过 65535 字节
	ErrContentTooLong = errors.New("packet: content longer than 65535 bytes")

	// ErrTooManyMessages 单个包的消息数超过 MaxMessages
	ErrTooManyMessages = errors.New("packet: too many messages")

	// errIncomplete 缓冲区中的字节不足一个完整的包
	errIncomplete = errors.New("packet: incomplete")
)
