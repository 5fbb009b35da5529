package buffer

import "errors"

var (
	// ErrNotReadable 缓冲区处于可写模式，不支持读取或偏移量操作
	ErrNotReadable = errors.New("buffer is not readable")

	// ErrNotWritable 缓冲区处于可读模式，不支持写入
	ErrNotWritable = errors.New("buffer is not writable")

	// ErrOutOfRange 偏移量或长度越界
	ErrOutOfRange = errors.New("buffer offset out of range")

	// ErrInvalidArgument 参数无效
	ErrInvalidArgument = errors.New("invalid buffer argument")
)
