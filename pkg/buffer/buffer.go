package buffer

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// ============================================================================
//                              Endianness 字节序
// ============================================================================

// Endianness 数值编解码使用的字节序
type Endianness int

const (
	// BigEndian 大端（网络字节序，默认）
	BigEndian Endianness = iota
	// LittleEndian 小端
	LittleEndian
)

// String 返回字节序名称
func (e Endianness) String() string {
	if e == LittleEndian {
		return "little"
	}
	return "big"
}

// ParseEndianness 从配置字符串解析字节序
//
// 空字符串视为大端。
func ParseEndianness(s string) (Endianness, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "big", "bigendian", "big-endian", "be":
		return BigEndian, nil
	case "little", "littleendian", "little-endian", "le":
		return LittleEndian, nil
	default:
		return BigEndian, fmt.Errorf("%w: unknown endianness %q", ErrInvalidArgument, s)
	}
}

func (e Endianness) byteOrder() binary.ByteOrder {
	if e == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// ============================================================================
//                              Buffer 实现
// ============================================================================

// Buffer 可读或可写（二选一）的字节缓冲区
type Buffer struct {
	data     []byte
	offset   int
	readable bool
	order    Endianness
}

// NewWritable 创建空的可写缓冲区
func NewWritable(order Endianness) *Buffer {
	return &Buffer{order: order}
}

// NewReadable 基于字节切片创建独立的可读缓冲区
//
// 缓冲区接管 data 的所有权，调用方之后不应再修改 data。
func NewReadable(data []byte, order Endianness) *Buffer {
	return &Buffer{
		data:     data,
		readable: true,
		order:    order,
	}
}

// IsReadable 是否处于可读模式
func (b *Buffer) IsReadable() bool {
	return b.readable
}

// IsWritable 是否处于可写模式
func (b *Buffer) IsWritable() bool {
	return !b.readable
}

// Endianness 返回缓冲区字节序
func (b *Buffer) Endianness() Endianness {
	return b.order
}

// Len 返回缓冲区总长度（与偏移量无关）
func (b *Buffer) Len() int {
	return len(b.data)
}

// Offset 返回当前读取偏移量；可写缓冲区始终为 0
func (b *Buffer) Offset() int {
	return b.offset
}

// ReadableBytes 返回剩余可读字节数；可写缓冲区为 0
func (b *Buffer) ReadableBytes() int {
	if !b.readable {
		return 0
	}
	return len(b.data) - b.offset
}

// ToArray 返回完整内容的拷贝（与偏移量无关）
func (b *Buffer) ToArray() []byte {
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

// SkipBytes 前移读取偏移量
func (b *Buffer) SkipBytes(n int) error {
	if !b.readable {
		return ErrNotReadable
	}
	if n < 0 || b.offset+n > len(b.data) {
		return fmt.Errorf("%w: skip %d at offset %d of %d", ErrOutOfRange, n, b.offset, len(b.data))
	}
	b.offset += n
	return nil
}

// UndoRead 回退读取偏移量
func (b *Buffer) UndoRead(n int) error {
	if !b.readable {
		return ErrNotReadable
	}
	if n < 0 || b.offset-n < 0 {
		return fmt.Errorf("%w: undo %d at offset %d", ErrOutOfRange, n, b.offset)
	}
	b.offset -= n
	return nil
}

// DiscardReadBytes 丢弃已读取的字节并把偏移量移到 0
func (b *Buffer) DiscardReadBytes() error {
	if !b.readable {
		return ErrNotReadable
	}
	if b.offset == 0 {
		return nil
	}
	n := copy(b.data, b.data[b.offset:])
	b.data = b.data[:n]
	b.offset = 0
	return nil
}

// DiscardAll 清空缓冲区（两种模式均可）
func (b *Buffer) DiscardAll() {
	b.data = b.data[:0]
	b.offset = 0
}

// MakeReadOnly 转换为可读缓冲区
//
// 已是可读模式且字节序一致时返回自身；否则返回拷贝。
// 可读到可读的拷贝保留偏移量。
func (b *Buffer) MakeReadOnly(order ...Endianness) *Buffer {
	target := b.targetOrder(order)
	if b.readable && b.order == target {
		return b
	}

	nb := &Buffer{
		data:     b.ToArray(),
		readable: true,
		order:    target,
	}
	if b.readable {
		nb.offset = b.offset
	}
	return nb
}

// MakeWritable 转换为可写缓冲区
//
// 已是可写模式且字节序一致时返回自身；否则返回包含完整内容的拷贝。
func (b *Buffer) MakeWritable(order ...Endianness) *Buffer {
	target := b.targetOrder(order)
	if !b.readable && b.order == target {
		return b
	}

	return &Buffer{
		data:  b.ToArray(),
		order: target,
	}
}

// String 返回缓冲区的简要描述
func (b *Buffer) String() string {
	mode := "writable"
	if b.readable {
		mode = "readable"
	}
	return fmt.Sprintf("Buffer{%s, %s, len=%d, offset=%d}", mode, b.order, len(b.data), b.offset)
}

func (b *Buffer) targetOrder(order []Endianness) Endianness {
	if len(order) > 0 {
		return order[0]
	}
	return b.order
}
