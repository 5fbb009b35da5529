package buffer

import (
	"fmt"
	"io"
	"math"
)

// ============================================================================
//                              顺序读取（推进偏移量）
// ============================================================================

// next 返回从当前偏移量开始的 n 个字节并推进偏移量
func (b *Buffer) next(n int) ([]byte, error) {
	if !b.readable {
		return nil, ErrNotReadable
	}
	if n < 0 || b.offset+n > len(b.data) {
		return nil, fmt.Errorf("%w: read %d at offset %d of %d", ErrOutOfRange, n, b.offset, len(b.data))
	}
	p := b.data[b.offset : b.offset+n]
	b.offset += n
	return p, nil
}

// ReadBool 读取布尔值（非零即真）
func (b *Buffer) ReadBool() (bool, error) {
	p, err := b.next(1)
	if err != nil {
		return false, err
	}
	return p[0] != 0, nil
}

// ReadByte 读取单个字节，实现 io.ByteReader
func (b *Buffer) ReadByte() (byte, error) {
	p, err := b.next(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

// ReadInt8 读取有符号字节
func (b *Buffer) ReadInt8() (int8, error) {
	v, err := b.ReadByte()
	return int8(v), err
}

// ReadInt16 读取 16 位有符号整数
func (b *Buffer) ReadInt16() (int16, error) {
	v, err := b.ReadUint16()
	return int16(v), err
}

// ReadUint16 读取 16 位无符号整数
func (b *Buffer) ReadUint16() (uint16, error) {
	p, err := b.next(2)
	if err != nil {
		return 0, err
	}
	return b.order.byteOrder().Uint16(p), nil
}

// ReadInt32 读取 32 位有符号整数
func (b *Buffer) ReadInt32() (int32, error) {
	v, err := b.ReadUint32()
	return int32(v), err
}

// ReadUint32 读取 32 位无符号整数
func (b *Buffer) ReadUint32() (uint32, error) {
	p, err := b.next(4)
	if err != nil {
		return 0, err
	}
	return b.order.byteOrder().Uint32(p), nil
}

// ReadInt64 读取 64 位有符号整数
func (b *Buffer) ReadInt64() (int64, error) {
	v, err := b.ReadUint64()
	return int64(v), err
}

// ReadUint64 读取 64 位无符号整数
func (b *Buffer) ReadUint64() (uint64, error) {
	p, err := b.next(8)
	if err != nil {
		return 0, err
	}
	return b.order.byteOrder().Uint64(p), nil
}

// ReadFloat32 读取单精度浮点数
func (b *Buffer) ReadFloat32() (float32, error) {
	v, err := b.ReadUint32()
	return math.Float32frombits(v), err
}

// ReadFloat64 读取双精度浮点数
func (b *Buffer) ReadFloat64() (float64, error) {
	v, err := b.ReadUint64()
	return math.Float64frombits(v), err
}

// ReadBytes 读取 n 个字节（返回拷贝）
func (b *Buffer) ReadBytes(n int) ([]byte, error) {
	p, err := b.next(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, p)
	return out, nil
}

// Read 实现 io.Reader
func (b *Buffer) Read(p []byte) (int, error) {
	if !b.readable {
		return 0, ErrNotReadable
	}
	if len(p) == 0 {
		return 0, nil
	}
	if b.offset >= len(b.data) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.offset:])
	b.offset += n
	return n, nil
}

// ============================================================================
//                              随机读取（不推进偏移量）
// ============================================================================

// at 返回绝对位置 offset 开始的 n 个字节
func (b *Buffer) at(offset, n int) ([]byte, error) {
	if !b.readable {
		return nil, ErrNotReadable
	}
	if offset < 0 || n < 0 || offset+n > len(b.data) {
		return nil, fmt.Errorf("%w: get %d at %d of %d", ErrOutOfRange, n, offset, len(b.data))
	}
	return b.data[offset : offset+n], nil
}

// GetBool 读取 offset 处的布尔值
func (b *Buffer) GetBool(offset int) (bool, error) {
	p, err := b.at(offset, 1)
	if err != nil {
		return false, err
	}
	return p[0] != 0, nil
}

// GetByte 读取 offset 处的字节
func (b *Buffer) GetByte(offset int) (byte, error) {
	p, err := b.at(offset, 1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

// GetInt16 读取 offset 处的 16 位有符号整数
func (b *Buffer) GetInt16(offset int) (int16, error) {
	v, err := b.GetUint16(offset)
	return int16(v), err
}

// GetUint16 读取 offset 处的 16 位无符号整数
func (b *Buffer) GetUint16(offset int) (uint16, error) {
	p, err := b.at(offset, 2)
	if err != nil {
		return 0, err
	}
	return b.order.byteOrder().Uint16(p), nil
}

// GetInt32 读取 offset 处的 32 位有符号整数
func (b *Buffer) GetInt32(offset int) (int32, error) {
	v, err := b.GetUint32(offset)
	return int32(v), err
}

// GetUint32 读取 offset 处的 32 位无符号整数
func (b *Buffer) GetUint32(offset int) (uint32, error) {
	p, err := b.at(offset, 4)
	if err != nil {
		return 0, err
	}
	return b.order.byteOrder().Uint32(p), nil
}

// GetInt64 读取 offset 处的 64 位有符号整数
func (b *Buffer) GetInt64(offset int) (int64, error) {
	v, err := b.GetUint64(offset)
	return int64(v), err
}

// GetUint64 读取 offset 处的 64 位无符号整数
func (b *Buffer) GetUint64(offset int) (uint64, error) {
	p, err := b.at(offset, 8)
	if err != nil {
		return 0, err
	}
	return b.order.byteOrder().Uint64(p), nil
}

// GetFloat32 读取 offset 处的单精度浮点数
func (b *Buffer) GetFloat32(offset int) (float32, error) {
	v, err := b.GetUint32(offset)
	return math.Float32frombits(v), err
}

// GetFloat64 读取 offset 处的双精度浮点数
func (b *Buffer) GetFloat64(offset int) (float64, error) {
	v, err := b.GetUint64(offset)
	return math.Float64frombits(v), err
}

// GetBytes 读取 offset 处的 n 个字节（返回拷贝）
func (b *Buffer) GetBytes(offset, n int) ([]byte, error) {
	p, err := b.at(offset, n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, p)
	return out, nil
}
