package buffer

import "math"

// grow 在末尾追加 n 个字节并返回这段空间
func (b *Buffer) grow(n int) ([]byte, error) {
	if b.readable {
		return nil, ErrNotWritable
	}
	l := len(b.data)
	b.data = append(b.data, make([]byte, n)...)
	return b.data[l:], nil
}

// WriteBool 追加布尔值（1 或 0）
func (b *Buffer) WriteBool(v bool) error {
	if v {
		return b.WriteByte(1)
	}
	return b.WriteByte(0)
}

// WriteByte 追加单个字节，实现 io.ByteWriter
func (b *Buffer) WriteByte(v byte) error {
	if b.readable {
		return ErrNotWritable
	}
	b.data = append(b.data, v)
	return nil
}

// WriteInt8 追加有符号字节
func (b *Buffer) WriteInt8(v int8) error {
	return b.WriteByte(byte(v))
}

// WriteInt16 追加 16 位有符号整数
func (b *Buffer) WriteInt16(v int16) error {
	return b.WriteUint16(uint16(v))
}

// WriteUint16 追加 16 位无符号整数
func (b *Buffer) WriteUint16(v uint16) error {
	p, err := b.grow(2)
	if err != nil {
		return err
	}
	b.order.byteOrder().PutUint16(p, v)
	return nil
}

// WriteInt32 追加 32 位有符号整数
func (b *Buffer) WriteInt32(v int32) error {
	return b.WriteUint32(uint32(v))
}

// WriteUint32 追加 32 位无符号整数
func (b *Buffer) WriteUint32(v uint32) error {
	p, err := b.grow(4)
	if err != nil {
		return err
	}
	b.order.byteOrder().PutUint32(p, v)
	return nil
}

// WriteInt64 追加 64 位有符号整数
func (b *Buffer) WriteInt64(v int64) error {
	return b.WriteUint64(uint64(v))
}

// WriteUint64 追加 64 位无符号整数
func (b *Buffer) WriteUint64(v uint64) error {
	p, err := b.grow(8)
	if err != nil {
		return err
	}
	b.order.byteOrder().PutUint64(p, v)
	return nil
}

// WriteFloat32 追加单精度浮点数
func (b *Buffer) WriteFloat32(v float32) error {
	return b.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 追加双精度浮点数
func (b *Buffer) WriteFloat64(v float64) error {
	return b.WriteUint64(math.Float64bits(v))
}

// WriteBytes 追加字节序列
func (b *Buffer) WriteBytes(p []byte) error {
	if b.readable {
		return ErrNotWritable
	}
	b.data = append(b.data, p...)
	return nil
}

// Write 实现 io.Writer
func (b *Buffer) Write(p []byte) (int, error) {
	if err := b.WriteBytes(p); err != nil {
		return 0, err
	}
	return len(p), nil
}
