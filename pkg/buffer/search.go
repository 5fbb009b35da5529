package buffer

import (
	"bytes"
	"fmt"
)

// CurrentOffset 搜索函数中表示"从当前偏移量开始"
const CurrentOffset = -1

// searchWindow 返回 [offset, len) 的可搜索区间及其起点
func (b *Buffer) searchWindow(offset int) ([]byte, int, error) {
	if !b.readable {
		return nil, 0, ErrNotReadable
	}
	if offset == CurrentOffset {
		offset = b.offset
	}
	if offset < 0 || offset > len(b.data) {
		return nil, 0, fmt.Errorf("%w: search offset %d of %d", ErrOutOfRange, offset, len(b.data))
	}
	return b.data[offset:], offset, nil
}

// IndexOf 返回字节 v 在 offset 之后首次出现的绝对位置，未找到返回 -1
//
// offset 为 CurrentOffset 时从当前读取位置开始。
func (b *Buffer) IndexOf(v byte, offset int) (int, error) {
	window, start, err := b.searchWindow(offset)
	if err != nil {
		return -1, err
	}
	i := bytes.IndexByte(window, v)
	if i < 0 {
		return -1, nil
	}
	return start + i, nil
}

// IndexOfSequence 返回字节序列 seq 在 offset 之后首次出现的绝对位置，未找到返回 -1
func (b *Buffer) IndexOfSequence(seq []byte, offset int) (int, error) {
	window, start, err := b.searchWindow(offset)
	if err != nil {
		return -1, err
	}
	if len(seq) == 0 || len(seq) > len(window) {
		return -1, nil
	}
	i := bytes.Index(window, seq)
	if i < 0 {
		return -1, nil
	}
	return start + i, nil
}

// MatchBytes 检查 offset 处是否恰好是 seq
//
// 剩余字节不足时返回 false 而不是错误。
func (b *Buffer) MatchBytes(seq []byte, offset int) (bool, error) {
	window, _, err := b.searchWindow(offset)
	if err != nil {
		return false, err
	}
	if len(seq) > len(window) {
		return false, nil
	}
	return bytes.Equal(window[:len(seq)], seq), nil
}

// ReplaceBytes 把可写缓冲区中所有 old 替换为 repl，返回重建后的可写缓冲区
//
// 每一轮从只读快照中定位第一处匹配并重建缓冲区，直到不再有匹配。
// repl 本身包含 old 时替换不会终止，因此直接拒绝。
func (b *Buffer) ReplaceBytes(old, repl []byte) (*Buffer, error) {
	if b.readable {
		return nil, ErrNotWritable
	}
	if len(old) == 0 {
		return nil, fmt.Errorf("%w: empty search sequence", ErrInvalidArgument)
	}
	if bytes.Contains(repl, old) {
		return nil, fmt.Errorf("%w: replacement contains search sequence", ErrInvalidArgument)
	}

	current := b
	for {
		snapshot := current.MakeReadOnly()
		i, err := snapshot.IndexOfSequence(old, 0)
		if err != nil {
			return nil, err
		}
		if i < 0 {
			return current, nil
		}

		next := NewWritable(b.order)
		next.data = make([]byte, 0, snapshot.Len()-len(old)+len(repl))
		next.data = append(next.data, snapshot.data[:i]...)
		next.data = append(next.data, repl...)
		next.data = append(next.data, snapshot.data[i+len(old):]...)
		current = next
	}
}
