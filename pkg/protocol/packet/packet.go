package packet

import (
	"errors"
	"fmt"

	"github.com/dep2p/go-channels/pkg/buffer"
)

const (
	// Head 包头
	Head byte = 0x02

	// Tail 包尾
	Tail byte = 0x03

	// MaxStringLen string 字段最大字节数
	MaxStringLen = 255

	// MaxContentLen 单条消息内容最大字节数
	MaxContentLen = 65535

	// MaxMessages 单个包的最大消息数，超过视为损坏
	MaxMessages = 1 << 16
)

// Message 包中的一条消息
type Message struct {
	ID          string
	ContentType string
	Content     []byte
	Signature   string
}

// Packet 一个完整的包
type Packet struct {
	Messages []*Message
}

// NewPacket 用若干消息组成包
func NewPacket(msgs ...*Message) *Packet {
	return &Packet{Messages: msgs}
}

// ============================================================================
//                              编码
// ============================================================================

// Encode 按 order 编码包
func Encode(p *Packet, order buffer.Endianness) ([]byte, error) {
	w := buffer.NewWritable(order)
	if err := encodeTo(w, p); err != nil {
		return nil, err
	}
	return w.ToArray(), nil
}

func encodeTo(w *buffer.Buffer, p *Packet) error {
	if len(p.Messages) > MaxMessages {
		return fmt.Errorf("%w: %d", ErrTooManyMessages, len(p.Messages))
	}
	if err := w.WriteByte(Head); err != nil {
		return err
	}
	if err := w.WriteUint32(uint32(len(p.Messages))); err != nil {
		return err
	}
	for i, m := range p.Messages {
		if err := encodeMessage(w, m); err != nil {
			return fmt.Errorf("message %d: %w", i, err)
		}
	}
	return w.WriteByte(Tail)
}

func encodeMessage(w *buffer.Buffer, m *Message) error {
	if m == nil {
		m = &Message{}
	}
	if len(m.Content) > MaxContentLen {
		return fmt.Errorf("%w: %d", ErrContentTooLong, len(m.Content))
	}
	if err := writeString(w, m.ID); err != nil {
		return err
	}
	if err := writeString(w, m.ContentType); err != nil {
		return err
	}
	if err := w.WriteUint16(uint16(len(m.Content))); err != nil {
		return err
	}
	if err := w.WriteBytes(m.Content); err != nil {
		return err
	}
	return writeString(w, m.Signature)
}

func writeString(w *buffer.Buffer, s string) error {
	if len(s) > MaxStringLen {
		return fmt.Errorf("%w: %d", ErrStringTooLong, len(s))
	}
	if err := w.WriteByte(byte(len(s))); err != nil {
		return err
	}
	return w.WriteBytes([]byte(s))
}

// ============================================================================
//                              解码
// ============================================================================

// Decode 从 r 的读位置解码一个完整的包
//
// 字节不足时回退到调用前的读位置并返回 ok=false；格式错误返回错误，
// 此时读位置停在出错处之后。
func Decode(r *buffer.Buffer) (p *Packet, ok bool, err error) {
	start := r.ReadableBytes()
	p, err = decodeFrom(r)
	if errors.Is(err, errIncomplete) {
		if uerr := r.UndoRead(start - r.ReadableBytes()); uerr != nil {
			return nil, false, uerr
		}
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

func decodeFrom(r *buffer.Buffer) (*Packet, error) {
	head, err := readByte(r)
	if err != nil {
		return nil, err
	}
	if head != Head {
		return nil, fmt.Errorf("%w: 0x%02x", ErrBadHead, head)
	}
	if r.ReadableBytes() < 4 {
		return nil, errIncomplete
	}
	count, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if count > MaxMessages {
		return nil, fmt.Errorf("%w: %d", ErrTooManyMessages, count)
	}

	p := &Packet{Messages: make([]*Message, 0, count)}
	for i := uint32(0); i < count; i++ {
		m, err := decodeMessage(r)
		if err != nil {
			return nil, err
		}
		p.Messages = append(p.Messages, m)
	}

	tail, err := readByte(r)
	if err != nil {
		return nil, err
	}
	if tail != Tail {
		return nil, fmt.Errorf("%w: 0x%02x", ErrBadTail, tail)
	}
	return p, nil
}

func decodeMessage(r *buffer.Buffer) (*Message, error) {
	var (
		m   Message
		err error
	)
	if m.ID, err = readString(r); err != nil {
		return nil, err
	}
	if m.ContentType, err = readString(r); err != nil {
		return nil, err
	}
	if r.ReadableBytes() < 2 {
		return nil, errIncomplete
	}
	n, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	if m.Content, err = readBytes(r, int(n)); err != nil {
		return nil, err
	}
	if m.Signature, err = readString(r); err != nil {
		return nil, err
	}
	return &m, nil
}

func readByte(r *buffer.Buffer) (byte, error) {
	if r.ReadableBytes() < 1 {
		return 0, errIncomplete
	}
	return r.ReadByte()
}

func readBytes(r *buffer.Buffer, n int) ([]byte, error) {
	if r.ReadableBytes() < n {
		return nil, errIncomplete
	}
	return r.ReadBytes(n)
}

func readString(r *buffer.Buffer) (string, error) {
	n, err := readByte(r)
	if err != nil {
		return "", err
	}
	p, err := readBytes(r, int(n))
	if err != nil {
		return "", err
	}
	return string(p), nil
}
