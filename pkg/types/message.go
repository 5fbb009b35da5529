package types

import "github.com/dep2p/go-channels/pkg/buffer"

// Message 面向消息的传输上收到或发送的一条完整消息
//
// 接收侧只有在 EndOfMessage 为 true 时才会进入输入管道，
// Payload 为独立的可读缓冲区。
type Message struct {
	// Type 消息类型
	Type MessageType

	// Payload 消息内容
	Payload *buffer.Buffer

	// EndOfMessage 是否为消息的最后一个分片
	EndOfMessage bool
}

// NewTextMessage 创建完整的文本消息
func NewTextMessage(text string) *Message {
	return &Message{
		Type:         MessageText,
		Payload:      buffer.NewReadable([]byte(text), buffer.BigEndian),
		EndOfMessage: true,
	}
}

// NewBinaryMessage 创建完整的二进制消息
func NewBinaryMessage(data []byte, order buffer.Endianness) *Message {
	return &Message{
		Type:         MessageBinary,
		Payload:      buffer.NewReadable(data, order),
		EndOfMessage: true,
	}
}

// Bytes 返回消息内容拷贝；无内容时返回 nil
func (m *Message) Bytes() []byte {
	if m == nil || m.Payload == nil {
		return nil
	}
	return m.Payload.ToArray()
}

// Text 以字符串形式返回消息内容
func (m *Message) Text() string {
	return string(m.Bytes())
}
