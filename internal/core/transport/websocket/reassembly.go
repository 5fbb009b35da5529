package websocket

import (
	"github.com/dep2p/go-channels/pkg/buffer"
	"github.com/dep2p/go-channels/pkg/types"
)

// reassembler 按消息类型累积分片
//
// 文本和二进制各用一个缓冲区，互不干扰。
type reassembler struct {
	order  buffer.Endianness
	text   *buffer.Buffer
	binary *buffer.Buffer
}

func newReassembler(order buffer.Endianness) *reassembler {
	return &reassembler{order: order}
}

// add 追加一个分片；收到最后一个分片时返回完整消息，否则返回 nil
func (r *reassembler) add(frag *types.Message) (*types.Message, error) {
	slot := &r.binary
	if frag.Type == types.MessageText {
		slot = &r.text
	}
	if *slot == nil {
		*slot = buffer.NewWritable(r.order)
	}
	if frag.Payload != nil {
		if err := (*slot).WriteBytes(frag.Payload.ToArray()); err != nil {
			return nil, err
		}
	}
	if !frag.EndOfMessage {
		return nil, nil
	}

	payload := (*slot).MakeReadOnly()
	*slot = nil
	return &types.Message{Type: frag.Type, Payload: payload, EndOfMessage: true}, nil
}

// pending 返回尚未完成的字节数
func (r *reassembler) pending(t types.MessageType) int {
	slot := r.binary
	if t == types.MessageText {
		slot = r.text
	}
	if slot == nil {
		return 0
	}
	return slot.Len()
}
