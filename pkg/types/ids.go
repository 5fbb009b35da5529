package types

import (
	"fmt"

	"github.com/google/uuid"
)

// ============================================================================
//                              ChannelID - 通道标识
// ============================================================================

// ChannelID 通道唯一标识（随机 UUID）
type ChannelID uuid.UUID

// EmptyChannelID 空通道 ID
var EmptyChannelID ChannelID

// NewChannelID 生成新的通道 ID
func NewChannelID() ChannelID {
	return ChannelID(uuid.New())
}

// ParseChannelID 从字符串解析通道 ID
func ParseChannelID(s string) (ChannelID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return EmptyChannelID, fmt.Errorf("%w: %v", ErrInvalidChannelID, err)
	}
	return ChannelID(id), nil
}

// String 返回标准 UUID 字符串
func (id ChannelID) String() string {
	if id.IsEmpty() {
		return ""
	}
	return uuid.UUID(id).String()
}

// ShortString 返回前 8 个字符，用于日志
func (id ChannelID) ShortString() string {
	s := id.String()
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

// IsEmpty 检查 ID 是否为空
func (id ChannelID) IsEmpty() bool {
	return id == EmptyChannelID
}

// MarshalText 实现 encoding.TextMarshaler
func (id ChannelID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (id *ChannelID) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*id = EmptyChannelID
		return nil
	}
	parsed, err := ParseChannelID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
