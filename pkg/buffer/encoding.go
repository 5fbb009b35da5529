package buffer

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// ============================================================================
//                              字符串序列化
// ============================================================================

// EncodeBase64 把缓冲区完整内容编码为标准 Base64
func EncodeBase64(b *Buffer) string {
	if b == nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(b.data)
}

// DecodeBase64 从 Base64 字符串构造可读缓冲区
func DecodeBase64(s string, order Endianness) (*Buffer, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", ErrInvalidArgument, err)
	}
	return NewReadable(data, order), nil
}

// EncodeHex 把缓冲区完整内容编码为大写十六进制（每字节两位）
func EncodeHex(b *Buffer) string {
	if b == nil {
		return ""
	}
	return strings.ToUpper(hex.EncodeToString(b.data))
}

// DecodeHex 从十六进制字符串（大小写均可）构造可读缓冲区
func DecodeHex(s string, order Endianness) (*Buffer, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: hex: %v", ErrInvalidArgument, err)
	}
	return NewReadable(data, order), nil
}

// Base64 以 Base64 文本形式序列化的缓冲区字段
//
//	type Frame struct {
//	    Payload buffer.Base64 `json:"payload"`
//	}
type Base64 struct {
	*Buffer
}

// MarshalText 实现 encoding.TextMarshaler
func (f Base64) MarshalText() ([]byte, error) {
	return []byte(EncodeBase64(f.Buffer)), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler，结果为大端可读缓冲区
func (f *Base64) UnmarshalText(text []byte) error {
	b, err := DecodeBase64(string(text), BigEndian)
	if err != nil {
		return err
	}
	f.Buffer = b
	return nil
}

// Hex 以大写十六进制文本形式序列化的缓冲区字段
type Hex struct {
	*Buffer
}

// MarshalText 实现 encoding.TextMarshaler
func (f Hex) MarshalText() ([]byte, error) {
	return []byte(EncodeHex(f.Buffer)), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler，结果为大端可读缓冲区
func (f *Hex) UnmarshalText(text []byte) error {
	b, err := DecodeHex(string(text), BigEndian)
	if err != nil {
		return err
	}
	f.Buffer = b
	return nil
}
