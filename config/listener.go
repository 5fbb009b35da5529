package config

import (
	"fmt"

	"github.com/dep2p/go-channels/pkg/buffer"
	"github.com/dep2p/go-channels/pkg/types"
)

// IdleConfig 空闲检测配置
type IdleConfig struct {
	// Mode 检测模式：none/auto/read/write/both
	Mode string `json:"mode,omitempty"`

	// Timeout 空闲超时，auto 模式可为 0
	Timeout Duration `json:"timeout,omitempty"`
}

// Validate 校验空闲检测配置
func (c IdleConfig) Validate() error {
	mode, err := types.ParseIdleMode(c.Mode)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: negative idle timeout", ErrInvalidConfig)
	}
	switch mode {
	case types.IdleRead, types.IdleWrite, types.IdleBoth:
		if c.Timeout == 0 {
			return fmt.Errorf("%w: idle mode %s requires a timeout", ErrInvalidConfig, mode)
		}
	}
	return nil
}

// ListenerConfig 监听器配置
type ListenerConfig struct {
	// Name 名称，在全部监听器和客户端中唯一
	Name string `json:"name"`

	// Transport 传输类型：tcp/udp/websocket
	Transport string `json:"transport"`

	// Address 监听地址，空表示所有地址
	Address string `json:"address,omitempty"`

	// Port 端口
	Port int `json:"port"`

	// Backlog 积压队列长度，0 使用系统默认值
	Backlog int `json:"backlog,omitempty"`

	// MaxConnections 最大连接数，0 不限制
	MaxConnections int `json:"max_connections,omitempty"`

	// AcceptRate 每秒接入的连接数，0 不限制
	AcceptRate float64 `json:"accept_rate,omitempty"`

	// Endianness 字节序：big/little
	Endianness string `json:"endianness,omitempty"`

	// Idle 空闲检测
	Idle IdleConfig `json:"idle"`

	// Profile 管道配置名称
	Profile string `json:"profile"`

	// ReadBufferSize 单次读取的块大小
	ReadBufferSize int `json:"read_buffer_size,omitempty"`

	// Path WebSocket 升级路径
	Path string `json:"path,omitempty"`

	// WriteBufferSize WebSocket 写缓冲区大小
	WriteBufferSize int `json:"write_buffer_size,omitempty"`

	// MaxPeers UDP 远端通道上限
	MaxPeers int `json:"max_peers,omitempty"`

	// InboxSize UDP 每个通道的收件队列长度
	InboxSize int `json:"inbox_size,omitempty"`
}

// DefaultListenerConfig 返回 TCP 监听器的默认配置
func DefaultListenerConfig() ListenerConfig {
	return ListenerConfig{
		Transport:  "tcp",
		Endianness: "big",
		Idle:       IdleConfig{Mode: "none"},
	}
}

// Validate 校验监听器配置
func (c ListenerConfig) Validate() error {
	if _, err := types.ParseTransportKind(c.Transport); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}
	if c.Backlog < 0 || c.MaxConnections < 0 || c.AcceptRate < 0 ||
		c.ReadBufferSize < 0 || c.WriteBufferSize < 0 || c.MaxPeers < 0 || c.InboxSize < 0 {
		return fmt.Errorf("%w: negative limit", ErrInvalidConfig)
	}
	if _, err := buffer.ParseEndianness(c.Endianness); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Profile == "" {
		return fmt.Errorf("%w: profile is required", ErrInvalidConfig)
	}
	return c.Idle.Validate()
}
