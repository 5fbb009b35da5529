package config

import (
	"fmt"
	"time"

	"github.com/dep2p/go-channels/pkg/buffer"
	"github.com/dep2p/go-channels/pkg/types"
)

// ClientConfig 自动重连的客户端配置
type ClientConfig struct {
	// Name 名称
	Name string `json:"name"`

	// Transport 传输类型：tcp/udp/websocket
	Transport string `json:"transport"`

	// Host 服务端主机
	Host string `json:"host,omitempty"`

	// Port 服务端端口
	Port int `json:"port,omitempty"`

	// URL WebSocket 地址（ws:// 或 wss://），设置后忽略 Host/Port
	URL string `json:"url,omitempty"`

	// ReconnectDelay 初始重连间隔
	ReconnectDelay Duration `json:"reconnect_delay,omitempty"`

	// MaxReconnectDelay 最大重连间隔
	MaxReconnectDelay Duration `json:"max_reconnect_delay,omitempty"`

	// MonitorInterval 连接状态检查周期
	MonitorInterval Duration `json:"monitor_interval,omitempty"`

	// Endianness 字节序：big/little
	Endianness string `json:"endianness,omitempty"`

	// Idle 空闲检测
	Idle IdleConfig `json:"idle"`

	// Profile 管道配置名称
	Profile string `json:"profile"`

	// ReadBufferSize 单次读取的块大小
	ReadBufferSize int `json:"read_buffer_size,omitempty"`
}

// DefaultClientConfig 返回 TCP 客户端的默认配置
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Transport:         "tcp",
		Host:              "127.0.0.1",
		ReconnectDelay:    Duration(time.Second),
		MaxReconnectDelay: Duration(30 * time.Second),
		MonitorInterval:   Duration(time.Second),
		Endianness:        "big",
		Idle:              IdleConfig{Mode: "none"},
	}
}

// Validate 校验客户端配置
func (c ClientConfig) Validate() error {
	kind, err := types.ParseTransportKind(c.Transport)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.URL == "" && (c.Port <= 0 || c.Port > 65535) {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}
	if c.URL != "" && kind != types.TransportWebSocket {
		return fmt.Errorf("%w: url is only valid for websocket clients", ErrInvalidConfig)
	}
	if c.ReconnectDelay < 0 || c.MaxReconnectDelay < 0 || c.MonitorInterval < 0 || c.ReadBufferSize < 0 {
		return fmt.Errorf("%w: negative value", ErrInvalidConfig)
	}
	if c.MaxReconnectDelay > 0 && c.MaxReconnectDelay < c.ReconnectDelay {
		return fmt.Errorf("%w: max_reconnect_delay below reconnect_delay", ErrInvalidConfig)
	}
	if _, err := buffer.ParseEndianness(c.Endianness); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Profile == "" {
		return fmt.Errorf("%w: profile is required", ErrInvalidConfig)
	}
	return c.Idle.Validate()
}
