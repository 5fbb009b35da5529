package websocket

import (
	"net/http"
	"time"

	"github.com/dep2p/go-channels/internal/core/transport"
)

const (
	// DefaultPath 默认升级路径
	DefaultPath = "/"

	// DefaultPingInterval 默认心跳周期
	DefaultPingInterval = 30 * time.Second

	// DefaultWriteTimeout 默认写超时
	DefaultWriteTimeout = 10 * time.Second
)

// Options WebSocket 选项
type Options struct {
	transport.Options

	// Path 升级路径（独立服务器使用）
	Path string

	// URL 客户端连接地址，为空时由 Address/Port/Path 拼出 ws:// 地址
	URL string

	// WriteBufferSize 写缓冲区大小，0 使用 gorilla 默认值
	WriteBufferSize int

	// PingInterval 心跳周期，负数关闭心跳
	PingInterval time.Duration

	// WriteTimeout 单次写出的超时
	WriteTimeout time.Duration

	// CheckOrigin 校验 Origin，nil 时接受所有来源
	CheckOrigin func(r *http.Request) bool
}

func (o *Options) path() string {
	if o.Path != "" {
		return o.Path
	}
	return DefaultPath
}

func (o *Options) pingInterval() time.Duration {
	if o.PingInterval == 0 {
		return DefaultPingInterval
	}
	return o.PingInterval
}

func (o *Options) writeTimeout() time.Duration {
	if o.WriteTimeout > 0 {
		return o.WriteTimeout
	}
	return DefaultWriteTimeout
}

func (o *Options) url() string {
	if o.URL != "" {
		return o.URL
	}
	return "ws://" + o.HostPort() + o.path()
}

func allowAll(*http.Request) bool { return true }
