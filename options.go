package channels

import (
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-channels/config"
	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
	"github.com/dep2p/go-channels/pkg/middleware"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 基础配置，nil 时使用 config.NewConfig()
	config *config.Config

	// 追加到配置中的监听器和客户端
	listeners []config.ListenerConfig
	clients   []config.ClientConfig

	profiles       []*middleware.ChannelProfile
	eventListeners []pkgif.ChannelEventListener

	registerer prometheus.Registerer
	clock      clock.Clock

	// fxLogging 输出 fx 装配日志
	fxLogging bool

	userFxOptions []fx.Option
}

// build 合并基础配置和追加项，返回校验后的配置副本
func (o *options) build() (*config.Config, error) {
	cfg := config.NewConfig()
	if o.config != nil {
		cfg = o.config.Clone()
	}
	cfg.Listeners = append(cfg.Listeners, o.listeners...)
	cfg.Clients = append(cfg.Clients, o.clients...)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// WithConfig 使用完整配置（监听器、客户端、日志、指标）
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		o.config = cfg
		return nil
	}
}

// WithConfigFile 从 JSON 文件加载配置
func WithConfigFile(path string) Option {
	return func(o *options) error {
		cfg, err := config.FromFile(path)
		if err != nil {
			return err
		}
		o.config = cfg
		return nil
	}
}

// WithProfile 注册管道配置
func WithProfile(profiles ...*middleware.ChannelProfile) Option {
	return func(o *options) error {
		o.profiles = append(o.profiles, profiles...)
		return nil
	}
}

// WithListener 追加监听器，未设置的字段取 config.DefaultListenerConfig 的值
func WithListener(lc config.ListenerConfig) Option {
	return func(o *options) error {
		def := config.DefaultListenerConfig()
		if lc.Transport == "" {
			lc.Transport = def.Transport
		}
		if lc.Endianness == "" {
			lc.Endianness = def.Endianness
		}
		o.listeners = append(o.listeners, lc)
		return nil
	}
}

// WithClient 追加客户端，未设置的字段取 config.DefaultClientConfig 的值
func WithClient(cc config.ClientConfig) Option {
	return func(o *options) error {
		def := config.DefaultClientConfig()
		if cc.Transport == "" {
			cc.Transport = def.Transport
		}
		if cc.Host == "" && cc.URL == "" {
			cc.Host = def.Host
		}
		if cc.ReconnectDelay == 0 {
			cc.ReconnectDelay = def.ReconnectDelay
		}
		if cc.MaxReconnectDelay == 0 {
			cc.MaxReconnectDelay = def.MaxReconnectDelay
		}
		if cc.MonitorInterval == 0 {
			cc.MonitorInterval = def.MonitorInterval
		}
		if cc.Endianness == "" {
			cc.Endianness = def.Endianness
		}
		o.clients = append(o.clients, cc)
		return nil
	}
}

// WithEventListener 注册通道事件监听器
func WithEventListener(listeners ...pkgif.ChannelEventListener) Option {
	return func(o *options) error {
		for _, l := range listeners {
			if l != nil {
				o.eventListeners = append(o.eventListeners, l)
			}
		}
		return nil
	}
}

// WithMetricsRegisterer 指定指标注册器，默认 prometheus.DefaultRegisterer
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) error {
		o.registerer = reg
		return nil
	}
}

// WithClock 指定时钟（测试使用 clock.NewMock）
func WithClock(c clock.Clock) Option {
	return func(o *options) error {
		o.clock = c
		return nil
	}
}

// WithFxLogging 输出 fx 装配日志
func WithFxLogging(enable bool) Option {
	return func(o *options) error {
		o.fxLogging = enable
		return nil
	}
}

// WithFxOption 追加自定义 fx 选项
//
// 可以用它向 "channel_profiles" 或 "channel_listeners" 值组提供组件。
func WithFxOption(opts ...fx.Option) Option {
	return func(o *options) error {
		o.userFxOptions = append(o.userFxOptions, opts...)
		return nil
	}
}
