package host

import (
	"fmt"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-channels/config"
	pkgif "github.com/dep2p/go-channels/pkg/interfaces"
	"github.com/dep2p/go-channels/pkg/middleware"
)

// Option Host 构造选项类型
type Option func(*Host) error

// WithConfig 设置配置
func WithConfig(cfg *config.Config) Option {
	return func(h *Host) error {
		if cfg == nil {
			return nil
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		h.cfg = cfg
		return nil
	}
}

// WithProfiles 注册管道配置，名称不能重复
func WithProfiles(profiles ...*middleware.ChannelProfile) Option {
	return func(h *Host) error {
		for _, p := range profiles {
			if err := p.Validate(); err != nil {
				return err
			}
			if _, ok := h.profiles[p.Name]; ok {
				return fmt.Errorf("%w: %s", ErrDuplicateProfile, p.Name)
			}
			h.profiles[p.Name] = p
		}
		return nil
	}
}

// WithEventListener 设置通道事件监听器（通常是 eventbus.Registry）
func WithEventListener(l pkgif.ChannelEventListener) Option {
	return func(h *Host) error {
		h.events = l
		return nil
	}
}

// WithClock 设置时钟，传给空闲检测和重连循环
func WithClock(c clock.Clock) Option {
	return func(h *Host) error {
		if c != nil {
			h.clock = c
		}
		return nil
	}
}
