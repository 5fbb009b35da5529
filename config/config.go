// Package config 提供统一的配置管理
//
// 本包采用与组件一一对应的配置结构：
//   - 主 Config 结构体包含所有子配置
//   - 每个子配置在独立文件中定义，带有默认值和校验
//   - 支持从 JSON 加载和保存配置
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.Listeners = append(cfg.Listeners, config.ListenerConfig{
//	    Name:      "echo",
//	    Transport: "tcp",
//	    Port:      9000,
//	    Profile:   "echo",
//	})
//
//	// 从文件加载
//	cfg, err := config.FromFile("channels.json")
package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig 配置无效
var ErrInvalidConfig = errors.New("invalid config")

// Config 完整配置
//
// 配置按照功能模块组织：
//   - Listeners: 监听器（TCP/UDP/WebSocket）
//   - Clients: 自动重连的客户端
//   - Log: 日志
//   - Metrics: Prometheus 指标
type Config struct {
	// Listeners 监听器列表
	Listeners []ListenerConfig `json:"listeners,omitempty"`

	// Clients 客户端列表
	Clients []ClientConfig `json:"clients,omitempty"`

	// Log 日志配置
	Log LogConfig `json:"log"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics"`
}

// NewConfig 创建默认配置（不含监听器和客户端）
func NewConfig() *Config {
	return &Config{
		Log:     DefaultLogConfig(),
		Metrics: DefaultMetricsConfig(),
	}
}

// Validate 校验全部子配置，名称在监听器和客户端之间必须唯一
func (c *Config) Validate() error {
	names := make(map[string]struct{}, len(c.Listeners)+len(c.Clients))
	unique := func(kind, name string) error {
		if name == "" {
			return nil
		}
		if _, ok := names[name]; ok {
			return fmt.Errorf("%w: duplicate %s name %q", ErrInvalidConfig, kind, name)
		}
		names[name] = struct{}{}
		return nil
	}

	for i := range c.Listeners {
		if err := c.Listeners[i].Validate(); err != nil {
			return fmt.Errorf("listeners[%d]: %w", i, err)
		}
		if err := unique("listener", c.Listeners[i].Name); err != nil {
			return err
		}
	}
	for i := range c.Clients {
		if err := c.Clients[i].Validate(); err != nil {
			return fmt.Errorf("clients[%d]: %w", i, err)
		}
		if err := unique("client", c.Clients[i].Name); err != nil {
			return err
		}
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

// Profiles 返回配置引用的全部管道配置名称（去重，保持出现顺序）
func (c *Config) Profiles() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	for _, l := range c.Listeners {
		add(l.Profile)
	}
	for _, cl := range c.Clients {
		add(cl.Profile)
	}
	return out
}
