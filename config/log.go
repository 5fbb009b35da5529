package config

import (
	"fmt"

	"github.com/dep2p/go-channels/pkg/lib/log"
)

// LogConfig 日志配置
//
// 环境变量 CHANNELS_LOG_LEVEL 在进程启动时生效，这里的设置在 Host 启动时覆盖它。
type LogConfig struct {
	// Level 默认级别：debug/info/warn/error，空表示不修改
	Level string `json:"level,omitempty"`

	// Subsystems 子系统级别，如 {"core/pipeline": "debug"}
	Subsystems map[string]string `json:"subsystems,omitempty"`
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{}
}

// Validate 校验级别名称
func (c LogConfig) Validate() error {
	if c.Level != "" {
		if _, ok := log.ParseLevel(c.Level); !ok {
			return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Level)
		}
	}
	for name, level := range c.Subsystems {
		if _, ok := log.ParseLevel(level); !ok {
			return fmt.Errorf("%w: unknown log level %q for %s", ErrInvalidConfig, level, name)
		}
	}
	return nil
}

// Apply 把级别设置应用到全局日志
func (c LogConfig) Apply() {
	if level, ok := log.ParseLevel(c.Level); ok && c.Level != "" {
		log.SetLevel(level)
	}
	for name, s := range c.Subsystems {
		if level, ok := log.ParseLevel(s); ok {
			log.SetSubsystemLevel(name, level)
		}
	}
}

// MetricsConfig Prometheus 指标配置
type MetricsConfig struct {
	// Enabled 是否注册通道指标
	Enabled bool `json:"enabled"`

	// Namespace 指标名前缀
	Namespace string `json:"namespace,omitempty"`
}

// DefaultMetricsConfig 返回默认指标配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:   true,
		Namespace: "channels",
	}
}
