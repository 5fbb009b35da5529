package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// FromJSON 从 JSON 解析配置，未出现的字段保留默认值
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromFile 从 JSON 文件加载配置
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return FromJSON(data)
}

// ToJSON 序列化为缩进的 JSON
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// Clone 深拷贝配置
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := *c
	out.Listeners = append([]ListenerConfig(nil), c.Listeners...)
	out.Clients = append([]ClientConfig(nil), c.Clients...)
	if c.Log.Subsystems != nil {
		out.Log.Subsystems = make(map[string]string, len(c.Log.Subsystems))
		for k, v := range c.Log.Subsystems {
			out.Log.Subsystems[k] = v
		}
	}
	return &out
}
