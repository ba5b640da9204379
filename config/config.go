// Package config 提供 go-mpcrpc 的配置管理
//
// 主 Config 嵌入各子配置，每个子配置在独立文件中定义，
// 支持从 JSON 加载和保存。
//
// 使用示例：
//
//	cfg := config.DefaultConfig()
//	cfg.Transport.PoolCapacity = 16
//
//	cfg, err := config.FromJSON(data)
//	set, err := cfg.PartySet(0)
package config

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidConfig 无效配置
var ErrInvalidConfig = errors.New("invalid config")

// Config go-mpcrpc 完整配置
type Config struct {
	// Transport 传输层配置
	Transport TransportConfig `json:"transport"`

	// Log 日志配置
	Log LogConfig `json:"log"`

	// Parties 参与方列表（可选，由外部生成）
	Parties []PartyConfig `json:"parties,omitempty"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别：debug/info/warn/error，为空时保持当前全局级别
	Level string `json:"level,omitempty"`

	// FxEvents 是否输出 fx 依赖注入事件日志
	FxEvents bool `json:"fx_events"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Transport: DefaultTransportConfig(),
		Log:       LogConfig{},
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if err := c.Transport.Validate(); err != nil {
		return fmt.Errorf("transport: %w", err)
	}
	for i, p := range c.Parties {
		if err := p.toParty().Validate(); err != nil {
			return fmt.Errorf("parties[%d]: %w", i, err)
		}
	}
	return nil
}

// Clone 返回深拷贝
func (c *Config) Clone() *Config {
	out := *c
	out.Parties = append([]PartyConfig(nil), c.Parties...)
	return &out
}

// FromJSON 从 JSON 加载配置，缺省字段取默认值
func FromJSON(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ToJSON 序列化为带缩进的 JSON
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
