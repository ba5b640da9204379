package mpcrpc

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-mpcrpc/config"
	"github.com/dep2p/go-mpcrpc/internal/core/pool"
	"github.com/dep2p/go-mpcrpc/internal/core/transport/memory"
)

// MemoryHub 进程内传输的共享路由表
type MemoryHub = memory.Hub

// NewMemoryHub 创建进程内传输路由表
func NewMemoryHub() *MemoryHub {
	return memory.NewHub()
}

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	config     *config.Config
	hub        *memory.Hub
	registerer prometheus.Registerer
	taskKey    []byte
	dialer     pool.Dialer

	// 用户自定义 Fx 选项
	userFxOptions []fx.Option
}

// newOptions 创建默认选项
func newOptions() *options {
	return &options{}
}

// apply 依次应用选项
func (o *options) apply(opts ...Option) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(o); err != nil {
			return err
		}
	}
	return nil
}

// resolvedConfig 返回生效的配置
func (o *options) resolvedConfig() *config.Config {
	if o.config == nil {
		return config.DefaultConfig()
	}
	return o.config.Clone()
}

// WithConfig 使用给定配置（内部保存副本）
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return errors.New("config must not be nil")
		}
		o.config = cfg
		return nil
	}
}

// WithMemoryHub 使用进程内传输，同一 Hub 上的参与方互相可达
func WithMemoryHub(hub *MemoryHub) Option {
	return func(o *options) error {
		if hub == nil {
			return errors.New("memory hub must not be nil")
		}
		o.hub = hub
		return nil
	}
}

// WithRegisterer 把流量指标注册到给定的 Prometheus Registerer
//
// 未设置时每个参与方使用独立的 Registry。
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) error {
		if reg == nil {
			return errors.New("registerer must not be nil")
		}
		o.registerer = reg
		return nil
	}
}

// WithTaskKey 设置 TaskIDPrf 的密钥
//
// 同一次计算中的全部参与方必须使用相同密钥。
func WithTaskKey(key []byte) Option {
	return func(o *options) error {
		o.taskKey = append([]byte(nil), key...)
		return nil
	}
}

// WithDialer 替换 TCP 出站拨号器
func WithDialer(dial pool.Dialer) Option {
	return func(o *options) error {
		o.dialer = dial
		return nil
	}
}

// WithFxOptions 追加自定义 Fx 选项
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) error {
		o.userFxOptions = append(o.userFxOptions, opts...)
		return nil
	}
}
