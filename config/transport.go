package config

import (
	"fmt"
	"time"
)

// TransportConfig 传输层配置
type TransportConfig struct {
	// ListenHost 覆盖监听主机（为空时使用本方 Party.Host）
	ListenHost string `json:"listen_host,omitempty"`

	// PoolCapacity 每个目的地址的连接池容量
	PoolCapacity int `json:"pool_capacity"`

	// AcceptWorkers Accept 协程数
	AcceptWorkers int `json:"accept_workers"`

	// DispatchWorkers 解码分发协程数
	DispatchWorkers int `json:"dispatch_workers"`

	// DispatchQueue 待分发帧队列长度
	DispatchQueue int `json:"dispatch_queue"`

	// DialTimeout 拨号总时限（含重试），对端可能尚未开始监听
	//
	// 0 表示不限，一直重试到调用方取消 context。
	DialTimeout Duration `json:"dial_timeout"`

	// DialRetryInterval 拨号重试间隔
	DialRetryInterval Duration `json:"dial_retry_interval"`

	// WriteTimeout 单帧写超时，0 表示不限
	WriteTimeout Duration `json:"write_timeout"`

	// MaxFrameSize 入站帧最大字节数
	MaxFrameSize int `json:"max_frame_size"`

	// ReadBufferSize 入站连接读缓冲大小
	ReadBufferSize int `json:"read_buffer_size"`
}

// DefaultTransportConfig 返回默认传输层配置
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		PoolCapacity:      32,
		AcceptWorkers:     1,
		DispatchWorkers:   8,
		DispatchQueue:     1024,
		DialTimeout:       0,
		DialRetryInterval: Duration(100 * time.Millisecond),
		WriteTimeout:      0,
		MaxFrameSize:      1 << 30,
		ReadBufferSize:    64 * 1024,
	}
}

// Validate 验证传输层配置
func (c TransportConfig) Validate() error {
	if c.PoolCapacity <= 0 {
		return fmt.Errorf("%w: pool_capacity = %d, expected > 0", ErrInvalidConfig, c.PoolCapacity)
	}
	if c.AcceptWorkers <= 0 {
		return fmt.Errorf("%w: accept_workers = %d, expected > 0", ErrInvalidConfig, c.AcceptWorkers)
	}
	if c.DispatchWorkers <= 0 {
		return fmt.Errorf("%w: dispatch_workers = %d, expected > 0", ErrInvalidConfig, c.DispatchWorkers)
	}
	if c.DispatchQueue < 0 {
		return fmt.Errorf("%w: dispatch_queue = %d, expected >= 0", ErrInvalidConfig, c.DispatchQueue)
	}
	if c.DialTimeout < 0 {
		return fmt.Errorf("%w: dial_timeout must not be negative", ErrInvalidConfig)
	}
	if c.DialRetryInterval <= 0 {
		return fmt.Errorf("%w: dial_retry_interval must be positive", ErrInvalidConfig)
	}
	if c.WriteTimeout < 0 {
		return fmt.Errorf("%w: write_timeout must not be negative", ErrInvalidConfig)
	}
	if c.MaxFrameSize <= 0 {
		return fmt.Errorf("%w: max_frame_size = %d, expected > 0", ErrInvalidConfig, c.MaxFrameSize)
	}
	if c.ReadBufferSize <= 0 {
		return fmt.Errorf("%w: read_buffer_size = %d, expected > 0", ErrInvalidConfig, c.ReadBufferSize)
	}
	return nil
}
