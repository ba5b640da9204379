package pool

import "errors"

var (
	// ErrPoolClosed 连接池已关闭
	ErrPoolClosed = errors.New("pool: closed")

	// ErrDialTimeout 拨号在时限内未成功
	ErrDialTimeout = errors.New("pool: dial timeout")
)
