package tcp

import (
	"context"
	"fmt"
	"time"

	"github.com/dep2p/go-mpcrpc/config"
	"github.com/dep2p/go-mpcrpc/internal/core/pool"
	"github.com/dep2p/go-mpcrpc/pkg/interfaces"
	"github.com/dep2p/go-mpcrpc/pkg/types"
)

// ============================================================================
//                              Sender 出站路径
// ============================================================================

// Sender TCP 出站路径
type Sender struct {
	pools        *pool.Group
	writeTimeout time.Duration
}

// 确保实现接口
var _ interfaces.Outbound = (*Sender)(nil)

// NewSender 创建出站路径
//
// dial 为 nil 时使用 pool.TCPDialer。
func NewSender(cfg config.TransportConfig, dial pool.Dialer) *Sender {
	return &Sender{
		pools: pool.NewGroup(pool.Config{
			Capacity:      cfg.PoolCapacity,
			DialTimeout:   cfg.DialTimeout.Duration(),
			RetryInterval: cfg.DialRetryInterval.Duration(),
		}, dial),
		writeTimeout: cfg.WriteTimeout.Duration(),
	}
}

// Send 把一帧写给目标参与方
//
// 帧交给连接即返回，不等待对端处理。
func (s *Sender) Send(ctx context.Context, to types.Party, frame []byte) error {
	p, err := s.pools.Get(to.Addr())
	if err != nil {
		return err
	}
	conn, err := p.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("%w: acquire connection to party %d: %w", ErrSendFailed, to.ID, err)
	}

	deadline := time.Time{}
	if s.writeTimeout > 0 {
		deadline = time.Now().Add(s.writeTimeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}
	if !deadline.IsZero() {
		_ = conn.SetWriteDeadline(deadline)
	}

	if _, err := conn.Write(frame); err != nil {
		p.Discard(conn)
		logger.Warn("写帧失败，丢弃连接", "party", to.ID, "addr", to.Addr(), "error", err)
		return fmt.Errorf("%w: write to party %d: %w", ErrSendFailed, to.ID, err)
	}

	if !deadline.IsZero() {
		_ = conn.SetWriteDeadline(time.Time{})
	}
	p.Release(conn)
	return nil
}

// Close 关闭全部连接池
func (s *Sender) Close() error {
	return s.pools.Close()
}
