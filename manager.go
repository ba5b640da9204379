package mpcrpc

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-mpcrpc/pkg/types"
)

// localHost 本地多方使用的回环地址
const localHost = "127.0.0.1"

// Manager 在同一进程内管理 N 个参与方
type Manager struct {
	rpcs []*Rpc
	hub  *MemoryHub
}

// NewManager 创建 n 个使用回环 TCP 的参与方
//
// 参与方 i 命名为 P_i，监听 127.0.0.1:startPort+i。
func NewManager(n int, startPort int, opts ...Option) (*Manager, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: n = %d, expected >= 2", ErrInvalidPartyCount, n)
	}
	if startPort <= 0 || startPort+n-1 > 65535 {
		return nil, fmt.Errorf("%w: ports %d..%d out of range", types.ErrInvalidParty, startPort, startPort+n-1)
	}
	return newManager(localParties(n, localHost, startPort), nil, opts)
}

// NewMemoryManager 创建 n 个共享同一 Hub 的进程内参与方
func NewMemoryManager(n int, opts ...Option) (*Manager, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: n = %d, expected >= 2", ErrInvalidPartyCount, n)
	}
	hub := NewMemoryHub()
	opts = append(append([]Option(nil), opts...), WithMemoryHub(hub))
	return newManager(localParties(n, "memory", 1), hub, opts)
}

func localParties(n int, host string, startPort int) []types.Party {
	parties := make([]types.Party, n)
	for i := range parties {
		parties[i] = types.Party{
			ID:   int32(i),
			Name: fmt.Sprintf("P_%d", i),
			Host: host,
			Port: startPort + i,
		}
	}
	return parties
}

func newManager(parties []types.Party, hub *MemoryHub, opts []Option) (*Manager, error) {
	m := &Manager{rpcs: make([]*Rpc, len(parties)), hub: hub}
	for i, p := range parties {
		set, err := types.NewPartySet(p.ID, parties...)
		if err != nil {
			return nil, err
		}
		r, err := New(set, opts...)
		if err != nil {
			return nil, fmt.Errorf("create party %d: %w", p.ID, err)
		}
		m.rpcs[i] = r
	}
	return m, nil
}

// Size 返回参与方数量
func (m *Manager) Size() int {
	return len(m.rpcs)
}

// Rpc 返回编号为 id 的参与方门面，不存在时返回 nil
func (m *Manager) Rpc(id int32) *Rpc {
	if id < 0 || int(id) >= len(m.rpcs) {
		return nil
	}
	return m.rpcs[id]
}

// Rpcs 返回全部参与方门面，按编号排列
func (m *Manager) Rpcs() []*Rpc {
	return append([]*Rpc(nil), m.rpcs...)
}

// Hub 返回进程内传输的 Hub，TCP 模式下为 nil
func (m *Manager) Hub() *MemoryHub {
	return m.hub
}

// ConnectAll 并发连接全部参与方
func (m *Manager) ConnectAll(ctx context.Context) error {
	return m.each(ctx, (*Rpc).Connect)
}

// SynchronizeAll 并发同步全部参与方
func (m *Manager) SynchronizeAll(ctx context.Context) error {
	return m.each(ctx, (*Rpc).Synchronize)
}

// DisconnectAll 并发断开全部参与方
//
// 所有参与方都会执行断开，返回合并后的错误。
func (m *Manager) DisconnectAll(ctx context.Context) error {
	errs := make([]error, len(m.rpcs))
	var g errgroup.Group
	for i, r := range m.rpcs {
		g.Go(func() error {
			errs[i] = r.Disconnect(ctx)
			return nil
		})
	}
	_ = g.Wait()
	return multierr.Combine(errs...)
}

// each 对每个参与方并发执行 fn，任一失败时取消其余参与方
func (m *Manager) each(ctx context.Context, fn func(*Rpc, context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, r := range m.rpcs {
		g.Go(func() error {
			if err := fn(r, gctx); err != nil {
				return fmt.Errorf("party %d: %w", r.OwnParty().ID, err)
			}
			return nil
		})
	}
	return g.Wait()
}
