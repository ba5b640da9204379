// Package lifecycle 提供参与方连接生命周期状态机
//
// 状态只能沿以下路径推进：
//
//	UNCONNECTED → CONNECTING → CONNECTED → DISCONNECTING → DISCONNECTED
//
// CONNECTING 失败时直接进入 DISCONNECTED。DISCONNECTED 为终态。
//
// Coordinator 的核心职责：
//  1. 以比较并交换的方式推进状态，拒绝非法的前置状态
//  2. 为每个状态提供到达信号，供其他协程等待
//  3. 通知状态变更
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dep2p/go-mpcrpc/pkg/lib/log"
)

var logger = log.Logger("core/lifecycle")

// ErrInvalidState 当前状态不允许该操作
var ErrInvalidState = errors.New("lifecycle: invalid state")

// ============================================================================
//                              状态定义
// ============================================================================

// State 连接生命周期状态
type State int

const (
	// StateUnconnected 已创建，未连接
	StateUnconnected State = iota

	// StateConnecting 正在执行 CONNECT 握手
	StateConnecting

	// StateConnected 已连接，可收发数据包
	StateConnected

	// StateDisconnecting 正在执行 FINISH 握手
	StateDisconnecting

	// StateDisconnected 已断开，端口已释放
	StateDisconnected
)

// String 返回状态名称
func (s State) String() string {
	switch s {
	case StateUnconnected:
		return "UNCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	case StateDisconnecting:
		return "DISCONNECTING"
	case StateDisconnected:
		return "DISCONNECTED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// allowed 合法的状态迁移
var allowed = map[State][]State{
	StateUnconnected:   {StateConnecting},
	StateConnecting:    {StateConnected, StateDisconnected},
	StateConnected:     {StateDisconnecting},
	StateDisconnecting: {StateDisconnected},
}

func canTransit(from, to State) bool {
	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ============================================================================
//                              Coordinator
// ============================================================================

// Coordinator 生命周期协调器
type Coordinator struct {
	mu sync.RWMutex

	state State

	// 到达信号，状态首次到达时关闭
	reached map[State]chan struct{}

	onChange []func(old, new State)
}

// NewCoordinator 创建处于 UNCONNECTED 的协调器
func NewCoordinator() *Coordinator {
	c := &Coordinator{
		state:   StateUnconnected,
		reached: make(map[State]chan struct{}),
	}
	for s := StateUnconnected; s <= StateDisconnected; s++ {
		c.reached[s] = make(chan struct{})
	}
	close(c.reached[StateUnconnected])
	return c
}

// State 返回当前状态
func (c *Coordinator) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Require 当前状态不是 want 时返回错误
func (c *Coordinator) Require(want State) error {
	if got := c.State(); got != want {
		return fmt.Errorf("%w: state = %s, expected %s", ErrInvalidState, got, want)
	}
	return nil
}

// Transition 从 from 迁移到 to
//
// 当前状态不是 from，或迁移不在合法路径上时返回错误，状态不变。
func (c *Coordinator) Transition(from, to State) error {
	c.mu.Lock()
	if c.state != from {
		cur := c.state
		c.mu.Unlock()
		return fmt.Errorf("%w: state = %s, expected %s", ErrInvalidState, cur, from)
	}
	if !canTransit(from, to) {
		c.mu.Unlock()
		return fmt.Errorf("%w: transition %s -> %s not allowed", ErrInvalidState, from, to)
	}
	c.state = to
	close(c.reached[to])
	callbacks := slices.Clone(c.onChange)
	c.mu.Unlock()

	logger.Debug("生命周期状态变更", "from", from.String(), "to", to.String())
	for _, cb := range callbacks {
		cb(from, to)
	}
	return nil
}

// WaitFor 等待状态到达 s（到达过即返回）
func (c *Coordinator) WaitFor(ctx context.Context, s State) error {
	c.mu.RLock()
	ch, ok := c.reached[s]
	c.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: unknown state %d", ErrInvalidState, int(s))
	}

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// OnChange 注册状态变更回调，回调在 Transition 的调用协程中同步执行
func (c *Coordinator) OnChange(cb func(old, new State)) {
	c.mu.Lock()
	c.onChange = append(c.onChange, cb)
	c.mu.Unlock()
}
