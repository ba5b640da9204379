package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dep2p/go-mpcrpc/internal/core/codec"
	"github.com/dep2p/go-mpcrpc/pkg/interfaces"
	"github.com/dep2p/go-mpcrpc/pkg/lib/log"
	"github.com/dep2p/go-mpcrpc/pkg/types"
)

var logger = log.Logger("core/transport/memory")

var (
	// ErrPartyOffline 接收方未在 Hub 注册
	ErrPartyOffline = errors.New("memory: party offline")

	// ErrPartyRegistered 参与方已注册
	ErrPartyRegistered = errors.New("memory: party already registered")
)

// ============================================================================
//                              Hub
// ============================================================================

// Hub 进程内参与方路由表
type Hub struct {
	mu    sync.RWMutex
	sinks map[int32]interfaces.PacketSink

	// 每次注册后关闭并替换，唤醒等待上线的发送方
	registered chan struct{}
}

// NewHub 创建 Hub
func NewHub() *Hub {
	return &Hub{
		sinks:      make(map[int32]interfaces.PacketSink),
		registered: make(chan struct{}),
	}
}

// Register 注册参与方的接收端
func (h *Hub) Register(id int32, sink interfaces.PacketSink) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sinks[id]; ok {
		return fmt.Errorf("%w: %d", ErrPartyRegistered, id)
	}
	h.sinks[id] = sink
	close(h.registered)
	h.registered = make(chan struct{})
	return nil
}

// Unregister 注销参与方
func (h *Hub) Unregister(id int32) {
	h.mu.Lock()
	delete(h.sinks, id)
	h.mu.Unlock()
}

// Online 判断参与方是否在线
func (h *Hub) Online(id int32) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.sinks[id]
	return ok
}

// lookup 返回接收方，以及下一次注册时关闭的通知 channel
func (h *Hub) lookup(id int32) (interfaces.PacketSink, <-chan struct{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.sinks[id], h.registered
}

// deliver 解码帧并交给接收方
//
// 接收方尚未注册时等待其上线，与 TCP 拨号重试对应。
// wait 大于 0 时最多等待 wait，否则一直等到 ctx 结束。
func (h *Hub) deliver(ctx context.Context, to int32, frame []byte, wait time.Duration) error {
	sink, registered := h.lookup(to)
	if sink == nil {
		var expired <-chan time.Time
		if wait > 0 {
			timer := time.NewTimer(wait)
			defer timer.Stop()
			expired = timer.C
		}
		for sink == nil {
			select {
			case <-registered:
			case <-expired:
				return fmt.Errorf("%w: %d", ErrPartyOffline, to)
			case <-ctx.Done():
				return fmt.Errorf("%w: %d: %w", ErrPartyOffline, to, context.Cause(ctx))
			}
			sink, registered = h.lookup(to)
		}
	}

	packet, err := codec.DecodeFrame(frame)
	if err != nil {
		return err
	}
	sink.Put(packet)
	return nil
}

// ============================================================================
//                              Sender / Listener
// ============================================================================

// Sender 进程内出站路径
type Sender struct {
	hub  *Hub
	wait time.Duration
}

// 确保实现接口
var _ interfaces.Outbound = (*Sender)(nil)

// NewSender 创建出站路径
//
// wait 为接收方尚未上线时的最长等待时间，0 表示一直等到 ctx 结束。
func NewSender(hub *Hub, wait time.Duration) *Sender {
	return &Sender{hub: hub, wait: wait}
}

// Send 把帧投递给目标参与方
func (s *Sender) Send(ctx context.Context, to types.Party, frame []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.hub.deliver(ctx, to.ID, frame, s.wait)
}

// Listener 进程内入站路径
type Listener struct {
	hub  *Hub
	own  types.Party
	sink interfaces.PacketSink

	mu      sync.Mutex
	started bool
	stopped bool
	done    chan struct{}
}

// 确保实现接口
var _ interfaces.Inbound = (*Listener)(nil)

// NewListener 创建入站路径
func NewListener(hub *Hub, own types.Party, sink interfaces.PacketSink) *Listener {
	return &Listener{hub: hub, own: own, sink: sink, done: make(chan struct{})}
}

// Start 在 Hub 上注册本方
func (l *Listener) Start(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return fmt.Errorf("memory: listener for party %d stopped", l.own.ID)
	}
	if err := l.hub.Register(l.own.ID, l.sink); err != nil {
		return err
	}
	l.started = true
	logger.Debug("注册进程内参与方", "party", l.own.ID)
	return nil
}

// Stop 从 Hub 注销本方
func (l *Listener) Stop(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return nil
	}
	l.stopped = true
	if l.started {
		l.hub.Unregister(l.own.ID)
	}
	close(l.done)
	return nil
}

// Done 在 Stop 后关闭
func (l *Listener) Done() <-chan struct{} {
	return l.done
}

// Addr 返回进程内地址，未启动或已停止时为空
func (l *Listener) Addr() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.started || l.stopped {
		return ""
	}
	return fmt.Sprintf("memory://%d", l.own.ID)
}
