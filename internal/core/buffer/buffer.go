package buffer

import (
	"context"
	"sync"

	"github.com/dep2p/go-mpcrpc/pkg/interfaces"
	"github.com/dep2p/go-mpcrpc/pkg/lib/log"
	"github.com/dep2p/go-mpcrpc/pkg/types"
)

var logger = log.Logger("core/buffer")

// waiter 一次阻塞中的 Take 调用
type waiter struct {
	ch chan *types.DataPacket
}

func newWaiter() *waiter {
	return &waiter{ch: make(chan *types.DataPacket, 1)}
}

// Buffer 数据包缓冲区
type Buffer struct {
	mu sync.Mutex

	// 待领取数据包：包头 -> FIFO 队列
	packets map[types.DataPacketHeader][]*types.DataPacket

	// 按接收方索引有待领取数据包的包头，按首次入队顺序排列
	pendingHeaders map[int32][]types.DataPacketHeader

	// 精确等待者：包头 -> FIFO 等待队列
	waiters map[types.DataPacketHeader][]*waiter

	// TakeAny 等待者：接收方 -> FIFO 等待队列
	anyWaiters map[int32][]*waiter

	pending int
}

// 确保实现接口
var _ interfaces.PacketSink = (*Buffer)(nil)

// New 创建缓冲区
func New() *Buffer {
	return &Buffer{
		packets:        make(map[types.DataPacketHeader][]*types.DataPacket),
		pendingHeaders: make(map[int32][]types.DataPacketHeader),
		waiters:        make(map[types.DataPacketHeader][]*waiter),
		anyWaiters:     make(map[int32][]*waiter),
	}
}

// Put 放入数据包
//
// 可与任意数量的 Put/Take 并发调用，从不阻塞。
func (b *Buffer) Put(packet *types.DataPacket) {
	if packet == nil {
		return
	}
	b.mu.Lock()
	b.putLocked(packet)
	b.mu.Unlock()
}

func (b *Buffer) putLocked(packet *types.DataPacket) {
	h := packet.Header

	if w := b.popWaiter(h); w != nil {
		w.ch <- packet
		return
	}
	if w := b.popAnyWaiter(h.ReceiverID); w != nil {
		w.ch <- packet
		return
	}

	queue := b.packets[h]
	if len(queue) == 0 {
		b.pendingHeaders[h.ReceiverID] = append(b.pendingHeaders[h.ReceiverID], h)
	}
	b.packets[h] = append(queue, packet)
	b.pending++
}

// Take 阻塞直到出现包头完全相等的数据包，原子地取出并返回
//
// ctx 结束时返回 (nil, false)，缓冲区状态不变。
func (b *Buffer) Take(ctx context.Context, header types.DataPacketHeader) (*types.DataPacket, bool) {
	b.mu.Lock()
	if p := b.dequeue(header); p != nil {
		b.mu.Unlock()
		return p, true
	}
	w := newWaiter()
	b.waiters[header] = append(b.waiters[header], w)
	b.mu.Unlock()

	select {
	case p := <-w.ch:
		return p, true
	case <-ctx.Done():
		b.mu.Lock()
		defer b.mu.Unlock()
		if removeWaiter(b.waiters, header, w) {
			return nil, false
		}
		// 取消与交付竞争：数据包已交给本等待者，放回缓冲区
		b.putLocked(<-w.ch)
		logger.Debug("Take 取消时归还已交付数据包", "header", header)
		return nil, false
	}
}

// TakeAny 阻塞直到出现任意发往 receiverID 的数据包，原子地取出并返回
//
// 多个包头均有待领取数据包时，返回最早变为待领取的包头上的第一个包。
func (b *Buffer) TakeAny(ctx context.Context, receiverID int32) (*types.DataPacket, bool) {
	b.mu.Lock()
	if headers := b.pendingHeaders[receiverID]; len(headers) > 0 {
		p := b.dequeue(headers[0])
		b.mu.Unlock()
		return p, true
	}
	w := newWaiter()
	b.anyWaiters[receiverID] = append(b.anyWaiters[receiverID], w)
	b.mu.Unlock()

	select {
	case p := <-w.ch:
		return p, true
	case <-ctx.Done():
		b.mu.Lock()
		defer b.mu.Unlock()
		if removeWaiter(b.anyWaiters, receiverID, w) {
			return nil, false
		}
		b.putLocked(<-w.ch)
		logger.Debug("TakeAny 取消时归还已交付数据包", "receiver", receiverID)
		return nil, false
	}
}

// dequeue 取出 header 队首数据包，必须持有锁
func (b *Buffer) dequeue(h types.DataPacketHeader) *types.DataPacket {
	queue := b.packets[h]
	if len(queue) == 0 {
		return nil
	}
	p := queue[0]
	queue[0] = nil
	if len(queue) == 1 {
		delete(b.packets, h)
		b.dropPendingHeader(h)
	} else {
		b.packets[h] = queue[1:]
	}
	b.pending--
	return p
}

// dropPendingHeader 从接收方索引中移除 h，必须持有锁
func (b *Buffer) dropPendingHeader(h types.DataPacketHeader) {
	headers := b.pendingHeaders[h.ReceiverID]
	for i, x := range headers {
		if x == h {
			headers = append(headers[:i], headers[i+1:]...)
			break
		}
	}
	if len(headers) == 0 {
		delete(b.pendingHeaders, h.ReceiverID)
	} else {
		b.pendingHeaders[h.ReceiverID] = headers
	}
}

func (b *Buffer) popWaiter(h types.DataPacketHeader) *waiter {
	return popFront(b.waiters, h)
}

func (b *Buffer) popAnyWaiter(receiverID int32) *waiter {
	return popFront(b.anyWaiters, receiverID)
}

func popFront[K comparable](m map[K][]*waiter, key K) *waiter {
	queue := m[key]
	if len(queue) == 0 {
		return nil
	}
	w := queue[0]
	if len(queue) == 1 {
		delete(m, key)
	} else {
		m[key] = queue[1:]
	}
	return w
}

// removeWaiter 撤销等待登记，返回 false 表示该等待者已被交付
func removeWaiter[K comparable](m map[K][]*waiter, key K, w *waiter) bool {
	queue := m[key]
	for i, x := range queue {
		if x != w {
			continue
		}
		queue = append(queue[:i], queue[i+1:]...)
		if len(queue) == 0 {
			delete(m, key)
		} else {
			m[key] = queue
		}
		return true
	}
	return false
}

// ============================================================================
//                              诊断
// ============================================================================

// Pending 返回待领取数据包总数
func (b *Buffer) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending
}

// PendingFor 返回发往 receiverID 的待领取数据包数
func (b *Buffer) PendingFor(receiverID int32) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, h := range b.pendingHeaders[receiverID] {
		n += len(b.packets[h])
	}
	return n
}

// Waiting 返回当前登记的等待者总数（含 TakeAny）
func (b *Buffer) Waiting() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, q := range b.waiters {
		n += len(q)
	}
	for _, q := range b.anyWaiters {
		n += len(q)
	}
	return n
}
