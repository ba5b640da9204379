package buffer

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-mpcrpc/pkg/types"
)

func header(task int64, step int32, sender, receiver int32) types.DataPacketHeader {
	return types.NewDataPacketHeader(task, 42, step, 0, sender, receiver)
}

func ctxTimeout(t *testing.T, d time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	t.Cleanup(cancel)
	return ctx
}

// ============================================================================
//                              精确匹配
// ============================================================================

func TestBuffer_PutThenTake(t *testing.T) {
	b := New()
	h := header(7, 1, 0, 1)
	b.Put(types.NewDataPacket(h, [][]byte{[]byte("x")}))

	p, ok := b.Take(ctxTimeout(t, time.Second), h)
	require.True(t, ok)
	assert.Equal(t, h, p.Header)
	assert.Equal(t, [][]byte{[]byte("x")}, p.Payload)
	assert.Equal(t, 0, b.Pending())
}

func TestBuffer_TakeThenPut(t *testing.T) {
	b := New()
	h := header(7, 1, 0, 1)

	got := make(chan *types.DataPacket, 1)
	go func() {
		p, _ := b.Take(context.Background(), h)
		got <- p
	}()

	require.Eventually(t, func() bool { return b.Waiting() == 1 }, time.Second, time.Millisecond)
	b.Put(types.NewEmptyDataPacket(h))

	select {
	case p := <-got:
		require.NotNil(t, p)
		assert.Equal(t, h, p.Header)
		assert.Empty(t, p.Payload)
	case <-time.After(time.Second):
		t.Fatal("Take 未被唤醒")
	}
	assert.Equal(t, 0, b.Waiting())
}

func TestBuffer_ExactKeyMatching(t *testing.T) {
	b := New()
	want := header(7, 1, 0, 1)

	others := []types.DataPacketHeader{
		types.NewDataPacketHeader(8, 42, 1, 0, 0, 1),
		types.NewDataPacketHeader(7, 43, 1, 0, 0, 1),
		types.NewDataPacketHeader(7, 42, 2, 0, 0, 1),
		types.NewDataPacketHeader(7, 42, 1, 9, 0, 1),
		types.NewDataPacketHeader(7, 42, 1, 0, 2, 1),
		types.NewDataPacketHeader(7, 42, 1, 0, 0, 2),
	}
	for _, h := range others {
		b.Put(types.NewDataPacket(h, nil))
	}

	// 其他包头的数据包不能唤醒等待者
	_, ok := b.Take(ctxTimeout(t, 50*time.Millisecond), want)
	assert.False(t, ok)
	assert.Equal(t, len(others), b.Pending())

	for _, h := range others {
		p, ok := b.Take(ctxTimeout(t, time.Second), h)
		require.True(t, ok)
		assert.Equal(t, h, p.Header)
	}
	assert.Equal(t, 0, b.Pending())
}

func TestBuffer_SameHeaderFIFO(t *testing.T) {
	b := New()
	h := header(1, 1, 0, 1)
	for i := 0; i < 5; i++ {
		b.Put(types.NewSingletonDataPacket(h, []byte{byte(i)}))
	}
	for i := 0; i < 5; i++ {
		p, ok := b.Take(ctxTimeout(t, time.Second), h)
		require.True(t, ok)
		assert.Equal(t, []byte{byte(i)}, p.Payload[0])
	}
}

// ============================================================================
//                              TakeAny
// ============================================================================

func TestBuffer_TakeAny(t *testing.T) {
	b := New()
	for step := int32(0); step < 3; step++ {
		b.Put(types.NewDataPacket(header(1, step, 0, 1), nil))
	}
	b.Put(types.NewDataPacket(header(1, 0, 1, 2), nil))

	assert.Equal(t, 3, b.PendingFor(1))

	p, ok := b.TakeAny(ctxTimeout(t, time.Second), 1)
	require.True(t, ok)
	assert.Equal(t, int32(1), p.Header.ReceiverID)
	assert.Equal(t, int32(0), p.Header.StepID, "返回最早待领取的包头")
	assert.Equal(t, 2, b.PendingFor(1))
	assert.Equal(t, 1, b.PendingFor(2))

	for i := 0; i < 2; i++ {
		p, ok := b.TakeAny(ctxTimeout(t, time.Second), 1)
		require.True(t, ok)
		assert.Equal(t, int32(1), p.Header.ReceiverID)
	}

	_, ok = b.TakeAny(ctxTimeout(t, 50*time.Millisecond), 1)
	assert.False(t, ok, "不得返回发往其他接收方的数据包")
	assert.Equal(t, 1, b.Pending())
}

func TestBuffer_TakeAnyWakeup(t *testing.T) {
	b := New()

	got := make(chan *types.DataPacket, 1)
	go func() {
		p, _ := b.TakeAny(context.Background(), 3)
		got <- p
	}()
	require.Eventually(t, func() bool { return b.Waiting() == 1 }, time.Second, time.Millisecond)

	b.Put(types.NewDataPacket(header(1, 1, 0, 2), nil))
	b.Put(types.NewDataPacket(header(1, 1, 0, 3), nil))

	select {
	case p := <-got:
		assert.Equal(t, int32(3), p.Header.ReceiverID)
	case <-time.After(time.Second):
		t.Fatal("TakeAny 未被唤醒")
	}
	assert.Equal(t, 1, b.PendingFor(2))
}

func TestBuffer_ExactWaiterBeforeAnyWaiter(t *testing.T) {
	b := New()
	h := header(5, 5, 0, 1)

	anyCtx, cancelAny := context.WithCancel(context.Background())
	defer cancelAny()
	anyDone := make(chan bool, 1)
	go func() {
		_, ok := b.TakeAny(anyCtx, 1)
		anyDone <- ok
	}()
	exact := make(chan *types.DataPacket, 1)
	go func() {
		p, _ := b.Take(context.Background(), h)
		exact <- p
	}()
	require.Eventually(t, func() bool { return b.Waiting() == 2 }, time.Second, time.Millisecond)

	b.Put(types.NewDataPacket(h, nil))
	select {
	case p := <-exact:
		assert.Equal(t, h, p.Header)
	case <-time.After(time.Second):
		t.Fatal("精确等待者应优先交付")
	}

	cancelAny()
	assert.False(t, <-anyDone)
	assert.Equal(t, 0, b.Waiting())
}

// ============================================================================
//                              取消
// ============================================================================

func TestBuffer_CancelLeavesStateUnchanged(t *testing.T) {
	b := New()
	other := header(1, 2, 0, 1)
	b.Put(types.NewDataPacket(other, nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan bool, 1)
	go func() {
		_, ok := b.Take(ctx, header(1, 1, 0, 1))
		done <- ok
	}()
	require.Eventually(t, func() bool { return b.Waiting() == 1 }, time.Second, time.Millisecond)

	cancel()
	assert.False(t, <-done)
	assert.Equal(t, 0, b.Waiting(), "等待登记不得泄漏")
	assert.Equal(t, 1, b.Pending(), "不得消费任何数据包")
}

func TestBuffer_CancelRaceNeverLosesPackets(t *testing.T) {
	b := New()
	h := header(9, 9, 0, 1)

	const rounds = 200
	var wg sync.WaitGroup
	for i := 0; i < rounds; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		wg.Add(2)
		var taken int
		go func() {
			defer wg.Done()
			if _, ok := b.Take(ctx, h); ok {
				taken = 1
			}
		}()
		go func() {
			defer wg.Done()
			b.Put(types.NewDataPacket(h, nil))
			cancel()
		}()
		wg.Wait()
		cancel()

		// 数据包要么被取走，要么仍在缓冲区
		assert.Equal(t, 1, taken+b.Pending(), "round %d", i)
		if b.Pending() == 1 {
			_, ok := b.Take(ctxTimeout(t, time.Second), h)
			require.True(t, ok)
		}
		require.Equal(t, 0, b.Waiting())
	}
}

// ============================================================================
//                              并发
// ============================================================================

func TestBuffer_ConcurrentRoundTrip(t *testing.T) {
	b := New()
	const n = 500

	var wg sync.WaitGroup
	results := make([]*types.DataPacket, n)
	for i := 0; i < n; i++ {
		wg.Add(2)
		h := header(int64(i), int32(i%7), 0, 1)
		payload := [][]byte{[]byte(fmt.Sprintf("payload-%d", i)), {}}
		go func(i int) {
			defer wg.Done()
			p, ok := b.Take(context.Background(), h)
			if ok {
				results[i] = p
			}
		}(i)
		go func() {
			defer wg.Done()
			b.Put(types.NewDataPacket(h, payload))
		}()
	}
	wg.Wait()

	for i, p := range results {
		require.NotNil(t, p, "packet %d", i)
		assert.Equal(t, int64(i), p.Header.EncodeTaskID)
		assert.Equal(t, []byte(fmt.Sprintf("payload-%d", i)), p.Payload[0])
		assert.Empty(t, p.Payload[1])
	}
	assert.Equal(t, 0, b.Pending())
	assert.Equal(t, 0, b.Waiting())
}

func TestBuffer_PutNil(t *testing.T) {
	b := New()
	b.Put(nil)
	assert.Equal(t, 0, b.Pending())
}
