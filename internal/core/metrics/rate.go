package metrics

import (
	"sync"
	"time"
)

// rateWindow 速率窗口的秒数
const rateWindow = 60

// RateMeter 滑动窗口速率计
//
// 以 1 秒为桶，Rate 返回最近 rateWindow 秒的平均字节速率。
type RateMeter struct {
	mu      sync.Mutex
	now     func() time.Time
	buckets [rateWindow]int64
	idx     int
	last    time.Time
}

// NewRateMeter 创建速率计
func NewRateMeter() *RateMeter {
	return newRateMeter(time.Now)
}

func newRateMeter(now func() time.Time) *RateMeter {
	return &RateMeter{now: now, last: now().Truncate(time.Second)}
}

// advance 把窗口推进到当前秒，清空跨过的桶
func (r *RateMeter) advance() {
	cur := r.now().Truncate(time.Second)
	steps := int(cur.Sub(r.last) / time.Second)
	if steps <= 0 {
		return
	}
	if steps >= rateWindow {
		r.buckets = [rateWindow]int64{}
	} else {
		for i := 0; i < steps; i++ {
			r.idx = (r.idx + 1) % rateWindow
			r.buckets[r.idx] = 0
		}
	}
	r.last = cur
}

// Add 记录 n 字节
func (r *RateMeter) Add(n int64) {
	r.mu.Lock()
	r.advance()
	r.buckets[r.idx] += n
	r.mu.Unlock()
}

// Rate 返回窗口内平均速率（字节/秒）
func (r *RateMeter) Rate() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.advance()
	var total int64
	for _, v := range r.buckets {
		total += v
	}
	return float64(total) / rateWindow
}

// Reset 清空窗口
func (r *RateMeter) Reset() {
	r.mu.Lock()
	r.buckets = [rateWindow]int64{}
	r.idx = 0
	r.last = r.now().Truncate(time.Second)
	r.mu.Unlock()
}
