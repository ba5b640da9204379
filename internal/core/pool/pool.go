package pool

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/sync/semaphore"

	"github.com/dep2p/go-mpcrpc/pkg/lib/log"
)

var logger = log.Logger("core/pool")

// Dialer 建立到 addr 的连接
type Dialer func(ctx context.Context, addr string) (net.Conn, error)

// Config 连接池配置
type Config struct {
	// Capacity 单个目的地址同时持有的最大连接数
	Capacity int

	// DialTimeout 拨号总时限（含重试），0 表示不限
	DialTimeout time.Duration

	// RetryInterval 拨号重试间隔
	RetryInterval time.Duration
}

// TCPDialer 返回默认 TCP 拨号器，连接关闭 Nagle
func TCPDialer() Dialer {
	d := &net.Dialer{KeepAlive: 30 * time.Second}
	return func(ctx context.Context, addr string) (net.Conn, error) {
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, err
		}
		if tcpConn, ok := conn.(*net.TCPConn); ok {
			_ = tcpConn.SetNoDelay(true)
		}
		return conn, nil
	}
}

// ============================================================================
//                              Pool 单地址连接池
// ============================================================================

// Pool 单个目的地址的连接池
type Pool struct {
	addr string
	cfg  Config
	dial Dialer
	sem  *semaphore.Weighted

	mu     sync.Mutex
	idle   []net.Conn
	open   int
	closed bool

	// Close 时关闭，终止正在重试的拨号
	done chan struct{}
}

// New 创建连接池，不会立即拨号
func New(addr string, cfg Config, dial Dialer) *Pool {
	return &Pool{
		addr: addr,
		cfg:  cfg,
		dial: dial,
		sem:  semaphore.NewWeighted(int64(cfg.Capacity)),
		done: make(chan struct{}),
	}
}

// Addr 返回目的地址
func (p *Pool) Addr() string {
	return p.addr
}

// Acquire 获取一条连接
//
// 池满时阻塞直到有连接归还或 ctx 结束。优先复用最近归还的空闲连接，
// 没有空闲连接时拨号新建。
func (p *Pool) Acquire(ctx context.Context) (net.Conn, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.sem.Release(1)
		return nil, ErrPoolClosed
	}
	if n := len(p.idle); n > 0 {
		conn := p.idle[n-1]
		p.idle = p.idle[:n-1]
		p.mu.Unlock()
		return conn, nil
	}
	p.mu.Unlock()

	conn, err := p.dialWithRetry(ctx)
	if err != nil {
		p.sem.Release(1)
		return nil, err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		_ = conn.Close()
		p.sem.Release(1)
		return nil, ErrPoolClosed
	}
	p.open++
	p.mu.Unlock()
	return conn, nil
}

// Release 归还连接供复用
func (p *Pool) Release(conn net.Conn) {
	p.mu.Lock()
	if p.closed {
		p.open--
		p.mu.Unlock()
		_ = conn.Close()
		p.sem.Release(1)
		return
	}
	p.idle = append(p.idle, conn)
	p.mu.Unlock()
	p.sem.Release(1)
}

// Discard 关闭并丢弃一条出错的连接，释放其容量
func (p *Pool) Discard(conn net.Conn) {
	_ = conn.Close()
	p.mu.Lock()
	p.open--
	p.mu.Unlock()
	p.sem.Release(1)
}

// Open 返回当前持有的连接数（空闲 + 使用中）
func (p *Pool) Open() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

// Idle 返回空闲连接数
func (p *Pool) Idle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}

// Close 关闭连接池
//
// 空闲连接立即关闭；使用中的连接在归还时关闭。
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.done)
	idle := p.idle
	p.idle = nil
	p.open -= len(idle)
	p.mu.Unlock()

	var err error
	for _, conn := range idle {
		err = multierr.Append(err, conn.Close())
	}
	return err
}

// dialWithRetry 拨号直到成功、DialTimeout 到期、ctx 结束或连接池关闭
//
// DialTimeout 为 0 时不设时限。
func (p *Pool) dialWithRetry(ctx context.Context) (net.Conn, error) {
	dialCtx := ctx
	if p.cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, p.cfg.DialTimeout)
		defer cancel()
	}

	var lastErr error
	for attempt := 1; ; attempt++ {
		conn, err := p.dial(dialCtx, p.addr)
		if err == nil {
			if attempt > 1 {
				logger.Debug("拨号成功", "addr", p.addr, "attempts", attempt)
			}
			return conn, nil
		}
		lastErr = err
		if attempt == 1 {
			logger.Debug("对端尚未就绪，开始重试", "addr", p.addr, "error", err)
		}

		timer := time.NewTimer(p.cfg.RetryInterval)
		select {
		case <-dialCtx.Done():
			timer.Stop()
			if ctx.Err() != nil {
				return nil, fmt.Errorf("pool: dial %s interrupted after %d attempts: %w: %w", p.addr, attempt, context.Cause(ctx), lastErr)
			}
			return nil, fmt.Errorf("%w: %s after %d attempts: %w", ErrDialTimeout, p.addr, attempt, lastErr)
		case <-p.done:
			timer.Stop()
			return nil, ErrPoolClosed
		case <-timer.C:
		}
	}
}

// ============================================================================
//                              Group 连接池组
// ============================================================================

// Group 按目的地址划分的连接池集合
type Group struct {
	cfg  Config
	dial Dialer

	mu     sync.Mutex
	pools  map[string]*Pool
	closed bool
}

// NewGroup 创建连接池组
func NewGroup(cfg Config, dial Dialer) *Group {
	if dial == nil {
		dial = TCPDialer()
	}
	return &Group{
		cfg:   cfg,
		dial:  dial,
		pools: make(map[string]*Pool),
	}
}

// Get 返回 addr 对应的连接池，首次访问时创建
func (g *Group) Get(addr string) (*Pool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return nil, ErrPoolClosed
	}
	p, ok := g.pools[addr]
	if !ok {
		p = New(addr, g.cfg, g.dial)
		g.pools[addr] = p
		logger.Debug("创建连接池", "addr", addr, "capacity", g.cfg.Capacity)
	}
	return p, nil
}

// Len 返回已创建的连接池数量
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.pools)
}

// Close 关闭全部连接池
func (g *Group) Close() error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	pools := g.pools
	g.pools = make(map[string]*Pool)
	g.mu.Unlock()

	var err error
	for _, p := range pools {
		err = multierr.Append(err, p.Close())
	}
	return err
}
