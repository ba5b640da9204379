package tcp

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-mpcrpc/config"
	"github.com/dep2p/go-mpcrpc/internal/core/codec"
	"github.com/dep2p/go-mpcrpc/pkg/interfaces"
	"github.com/dep2p/go-mpcrpc/pkg/lib/log"
	"github.com/dep2p/go-mpcrpc/pkg/types"
)

var logger = log.Logger("core/transport/tcp")

// acceptBackoff Accept 临时错误后的等待时间
const acceptBackoff = 10 * time.Millisecond

// ============================================================================
//                              入站连接
// ============================================================================

// inboundConn 一条入站连接
type inboundConn struct {
	id   string
	conn net.Conn
	once sync.Once
}

func (c *inboundConn) close() {
	c.once.Do(func() { _ = c.conn.Close() })
}

// inboundFrame 待分发的一帧
type inboundFrame struct {
	from *inboundConn
	data []byte
}

// ============================================================================
//                              Listener 入站路径
// ============================================================================

// Listener TCP 入站路径
type Listener struct {
	cfg  config.TransportConfig
	own  types.Party
	sink interfaces.PacketSink

	mu      sync.Mutex
	ln      net.Listener
	conns   map[*inboundConn]struct{}
	started bool
	closing bool

	frames chan inboundFrame
	done   chan struct{}
}

// 确保实现接口
var _ interfaces.Inbound = (*Listener)(nil)

// NewListener 创建入站路径，Start 之前不绑定端口
func NewListener(cfg config.TransportConfig, own types.Party, sink interfaces.PacketSink) *Listener {
	return &Listener{
		cfg:   cfg,
		own:   own,
		sink:  sink,
		conns: make(map[*inboundConn]struct{}),
		done:  make(chan struct{}),
	}
}

// Start 绑定本方地址并启动 Accept 与分发协程
func (l *Listener) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closing {
		return ErrListenerClosed
	}
	if l.started {
		return ErrListenerStarted
	}

	host := l.own.Host
	if l.cfg.ListenHost != "" {
		host = l.cfg.ListenHost
	}
	addr := net.JoinHostPort(host, strconv.Itoa(l.own.Port))

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	l.ln = ln
	l.started = true
	l.frames = make(chan inboundFrame, l.cfg.DispatchQueue)

	// 读协程全部退出后才关闭分发队列，分发协程排空队列后退出
	var readers errgroup.Group
	for i := 0; i < l.cfg.AcceptWorkers; i++ {
		readers.Go(func() error {
			l.acceptLoop(&readers)
			return nil
		})
	}
	var dispatchers errgroup.Group
	for i := 0; i < l.cfg.DispatchWorkers; i++ {
		dispatchers.Go(func() error {
			l.dispatchLoop()
			return nil
		})
	}
	go func() {
		_ = readers.Wait()
		close(l.frames)
		_ = dispatchers.Wait()
		close(l.done)
	}()

	logger.Info("开始监听", "party", l.own.ID, "addr", ln.Addr().String())
	return nil
}

// Addr 返回实际绑定的地址，未启动时为空
func (l *Listener) Addr() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ln == nil {
		return ""
	}
	return l.ln.Addr().String()
}

// Done 在全部入站协程退出后关闭
func (l *Listener) Done() <-chan struct{} {
	return l.done
}

// Stop 关闭监听器与全部连接，等待入站协程退出
func (l *Listener) Stop(ctx context.Context) error {
	l.mu.Lock()
	if l.closing {
		l.mu.Unlock()
		return l.wait(ctx)
	}
	l.closing = true
	if !l.started {
		l.mu.Unlock()
		close(l.done)
		return nil
	}
	ln := l.ln
	conns := make([]*inboundConn, 0, len(l.conns))
	for c := range l.conns {
		conns = append(conns, c)
	}
	l.mu.Unlock()

	err := ln.Close()
	for _, c := range conns {
		c.close()
	}
	if werr := l.wait(ctx); werr != nil {
		return werr
	}
	logger.Info("停止监听", "party", l.own.ID)
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func (l *Listener) wait(ctx context.Context) error {
	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Listener) isClosing() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closing
}

func (l *Listener) acceptLoop(readers *errgroup.Group) {
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			if l.isClosing() || errors.Is(err, net.ErrClosed) {
				return
			}
			logger.Warn("Accept 失败", "party", l.own.ID, "error", err)
			time.Sleep(acceptBackoff)
			continue
		}
		if tcpConn, ok := conn.(*net.TCPConn); ok {
			_ = tcpConn.SetNoDelay(true)
		}

		c := &inboundConn{id: uuid.New().String(), conn: conn}
		l.mu.Lock()
		if l.closing {
			l.mu.Unlock()
			c.close()
			return
		}
		l.conns[c] = struct{}{}
		l.mu.Unlock()

		logger.Debug("接受入站连接", "party", l.own.ID, "conn", c.id, "remote", conn.RemoteAddr().String())
		readers.Go(func() error {
			l.readLoop(c)
			return nil
		})
	}
}

func (l *Listener) readLoop(c *inboundConn) {
	defer func() {
		c.close()
		l.mu.Lock()
		delete(l.conns, c)
		l.mu.Unlock()
	}()

	r := bufio.NewReaderSize(c.conn, l.cfg.ReadBufferSize)
	for {
		data, err := codec.ReadFrame(r, l.cfg.MaxFrameSize)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				logger.Debug("入站连接关闭", "conn", c.id)
			case l.isClosing() || errors.Is(err, net.ErrClosed):
			default:
				logger.Warn("读帧失败，关闭连接", "conn", c.id, "error", err)
			}
			return
		}
		l.frames <- inboundFrame{from: c, data: data}
	}
}

func (l *Listener) dispatchLoop() {
	for f := range l.frames {
		packet, err := codec.Decode(f.data)
		if err != nil {
			logger.Warn("解码失败，关闭连接", "conn", f.from.id, "error", err)
			f.from.close()
			continue
		}
		l.sink.Put(packet)
	}
}
