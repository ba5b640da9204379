package mpcrpc

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/multierr"

	"github.com/dep2p/go-mpcrpc/internal/core/buffer"
	"github.com/dep2p/go-mpcrpc/internal/core/codec"
	"github.com/dep2p/go-mpcrpc/internal/core/lifecycle"
	"github.com/dep2p/go-mpcrpc/internal/core/metrics"
	"github.com/dep2p/go-mpcrpc/internal/core/transport"
	"github.com/dep2p/go-mpcrpc/pkg/interfaces"
	"github.com/dep2p/go-mpcrpc/pkg/lib/log"
	"github.com/dep2p/go-mpcrpc/pkg/types"
)

var logger = log.Logger("mpcrpc")

// State 门面生命周期状态
type State = lifecycle.State

// 生命周期状态
const (
	StateUnconnected   = lifecycle.StateUnconnected
	StateConnecting    = lifecycle.StateConnecting
	StateConnected     = lifecycle.StateConnected
	StateDisconnecting = lifecycle.StateDisconnecting
	StateDisconnected  = lifecycle.StateDisconnected
)

// Stats 流量统计快照
type Stats = metrics.Stats

// ============================================================================
//                              Rpc 门面
// ============================================================================

// Rpc 单个参与方的通信门面
//
// 除 Connect / Disconnect 外的方法均可并发调用。
type Rpc struct {
	set        *types.PartySet
	own        types.Party
	prf        *types.TaskIDPrf
	registerer prometheus.Registerer

	app *fx.App

	// 由 fx 注入
	state    *lifecycle.Coordinator
	buf      *buffer.Buffer
	traffic  metrics.Reporter
	outbound interfaces.Outbound
	inbound  interfaces.Inbound
	kind     transport.Kind
}

// 确保实现接口
var _ interfaces.Rpc = (*Rpc)(nil)

// New 创建参与方门面，不会绑定端口或建立连接
func New(set *types.PartySet, opts ...Option) (*Rpc, error) {
	if set == nil {
		return nil, fmt.Errorf("%w: party set is nil", types.ErrInvalidParty)
	}
	o := newOptions()
	if err := o.apply(opts...); err != nil {
		return nil, err
	}

	cfg := o.resolvedConfig()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	if cfg.Log.Level != "" {
		log.SetLevel(log.ParseLevel(cfg.Log.Level))
	}

	r := &Rpc{
		set:        set,
		own:        set.Own(),
		prf:        types.NewTaskIDPrf(o.taskKey),
		registerer: o.registerer,
	}
	if r.registerer == nil {
		r.registerer = prometheus.NewRegistry()
	}

	app, err := buildFxApp(cfg, set, o, r)
	if err != nil {
		return nil, err
	}
	r.app = app

	logger.Debug("创建参与方", "party", r.own.ID, "parties", set.Size(), "transport", r.kind.String())
	return r, nil
}

// ==================== 基本信息 ====================

// OwnParty 返回本方
func (r *Rpc) OwnParty() types.Party {
	return r.own
}

// Party 按编号查找参与方
func (r *Rpc) Party(id int32) (types.Party, bool) {
	return r.set.Party(id)
}

// PartySet 返回参与方集合
func (r *Rpc) PartySet() *types.PartySet {
	return r.set
}

// State 返回当前生命周期状态
func (r *Rpc) State() State {
	return r.state.State()
}

// Addr 返回入站路径实际绑定的地址，未连接时为空
func (r *Rpc) Addr() string {
	return r.inbound.Addr()
}

// Registry 返回流量指标所在的 Prometheus Registerer
func (r *Rpc) Registry() prometheus.Registerer {
	return r.registerer
}

// TaskIDPrf 返回任务编号 PRF
func (r *Rpc) TaskIDPrf() *types.TaskIDPrf {
	return r.prf
}

// EncodeTaskID 用本方的 TaskIDPrf 派生包头中的 EncodeTaskID
func (r *Rpc) EncodeTaskID(taskID int64, ptoID int32) int64 {
	return r.prf.EncodeTaskID(taskID, ptoID)
}

// ==================== 生命周期 ====================

// Connect 启动传输层并与其他参与方完成 CONNECT 握手
//
// 仅在 UNCONNECTED 状态下可调用。失败时释放已占用的资源并进入 DISCONNECTED。
func (r *Rpc) Connect(ctx context.Context) error {
	if err := r.state.Transition(StateUnconnected, StateConnecting); err != nil {
		return err
	}
	logger.Info("开始连接", "party", r.own.ID, "addr", r.own.Addr())

	if err := r.app.Start(ctx); err != nil {
		return r.abortConnect(ctx, fmt.Errorf("start transport: %w", err))
	}
	if err := r.handshake(ctx, connectRound); err != nil {
		return r.abortConnect(ctx, err)
	}

	if err := r.state.Transition(StateConnecting, StateConnected); err != nil {
		return err
	}
	logger.Info("连接完成", "party", r.own.ID, "parties", r.set.Size())
	return nil
}

func (r *Rpc) abortConnect(ctx context.Context, cause error) error {
	logger.Warn("连接失败", "party", r.own.ID, "error", cause)
	err := multierr.Append(cause, r.app.Stop(context.WithoutCancel(ctx)))
	_ = r.state.Transition(StateConnecting, StateDisconnected)
	return err
}

// Synchronize 与其他参与方完成一轮同步握手
//
// 仅在 CONNECTED 状态下可调用，可重复调用。
func (r *Rpc) Synchronize(ctx context.Context) error {
	if err := r.state.Require(StateConnected); err != nil {
		return err
	}
	if err := r.handshake(ctx, synchronizeRound); err != nil {
		return err
	}
	logger.Debug("同步完成", "party", r.own.ID)
	return nil
}

// Disconnect 与其他参与方完成 FINISH 握手，停止传输层并释放端口
//
// 仅在 CONNECTED 状态下可调用。握手失败时仍会停止传输层。
func (r *Rpc) Disconnect(ctx context.Context) error {
	if err := r.state.Transition(StateConnected, StateDisconnecting); err != nil {
		return err
	}

	err := r.handshake(ctx, finishRound)
	err = multierr.Append(err, r.app.Stop(context.WithoutCancel(ctx)))
	_ = r.state.Transition(StateDisconnecting, StateDisconnected)

	if err != nil {
		logger.Warn("断开连接出错", "party", r.own.ID, "error", err)
		return err
	}
	logger.Info("断开连接", "party", r.own.ID)
	return nil
}

// WaitState 等待生命周期到达 s，到达过即立即返回
func (r *Rpc) WaitState(ctx context.Context, s State) error {
	return r.state.WaitFor(ctx, s)
}

// OnStateChange 注册状态变更回调
//
// 回调在触发迁移的协程中同步执行，不应阻塞。
func (r *Rpc) OnStateChange(cb func(old, new State)) {
	r.state.OnChange(cb)
}

// ==================== 数据包收发 ====================

// Send 发送数据包
//
// 仅在 CONNECTED 状态下可调用。SenderID 必须为本方，ReceiverID 必须是其他参与方。
// 帧交给出站路径后立即返回，不等待对端确认。
func (r *Rpc) Send(ctx context.Context, packet *types.DataPacket) error {
	if err := r.state.Require(StateConnected); err != nil {
		return err
	}
	if packet == nil {
		return ErrNilPacket
	}
	h := packet.Header
	if h.SenderID != r.own.ID {
		return fmt.Errorf("%w: sender_id = %d, expected own id %d", ErrInvalidSender, h.SenderID, r.own.ID)
	}
	if h.ReceiverID == r.own.ID {
		return fmt.Errorf("%w: receiver_id = %d, expected an id other than own id %d", ErrInvalidReceiver, h.ReceiverID, r.own.ID)
	}
	if !r.set.Contains(h.ReceiverID) {
		return fmt.Errorf("%w: receiver_id = %d", ErrUnknownParty, h.ReceiverID)
	}

	frame, err := r.send(ctx, packet)
	if err != nil {
		return err
	}
	r.traffic.LogSent(packet.PayloadByteLength(), int64(len(frame)))
	return nil
}

// send 编码并交给出站路径，不检查状态也不计入流量
func (r *Rpc) send(ctx context.Context, packet *types.DataPacket) ([]byte, error) {
	to, ok := r.set.Party(packet.Header.ReceiverID)
	if !ok {
		return nil, fmt.Errorf("%w: receiver_id = %d", ErrUnknownParty, packet.Header.ReceiverID)
	}
	frame, err := codec.EncodeFrame(packet)
	if err != nil {
		return nil, err
	}
	if err := r.outbound.Send(ctx, to, frame); err != nil {
		return nil, err
	}
	return frame, nil
}

// Receive 阻塞等待与 header 完全相等的数据包
//
// ReceiverID 必须为本方，SenderID 必须是其他参与方。
// ctx 结束时返回 (nil, nil)。
func (r *Rpc) Receive(ctx context.Context, header types.DataPacketHeader) (*types.DataPacket, error) {
	if header.ReceiverID != r.own.ID {
		return nil, fmt.Errorf("%w: receiver_id = %d, expected own id %d", ErrInvalidReceiver, header.ReceiverID, r.own.ID)
	}
	if header.SenderID == r.own.ID {
		return nil, fmt.Errorf("%w: sender_id = %d, expected an id other than own id %d", ErrInvalidSender, header.SenderID, r.own.ID)
	}
	if !r.set.Contains(header.SenderID) {
		return nil, fmt.Errorf("%w: sender_id = %d", ErrUnknownParty, header.SenderID)
	}

	packet, ok := r.buf.Take(ctx, header)
	if !ok {
		return nil, nil
	}
	return packet, nil
}

// ReceiveAny 阻塞等待任意发往本方的数据包
//
// ctx 结束时返回 (nil, nil)。
func (r *Rpc) ReceiveAny(ctx context.Context) (*types.DataPacket, error) {
	packet, ok := r.buf.TakeAny(ctx, r.own.ID)
	if !ok {
		return nil, nil
	}
	return packet, nil
}

// ==================== 流量统计 ====================

// PayloadByteLength 累计发送的逻辑载荷字节数
func (r *Rpc) PayloadByteLength() int64 {
	return r.traffic.Stats().PayloadBytes
}

// SendByteLength 累计发送的帧字节数（含长度前缀）
func (r *Rpc) SendByteLength() int64 {
	return r.traffic.Stats().SerializedBytes
}

// SendDataPacketNum 累计发送的数据包数
func (r *Rpc) SendDataPacketNum() int64 {
	return r.traffic.Stats().SentPackets
}

// Stats 返回流量统计快照
func (r *Rpc) Stats() Stats {
	return r.traffic.Stats()
}

// Reset 清零流量统计
func (r *Rpc) Reset() {
	r.traffic.Reset()
}
