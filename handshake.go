package mpcrpc

import (
	"context"
	"fmt"

	"github.com/dep2p/go-mpcrpc/pkg/protocol"
	"github.com/dep2p/go-mpcrpc/pkg/types"
)

// round 一轮两两握手使用的步骤
type round struct {
	client int32
	server int32
}

// handshakeDesc 握手协议描述符，步骤名用于日志与错误信息
var handshakeDesc = protocol.MustLookup(protocol.HandshakePtoID)

var (
	connectRound     = round{client: protocol.StepClientConnect, server: protocol.StepServerConnect}
	synchronizeRound = round{client: protocol.StepClientSynchronize, server: protocol.StepServerSynchronize}
	finishRound      = round{client: protocol.StepClientFinish, server: protocol.StepServerFinish}
)

// handshakeHeader 构造握手包头
func handshakeHeader(step, from, to int32) types.DataPacketHeader {
	return types.NewDataPacketHeader(protocol.HandshakeTaskID(from), protocol.HandshakePtoID, step, 0, from, to)
}

// handshake 按编号顺序与每个其他参与方完成一次往返
//
// 本方编号较小时为客户端：发送 client 步骤，等待 server 步骤；
// 较大时为服务端：等待 client 步骤，回复 server 步骤。
func (r *Rpc) handshake(ctx context.Context, rd round) error {
	own := r.own.ID
	for _, peer := range r.set.Others() {
		if own < peer.ID {
			if err := r.sendHandshake(ctx, rd.client, peer.ID); err != nil {
				return err
			}
			if err := r.awaitHandshake(ctx, rd.server, peer.ID); err != nil {
				return err
			}
		} else {
			if err := r.awaitHandshake(ctx, rd.client, peer.ID); err != nil {
				return err
			}
			if err := r.sendHandshake(ctx, rd.server, peer.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Rpc) sendHandshake(ctx context.Context, step, to int32) error {
	h := handshakeHeader(step, r.own.ID, to)
	if _, err := r.send(ctx, types.NewEmptyDataPacket(h)); err != nil {
		return fmt.Errorf("send %s to party %d: %w", handshakeDesc.StepName(step), to, err)
	}
	logger.Debug("发送握手", "party", r.own.ID, "to", to, "step", handshakeDesc.StepName(step))
	return nil
}

func (r *Rpc) awaitHandshake(ctx context.Context, step, from int32) error {
	h := handshakeHeader(step, from, r.own.ID)
	if _, ok := r.buf.Take(ctx, h); !ok {
		return fmt.Errorf("%w: waiting for %s from party %d: %w",
			ErrHandshakeInterrupted, handshakeDesc.StepName(step), from, context.Cause(ctx))
	}
	logger.Debug("收到握手", "party", r.own.ID, "from", from, "step", handshakeDesc.StepName(step))
	return nil
}
