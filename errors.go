package mpcrpc

import (
	"errors"

	"github.com/dep2p/go-mpcrpc/internal/core/lifecycle"
)

// 公共错误定义
var (
	// ────────────────────────────────────────────────────────────────────────
	// 生命周期错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrInvalidState 当前生命周期状态不允许该操作
	ErrInvalidState = lifecycle.ErrInvalidState

	// ErrHandshakeInterrupted 握手在收到对端回应前被取消
	ErrHandshakeInterrupted = errors.New("mpcrpc: handshake interrupted")

	// ────────────────────────────────────────────────────────────────────────
	// 前置条件错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrNilPacket 数据包为空
	ErrNilPacket = errors.New("mpcrpc: nil packet")

	// ErrInvalidSender 发送方不是本方
	ErrInvalidSender = errors.New("mpcrpc: invalid sender")

	// ErrInvalidReceiver 接收方无效
	ErrInvalidReceiver = errors.New("mpcrpc: invalid receiver")

	// ErrUnknownParty 参与方不在集合内
	ErrUnknownParty = errors.New("mpcrpc: unknown party")

	// ────────────────────────────────────────────────────────────────────────
	// Manager 错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrInvalidPartyCount 参与方数量无效
	ErrInvalidPartyCount = errors.New("mpcrpc: invalid party count")
)
