package interfaces

import (
	"context"

	"github.com/dep2p/go-mpcrpc/pkg/types"
)

// Rpc 面向协议代码的通信门面
//
// 生命周期：UNCONNECTED → Connect → CONNECTED → Disconnect → DISCONNECTED。
// Synchronize 仅在 CONNECTED 状态下有效，可重复调用。
//
// Receive / ReceiveAny 在 ctx 结束前未匹配到数据包时返回 (nil, nil)，
// 表示"无数据"而非错误，由调用方决定是否致命。
type Rpc interface {
	// OwnParty 返回本方
	OwnParty() types.Party

	// PartySet 返回参与方集合
	PartySet() *types.PartySet

	// Connect 与所有其他参与方完成连接握手
	Connect(ctx context.Context) error

	// Synchronize 与所有其他参与方完成一轮同步握手
	Synchronize(ctx context.Context) error

	// Disconnect 完成结束握手并释放监听端口
	Disconnect(ctx context.Context) error

	// Send 发送数据包，写入交给连接池后立即返回
	Send(ctx context.Context, packet *types.DataPacket) error

	// Receive 阻塞等待与 header 完全相等的数据包
	Receive(ctx context.Context, header types.DataPacketHeader) (*types.DataPacket, error)

	// ReceiveAny 阻塞等待任意发往本方的数据包
	ReceiveAny(ctx context.Context) (*types.DataPacket, error)

	// PayloadByteLength 累计发送的载荷字节数
	PayloadByteLength() int64

	// SendByteLength 累计发送的序列化字节数
	SendByteLength() int64

	// SendDataPacketNum 累计发送的数据包数
	SendDataPacketNum() int64

	// Reset 清零流量计数，不影响连接
	Reset()
}
