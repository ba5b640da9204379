package interfaces

import (
	"context"

	"github.com/dep2p/go-mpcrpc/pkg/types"
)

// PacketSink 接收完整解码的数据包
//
// 实现必须可并发调用，且不得因协议层原因阻塞调用方（网络协程）。
type PacketSink interface {
	Put(packet *types.DataPacket)
}

// Outbound 出站路径
//
// Send 把一个已编码的帧写到目标参与方；写入交给连接后即返回，
// 不等待任何应用层确认，也不做自动重发。
type Outbound interface {
	Send(ctx context.Context, to types.Party, frame []byte) error
}

// Inbound 入站路径
//
// 启停由 fx 生命周期驱动；Addr 返回实际绑定的地址，未启动时为空。
type Inbound interface {
	Addr() string
}
