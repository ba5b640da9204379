package protocol

import "math"

// ============================================================================
//                           内部握手协议
// ============================================================================

// HandshakePtoID 内部握手协议编号
const HandshakePtoID int32 = 0x7F000001

// 握手步骤
const (
	StepClientConnect     int32 = 0
	StepServerConnect     int32 = 1
	StepClientSynchronize int32 = 2
	StepServerSynchronize int32 = 3
	StepClientFinish      int32 = 4
	StepServerFinish      int32 = 5
)

// handshake 内部握手协议描述符，通过 Lookup(HandshakePtoID) 获取
var handshake = Desc{
	ID:   HandshakePtoID,
	Name: "RPC_HANDSHAKE",
	Steps: []string{
		"CLIENT_CONNECT",
		"SERVER_CONNECT",
		"CLIENT_SYNCHRONIZE",
		"SERVER_SYNCHRONIZE",
		"CLIENT_FINISH",
		"SERVER_FINISH",
	},
}

// HandshakeTaskID 返回握手数据包的 EncodeTaskID
//
// 约定取 MaxInt64 - senderID，落在 TaskIDPrf 输出极难命中的区间顶端。
// 这只是避免碰撞的约定，并不强制保证与应用流量不相交。
func HandshakeTaskID(senderID int32) int64 {
	return math.MaxInt64 - int64(senderID)
}

func init() {
	register(handshake)
}
