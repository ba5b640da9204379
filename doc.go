// Package mpcrpc 提供多方计算协议的参与方通信基座
//
// N 个参与方通过网络交换大量逻辑上相互独立的数据包。每个数据包由
// 六元组包头标识，只会交付给以完全相同包头等待的接收方，
// 因此并发执行的多个子协议互不干扰。
//
// # 快速开始
//
//	set, _ := types.NewPartySet(0,
//	    types.Party{ID: 0, Name: "P0", Host: "127.0.0.1", Port: 9000},
//	    types.Party{ID: 1, Name: "P1", Host: "127.0.0.1", Port: 9001},
//	)
//	rpc, err := mpcrpc.New(set)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := rpc.Connect(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer rpc.Disconnect(ctx)
//
//	h := types.NewDataPacketHeader(rpc.EncodeTaskID(1, ptoID), ptoID, 0, 0, 0, 1)
//	_ = rpc.Send(ctx, types.NewSingletonDataPacket(h, msg))
//
// # 生命周期
//
//	UNCONNECTED → Connect → CONNECTED → Disconnect → DISCONNECTED
//
// Connect、Synchronize、Disconnect 都按参与方编号两两握手：
// 编号较小的一方为客户端，先发后等；编号较大的一方为服务端，先等后回。
// 每个参与方按编号顺序依次处理其他参与方，无需中心协调者即可终止。
//
// # 本地多方
//
// Manager 在同一进程内创建 N 个参与方，可使用回环 TCP 或进程内传输，
// 用于测试与单机模拟。
package mpcrpc
