// Package transport 选择并装配传输层实现
//
// 传输层向上只暴露两个接口：
//
//   - interfaces.Outbound：按目的参与方发送一帧
//   - interfaces.Inbound：在本方地址上接收帧，解码后写入 PacketSink
//
// # 实现
//
//   - tcp：真实 TCP 连接，出站走 pool.Group 连接池
//   - memory：进程内 Hub，编码路径与 TCP 相同，只是不经过套接字
//
// 未提供 memory.Hub 时使用 TCP 传输，提供时使用进程内传输。
//
// # Fx 模块集成
//
//	app := fx.New(
//	    fx.Supply(cfg, partySet),
//	    buffer.Module(),
//	    transport.Module(nil),
//	    fx.Invoke(func(out interfaces.Outbound) {
//	        // 发送帧
//	    }),
//	)
package transport
