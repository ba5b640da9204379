// Package interfaces 定义 go-mpcrpc 各层之间的契约
//
//   - rpc.go        - Rpc 门面接口（协议代码唯一调用面）
//   - transport.go  - Outbound / Inbound / PacketSink 传输层契约
//
// # 依赖方向
//
//	Rpc → Outbound/Inbound → PacketSink
//
// 禁止反向依赖。
package interfaces
