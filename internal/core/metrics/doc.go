// Package metrics 提供发送方流量统计
//
// Traffic 统计三个累计量：逻辑载荷字节数、序列化后的帧字节数、发送数据包数，
// 另外统计入站数据包数与最近 60 秒的发送速率。
//
// 累计量可通过 Reset 清零，供基准测试按阶段统计。
//
// # Prometheus
//
// Register 把统计量以 GaugeFunc 的形式注册到给定的 Registerer，
// 指标带 party 常量标签：
//
//	mpcrpc_send_payload_bytes
//	mpcrpc_send_serialized_bytes
//	mpcrpc_send_packets
//	mpcrpc_send_rate_bytes
//	mpcrpc_recv_packets
//
// GaugeFunc 读取的是当前值，因此 Reset 后指标同样归零。
package metrics
