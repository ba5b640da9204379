// Package tcp 实现基于 TCP 的出站与入站路径
//
// # 出站
//
// Sender 按目的参与方地址从 pool.Group 取连接池，每帧获取一条连接、
// 一次 Write 写出整帧后立即归还。写失败的连接被丢弃，不做重发。
//
// # 入站
//
// Listener 在本方地址上监听，Accept 协程为每条连接启动一个读协程，
// 读协程按 uvarint 长度前缀切帧后投递到分发队列，
// 分发协程解码并写入 PacketSink。
//
// 单条连接的解码错误只关闭该连接，不影响监听与其他连接。
//
// # 停止
//
// Stop 关闭监听器与全部连接，并等待所有协程退出后才返回，
// 返回时端口已释放，可立即重新绑定。
package tcp
