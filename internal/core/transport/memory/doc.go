// Package memory 实现进程内传输
//
// 同一进程内的多个参与方共享一个 Hub。发送方仍然把数据包编码成帧，
// Hub 一侧再解码后写入接收方的 PacketSink，
// 因此编码路径与流量统计与 TCP 传输完全一致。
package memory
