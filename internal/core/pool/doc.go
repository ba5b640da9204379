// Package pool 提供按目的地址划分的出站连接池
//
// Group 按地址惰性创建 Pool；每个 Pool 的容量由加权信号量约束，
// 信号量的等待队列按 FIFO 唤醒，不会饿死任何获取方。
//
// 连接在 Acquire 中惰性拨号，对端可能尚未开始监听，
// 因此拨号按 RetryInterval 重试，直到成功或调用方取消 ctx；
// 设置了 DialTimeout 时到期也会停止。
// 一次 Acquire 只服务一帧写入，写完立即 Release；写失败则 Discard。
package pool
