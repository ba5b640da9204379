// Package buffer 实现数据包缓冲区
//
// 缓冲区把网络到达顺序与协议消费顺序解耦。入站分发协程调用 Put，
// 协议协程调用 Take（按完整包头匹配）或 TakeAny（按接收方匹配）。
//
// # 匹配规则
//
//   - 按包头六元组精确匹配，绝不部分匹配
//   - Put 时若已有同包头等待者，直接交付给最早的等待者；
//     其次交付给该接收方的 TakeAny 等待者；否则入队
//   - TakeAny 通过接收方索引取最早变为待领取的包头，无需扫描全表
//
// # 取消
//
// ctx 结束时 Take/TakeAny 返回 (nil, false)，撤销等待登记；
// 若数据包恰好已交付给该等待者，则重新放回缓冲区，不会丢失或被消费。
//
// 缓冲区无容量上限，不向写入方施加背压。
package buffer
