// Package types 定义 go-mpcrpc 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他 go-mpcrpc 内部包。
// 所有类型都是值类型或创建后不可变的对象，用于在各模块间传递数据。
//
// # 文件组织
//
//   - party.go   - Party, PartySet 参与方定义
//   - header.go  - DataPacketHeader 六元组匹配键
//   - packet.go  - DataPacket, PayloadType 数据包与载荷类型
//   - task.go    - TaskIDPrf 任务 ID 伪随机函数
//   - errors.go  - 公共错误定义
//
// # 与 internal/core/codec 的区别
//
// pkg/types 定义 Go 内存结构（逻辑载荷），
// internal/core/codec 定义网络协议消息（wire format，含 EQUAL_SIZE 压缩）。
package types
