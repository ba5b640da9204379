// Package protocol 定义协议描述符静态注册表
//
// 每个协议由一个 Desc 描述：数值编号（出现在 DataPacketHeader.PtoID 中）、
// 名称以及按序排列的步骤名。注册表在包初始化时一次性填充，之后只读，
// 不支持运行时动态注册。
//
// 内部握手协议（CONNECT / SYNCHRONIZE / FINISH）也在此注册，
// 它本身就是以普通数据包承载的协议。
package protocol
