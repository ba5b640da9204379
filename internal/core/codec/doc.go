// Package codec 实现数据包的线上编解码
//
// 帧格式：
//
//	[uvarint 消息字节数][DataPacketProto]
//
// DataPacketProto 按 proto3 规则编码（字段号如下），零值标量省略，子消息始终写出：
//
//	message DataPacketProto {
//	  HeaderProto  header  = 1; // taskId=1 int64, ptoId=2 int32, stepId=3 int32,
//	                            // extraInfo=4 int64, senderId=5 int32, receiverId=6 int32
//	  TypeProto    type    = 2; // typeId=1 int32
//	  PayloadProto payload = 3; // repeated bytes payloadBytes=1
//	}
//
// EQUAL_SIZE 载荷在线上恰为两项：4 字节大端元素长度 L 与全部元素的拼接。
// L 为 0 时拼接为空无法还原元素个数，第二项改为 4 字节大端元素个数。
package codec
