package types

import "fmt"

// DataPacketHeader 数据包头
//
// 六个字段共同构成整个系统唯一的匹配键：相等性与哈希覆盖全部字段，
// 任何地方都不做部分匹配。结构体可比较，可直接作为 map 键。
type DataPacketHeader struct {
	// EncodeTaskID 由 TaskIDPrf 派生的任务编号
	EncodeTaskID int64

	// PtoID 子协议编号
	PtoID int32

	// StepID 子协议内的步骤编号
	StepID int32

	// ExtraInfo 附加信息（如批次序号）
	ExtraInfo int64

	// SenderID 发送方编号
	SenderID int32

	// ReceiverID 接收方编号
	ReceiverID int32
}

// NewDataPacketHeader 创建数据包头
func NewDataPacketHeader(encodeTaskID int64, ptoID, stepID int32, extraInfo int64, senderID, receiverID int32) DataPacketHeader {
	return DataPacketHeader{
		EncodeTaskID: encodeTaskID,
		PtoID:        ptoID,
		StepID:       stepID,
		ExtraInfo:    extraInfo,
		SenderID:     senderID,
		ReceiverID:   receiverID,
	}
}

// String 返回便于日志显示的描述
func (h DataPacketHeader) String() string {
	return fmt.Sprintf("task=%d pto=%d step=%d extra=%d %d->%d",
		h.EncodeTaskID, h.PtoID, h.StepID, h.ExtraInfo, h.SenderID, h.ReceiverID)
}
