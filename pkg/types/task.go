package types

import (
	"encoding/binary"

	"lukechampine.com/blake3"
)

// taskIDMask 保证派生结果非负
const taskIDMask = uint64(1)<<63 - 1

// TaskIDPrf 任务编号伪随机函数
//
// 基于 BLAKE3 keyed hash，把 (taskID, ptoID) 映射为 63 位非负编号，
// 使独立运行的协议实例（包括同类协议的重复运行）不会在包头上碰撞。
type TaskIDPrf struct {
	key [32]byte
}

// NewTaskIDPrf 以任意长度的密钥创建 PRF
//
// 密钥先经 BLAKE3 压缩为 32 字节。
func NewTaskIDPrf(key []byte) *TaskIDPrf {
	return &TaskIDPrf{key: blake3.Sum256(key)}
}

// EncodeTaskID 派生包头中的 EncodeTaskID
func (p *TaskIDPrf) EncodeTaskID(taskID int64, ptoID int32) int64 {
	var in [12]byte
	binary.BigEndian.PutUint64(in[:8], uint64(taskID))
	binary.BigEndian.PutUint32(in[8:], uint32(ptoID))

	h := blake3.New(8, p.key[:])
	_, _ = h.Write(in[:])
	out := h.Sum(nil)
	return int64(binary.BigEndian.Uint64(out) & taskIDMask)
}
