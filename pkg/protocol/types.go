package protocol

import (
	"errors"
	"fmt"
)

// ErrUnknownProtocol 未注册的协议
var ErrUnknownProtocol = errors.New("unknown protocol")

// Desc 协议描述符
type Desc struct {
	// ID 协议编号
	ID int32

	// Name 协议名称
	Name string

	// Steps 步骤名称，下标即 StepID
	Steps []string
}

// StepName 返回步骤名称
func (d Desc) StepName(stepID int32) string {
	if stepID < 0 || int(stepID) >= len(d.Steps) {
		return fmt.Sprintf("STEP_%d", stepID)
	}
	return d.Steps[stepID]
}

// table 协议编号 -> 描述符，仅在 init 阶段写入
var table = map[int32]Desc{}

// register 注册描述符，仅供 init 使用
func register(d Desc) {
	if _, exists := table[d.ID]; exists {
		panic(fmt.Sprintf("protocol: duplicate protocol id %d (%s)", d.ID, d.Name))
	}
	table[d.ID] = d
}

// Lookup 查找协议描述符
func Lookup(id int32) (Desc, error) {
	d, ok := table[id]
	if !ok {
		return Desc{}, fmt.Errorf("%w: %d", ErrUnknownProtocol, id)
	}
	return d, nil
}

// MustLookup 查找协议描述符，未注册时 panic
func MustLookup(id int32) Desc {
	d, err := Lookup(id)
	if err != nil {
		panic(err)
	}
	return d
}
