package types

import "fmt"

// ============================================================================
//                              PayloadType 载荷类型
// ============================================================================

// PayloadType 载荷类型
type PayloadType int32

const (
	// PayloadNormal 普通载荷，元素长度任意
	PayloadNormal PayloadType = 0

	// PayloadEmpty 空载荷
	PayloadEmpty PayloadType = 1

	// PayloadSingleton 单元素载荷
	PayloadSingleton PayloadType = 2

	// PayloadEqualSize 等长载荷，线上压缩为长度 + 拼接两段
	PayloadEqualSize PayloadType = 3
)

// String 返回载荷类型名称
func (t PayloadType) String() string {
	switch t {
	case PayloadNormal:
		return "NORMAL"
	case PayloadEmpty:
		return "EMPTY"
	case PayloadSingleton:
		return "SINGLETON"
	case PayloadEqualSize:
		return "EQUAL_SIZE"
	default:
		return fmt.Sprintf("PayloadType(%d)", int32(t))
	}
}

// Valid 判断是否为已知类型
func (t PayloadType) Valid() bool {
	return t >= PayloadNormal && t <= PayloadEqualSize
}

// ============================================================================
//                              DataPacket 数据包
// ============================================================================

// DataPacket 数据包
//
// Payload 始终是逻辑载荷（展开后的元素列表），压缩只发生在线上编码阶段。
type DataPacket struct {
	Header  DataPacketHeader
	Type    PayloadType
	Payload [][]byte
}

// NewDataPacket 创建 NORMAL 类型数据包
func NewDataPacket(header DataPacketHeader, payload [][]byte) *DataPacket {
	if payload == nil {
		payload = [][]byte{}
	}
	return &DataPacket{Header: header, Type: PayloadNormal, Payload: payload}
}

// NewEmptyDataPacket 创建 EMPTY 类型数据包
func NewEmptyDataPacket(header DataPacketHeader) *DataPacket {
	return &DataPacket{Header: header, Type: PayloadEmpty, Payload: [][]byte{}}
}

// NewSingletonDataPacket 创建 SINGLETON 类型数据包
func NewSingletonDataPacket(header DataPacketHeader, element []byte) *DataPacket {
	return &DataPacket{Header: header, Type: PayloadSingleton, Payload: [][]byte{element}}
}

// NewEqualSizeDataPacket 创建 EQUAL_SIZE 类型数据包
//
// 所有元素长度必须一致，否则返回 ErrUnequalSize。
func NewEqualSizeDataPacket(header DataPacketHeader, payload [][]byte) (*DataPacket, error) {
	if _, err := EqualElementLength(payload); err != nil {
		return nil, err
	}
	if payload == nil {
		payload = [][]byte{}
	}
	return &DataPacket{Header: header, Type: PayloadEqualSize, Payload: payload}, nil
}

// EqualElementLength 返回等长载荷的元素长度
//
// 空载荷的元素长度视为 0。
func EqualElementLength(payload [][]byte) (int, error) {
	if len(payload) == 0 {
		return 0, nil
	}
	length := len(payload[0])
	for i, e := range payload {
		if len(e) != length {
			return 0, fmt.Errorf("%w: element %d has length %d, expected %d", ErrUnequalSize, i, len(e), length)
		}
	}
	return length, nil
}

// Validate 校验载荷与类型是否一致
func (p *DataPacket) Validate() error {
	switch p.Type {
	case PayloadNormal:
		return nil
	case PayloadEmpty:
		if len(p.Payload) != 0 {
			return fmt.Errorf("%w: EMPTY packet carries %d elements, expected 0", ErrInvalidPayload, len(p.Payload))
		}
		return nil
	case PayloadSingleton:
		if len(p.Payload) != 1 {
			return fmt.Errorf("%w: SINGLETON packet carries %d elements, expected 1", ErrInvalidPayload, len(p.Payload))
		}
		return nil
	case PayloadEqualSize:
		_, err := EqualElementLength(p.Payload)
		return err
	default:
		return fmt.Errorf("%w: %d", ErrUnknownPayloadType, int32(p.Type))
	}
}

// PayloadByteLength 返回逻辑载荷总字节数
func (p *DataPacket) PayloadByteLength() int64 {
	var n int64
	for _, e := range p.Payload {
		n += int64(len(e))
	}
	return n
}
