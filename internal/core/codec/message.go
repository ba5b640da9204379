package codec

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/dep2p/go-mpcrpc/pkg/types"
)

// 字段号
const (
	fieldHeader  protowire.Number = 1
	fieldType    protowire.Number = 2
	fieldPayload protowire.Number = 3

	fieldTaskID     protowire.Number = 1
	fieldPtoID      protowire.Number = 2
	fieldStepID     protowire.Number = 3
	fieldExtraInfo  protowire.Number = 4
	fieldSenderID   protowire.Number = 5
	fieldReceiverID protowire.Number = 6

	fieldTypeID protowire.Number = 1

	fieldPayloadBytes protowire.Number = 1
)

// Encode 把数据包编码为 DataPacketProto 字节
func Encode(packet *types.DataPacket) ([]byte, error) {
	if packet == nil {
		return nil, fmt.Errorf("%w: packet is nil", ErrMalformedMessage)
	}
	if err := packet.Validate(); err != nil {
		return nil, err
	}

	entries := packet.Payload
	if packet.Type == types.PayloadEqualSize {
		var err error
		if entries, err = CompactEqualSize(packet.Payload); err != nil {
			return nil, err
		}
	}

	header := appendHeader(nil, packet.Header)
	var typ []byte
	typ = appendInt32(typ, fieldTypeID, int32(packet.Type))
	var payload []byte
	for _, e := range entries {
		payload = protowire.AppendTag(payload, fieldPayloadBytes, protowire.BytesType)
		payload = protowire.AppendBytes(payload, e)
	}

	size := protowire.SizeTag(fieldHeader) + protowire.SizeBytes(len(header)) +
		protowire.SizeTag(fieldType) + protowire.SizeBytes(len(typ)) +
		protowire.SizeTag(fieldPayload) + protowire.SizeBytes(len(payload))
	out := make([]byte, 0, size)
	out = appendMessage(out, fieldHeader, header)
	out = appendMessage(out, fieldType, typ)
	out = appendMessage(out, fieldPayload, payload)
	return out, nil
}

func appendHeader(b []byte, h types.DataPacketHeader) []byte {
	b = appendInt64(b, fieldTaskID, h.EncodeTaskID)
	b = appendInt32(b, fieldPtoID, h.PtoID)
	b = appendInt32(b, fieldStepID, h.StepID)
	b = appendInt64(b, fieldExtraInfo, h.ExtraInfo)
	b = appendInt32(b, fieldSenderID, h.SenderID)
	b = appendInt32(b, fieldReceiverID, h.ReceiverID)
	return b
}

// appendInt64 按 proto3 规则写 int64，零值省略
func appendInt64(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

// appendInt32 按 proto3 规则写 int32，负数符号扩展为 64 位
func appendInt32(b []byte, num protowire.Number, v int32) []byte {
	return appendInt64(b, num, int64(v))
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

// Decode 把 DataPacketProto 字节解码为数据包
//
// 返回的载荷为展开后的逻辑载荷，元素切片可能与输入共享底层数组。
func Decode(data []byte) (*types.DataPacket, error) {
	packet := &types.DataPacket{Payload: [][]byte{}}

	err := walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if typ != protowire.BytesType {
			return skip(num, typ, b)
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}
		switch num {
		case fieldHeader:
			h, err := decodeHeader(v)
			if err != nil {
				return 0, err
			}
			packet.Header = h
		case fieldType:
			t, err := decodeType(v)
			if err != nil {
				return 0, err
			}
			packet.Type = t
		case fieldPayload:
			entries, err := decodePayload(v)
			if err != nil {
				return 0, err
			}
			packet.Payload = append(packet.Payload, entries...)
		}
		return n, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	if !packet.Type.Valid() {
		return nil, fmt.Errorf("%w: %w: %d", ErrMalformedMessage, types.ErrUnknownPayloadType, int32(packet.Type))
	}
	if packet.Type == types.PayloadEqualSize {
		expanded, err := ExpandEqualSize(packet.Payload)
		if err != nil {
			return nil, err
		}
		packet.Payload = expanded
	}
	if err := packet.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedMessage, err)
	}
	return packet, nil
}

func decodeHeader(data []byte) (types.DataPacketHeader, error) {
	var h types.DataPacketHeader
	err := walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if typ != protowire.VarintType {
			return skip(num, typ, b)
		}
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}
		switch num {
		case fieldTaskID:
			h.EncodeTaskID = int64(v)
		case fieldPtoID:
			h.PtoID = int32(v)
		case fieldStepID:
			h.StepID = int32(v)
		case fieldExtraInfo:
			h.ExtraInfo = int64(v)
		case fieldSenderID:
			h.SenderID = int32(v)
		case fieldReceiverID:
			h.ReceiverID = int32(v)
		}
		return n, nil
	})
	return h, err
}

func decodeType(data []byte) (types.PayloadType, error) {
	var t types.PayloadType
	err := walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != fieldTypeID || typ != protowire.VarintType {
			return skip(num, typ, b)
		}
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}
		t = types.PayloadType(int32(v))
		return n, nil
	})
	return t, err
}

func decodePayload(data []byte) ([][]byte, error) {
	var entries [][]byte
	err := walk(data, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num != fieldPayloadBytes || typ != protowire.BytesType {
			return skip(num, typ, b)
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}
		entries = append(entries, v)
		return n, nil
	})
	return entries, err
}

// walk 遍历消息中的字段，fn 返回消费的字节数
func walk(data []byte, fn func(num protowire.Number, typ protowire.Type, b []byte) (int, error)) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		m, err := fn(num, typ, data)
		if err != nil {
			return err
		}
		data = data[m:]
	}
	return nil
}

// skip 跳过未知字段
func skip(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
	n := protowire.ConsumeFieldValue(num, typ, b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	return n, nil
}
