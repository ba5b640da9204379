package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/dep2p/go-mpcrpc/pkg/types"
)

// MaxEmptyElements 元素长度为 0 时允许的最大元素个数
//
// 此时线上只有一个 4 字节计数，解码方按计数分配切片头，必须设上限。
const MaxEmptyElements = 1 << 20

// CompactEqualSize 把等长元素列表压缩为 [长度, 拼接] 两项
func CompactEqualSize(payload [][]byte) ([][]byte, error) {
	length, err := types.EqualElementLength(payload)
	if err != nil {
		return nil, err
	}
	if uint64(length) > math.MaxUint32 || uint64(len(payload)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d elements of %d bytes", ErrMalformedEqualSize, len(payload), length)
	}

	lengthBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(lengthBytes, uint32(length))

	if length == 0 {
		if len(payload) > MaxEmptyElements {
			return nil, fmt.Errorf("%w: %d empty elements, limit %d", ErrMalformedEqualSize, len(payload), MaxEmptyElements)
		}
		countBytes := make([]byte, 4)
		binary.BigEndian.PutUint32(countBytes, uint32(len(payload)))
		return [][]byte{lengthBytes, countBytes}, nil
	}

	data := make([]byte, 0, length*len(payload))
	for _, e := range payload {
		data = append(data, e...)
	}
	return [][]byte{lengthBytes, data}, nil
}

// ExpandEqualSize 把 [长度, 拼接] 两项还原为等长元素列表
func ExpandEqualSize(wire [][]byte) ([][]byte, error) {
	if len(wire) != 2 {
		return nil, fmt.Errorf("%w: %d entries, expected 2", ErrMalformedEqualSize, len(wire))
	}
	if len(wire[0]) != 4 {
		return nil, fmt.Errorf("%w: length entry has %d bytes, expected 4", ErrMalformedEqualSize, len(wire[0]))
	}
	length := int(binary.BigEndian.Uint32(wire[0]))
	data := wire[1]

	if length == 0 {
		if len(data) != 4 {
			return nil, fmt.Errorf("%w: count entry has %d bytes, expected 4", ErrMalformedEqualSize, len(data))
		}
		count := binary.BigEndian.Uint32(data)
		if count > MaxEmptyElements {
			return nil, fmt.Errorf("%w: %d empty elements, limit %d", ErrMalformedEqualSize, count, MaxEmptyElements)
		}
		out := make([][]byte, count)
		for i := range out {
			out[i] = []byte{}
		}
		return out, nil
	}

	if len(data)%length != 0 {
		return nil, fmt.Errorf("%w: data length %d is not a multiple of %d", ErrMalformedEqualSize, len(data), length)
	}
	count := len(data) / length
	out := make([][]byte, count)
	for i := range out {
		// 限定容量，避免调用方 append 时覆盖相邻元素
		out[i] = data[i*length : (i+1)*length : (i+1)*length]
	}
	return out, nil
}
