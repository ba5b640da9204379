package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataPacketHeader_Equality(t *testing.T) {
	base := NewDataPacketHeader(7, 42, 1, 0, 0, 1)

	variants := []DataPacketHeader{
		NewDataPacketHeader(8, 42, 1, 0, 0, 1),
		NewDataPacketHeader(7, 43, 1, 0, 0, 1),
		NewDataPacketHeader(7, 42, 2, 0, 0, 1),
		NewDataPacketHeader(7, 42, 1, 1, 0, 1),
		NewDataPacketHeader(7, 42, 1, 0, 2, 1),
		NewDataPacketHeader(7, 42, 1, 0, 0, 2),
	}

	m := map[DataPacketHeader]int{base: 1}
	for _, v := range variants {
		assert.NotEqual(t, base, v)
		_, ok := m[v]
		assert.False(t, ok, "任何字段不同都不应命中: %s", v)
	}
	assert.Equal(t, 1, m[NewDataPacketHeader(7, 42, 1, 0, 0, 1)])
}

func TestPayloadType_String(t *testing.T) {
	assert.Equal(t, "NORMAL", PayloadNormal.String())
	assert.Equal(t, "EMPTY", PayloadEmpty.String())
	assert.Equal(t, "SINGLETON", PayloadSingleton.String())
	assert.Equal(t, "EQUAL_SIZE", PayloadEqualSize.String())
	assert.Equal(t, "PayloadType(9)", PayloadType(9).String())
	assert.False(t, PayloadType(9).Valid())
}

func TestDataPacket_Constructors(t *testing.T) {
	h := NewDataPacketHeader(1, 2, 3, 4, 0, 1)

	p := NewDataPacket(h, nil)
	assert.Equal(t, PayloadNormal, p.Type)
	assert.NotNil(t, p.Payload)
	assert.NoError(t, p.Validate())

	e := NewEmptyDataPacket(h)
	assert.Equal(t, PayloadEmpty, e.Type)
	assert.Empty(t, e.Payload)
	assert.NoError(t, e.Validate())

	s := NewSingletonDataPacket(h, []byte("x"))
	assert.Equal(t, PayloadSingleton, s.Type)
	assert.Equal(t, [][]byte{[]byte("x")}, s.Payload)
	assert.NoError(t, s.Validate())

	eq, err := NewEqualSizeDataPacket(h, [][]byte{{1, 2}, {3, 4}})
	require.NoError(t, err)
	assert.Equal(t, PayloadEqualSize, eq.Type)
	assert.Equal(t, int64(4), eq.PayloadByteLength())

	_, err = NewEqualSizeDataPacket(h, [][]byte{{1}, {2, 3}})
	assert.ErrorIs(t, err, ErrUnequalSize)
}

func TestDataPacket_Validate(t *testing.T) {
	h := NewDataPacketHeader(1, 2, 3, 4, 0, 1)

	bad := []*DataPacket{
		{Header: h, Type: PayloadEmpty, Payload: [][]byte{{1}}},
		{Header: h, Type: PayloadSingleton, Payload: [][]byte{}},
		{Header: h, Type: PayloadSingleton, Payload: [][]byte{{1}, {2}}},
		{Header: h, Type: PayloadEqualSize, Payload: [][]byte{{1}, {}}},
		{Header: h, Type: PayloadType(7)},
	}
	for _, p := range bad {
		assert.Error(t, p.Validate(), "type=%s", p.Type)
	}
}
