package protocol

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_Handshake(t *testing.T) {
	d, err := Lookup(HandshakePtoID)
	require.NoError(t, err)
	assert.Equal(t, "RPC_HANDSHAKE", d.Name)
	assert.Len(t, d.Steps, 6)

	assert.Equal(t, "CLIENT_CONNECT", d.StepName(StepClientConnect))
	assert.Equal(t, "SERVER_FINISH", d.StepName(StepServerFinish))
	assert.Equal(t, "STEP_9", d.StepName(9))
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup(12345)
	assert.ErrorIs(t, err, ErrUnknownProtocol)
	assert.Panics(t, func() { MustLookup(12345) })
}

func TestRegister_Duplicate(t *testing.T) {
	assert.Panics(t, func() { register(Desc{ID: HandshakePtoID, Name: "dup"}) })
}

func TestHandshakeTaskID(t *testing.T) {
	assert.Equal(t, int64(math.MaxInt64), HandshakeTaskID(0))
	assert.Equal(t, int64(math.MaxInt64-3), HandshakeTaskID(3))
	assert.NotEqual(t, HandshakeTaskID(1), HandshakeTaskID(2))
}
