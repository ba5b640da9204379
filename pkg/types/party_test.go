package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParties() []Party {
	return []Party{
		{ID: 2, Name: "P_2", Host: "127.0.0.1", Port: 9002},
		{ID: 0, Name: "P_0", Host: "127.0.0.1", Port: 9000},
		{ID: 1, Name: "P_1", Host: "127.0.0.1", Port: 9001},
	}
}

func TestParty_Validate(t *testing.T) {
	tests := []struct {
		name    string
		party   Party
		wantErr bool
	}{
		{"valid", Party{ID: 0, Name: "a", Host: "localhost", Port: 1}, false},
		{"negative id", Party{ID: -1, Name: "a", Host: "localhost", Port: 1}, true},
		{"blank name", Party{ID: 0, Name: "  ", Host: "localhost", Port: 1}, true},
		{"blank host", Party{ID: 0, Name: "a", Host: "", Port: 1}, true},
		{"zero port", Party{ID: 0, Name: "a", Host: "localhost", Port: 0}, true},
		{"port overflow", Party{ID: 0, Name: "a", Host: "localhost", Port: 70000}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.party.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidParty)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParty_Addr(t *testing.T) {
	p := Party{ID: 3, Name: "P_3", Host: "::1", Port: 8080}
	assert.Equal(t, "[::1]:8080", p.Addr())
}

func TestNewPartySet(t *testing.T) {
	set, err := NewPartySet(1, testParties()...)
	require.NoError(t, err)

	assert.Equal(t, int32(1), set.Own().ID)
	assert.Equal(t, 3, set.Size())
	assert.True(t, set.Contains(2))
	assert.False(t, set.Contains(5))

	ids := make([]int32, 0, 3)
	for _, p := range set.Parties() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int32{0, 1, 2}, ids, "Parties 应按编号升序")

	others := set.Others()
	require.Len(t, others, 2)
	assert.Equal(t, int32(0), others[0].ID)
	assert.Equal(t, int32(2), others[1].ID)

	p, ok := set.Party(2)
	require.True(t, ok)
	assert.Equal(t, "P_2", p.Name)
}

func TestNewPartySet_Errors(t *testing.T) {
	t.Run("too few", func(t *testing.T) {
		_, err := NewPartySet(0, Party{ID: 0, Name: "a", Host: "h", Port: 1})
		assert.ErrorIs(t, err, ErrTooFewParties)
	})

	t.Run("own missing", func(t *testing.T) {
		_, err := NewPartySet(7, testParties()...)
		assert.ErrorIs(t, err, ErrOwnPartyMissing)
	})

	t.Run("duplicate", func(t *testing.T) {
		parties := append(testParties(), Party{ID: 1, Name: "dup", Host: "h", Port: 1})
		_, err := NewPartySet(0, parties...)
		assert.ErrorIs(t, err, ErrDuplicateParty)
	})

	t.Run("invalid member", func(t *testing.T) {
		parties := append(testParties(), Party{ID: 4, Name: "", Host: "h", Port: 1})
		_, err := NewPartySet(0, parties...)
		assert.ErrorIs(t, err, ErrInvalidParty)
	})
}

func TestPartySet_WithOwn(t *testing.T) {
	set, err := NewPartySet(0, testParties()...)
	require.NoError(t, err)

	other, err := set.WithOwn(2)
	require.NoError(t, err)
	assert.Equal(t, int32(2), other.Own().ID)
	assert.Equal(t, set.Parties(), other.Parties())
}
