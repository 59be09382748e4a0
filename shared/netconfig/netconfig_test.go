package netconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlayerState_AliveMask(t *testing.T) {
	for _, s := range []PlayerState{StateMovable, StateBusy, StateFiring} {
		assert.True(t, s.IsAlive(), s.String())
	}
	for _, s := range []PlayerState{StateNone, StateDisabled, StateDead} {
		assert.False(t, s.IsAlive(), s.String())
	}
}

func TestPlayerState_Distinct(t *testing.T) {
	seen := map[PlayerState]bool{}
	for _, s := range []PlayerState{StateDisabled, StateMovable, StateBusy, StateFiring, StateDead} {
		assert.False(t, seen[s], "duplicate state value %d", s)
		seen[s] = true
	}
}

func TestMatchStateID_String(t *testing.T) {
	assert.Equal(t, "waiting", MatchStateWaiting.String())
	assert.Equal(t, "playing", MatchStatePlaying.String())
	assert.Equal(t, "finished", MatchStateFinished.String())
	assert.Equal(t, "unknown", MatchStateID(9).String())
}
