package unit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseState(t *testing.T) {
	tests := []struct {
		raw  string
		want State
	}{
		{"active", StateActive},
		{"inactive", StateInactive},
		{"failed", StateFailed},
		{"activating", StateActivating},
		{"deactivating", StateDeactivating},
		{"maintenance", StateMaintenance},
		{"reloading", StateReloading},
		{" Active ", StateActive},
		{"bogus", StateUnknown},
		{"", StateUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseState(tt.raw), "raw=%q", tt.raw)
	}
}

func TestParseStateStrict(t *testing.T) {
	s, err := ParseStateStrict("failed")
	require.NoError(t, err)
	assert.Equal(t, StateFailed, s)

	_, err = ParseStateStrict("exploded")
	require.Error(t, err)
	assert.True(t, IsParseError(err))
	assert.Contains(t, err.Error(), "exploded")
}

func TestParseLoadState(t *testing.T) {
	assert.Equal(t, LoadLoaded, ParseLoadState("loaded"))
	assert.Equal(t, LoadMasked, ParseLoadState("masked"))
	assert.Equal(t, LoadNotFound, ParseLoadState("not-found"))
	assert.Equal(t, LoadBadSetting, ParseLoadState("bad-setting"))
	assert.Equal(t, LoadUnknown, ParseLoadState("whatever"))
	assert.Equal(t, "unknown", LoadUnknown.String())
}

func TestAvailable(t *testing.T) {
	assert.Equal(t, []Action{Stop, Restart, Disable}, Available(StateActive).List())
	assert.Equal(t, []Action{Start, Enable}, Available(StateInactive).List())

	for _, s := range []State{StateFailed, StateActivating, StateDeactivating, StateMaintenance, StateReloading, StateUnknown} {
		assert.True(t, Available(s).Empty(), "state %s should allow nothing", s)
	}
}

func TestAvailable_isPure(t *testing.T) {
	first := Available(StateActive)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, Available(StateActive))
	}
}

func TestActionSet(t *testing.T) {
	s := NewActionSet(Enable, Start)
	assert.True(t, s.Has(Start))
	assert.True(t, s.Has(Enable))
	assert.False(t, s.Has(Stop))
	assert.Equal(t, "start,enable", s.String())
	assert.True(t, ActionSet(0).Empty())
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("Restart")
	require.NoError(t, err)
	assert.Equal(t, Restart, a)
	assert.Equal(t, "Restart", a.Label())

	_, err = ParseAction("reload")
	assert.Error(t, err)
}

func TestRecord(t *testing.T) {
	r := Record{Name: "sshd.service", State: StateActive}
	assert.Equal(t, "sshd", r.Stem())
	assert.Equal(t, ".service", r.Suffix())
	assert.Equal(t, Available(StateActive), r.Actions())

	nf := NotFound("ghost.service")
	assert.Equal(t, LoadNotFound, nf.Load)
	assert.Equal(t, StateUnknown, nf.State)
	assert.True(t, nf.Actions().Empty())
}

func TestSplitName(t *testing.T) {
	stem, suffix := SplitName("dbus-org.freedesktop.login1.service")
	assert.Equal(t, "dbus-org.freedesktop.login1", stem)
	assert.Equal(t, ".service", suffix)

	stem, suffix = SplitName("noext")
	assert.Equal(t, "noext", stem)
	assert.Empty(t, suffix)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))
	assert.Equal(t, "日本...", Truncate("日本語テキスト", 2))
	assert.Equal(t, "keep", Truncate("keep", 0))
}

func TestRecord_JSON(t *testing.T) {
	data, err := json.Marshal(Record{Name: "a.service", Load: LoadLoaded, State: StateFailed})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"a.service","load":"loaded","state":"failed","subState":"","description":""}`, string(data))
}
