// Package unit defines the unit record snapshot and the state-to-action policy.
package unit

import (
	"fmt"
	"strings"
)

// State is the active state of a systemd unit.
type State int

// Active states reported by systemd. StateUnknown covers anything the
// management tool prints that is not one of the documented values.
const (
	StateUnknown State = iota
	StateActive
	StateInactive
	StateFailed
	StateActivating
	StateDeactivating
	StateMaintenance
	StateReloading
)

var stateNames = map[State]string{
	StateActive:       "active",
	StateInactive:     "inactive",
	StateFailed:       "failed",
	StateActivating:   "activating",
	StateDeactivating: "deactivating",
	StateMaintenance:  "maintenance",
	StateReloading:    "reloading",
}

// String returns the systemd spelling of the state.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseState maps raw tool output to a State. Unrecognised input yields StateUnknown.
func ParseState(raw string) State {
	s, err := ParseStateStrict(raw)
	if err != nil {
		return StateUnknown
	}
	return s
}

// ParseStateStrict is like ParseState but reports unrecognised input.
func ParseStateStrict(raw string) (State, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	for s, name := range stateNames {
		if name == v {
			return s, nil
		}
	}
	return StateUnknown, &ParseError{Field: "state", Value: raw}
}

// LoadState reports whether the unit definition was loaded.
type LoadState int

// Load states reported by systemd.
const (
	LoadUnknown LoadState = iota
	LoadLoaded
	LoadMasked
	LoadNotFound
	LoadError
	LoadStub
	LoadMerged
	LoadBadSetting
)

var loadNames = map[LoadState]string{
	LoadLoaded:     "loaded",
	LoadMasked:     "masked",
	LoadNotFound:   "not-found",
	LoadError:      "error",
	LoadStub:       "stub",
	LoadMerged:     "merged",
	LoadBadSetting: "bad-setting",
}

// String returns the systemd spelling of the load state.
func (l LoadState) String() string {
	if name, ok := loadNames[l]; ok {
		return name
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (l LoadState) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ParseLoadState maps raw tool output to a LoadState.
func ParseLoadState(raw string) LoadState {
	v := strings.ToLower(strings.TrimSpace(raw))
	for l, name := range loadNames {
		if name == v {
			return l
		}
	}
	return LoadUnknown
}

// ParseError is returned when a state string is not a known value.
type ParseError struct {
	Field string
	Value string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("unrecognised %s %q", e.Field, e.Value)
}

// IsParseError checks if an error is a ParseError.
func IsParseError(err error) bool {
	_, ok := err.(*ParseError)
	return ok
}
