package unit

import (
	"fmt"
	"strings"
)

// Action is a control operation that can be issued against a unit.
type Action int

// Control actions, in display order.
const (
	Start Action = iota
	Stop
	Restart
	Enable
	Disable
)

// AllActions lists every action in display order.
var AllActions = []Action{Start, Stop, Restart, Enable, Disable}

var actionNames = [...]string{
	Start:   "start",
	Stop:    "stop",
	Restart: "restart",
	Enable:  "enable",
	Disable: "disable",
}

// String returns the systemctl verb for the action.
func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// Label returns the action name for display ("Start").
func (a Action) Label() string {
	s := a.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// ParseAction maps a systemctl verb to an Action.
func ParseAction(raw string) (Action, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	for i, name := range actionNames {
		if name == v {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", raw)
}

// ActionSet is a set of actions.
type ActionSet uint8

// NewActionSet builds a set from the given actions.
func NewActionSet(actions ...Action) ActionSet {
	var s ActionSet
	for _, a := range actions {
		s |= 1 << uint(a)
	}
	return s
}

// Has reports whether a is in the set.
func (s ActionSet) Has(a Action) bool {
	return s&(1<<uint(a)) != 0
}

// Empty reports whether the set has no actions.
func (s ActionSet) Empty() bool {
	return s == 0
}

// List returns the actions in display order.
func (s ActionSet) List() []Action {
	var out []Action
	for _, a := range AllActions {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

// String renders the set as a comma separated list of verbs.
func (s ActionSet) String() string {
	names := make([]string, 0, len(AllActions))
	for _, a := range s.List() {
		names = append(names, a.String())
	}
	return strings.Join(names, ",")
}

// Available returns the actions that are valid for a unit in state s.
// Transitional, failed and unknown states allow nothing.
func Available(s State) ActionSet {
	switch s {
	case StateActive:
		return NewActionSet(Stop, Restart, Disable)
	case StateInactive:
		return NewActionSet(Start, Enable)
	default:
		return 0
	}
}
