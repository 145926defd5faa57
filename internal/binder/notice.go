package binder

import (
	"fmt"

	"github.com/trly/servicedeck/internal/unit"
)

// Level is the severity of a Notice.
type Level int

// Notice levels.
const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a user-visible outcome of an action. A notice with a non-nil
// Record carries the unit's refreshed state.
type Notice struct {
	Level   Level
	Message string
	Record  *unit.Record
	Err     error
}

// IsError reports whether the notice reports a failure.
func (n Notice) IsError() bool {
	return n.Level == LevelError
}

func infof(format string, args ...any) Notice {
	return Notice{Level: LevelInfo, Message: fmt.Sprintf(format, args...)}
}

func errorNotice(err error, format string, args ...any) Notice {
	return Notice{Level: LevelError, Message: fmt.Sprintf(format, args...) + ": " + err.Error(), Err: err}
}

var pastTense = map[unit.Action]string{
	unit.Start:   "Started",
	unit.Stop:    "Stopped",
	unit.Restart: "Restarted",
	unit.Enable:  "Enabled",
	unit.Disable: "Disabled",
}
