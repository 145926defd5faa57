package unit

import (
	"strings"
	"unicode/utf8"
)

// Record is an immutable snapshot of one unit as reported by the management tool.
// A unit that changes state is represented by a new Record.
type Record struct {
	Name        string    `json:"name" yaml:"name"`
	Load        LoadState `json:"load" yaml:"load"`
	State       State     `json:"state" yaml:"state"`
	SubState    string    `json:"subState" yaml:"subState"`
	Description string    `json:"description" yaml:"description"`
}

// NotFound returns the sentinel record used when a unit line names a unit
// but carries no usable status columns.
func NotFound(name string) Record {
	return Record{
		Name:  name,
		Load:  LoadNotFound,
		State: StateUnknown,
	}
}

// Stem returns the name up to the last dot ("sshd" for "sshd.service").
func (r Record) Stem() string {
	stem, _ := SplitName(r.Name)
	return stem
}

// Suffix returns the unit type suffix including the dot (".service").
func (r Record) Suffix() string {
	_, suffix := SplitName(r.Name)
	return suffix
}

// Actions returns the control actions valid for the record's current state.
func (r Record) Actions() ActionSet {
	return Available(r.State)
}

// SplitName splits a unit name at its last dot. Names without a dot have an empty suffix.
func SplitName(name string) (stem, suffix string) {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return name, ""
	}
	return name[:idx], name[idx:]
}

// Truncate shortens s to max runes, appending "..." when it was cut.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}
