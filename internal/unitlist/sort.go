package unitlist

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/trly/servicedeck/internal/unit"
)

// Column identifies a sortable column.
type Column int

// Columns in display order.
const (
	ColumnName Column = iota
	ColumnLoad
	ColumnState
	ColumnSubState
	ColumnDescription
)

// Columns lists every column in display order.
var Columns = []Column{ColumnName, ColumnLoad, ColumnState, ColumnSubState, ColumnDescription}

var columnKeys = [...]string{
	ColumnName:        "name",
	ColumnLoad:        "load",
	ColumnState:       "state",
	ColumnSubState:    "sub",
	ColumnDescription: "description",
}

var columnTitles = [...]string{
	ColumnName:        "UNIT",
	ColumnLoad:        "LOAD",
	ColumnState:       "ACTIVE",
	ColumnSubState:    "SUB",
	ColumnDescription: "DESCRIPTION",
}

// String returns the configuration key for the column.
func (c Column) String() string {
	if c < 0 || int(c) >= len(columnKeys) {
		return "unknown"
	}
	return columnKeys[c]
}

// Title returns the column header.
func (c Column) Title() string {
	if c < 0 || int(c) >= len(columnTitles) {
		return ""
	}
	return columnTitles[c]
}

// ParseColumn accepts a column key or header, case-insensitively.
// "unit", "active" and "substate" are accepted as aliases.
func ParseColumn(raw string) (Column, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch v {
	case "unit":
		return ColumnName, nil
	case "active":
		return ColumnState, nil
	case "substate":
		return ColumnSubState, nil
	}
	for i, key := range columnKeys {
		if key == v {
			return Column(i), nil
		}
	}
	return ColumnName, fmt.Errorf("unknown sort column %q", raw)
}

// CompareNames orders unit names by type suffix first, then by stem.
// Both comparisons are case-sensitive.
func CompareNames(a, b string) int {
	aStem, aSuffix := unit.SplitName(a)
	bStem, bSuffix := unit.SplitName(b)
	if c := strings.Compare(aSuffix, bSuffix); c != 0 {
		return c
	}
	return strings.Compare(aStem, bStem)
}

// Sorter orders records by one column. The zero value sorts by name ascending.
type Sorter struct {
	column     Column
	descending bool
}

// NewSorter creates a sorter for column.
func NewSorter(column Column, descending bool) *Sorter {
	return &Sorter{column: column, descending: descending}
}

// Column returns the active column and direction.
func (s *Sorter) Column() (Column, bool) {
	return s.column, s.descending
}

// Set selects column and direction. It reports whether anything changed.
func (s *Sorter) Set(column Column, descending bool) bool {
	if s.column == column && s.descending == descending {
		return false
	}
	s.column, s.descending = column, descending
	return true
}

// Toggle selects column ascending, or flips direction if column is already active.
func (s *Sorter) Toggle(column Column) {
	if s.column == column {
		s.descending = !s.descending
		return
	}
	s.column, s.descending = column, false
}

// Compare orders a and b by the active column and direction.
func (s *Sorter) Compare(a, b unit.Record) int {
	return s.compare(cases.Fold(), a, b)
}

// Sort returns a sorted copy of records. Equal records keep their input order.
func (s *Sorter) Sort(records []unit.Record) []unit.Record {
	out := slices.Clone(records)
	fold := cases.Fold()
	slices.SortStableFunc(out, func(a, b unit.Record) int {
		return s.compare(fold, a, b)
	})
	return out
}

func (s *Sorter) compare(fold cases.Caser, a, b unit.Record) int {
	var c int
	switch s.column {
	case ColumnLoad:
		c = foldCompare(fold, a.Load.String(), b.Load.String())
	case ColumnState:
		c = foldCompare(fold, a.State.String(), b.State.String())
	case ColumnSubState:
		c = foldCompare(fold, a.SubState, b.SubState)
	case ColumnDescription:
		c = foldCompare(fold, a.Description, b.Description)
	default:
		c = CompareNames(a.Name, b.Name)
	}
	if s.descending {
		return -c
	}
	return c
}

func foldCompare(fold cases.Caser, a, b string) int {
	return strings.Compare(fold.String(a), fold.String(b))
}
