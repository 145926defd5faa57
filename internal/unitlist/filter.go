package unitlist

import (
	"strings"
	"sync/atomic"

	"golang.org/x/text/cases"

	"github.com/trly/servicedeck/internal/unit"
)

// Filter keeps records whose name or description contains the search term,
// ignoring case. An empty term matches everything.
type Filter struct {
	term atomic.Pointer[string]
}

// NewFilter creates a filter with an empty term.
func NewFilter() *Filter {
	f := &Filter{}
	empty := ""
	f.term.Store(&empty)
	return f
}

// SetTerm replaces the search term. It reports whether the folded term changed.
func (f *Filter) SetTerm(term string) bool {
	folded := cases.Fold().String(term)
	old := f.term.Swap(&folded)
	return old == nil || *old != folded
}

// Term returns the current case-folded term.
func (f *Filter) Term() string {
	if t := f.term.Load(); t != nil {
		return *t
	}
	return ""
}

// Match reports whether r passes the filter.
func (f *Filter) Match(r unit.Record) bool {
	return f.match(cases.Fold(), f.Term(), r)
}

// Apply returns the records that pass the filter, preserving order.
func (f *Filter) Apply(records []unit.Record) []unit.Record {
	term := f.Term()
	out := make([]unit.Record, 0, len(records))
	if term == "" {
		return append(out, records...)
	}

	fold := cases.Fold()
	for _, r := range records {
		if f.match(fold, term, r) {
			out = append(out, r)
		}
	}
	return out
}

func (f *Filter) match(fold cases.Caser, term string, r unit.Record) bool {
	if term == "" {
		return true
	}
	return strings.Contains(fold.String(r.Name), term) ||
		strings.Contains(fold.String(r.Description), term)
}
