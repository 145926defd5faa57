package unitlist

import (
	"slices"

	"github.com/trly/servicedeck/internal/unit"
)

// View is the filtered, sorted projection of a Collection. It recomputes
// its rows when the collection, the term or the sort order changes.
type View struct {
	collection *Collection
	filter     *Filter
	sorter     *Sorter
	rows       []unit.Record
	listeners  []Listener
}

// NewView wires a view to collection and computes the initial rows.
func NewView(collection *Collection, filter *Filter, sorter *Sorter) *View {
	v := &View{
		collection: collection,
		filter:     filter,
		sorter:     sorter,
	}
	collection.Subscribe(v.Refresh)
	v.rows = v.compute()
	return v
}

// Subscribe registers fn to run after the rows are recomputed.
func (v *View) Subscribe(fn Listener) {
	v.listeners = append(v.listeners, fn)
}

// Rows returns a copy of the visible rows.
func (v *View) Rows() []unit.Record {
	return slices.Clone(v.rows)
}

// Len returns the number of visible rows.
func (v *View) Len() int {
	return len(v.rows)
}

// Row returns the record at index i of the visible rows.
func (v *View) Row(i int) (unit.Record, bool) {
	if i < 0 || i >= len(v.rows) {
		return unit.Record{}, false
	}
	return v.rows[i], true
}

// Term returns the active search term.
func (v *View) Term() string {
	return v.filter.Term()
}

// SetTerm updates the search term, refreshing only when it changed.
func (v *View) SetTerm(term string) {
	if v.filter.SetTerm(term) {
		v.Refresh()
	}
}

// Sort returns the active sort column and direction.
func (v *View) Sort() (Column, bool) {
	return v.sorter.Column()
}

// SetSort selects a sort column and direction.
func (v *View) SetSort(column Column, descending bool) {
	if v.sorter.Set(column, descending) {
		v.Refresh()
	}
}

// ToggleSort sorts by column, flipping direction if it is already active.
func (v *View) ToggleSort(column Column) {
	v.sorter.Toggle(column)
	v.Refresh()
}

// Refresh recomputes the rows from the collection and notifies listeners.
func (v *View) Refresh() {
	v.rows = v.compute()
	for _, fn := range v.listeners {
		fn()
	}
}

func (v *View) compute() []unit.Record {
	return v.sorter.Sort(v.filter.Apply(v.collection.Records()))
}
