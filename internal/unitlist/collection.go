// Package unitlist holds the in-memory unit collection and the filter and
// sort stages that turn it into the rows shown to the user.
package unitlist

import (
	"slices"

	"github.com/trly/servicedeck/internal/unit"
)

// Listener is notified after a collection or view changes.
type Listener func()

// Collection is the ordered set of unit records from the last listing.
// It is owned by a single goroutine; mutations build the new slice before
// swapping it in, so listeners always see a complete collection.
type Collection struct {
	records   []unit.Record
	listeners []Listener
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{}
}

// Subscribe registers fn to run after every mutation.
func (c *Collection) Subscribe(fn Listener) {
	c.listeners = append(c.listeners, fn)
}

// Records returns a copy of the records in arrival order.
func (c *Collection) Records() []unit.Record {
	return slices.Clone(c.records)
}

// Len returns the number of records.
func (c *Collection) Len() int {
	return len(c.records)
}

// Get returns the record with the given name.
func (c *Collection) Get(name string) (unit.Record, bool) {
	for _, r := range c.records {
		if r.Name == name {
			return r, true
		}
	}
	return unit.Record{}, false
}

// ReplaceAll swaps in records and notifies once.
func (c *Collection) ReplaceAll(records []unit.Record) {
	c.records = slices.Clone(records)
	c.notify()
}

// Append adds records in order and notifies once, even when records is empty.
func (c *Collection) Append(records []unit.Record) {
	next := make([]unit.Record, 0, len(c.records)+len(records))
	next = append(next, c.records...)
	next = append(next, records...)
	c.records = next
	c.notify()
}

// Replace swaps the record sharing r's name for r, keeping its position.
// It reports false, without notifying, when no such record exists.
func (c *Collection) Replace(r unit.Record) bool {
	idx := slices.IndexFunc(c.records, func(existing unit.Record) bool {
		return existing.Name == r.Name
	})
	if idx < 0 {
		return false
	}

	next := slices.Clone(c.records)
	next[idx] = r
	c.records = next
	c.notify()
	return true
}

func (c *Collection) notify() {
	for _, fn := range c.listeners {
		fn()
	}
}
