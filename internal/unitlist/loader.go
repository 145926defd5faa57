package unitlist

import (
	"context"

	"github.com/trly/servicedeck/internal/unit"
)

// Lister is the part of a unit source the loader needs.
type Lister interface {
	ListUnits(ctx context.Context) ([]unit.Record, error)
}

// LoadResult is the outcome of one background listing.
type LoadResult struct {
	Records []unit.Record
	Err     error
}

// Load lists units on a background goroutine. The returned channel has
// capacity one, receives exactly one result and is then closed, so the
// producer never blocks on a slow consumer.
func Load(ctx context.Context, source Lister) <-chan LoadResult {
	ch := make(chan LoadResult, 1)
	go func() {
		defer close(ch)
		records, err := source.ListUnits(ctx)
		ch <- LoadResult{Records: records, Err: err}
	}()
	return ch
}
