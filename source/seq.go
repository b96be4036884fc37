package source

import (
	"context"
	"iter"
	"sync/atomic"
)

// Body pushes items through yield and stops as soon as yield returns false.
type Body func(ctx context.Context, yield func(Item) bool) error

// Generate adapts a push-style body into a single-use item sequence.
// An error returned by the body becomes the final pair of the sequence,
// wrapped in an ExtractionError unless it is already classified.
func Generate(ctx context.Context, extractor, rawURL string, body Body) iter.Seq2[Item, error] {
	var consumed atomic.Bool

	return func(yield func(Item, error) bool) {
		if !consumed.CompareAndSwap(false, true) {
			yield(Item{}, ErrConsumed)
			return
		}

		stopped := false
		err := body(ctx, func(item Item) bool {
			if stopped {
				return false
			}
			if !yield(item, nil) {
				stopped = true
			}
			return !stopped
		})

		if stopped || err == nil {
			return
		}

		if !Classified(err) {
			err = &ExtractionError{Extractor: extractor, URL: rawURL, Err: err}
		}

		yield(Item{}, err)
	}
}

// Collect drains a sequence. It returns the items gathered before the first
// error together with that error.
func Collect(seq iter.Seq2[Item, error]) ([]Item, error) {
	var items []Item
	for item, err := range seq {
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
	return items, nil
}
