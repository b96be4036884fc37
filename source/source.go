// Package source defines the extraction contract: the Item model, the
// Extractor interface every platform implements and the error taxonomy
// shared by extraction and download.
package source

import (
	"context"
	"iter"
)

// Extractor turns one URL into a lazy stream of items.
type Extractor interface {
	// Name returns the platform identifier, e.g. "gofile".
	Name() string

	// Extract returns the item sequence. Network activity starts on first
	// pull, and the sequence can be iterated only once.
	Extract(ctx context.Context) iter.Seq2[Item, error]
}

// Factory builds an extractor for a URL. It validates the URL shape only
// and never touches the network.
type Factory func(rawURL string, opts Options) (Extractor, error)
