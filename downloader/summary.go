package downloader

import (
	"errors"
	"slices"

	"github.com/megaloader/megaloader/source"
)

// Status is the outcome of one item.
type Status int

const (
	StatusFetched Status = iota
	StatusSkipped
	StatusFailed
	StatusFiltered
)

func (s Status) String() string {
	switch s {
	case StatusFetched:
		return "fetched"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	case StatusFiltered:
		return "filtered"
	default:
		return "unknown"
	}
}

// Result is the per-item record of a run. Index is the position of the item
// in the extracted sequence.
type Result struct {
	Index  int
	Item   source.Item
	Path   string
	Status Status
	Bytes  int64
	Err    error
}

// Summary aggregates a run. Results and Failures follow extraction order.
type Summary struct {
	Fetched  int
	Skipped  int
	Failed   int
	Filtered int

	// Bytes counts what was written during this run.
	Bytes int64

	Failures []*DownloadError
	Results  []Result
}

// OK reports whether no item failed.
func (s *Summary) OK() bool {
	return s.Failed == 0
}

// Total is the number of items the run saw.
func (s *Summary) Total() int {
	return s.Fetched + s.Skipped + s.Failed + s.Filtered
}

func (s *Summary) add(r Result) {
	switch r.Status {
	case StatusFetched:
		s.Fetched++
		s.Bytes += r.Bytes
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	case StatusFiltered:
		s.Filtered++
	}
	s.Results = append(s.Results, r)
}

func (s *Summary) finish() {
	slices.SortFunc(s.Results, func(a, b Result) int {
		return a.Index - b.Index
	})

	s.Failures = s.Failures[:0]
	for _, r := range s.Results {
		if r.Status != StatusFailed {
			continue
		}

		failure := &DownloadError{Item: r.Item, Path: r.Path, Err: r.Err}
		errors.As(r.Err, &failure)
		s.Failures = append(s.Failures, failure)
	}
}
