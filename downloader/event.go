package downloader

import (
	"sync"

	"github.com/megaloader/megaloader/source"
)

type EventKind int

const (
	// EventStarted fires when a worker begins fetching an item.
	EventStarted EventKind = iota
	// EventProgress carries the bytes received since the previous event.
	EventProgress
	// EventDone fires once per item with its final Result.
	EventDone
)

type Event struct {
	Kind EventKind
	Item source.Item
	Path string

	// Total is the declared size, or -1 when unknown.
	Total int64
	Bytes int64

	// Result is set for EventDone.
	Result *Result
}

type emitter struct {
	mu sync.Mutex
	fn func(Event)
}

func (e *emitter) emit(event Event) {
	if e.fn == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fn(event)
}

// progressWriter reports every write as an EventProgress.
type progressWriter struct {
	emitter *emitter
	item    source.Item
	path    string
	total   int64
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.emitter.emit(Event{
		Kind:  EventProgress,
		Item:  p.item,
		Path:  p.path,
		Total: p.total,
		Bytes: int64(len(b)),
	})
	return len(b), nil
}
