package downloader

import (
	"context"
	"io"
	"time"
)

// watchdog cancels a fetch once no data has arrived for timeout. The timer
// is armed by the first kick, so retries before the response are not counted.
type watchdog struct {
	cancel  context.CancelCauseFunc
	timer   *time.Timer
	timeout time.Duration
}

func newWatchdog(parent context.Context, timeout time.Duration) (context.Context, *watchdog) {
	ctx, cancel := context.WithCancelCause(parent)
	return ctx, &watchdog{cancel: cancel, timeout: timeout}
}

func (wd *watchdog) kick() {
	if wd.timeout <= 0 {
		return
	}
	if wd.timer == nil {
		wd.timer = time.AfterFunc(wd.timeout, func() { wd.cancel(ErrStalled) })
		return
	}
	wd.timer.Reset(wd.timeout)
}

func (wd *watchdog) stop() {
	if wd.timer != nil {
		wd.timer.Stop()
	}
	wd.cancel(nil)
}

// watchedReader kicks the watchdog on every read that returns data.
type watchedReader struct {
	r  io.Reader
	wd *watchdog
}

func (w *watchedReader) Read(p []byte) (int, error) {
	n, err := w.r.Read(p)
	if n > 0 {
		w.wd.kick()
	}
	return n, err
}
