package downloader

import (
	"errors"
	"fmt"

	"github.com/megaloader/megaloader/source"
)

// ErrSizeMismatch is reported when the received byte count differs from the
// size an extractor declared.
var ErrSizeMismatch = errors.New("size mismatch")

// ErrStalled is reported when a transfer receives nothing for longer than
// the inactivity timeout.
var ErrStalled = errors.New("transfer stalled")

// DownloadError records why a single item could not be stored.
type DownloadError struct {
	Item source.Item
	Path string
	Err  error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: %v", e.Item.Filename, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

func (e *DownloadError) Is(target error) bool {
	return target == source.ErrDownload
}
