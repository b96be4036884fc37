package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/megaloader/megaloader/filesystem"
	"github.com/megaloader/megaloader/network"
	"github.com/megaloader/megaloader/util"
)

const tempSuffix = ".part"

func tempName(dest string) string {
	return filepath.Join(filepath.Dir(dest), fmt.Sprintf(".%s.%s%s", filepath.Base(dest), uuid.NewString(), tempSuffix))
}

// exists reports whether dest already holds the item. A file of unknown
// declared size is trusted as is.
func exists(j job) bool {
	stat, err := filesystem.API().Stat(j.dest)
	if err != nil || !stat.Mode().IsRegular() {
		return false
	}

	size, known := j.item.SizeBytes.Get()
	return !known || stat.Size() == size
}

// fetch streams the item into a temporary file next to its destination
// and renames it into place once complete.
func (r *run) fetch(ctx context.Context, j job) (written int64, err error) {
	fs := filesystem.API()

	if err := fs.MkdirAll(filepath.Dir(j.dest), os.ModePerm); err != nil {
		return 0, fmt.Errorf("create directory: %w", err)
	}

	ctx, wd := newWatchdog(ctx, r.cfg.InactivityTimeout)
	defer wd.stop()

	req, err := network.NewRequest(ctx, http.MethodGet, j.item.DownloadURL, nil, network.WithHeaders(j.item.HeaderMap()))
	if err != nil {
		return 0, err
	}

	resp, err := r.cfg.Session.Stream(req)
	if err != nil {
		return 0, err
	}
	if err := network.CheckStatus(resp); err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	wd.kick()

	tmp := tempName(j.dest)
	file, err := fs.Create(tmp)
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			util.Ignore(func() error { return fs.Remove(tmp) })
		}
	}()

	total := j.item.SizeBytes.OrElse(-1)
	progress := &progressWriter{emitter: r.events, item: j.item, path: j.dest, total: total}

	written, err = io.Copy(file, io.TeeReader(&watchedReader{r: resp.Body, wd: wd}, progress))
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if errors.Is(context.Cause(ctx), ErrStalled) {
			err = fmt.Errorf("%w after %s: %w", ErrStalled, r.cfg.InactivityTimeout, err)
		}
		return written, fmt.Errorf("write %s: %w", filepath.Base(j.dest), err)
	}

	if total >= 0 && written != total {
		return written, fmt.Errorf("%w: received %d bytes, expected %d", ErrSizeMismatch, written, total)
	}

	if err = fs.Rename(tmp, j.dest); err != nil {
		return written, fmt.Errorf("move into place: %w", err)
	}

	return written, nil
}
