package downloader

import (
	"os"
	"regexp"

	"github.com/megaloader/megaloader/filesystem"
	"github.com/megaloader/megaloader/log"
)

var tempPattern = regexp.MustCompile(`^\..+\.[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.part$`)

// CleanTemp removes partial files left under dir by interrupted runs and
// returns how many were deleted.
func CleanTemp(dir string) (int, error) {
	fs := filesystem.API()

	var removed int
	err := fs.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !tempPattern.MatchString(info.Name()) {
			return nil
		}

		if err := fs.Remove(path); err != nil {
			return err
		}

		log.Debugf("removed partial file %s", path)
		removed++
		return nil
	})

	return removed, err
}
