package downloader

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/megaloader/megaloader/source"
	"github.com/megaloader/megaloader/util"
)

// planner maps items to destinations. It is owned by the feeder goroutine,
// so claims need no locking.
type planner struct {
	target  string
	flat    bool
	filter  string
	claimed map[string]struct{}
}

func newPlanner(target string, cfg Config) *planner {
	return &planner{
		target:  target,
		flat:    cfg.Flat,
		filter:  cfg.Filter,
		claimed: make(map[string]struct{}),
	}
}

// plan returns the claimed destination of item, or ok=false when the
// filter rejects it.
func (p *planner) plan(item source.Item) (dest string, ok bool) {
	name := util.SanitizeFilename(item.Filename)

	if p.filter != "" {
		if matched, _ := path.Match(p.filter, name); !matched {
			return filepath.Join(p.target, name), false
		}
	}

	dir := p.target
	if collection, present := item.CollectionName.Get(); present && !p.flat {
		dir = filepath.Join(append([]string{dir}, collectionDirs(collection)...)...)
	}

	return p.claim(dir, name), true
}

// claim reserves a destination for this run. Paths are compared without
// case, as macOS and Windows filesystems do.
func (p *planner) claim(dir, name string) string {
	dest := filepath.Join(dir, name)
	if p.reserve(dest) {
		return dest
	}

	stem, ext := util.SplitExt(name)
	for i := 1; ; i++ {
		dest = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, i, ext))
		if p.reserve(dest) {
			return dest
		}
	}
}

func (p *planner) reserve(dest string) bool {
	k := strings.ToLower(dest)
	if _, taken := p.claimed[k]; taken {
		return false
	}
	p.claimed[k] = struct{}{}
	return true
}

// collectionDirs splits a collection name on "/" into sanitized directory
// names. Empty and dot segments are dropped so nothing escapes the target.
func collectionDirs(collection string) []string {
	var dirs []string
	for _, segment := range strings.Split(collection, "/") {
		segment = strings.TrimSpace(segment)
		if segment == "" || segment == "." || segment == ".." {
			continue
		}
		dirs = append(dirs, util.SanitizeFilename(segment))
	}
	return dirs
}
