// Package version looks up the latest published release.
package version

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/megaloader/megaloader/filesystem"
	"github.com/megaloader/megaloader/network"
	"github.com/megaloader/megaloader/where"
	"github.com/metafates/gache"
)

var releasesURL = "https://api.github.com/repos/megaloader/megaloader/releases/latest"

// ReleaseURL links to the release page of v.
func ReleaseURL(v string) string {
	return "https://github.com/megaloader/megaloader/releases/tag/v" + v
}

var cacher = sync.OnceValue(func() *gache.Cache[string] {
	return gache.New[string](&gache.Options{
		Path:       filepath.Join(where.Cache(), "version.json"),
		Lifetime:   48 * time.Hour,
		FileSystem: &filesystem.GacheFs{},
	})
})

// Latest returns the newest release version without the "v" prefix.
// Answers are cached for two days.
func Latest(ctx context.Context) (string, error) {
	if cached, expired, err := cacher().Get(); err == nil && !expired && cached != "" {
		return cached, nil
	}

	session := network.NewSession(network.Options{Timeout: 5 * time.Second, MaxRetries: 1})
	release, err := network.JSON(session.Get(ctx, releasesURL, network.WithHeader("Accept", "application/vnd.github+json")))
	if err != nil {
		return "", err
	}

	tag := release.Get("tag_name").String()
	if tag == "" {
		return "", errors.New("empty tag name")
	}

	latest := strings.TrimPrefix(tag, "v")
	_ = cacher().Set(latest)
	return latest, nil
}

// Compare orders two major.minor.patch versions like cmp.Compare.
func Compare(a, b string) (int, error) {
	parse := func(s string) ([3]int, error) {
		var v [3]int
		_, err := fmt.Sscanf(strings.TrimPrefix(s, "v"), "%d.%d.%d", &v[0], &v[1], &v[2])
		if err != nil {
			return v, fmt.Errorf("parse version %q: %w", s, err)
		}
		return v, nil
	}

	av, err := parse(a)
	if err != nil {
		return 0, err
	}
	bv, err := parse(b)
	if err != nil {
		return 0, err
	}

	for i := range av {
		if av[i] != bv[i] {
			if av[i] > bv[i] {
				return 1, nil
			}
			return -1, nil
		}
	}
	return 0, nil
}
