package gofile

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/megaloader/megaloader/filesystem"
	"github.com/megaloader/megaloader/key"
	"github.com/megaloader/megaloader/log"
	"github.com/megaloader/megaloader/network"
	"github.com/megaloader/megaloader/where"
	"github.com/metafates/gache"
	"github.com/spf13/viper"
)

var websiteTokenPattern = regexp.MustCompile(`\.wt\s*=\s*"([^"]+)"`)

// the website token is shared by every visitor and rotates rarely
var websiteTokens = sync.OnceValue(func() *gache.Cache[string] {
	ttl := viper.GetDuration(key.GofileWebsiteTokenTTL)
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return gache.New[string](&gache.Options{
		Path:       where.GofileToken(),
		Lifetime:   ttl,
		FileSystem: &filesystem.GacheFs{},
	})
})

var errNoWebsiteToken = errors.New("website token not found in global.js")

func websiteToken(ctx context.Context, session *network.Session) (string, error) {
	cache := websiteTokens()

	token, expired, err := cache.Get()
	if err != nil {
		log.Debugf("gofile: website token cache: %v", err)
	}
	if err == nil && !expired && token != "" {
		return token, nil
	}

	script, err := network.Text(session.Get(ctx, siteURL+"/dist/js/global.js"))
	if err != nil {
		return "", fmt.Errorf("website token: %w", err)
	}

	match := websiteTokenPattern.FindStringSubmatch(script)
	if match == nil {
		return "", errNoWebsiteToken
	}

	if err := cache.Set(match[1]); err != nil {
		log.Warnf("gofile: caching website token: %v", err)
	}

	return match[1], nil
}
