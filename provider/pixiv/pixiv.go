// Package pixiv extracts original-size images from pixiv artworks and
// user profiles.
package pixiv

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/megaloader/megaloader/auth"
	"github.com/megaloader/megaloader/log"
	"github.com/megaloader/megaloader/network"
	"github.com/megaloader/megaloader/source"
	"github.com/tidwall/gjson"
)

const ID = "pixiv"

// refererBase is what i.pximg.net expects in the Referer header.
const refererBase = "https://www.pixiv.net"

var siteURL = refererBase

var (
	artworkPattern = regexp.MustCompile(`/artworks/(\d+)`)
	userPattern    = regexp.MustCompile(`/users/(\d+)`)
)

// Extractor honors the option "session_id" (the PHPSESSID cookie), which
// unlocks restricted works.
type Extractor struct {
	url     string
	id      string
	artwork bool
	session *network.Session
}

func New(rawURL string, opts source.Options) (source.Extractor, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, &source.InvalidInputError{Field: "url", Reason: err.Error()}
	}

	e := &Extractor{url: u.String()}

	if match := artworkPattern.FindStringSubmatch(u.Path); match != nil {
		e.id, e.artwork = match[1], true
	} else if match := userPattern.FindStringSubmatch(u.Path); match != nil {
		e.id = match[1]
	} else if strings.HasSuffix(u.Path, "member.php") && u.Query().Get("id") != "" {
		e.id = u.Query().Get("id")
	} else {
		return nil, &source.InvalidInputError{Field: "url", Reason: "expected a pixiv artwork or user link"}
	}

	sessionID, _ := auth.Resolve(opts, ID, "session_id")
	e.session = network.NewSession(network.OptionsFromConfig(), func(s *network.Session) error {
		s.SetHeader("Referer", refererBase+"/")
		if sessionID == "" {
			return nil
		}
		log.Debug("pixiv: using session cookie")
		return s.SetCookie(siteURL, "PHPSESSID", sessionID)
	})

	return e, nil
}

func (e *Extractor) Name() string {
	return ID
}

func (e *Extractor) Extract(ctx context.Context) iter.Seq2[source.Item, error] {
	return source.Generate(ctx, ID, e.url, func(ctx context.Context, yield func(source.Item) bool) error {
		if e.artwork {
			_, err := e.extractArtwork(ctx, e.id, "", yield)
			return err
		}
		return e.extractUser(ctx, yield)
	})
}

var errAPI = errors.New("pixiv api error")

func (e *Extractor) api(ctx context.Context, endpoint string) (gjson.Result, error) {
	data, err := network.JSON(e.session.Get(ctx, siteURL+"/ajax"+endpoint))
	if err != nil {
		return gjson.Result{}, err
	}

	if data.Get("error").Bool() {
		return gjson.Result{}, fmt.Errorf("%w: %s", errAPI, data.Get("message").String())
	}

	return data.Get("body"), nil
}

// extractArtwork yields every page of an artwork and reports whether the
// consumer wants more.
func (e *Extractor) extractArtwork(ctx context.Context, id, collection string, yield func(source.Item) bool) (bool, error) {
	var originals []string

	pages, err := e.api(ctx, "/illust/"+id+"/pages")
	if err == nil {
		for _, page := range pages.Array() {
			originals = append(originals, page.Get("urls.original").String())
		}
	}

	var info gjson.Result
	if len(originals) == 0 || collection == "" {
		info, err = e.api(ctx, "/illust/"+id)
		if err != nil && len(originals) == 0 {
			return true, fmt.Errorf("artwork %s: %w", id, err)
		}
	}

	// single-page works may not expose /pages
	if len(originals) == 0 {
		if original := info.Get("urls.original").String(); original != "" {
			originals = append(originals, original)
		}
	}

	if len(originals) == 0 {
		return true, fmt.Errorf("artwork %s: no original images", id)
	}

	if collection == "" {
		user := info.Get("userName").String()
		if user == "" {
			user = "artwork"
		}
		collection = user + "_" + id
	}

	for n, original := range originals {
		if original == "" {
			continue
		}

		item, err := source.NewItem(
			original,
			fmt.Sprintf("%s_p%d%s", id, n, path.Ext(original)),
			source.WithCollection(collection),
			source.WithSourceID(id),
			source.WithHeader("Referer", refererBase+"/artworks/"+id),
		)
		if err != nil {
			log.Warnf("pixiv: skipping page %d of %s: %v", n, id, err)
			continue
		}

		if !yield(item) {
			return false, nil
		}
	}

	return true, nil
}

func (e *Extractor) extractUser(ctx context.Context, yield func(source.Item) bool) error {
	profile, err := e.api(ctx, "/user/"+e.id+"?full=1")
	if err != nil {
		return fmt.Errorf("user %s: %w", e.id, err)
	}

	name := profile.Get("name").String()
	if name == "" {
		name = e.id
	}
	collection := e.id + "_" + name

	images := []struct{ link, stem string }{
		{profile.Get("imageBig").String(), "avatar"},
		{profile.Get("background.url").String(), "cover"},
	}
	for _, image := range images {
		if image.link == "" {
			continue
		}

		item, err := source.NewItem(
			image.link,
			image.stem+path.Ext(image.link),
			source.WithCollection(collection),
			source.WithHeader("Referer", refererBase+"/"),
		)
		if err != nil {
			continue
		}
		if !yield(item) {
			return nil
		}
	}

	works, err := e.api(ctx, "/user/"+e.id+"/profile/all")
	if err != nil {
		return fmt.Errorf("works of %s: %w", e.id, err)
	}

	var ids []string
	for _, kind := range []string{"illusts", "manga"} {
		works.Get(kind).ForEach(func(id, _ gjson.Result) bool {
			ids = append(ids, id.String())
			return true
		})
	}

	log.Debugf("pixiv: user %s has %d works", e.id, len(ids))

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}

		more, err := e.extractArtwork(ctx, id, collection, yield)
		if err != nil {
			log.Warnf("pixiv: skipping artwork %s: %v", id, err)
			continue
		}
		if !more {
			return nil
		}
	}

	return nil
}
