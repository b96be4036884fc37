// Package cyberdrop extracts files from Cyberdrop albums and file links.
package cyberdrop

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/megaloader/megaloader/log"
	"github.com/megaloader/megaloader/network"
	"github.com/megaloader/megaloader/source"
)

const ID = "cyberdrop"

var Domains = []string{
	"cyberdrop.me", "cyberdrop.to", "cyberdrop.cc",
	"cyberdrop.nl", "cyberdrop.ch", "cyberdrop.cr",
}

var (
	apiURL  = "https://api.cyberdrop.cr/api/file"
	siteURL = "https://cyberdrop.cr/"
)

var fileIDPattern = regexp.MustCompile(`/f/(\w+)`)

type Extractor struct {
	url     string
	fileID  string
	session *network.Session
}

func New(rawURL string, _ source.Options) (source.Extractor, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, &source.InvalidInputError{Field: "url", Reason: err.Error()}
	}

	e := &Extractor{
		url:     u.String(),
		session: network.NewSession(network.OptionsFromConfig()),
	}

	switch {
	case strings.HasPrefix(u.Path, "/a/"):
	case strings.HasPrefix(u.Path, "/f/"):
		match := fileIDPattern.FindStringSubmatch(u.Path)
		if match == nil {
			return nil, &source.InvalidInputError{Field: "url", Reason: "missing file id"}
		}
		e.fileID = match[1]
	default:
		return nil, &source.InvalidInputError{Field: "url", Reason: "expected a cyberdrop /a/ album or /f/ file link"}
	}

	return e, nil
}

func (e *Extractor) Name() string {
	return ID
}

func (e *Extractor) Extract(ctx context.Context) iter.Seq2[source.Item, error] {
	return source.Generate(ctx, ID, e.url, func(ctx context.Context, yield func(source.Item) bool) error {
		if e.fileID != "" {
			item, err := e.file(ctx, e.fileID, "")
			if err != nil {
				return err
			}
			yield(item)
			return nil
		}

		return e.album(ctx, yield)
	})
}

func (e *Extractor) album(ctx context.Context, yield func(source.Item) bool) error {
	doc, err := network.Document(e.session.Get(ctx, e.url))
	if err != nil {
		return fmt.Errorf("album page: %w", err)
	}

	title := strings.TrimSpace(doc.Find("h1#title").First().Text())

	var ids []string
	doc.Find("a.file[href], a#file[href]").Each(func(_ int, a *goquery.Selection) {
		if match := fileIDPattern.FindStringSubmatch(a.AttrOr("href", "")); match != nil {
			ids = append(ids, match[1])
		}
	})

	log.Debugf("cyberdrop: %d files in %q", len(ids), title)

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}

		item, err := e.file(ctx, id, title)
		if err != nil {
			log.Warnf("cyberdrop: skipping %s: %v", id, err)
			continue
		}

		if !yield(item) {
			return nil
		}
	}

	return nil
}

func (e *Extractor) file(ctx context.Context, id, collection string) (source.Item, error) {
	info, err := network.JSON(e.session.Get(ctx, apiURL+"/info/"+id))
	if err != nil {
		return source.Item{}, fmt.Errorf("file info %s: %w", id, err)
	}

	name, authURL := info.Get("name").String(), info.Get("auth_url").String()
	if name == "" || authURL == "" {
		return source.Item{}, fmt.Errorf("file info %s: missing name or auth_url", id)
	}

	opts := []source.ItemOption{
		source.WithCollection(collection),
		source.WithSourceID(id),
		source.WithHeader("Referer", siteURL),
	}
	if size := info.Get("size"); size.Exists() {
		opts = append(opts, source.WithSize(size.Int()))
	}

	return source.NewItem(authURL, name, opts...)
}
