// Package bunkr extracts files from Bunkr albums and file pages.
package bunkr

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"iter"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/megaloader/megaloader/log"
	"github.com/megaloader/megaloader/network"
	"github.com/megaloader/megaloader/source"
)

const ID = "bunkr"

var Domains = []string{
	"bunkr.si", "bunkr.la", "bunkr.is", "bunkr.ru", "bunkr.su",
	"bunkr.cr", "bunkr.fi", "bunkr.ph", "bunkr.pk", "bunkr.ps",
	"bunkr.ws", "bunkr.black", "bunkr.red", "bunkr.media", "bunkr.site",
}

// apiURL resolves file IDs to encrypted CDN links.
var apiURL = "https://apidl.bunkr.ru/api/_001_v2"

var (
	fileIDPattern = regexp.MustCompile(`/file/(\w+)`)
	ognamePattern = regexp.MustCompile(`var ogname\s*=\s*"([^"]+)"`)
)

type Extractor struct {
	url     string
	album   bool
	session *network.Session
}

// New accepts /a/<album> and /f/<file> links.
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
		e.album = true
	case strings.HasPrefix(u.Path, "/f/"), strings.HasPrefix(u.Path, "/v/"), strings.HasPrefix(u.Path, "/i/"):
	default:
		return nil, &source.InvalidInputError{Field: "url", Reason: "expected a bunkr /a/ album or /f/ file link"}
	}

	return e, nil
}

func (e *Extractor) Name() string {
	return ID
}

func (e *Extractor) Extract(ctx context.Context) iter.Seq2[source.Item, error] {
	return source.Generate(ctx, ID, e.url, func(ctx context.Context, yield func(source.Item) bool) error {
		if !e.album {
			item, err := e.file(ctx, e.url, "")
			if err != nil {
				return err
			}
			yield(item)
			return nil
		}

		return e.extractAlbum(ctx, yield)
	})
}

func (e *Extractor) extractAlbum(ctx context.Context, yield func(source.Item) bool) error {
	doc, err := network.Document(e.session.Get(ctx, e.url))
	if err != nil {
		return fmt.Errorf("album page: %w", err)
	}

	title := strings.TrimSpace(doc.Find(`meta[property="og:title"]`).AttrOr("content", ""))
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	seen := make(map[string]struct{})
	var links []string
	doc.Find(`a[href^="/f/"]`).Each(func(_ int, a *goquery.Selection) {
		href := a.AttrOr("href", "")
		// unrendered client-side templates
		if strings.Contains(href, "file.slug") || strings.Contains(href, "+") {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}

		link := doc.Url.ResolveReference(ref).String()
		if _, dup := seen[link]; dup {
			return
		}
		seen[link] = struct{}{}
		links = append(links, link)
	})

	if len(links) == 0 {
		log.Warnf("bunkr: no files found in %s", e.url)
		return nil
	}

	for _, link := range links {
		if err := ctx.Err(); err != nil {
			return err
		}

		item, err := e.file(ctx, link, title)
		if err != nil {
			log.Warnf("bunkr: skipping %s: %v", link, err)
			continue
		}

		if !yield(item) {
			return nil
		}
	}

	return nil
}

func (e *Extractor) file(ctx context.Context, pageURL, collection string) (source.Item, error) {
	doc, err := network.Document(e.session.Get(ctx, pageURL))
	if err != nil {
		return source.Item{}, fmt.Errorf("file page: %w", err)
	}

	var downloadPage string
	doc.Find("a.btn-main").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if strings.TrimSpace(a.Text()) != "Download" {
			return true
		}
		downloadPage = a.AttrOr("href", "")
		return false
	})

	if downloadPage == "" {
		return source.Item{}, fmt.Errorf("no download button on %s", pageURL)
	}

	match := fileIDPattern.FindStringSubmatch(downloadPage)
	if match == nil {
		return source.Item{}, fmt.Errorf("no file id in %s", downloadPage)
	}
	fileID := match[1]

	filename := filenameOf(doc)
	if filename == "" {
		filename = "bunkr_file_" + fileID
	}

	direct, err := e.directURL(ctx, fileID)
	if err != nil {
		return source.Item{}, err
	}

	return source.NewItem(
		direct+"?n="+url.PathEscape(filename),
		filename,
		source.WithCollection(collection),
		source.WithSourceID(fileID),
		source.WithHeader("Referer", pageURL),
	)
}

func filenameOf(doc *goquery.Document) string {
	if title, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}

	page, err := doc.Html()
	if err != nil {
		return ""
	}
	return ognameFrom(page)
}

func ognameFrom(page string) string {
	if match := ognamePattern.FindStringSubmatch(page); match != nil {
		return strings.TrimSpace(html.UnescapeString(match[1]))
	}
	return ""
}

func (e *Extractor) directURL(ctx context.Context, fileID string) (string, error) {
	data, err := network.JSON(e.session.PostJSON(ctx, apiURL, map[string]string{"id": fileID}))
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", fileID, err)
	}

	timestamp := data.Get("timestamp").Int()
	encrypted := data.Get("url").String()
	if encrypted == "" {
		return "", fmt.Errorf("resolve %s: empty url in api response", fileID)
	}

	return decrypt(encrypted, timestamp)
}

// decrypt reverses the API's XOR obfuscation, keyed by the hour of timestamp.
func decrypt(encoded string, timestamp int64) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode url: %w", err)
	}

	key := []byte("SECRET_KEY_" + strconv.FormatInt(timestamp/3600, 10))
	for i := range raw {
		raw[i] ^= key[i%len(key)]
	}

	return string(raw), nil
}
