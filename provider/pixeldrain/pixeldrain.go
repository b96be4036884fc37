// Package pixeldrain extracts files from Pixeldrain file and list pages.
package pixeldrain

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/megaloader/megaloader/auth"
	"github.com/megaloader/megaloader/key"
	"github.com/megaloader/megaloader/log"
	"github.com/megaloader/megaloader/network"
	"github.com/megaloader/megaloader/source"
	"github.com/spf13/viper"
	"github.com/tidwall/gjson"
)

const ID = "pixeldrain"

var fileURL = "https://pixeldrain.com/api/file/"

// Mirrors that serve pixeldrain files without the per-IP rate limit.
var proxyHosts = []string{
	"pd1.sriflix.my", "pd2.sriflix.my", "pd3.sriflix.my", "pd4.sriflix.my", "pd5.sriflix.my",
	"pd6.sriflix.my", "pd7.sriflix.my", "pd8.sriflix.my", "pd9.sriflix.my", "pd10.sriflix.my",
}

var viewerDataPattern = regexp.MustCompile(`(?s)window\.viewer_data\s*=\s*(\{.*?\});`)

// Extractor honors the options "api_key" and "use_proxy".
type Extractor struct {
	url      string
	apiKey   string
	useProxy bool
	session  *network.Session

	next int
}

func New(rawURL string, opts source.Options) (source.Extractor, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, &source.InvalidInputError{Field: "url", Reason: err.Error()}
	}

	if !strings.HasPrefix(u.Path, "/u/") && !strings.HasPrefix(u.Path, "/l/") {
		return nil, &source.InvalidInputError{Field: "url", Reason: "expected a pixeldrain /u/ file or /l/ list link"}
	}

	e := &Extractor{
		url:      u.String(),
		useProxy: opts.Bool("use_proxy", viper.GetBool(key.PixeldrainUseProxy)),
	}
	e.apiKey, _ = auth.Resolve(opts, ID, "api_key")

	e.session = network.NewSession(network.OptionsFromConfig(), func(s *network.Session) error {
		if e.apiKey != "" {
			s.SetHeader("Authorization", basicAuth(e.apiKey))
		}
		return nil
	})

	return e, nil
}

func (e *Extractor) Name() string {
	return ID
}

func (e *Extractor) Extract(ctx context.Context) iter.Seq2[source.Item, error] {
	return source.Generate(ctx, ID, e.url, e.extract)
}

func (e *Extractor) extract(ctx context.Context, yield func(source.Item) bool) error {
	page, err := network.Text(e.session.Get(ctx, e.url))
	if err != nil {
		if network.IsStatus(err, http.StatusUnauthorized, http.StatusForbidden) {
			reason := "api key required"
			if e.apiKey != "" {
				reason = "api key rejected"
			}
			return &source.CredentialError{Extractor: ID, Reason: reason, Err: err}
		}
		return err
	}

	match := viewerDataPattern.FindStringSubmatch(page)
	if match == nil || !gjson.Valid(match[1]) {
		return fmt.Errorf("viewer data not found on %s", e.url)
	}

	data := gjson.Parse(match[1])
	response := data.Get("api_response")

	if data.Get("type").String() == "list" && response.Get("files").Exists() {
		title := response.Get("title").String()
		files := response.Get("files").Array()
		log.Debugf("pixeldrain: list %q with %d files", title, len(files))

		for _, file := range files {
			item, err := e.item(file, title)
			if err != nil {
				log.Warnf("pixeldrain: skipping %s: %v", file.Get("id").String(), err)
				continue
			}
			if !yield(item) {
				return nil
			}
		}
		return nil
	}

	if !response.Get("name").Exists() {
		return fmt.Errorf("no file in viewer data of %s", e.url)
	}

	item, err := e.item(response, "")
	if err != nil {
		return err
	}
	yield(item)
	return nil
}

func (e *Extractor) item(file gjson.Result, collection string) (source.Item, error) {
	id := file.Get("id").String()
	if id == "" {
		return source.Item{}, fmt.Errorf("file without id")
	}

	opts := []source.ItemOption{
		source.WithCollection(collection),
		source.WithSourceID(id),
	}
	if size := file.Get("size"); size.Exists() {
		opts = append(opts, source.WithSize(size.Int()))
	}

	if !e.useProxy && e.apiKey != "" {
		opts = append(opts, source.WithHeader("Authorization", basicAuth(e.apiKey)))
	}

	return source.NewItem(e.downloadURL(id), file.Get("name").String(), opts...)
}

// downloadURL rotates through the proxy hosts when enabled.
func (e *Extractor) downloadURL(id string) string {
	if !e.useProxy {
		return fileURL + url.PathEscape(id)
	}

	host := proxyHosts[e.next%len(proxyHosts)]
	e.next++
	return "https://" + host + "/api/file/" + url.PathEscape(id) + "?download"
}

func basicAuth(apiKey string) string {
	return network.BasicAuth("", apiKey)
}
