// Package fanbox extracts creator profile images and post attachments from
// pixivFANBOX.
package fanbox

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/megaloader/megaloader/auth"
	"github.com/megaloader/megaloader/log"
	"github.com/megaloader/megaloader/network"
	"github.com/megaloader/megaloader/source"
	"github.com/megaloader/megaloader/util"
	"github.com/tidwall/gjson"
)

const ID = "fanbox"

var apiURL = "https://api.fanbox.cc"

const profileFolder = "profile"

// Extractor honors the option "session_id" (the FANBOXSESSID cookie).
type Extractor struct {
	url       string
	creator   string
	sessionID string
	session   *network.Session
	seen      map[string]struct{}
}

func New(rawURL string, opts source.Options) (source.Extractor, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, &source.InvalidInputError{Field: "url", Reason: err.Error()}
	}

	creator := CreatorID(u)
	if creator == "" {
		return nil, &source.InvalidInputError{Field: "url", Reason: "no creator in fanbox link"}
	}

	sessionID, _ := auth.Resolve(opts, ID, "session_id")

	e := &Extractor{
		url:       u.String(),
		creator:   creator,
		sessionID: sessionID,
		seen:      make(map[string]struct{}),
	}

	e.session = network.NewSession(network.OptionsFromConfig(), func(s *network.Session) error {
		origin := "https://" + creator + ".fanbox.cc"
		s.SetHeader("Origin", origin)
		s.SetHeader("Referer", origin+"/")

		if sessionID == "" {
			return nil
		}
		log.Debug("fanbox: using session cookie")
		return s.SetCookie(apiURL, "FANBOXSESSID", sessionID)
	})

	return e, nil
}

// CreatorID reads the creator from creator.fanbox.cc or fanbox.cc/@creator.
func CreatorID(u *url.URL) string {
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if sub, ok := strings.CutSuffix(host, ".fanbox.cc"); ok && sub != "api" && !strings.Contains(sub, ".") {
		return sub
	}

	first, _, _ := strings.Cut(strings.Trim(u.Path, "/"), "/")
	return strings.TrimPrefix(first, "@")
}

func (e *Extractor) Name() string {
	return ID
}

func (e *Extractor) Extract(ctx context.Context) iter.Seq2[source.Item, error] {
	return source.Generate(ctx, ID, e.url, e.extract)
}

func (e *Extractor) extract(ctx context.Context, yield func(source.Item) bool) error {
	creator, err := e.api(ctx, apiURL+"/creator.get?creatorId="+url.QueryEscape(e.creator))
	if err != nil {
		return fmt.Errorf("creator %s: %w", e.creator, err)
	}

	profile := path.Join(e.creator, profileFolder)
	if icon := creator.Get("user.iconUrl").String(); icon != "" {
		if !e.emit(yield, icon, "avatar"+path.Ext(icon), profile) {
			return nil
		}
	}
	if cover := creator.Get("coverImageUrl").String(); cover != "" {
		if !e.emit(yield, cover, "banner"+path.Ext(cover), profile) {
			return nil
		}
	}

	pages, err := e.api(ctx, apiURL+"/post.paginateCreator?creatorId="+url.QueryEscape(e.creator))
	if err != nil {
		return fmt.Errorf("posts of %s: %w", e.creator, err)
	}

	for _, page := range pages.Array() {
		if err := ctx.Err(); err != nil {
			return err
		}

		posts, err := e.api(ctx, page.String())
		if err != nil {
			log.Warnf("fanbox: skipping page %s: %v", page.String(), err)
			continue
		}

		if items := posts.Get("items"); items.IsArray() {
			posts = items
		}

		for _, post := range posts.Array() {
			if !e.post(ctx, post.Get("id").String(), yield) {
				return nil
			}
		}
	}

	return nil
}

// post emits the attachments of one post and reports whether to continue.
func (e *Extractor) post(ctx context.Context, id string, yield func(source.Item) bool) bool {
	info, err := e.api(ctx, apiURL+"/post.info?postId="+url.QueryEscape(id))
	if err != nil {
		log.Warnf("fanbox: skipping post %s: %v", id, err)
		return ctx.Err() == nil
	}

	title := info.Get("title").String()
	if title == "" {
		title = "post_" + id
	}
	folder := path.Join(e.creator, id+"_"+truncate(util.SanitizeFilename(title), 100))

	body := info.Get("body")
	if !body.IsObject() {
		// restricted posts only expose their cover
		if cover := info.Get("coverImageUrl").String(); cover != "" {
			return e.emit(yield, cover, "cover"+path.Ext(cover), folder)
		}
		return true
	}

	for _, image := range append(body.Get("images").Array(), values(body.Get("imageMap"))...) {
		link := image.Get("originalUrl").String()
		if link == "" {
			continue
		}
		if !e.emit(yield, link, imageName(link), folder) {
			return false
		}
	}

	for _, file := range append(body.Get("files").Array(), values(body.Get("fileMap"))...) {
		link := file.Get("url").String()
		if link == "" {
			continue
		}
		name := file.Get("name").String() + "." + file.Get("extension").String()
		if !e.emit(yield, link, name, folder) {
			return false
		}
	}

	return true
}

func (e *Extractor) emit(yield func(source.Item) bool, link, filename, collection string) bool {
	if _, dup := e.seen[link]; dup {
		return true
	}
	e.seen[link] = struct{}{}

	opts := []source.ItemOption{
		source.WithCollection(collection),
		source.WithHeader("Referer", "https://"+e.creator+".fanbox.cc/"),
	}
	// attachments on downloads.fanbox.cc check the session too
	if e.sessionID != "" {
		opts = append(opts, source.WithHeader("Cookie", "FANBOXSESSID="+e.sessionID))
	}

	item, err := source.NewItem(link, filename, opts...)
	if err != nil {
		log.Warnf("fanbox: skipping %s: %v", link, err)
		return true
	}

	return yield(item)
}

// api fetches an endpoint and returns its body. 403 means the post is
// behind a plan the session does not have.
func (e *Extractor) api(ctx context.Context, endpoint string) (gjson.Result, error) {
	data, err := network.JSON(e.session.Get(ctx, endpoint))
	if err != nil {
		if network.IsStatus(err, http.StatusForbidden) {
			return gjson.Result{}, fmt.Errorf("access forbidden: %w", err)
		}
		return gjson.Result{}, err
	}
	return data.Get("body"), nil
}

func values(object gjson.Result) []gjson.Result {
	var out []gjson.Result
	object.ForEach(func(_, value gjson.Result) bool {
		out = append(out, value)
		return true
	})
	return out
}

func imageName(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return "image.jpg"
	}

	name := path.Base(u.Path)
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	if name == "" || name == "/" || name == "." {
		return "image.jpg"
	}
	return name
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
