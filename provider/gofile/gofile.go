// Package gofile extracts files from Gofile folders, including password
// protected and nested ones.
package gofile

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"iter"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/megaloader/megaloader/auth"
	"github.com/megaloader/megaloader/log"
	"github.com/megaloader/megaloader/network"
	"github.com/megaloader/megaloader/source"
	"github.com/megaloader/megaloader/util"
	"github.com/tidwall/gjson"
)

const ID = "gofile"

var (
	apiURL  = "https://api.gofile.io"
	siteURL = "https://gofile.io"
)

var contentIDPattern = regexp.MustCompile(`^/(?:d|f)/([\w-]+)`)

// Extractor honors the options "password" and "token" (an account token
// used instead of a fresh guest account).
type Extractor struct {
	url          string
	contentID    string
	passwordHash string
	opts         source.Options
	session      *network.Session

	// accountToken is exchanged once per extractor
	accountToken string
}

func New(rawURL string, opts source.Options) (source.Extractor, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, &source.InvalidInputError{Field: "url", Reason: err.Error()}
	}

	match := contentIDPattern.FindStringSubmatch(u.Path)
	if match == nil {
		return nil, &source.InvalidInputError{Field: "url", Reason: "expected a gofile /d/<id> link"}
	}

	e := &Extractor{
		url:       u.String(),
		contentID: match[1],
		opts:      opts,
		session:   network.NewSession(network.OptionsFromConfig()),
	}

	if password, ok := auth.Resolve(opts, ID, "password"); ok {
		e.passwordHash = HashPassword(password)
	}

	return e, nil
}

// HashPassword returns the hex SHA-256 digest the API expects.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func (e *Extractor) Name() string {
	return ID
}

func (e *Extractor) Extract(ctx context.Context) iter.Seq2[source.Item, error] {
	return source.Generate(ctx, ID, e.url, e.extract)
}

type folder struct {
	id         string
	collection string
}

func (e *Extractor) extract(ctx context.Context, yield func(source.Item) bool) error {
	wt, err := websiteToken(ctx, e.session)
	if err != nil {
		return err
	}

	token, err := e.token(ctx)
	if err != nil {
		return err
	}

	root, err := e.contents(ctx, e.contentID, wt, token)
	if err != nil {
		return err
	}

	if root.Get("type").String() == "file" {
		item, err := e.item(root, "", token)
		if err != nil {
			return err
		}
		yield(item)
		return nil
	}

	var pending util.Stack[folder]
	data := root
	current := folder{id: e.contentID, collection: nameOr(root, e.contentID)}

	for {
		files, folders := children(data)
		if len(files) == 0 && len(folders) == 0 && current.id == e.contentID {
			log.Warnf("gofile: %s is empty", e.contentID)
		}

		for _, child := range files {
			item, err := e.item(child, current.collection, token)
			if err != nil {
				log.Warnf("gofile: skipping %s: %v", child.Get("id").String(), err)
				continue
			}
			if !yield(item) {
				return nil
			}
		}

		// reversed so that folders are visited in listing order
		for i := len(folders) - 1; i >= 0; i-- {
			sub := folders[i]
			pending.Push(folder{
				id:         sub.Get("id").String(),
				collection: path.Join(current.collection, nameOr(sub, sub.Get("id").String())),
			})
		}

		next, ok := pending.Pop()
		if !ok {
			return nil
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		for {
			data, err = e.contents(ctx, next.id, wt, token)
			if err == nil {
				current = next
				break
			}

			log.Warnf("gofile: skipping folder %s: %v", next.id, err)
			if next, ok = pending.Pop(); !ok {
				return nil
			}
		}
	}
}

func nameOr(data gjson.Result, fallback string) string {
	if name := data.Get("name").String(); name != "" {
		return name
	}
	return fallback
}

// children splits a folder listing, following childrenIds when present.
func children(data gjson.Result) (files, folders []gjson.Result) {
	all := data.Get("children")

	var ordered []gjson.Result
	if ids := data.Get("childrenIds"); ids.IsArray() {
		for _, id := range ids.Array() {
			if child := all.Get(gjson.Escape(id.String())); child.Exists() {
				ordered = append(ordered, child)
			}
		}
	} else {
		all.ForEach(func(_, child gjson.Result) bool {
			ordered = append(ordered, child)
			return true
		})
	}

	for _, child := range ordered {
		switch child.Get("type").String() {
		case "file":
			files = append(files, child)
		case "folder":
			folders = append(folders, child)
		}
	}
	return files, folders
}

func (e *Extractor) item(file gjson.Result, collection, token string) (source.Item, error) {
	opts := []source.ItemOption{
		source.WithCollection(collection),
		source.WithSourceID(file.Get("id").String()),
		source.WithHeader("Cookie", "accountToken="+token),
	}
	if size := file.Get("size"); size.Exists() {
		opts = append(opts, source.WithSize(size.Int()))
	}

	return source.NewItem(file.Get("link").String(), file.Get("name").String(), opts...)
}

// token returns the account token, creating a guest account on first use.
func (e *Extractor) token(ctx context.Context) (string, error) {
	if e.accountToken != "" {
		return e.accountToken, nil
	}

	if token, ok := auth.Resolve(e.opts, ID, "token"); ok {
		e.accountToken = token
		return token, nil
	}

	data, err := network.JSON(e.session.Fetch(ctx, http.MethodPost, apiURL+"/accounts", nil))
	if err != nil {
		return "", fmt.Errorf("create guest account: %w", err)
	}

	if status := data.Get("status").String(); status != "ok" {
		return "", fmt.Errorf("create guest account: status %q", status)
	}

	e.accountToken = data.Get("data.token").String()
	if e.accountToken == "" {
		return "", fmt.Errorf("create guest account: empty token")
	}

	return e.accountToken, nil
}

func (e *Extractor) contents(ctx context.Context, id, wt, token string) (gjson.Result, error) {
	query := url.Values{"wt": {wt}}
	if e.passwordHash != "" {
		query.Set("password", e.passwordHash)
	}

	req, err := network.NewRequest(ctx, http.MethodGet, apiURL+"/contents/"+url.PathEscape(id)+"?"+query.Encode(), nil, network.WithBearer(token))
	if err != nil {
		return gjson.Result{}, err
	}

	resp, err := e.session.Do(req)
	if err != nil {
		return gjson.Result{}, err
	}

	// error statuses carry a JSON body describing the failure
	body, err := network.Bytes(resp, nil)
	if err != nil {
		return gjson.Result{}, err
	}

	if !gjson.ValidBytes(body) {
		if resp.StatusCode >= http.StatusBadRequest {
			return gjson.Result{}, &network.StatusError{Code: resp.StatusCode, Status: resp.Status, URL: req.URL.Redacted()}
		}
		return gjson.Result{}, network.ErrInvalidJSON
	}

	result := gjson.ParseBytes(body)
	switch status := result.Get("status").String(); status {
	case "ok":
	case "error-passwordRequired":
		return gjson.Result{}, &source.CredentialError{Extractor: ID, Reason: "password required"}
	case "error-passwordWrong":
		return gjson.Result{}, &source.CredentialError{Extractor: ID, Reason: "wrong password"}
	default:
		return gjson.Result{}, fmt.Errorf("contents %s: %s", id, status)
	}

	data := result.Get("data")
	// newer api versions report protection inside data
	if data.Get("password").Bool() && data.Get("passwordStatus").String() != "passwordOk" && !data.Get("children").Exists() {
		if e.passwordHash == "" {
			return gjson.Result{}, &source.CredentialError{Extractor: ID, Reason: "password required"}
		}
		return gjson.Result{}, &source.CredentialError{Extractor: ID, Reason: "wrong password"}
	}

	return data, nil
}
