package megaloader

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/megaloader/megaloader/downloader"
	"github.com/megaloader/megaloader/filesystem"
	"github.com/megaloader/megaloader/network"
	"github.com/megaloader/megaloader/provider"
	"github.com/megaloader/megaloader/source"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/zalando/go-keyring"
)

func init() {
	keyring.MockInit()
}

type album struct {
	base  string
	count int
}

func (a *album) Name() string {
	return "album"
}

func (a *album) Extract(ctx context.Context) iter.Seq2[source.Item, error] {
	return source.Generate(ctx, "album", a.base, func(ctx context.Context, yield func(source.Item) bool) error {
		for i := range a.count {
			item, err := source.NewItem(
				fmt.Sprintf("%s/%d", a.base, i),
				fmt.Sprintf("%d.txt", i),
				source.WithCollection("Album1"),
			)
			if err != nil {
				return err
			}
			if !yield(item) {
				return nil
			}
		}
		return nil
	})
}

func TestExtract(t *testing.T) {
	ctx := context.Background()

	Convey("Unsupported links should fail before any request", t, func() {
		_, _, err := Extract(ctx, "https://example.com/a/b", nil)
		So(errors.Is(err, source.ErrUnsupportedDomain), ShouldBeTrue)

		var unsupported *source.UnsupportedDomainError
		So(errors.As(err, &unsupported), ShouldBeTrue)
		So(unsupported.Host, ShouldEqual, "example.com")
	})

	Convey("Empty links should be invalid input", t, func() {
		_, _, err := Extract(ctx, "  ", nil)
		So(errors.Is(err, source.ErrInvalidInput), ShouldBeTrue)
	})

	Convey("Known platforms should resolve to their provider", t, func() {
		_, p, err := Extract(ctx, "https://www.Gofile.io/d/abc123", nil)
		So(err, ShouldBeNil)
		So(p.ID, ShouldEqual, "gofile")
	})

	Convey("Links without a scheme should reach the extractor as https", t, func() {
		for in, id := range map[string]string{
			"gofile.io/d/abc123":    "gofile",
			"bunkr.si/a/xyz":        "bunkr",
			"pixeldrain.com/u/abc":  "pixeldrain",
			" www.gofile.io/d/abc ": "gofile",
		} {
			_, p, err := Extract(ctx, in, nil)
			So(err, ShouldBeNil)
			So(p.ID, ShouldEqual, id)
		}
	})
}

func TestDownload(t *testing.T) {
	Convey("Given a registry with a fixture platform", t, func() {
		filesystem.SetMemMapFs()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("file" + r.URL.Path))
		}))
		defer server.Close()

		registry, err := provider.NewRegistry(&provider.Provider{
			ID:      "album",
			Name:    "Album",
			Domains: []string{"album.test"},
			New: func(string, source.Options) (source.Extractor, error) {
				return &album{base: server.URL, count: 3}, nil
			},
		})
		So(err, ShouldBeNil)

		Convey("Every item should land in its collection", func() {
			summary, err := download(context.Background(), registry, "https://album.test/a/1", "/out", nil, downloader.Config{
				Concurrency: 2,
				Session:     network.NewSession(network.Options{MaxRetries: 0}),
			})
			So(err, ShouldBeNil)
			So(summary.Fetched, ShouldEqual, 3)

			data, err := filesystem.API().ReadFile(filepath.Join("/out", "Album1", "2.txt"))
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "file/2")
		})
	})
}
