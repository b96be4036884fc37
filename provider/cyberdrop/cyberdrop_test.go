package cyberdrop

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/megaloader/megaloader/source"
	. "github.com/smartystreets/goconvey/convey"
)

func newServer(files int, broken string) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/a/album", func(w http.ResponseWriter, r *http.Request) {
		var b strings.Builder
		b.WriteString(`<html><body><h1 id="title"> Album1 </h1>`)
		for i := range files {
			fmt.Fprintf(&b, `<a class="file" href="/f/f%d">f%d</a>`, i, i)
		}
		b.WriteString(`<a class="other" href="/f/ignored">nope</a></body></html>`)
		_, _ = w.Write([]byte(b.String()))
	})
	mux.HandleFunc("/api/file/info/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/file/info/")
		if id == broken {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprintf(w, `{"name":"%s.jpg","auth_url":"https://cdn.example/%s?token=t","size":%d}`, id, id, len(id))
	})

	server := httptest.NewServer(mux)
	apiURL = server.URL + "/api/file"
	return server
}

func TestExtract(t *testing.T) {
	Convey("Given a cyberdrop album", t, func() {
		ctx := context.Background()

		Convey("It should yield items with the album title", func() {
			server := newServer(3, "")
			defer server.Close()

			e, err := New(server.URL+"/a/album", nil)
			So(err, ShouldBeNil)

			items, err := source.Collect(e.Extract(ctx))
			So(err, ShouldBeNil)
			So(len(items), ShouldEqual, 3)
			So(items[1].Filename, ShouldEqual, "f1.jpg")
			So(items[1].DownloadURL, ShouldEqual, "https://cdn.example/f1?token=t")
			So(items[1].CollectionName.MustGet(), ShouldEqual, "Album1")
			So(items[1].SizeBytes.MustGet(), ShouldEqual, 2)
		})

		Convey("One failing file should leave the other nine", func() {
			server := newServer(10, "f7")
			defer server.Close()

			e, _ := New(server.URL+"/a/album", nil)
			items, err := source.Collect(e.Extract(ctx))
			So(err, ShouldBeNil)
			So(len(items), ShouldEqual, 9)
			for _, item := range items {
				So(item.SourceID.MustGet(), ShouldNotEqual, "f7")
			}
		})

		Convey("A single file link should yield one item without a collection", func() {
			server := newServer(0, "")
			defer server.Close()

			e, err := New(server.URL+"/f/abc", nil)
			So(err, ShouldBeNil)

			items, err := source.Collect(e.Extract(ctx))
			So(err, ShouldBeNil)
			So(len(items), ShouldEqual, 1)
			So(items[0].CollectionName.IsAbsent(), ShouldBeTrue)
		})

		Convey("An unreachable album page should fail before any item", func() {
			server := newServer(0, "")
			server.Close()

			e, _ := New(server.URL+"/a/album", nil)
			items, err := source.Collect(e.Extract(ctx))
			So(items, ShouldBeEmpty)
			So(errors.Is(err, source.ErrExtraction), ShouldBeTrue)
		})
	})

	Convey("New should reject other paths", t, func() {
		_, err := New("https://cyberdrop.me/about", nil)
		So(errors.Is(err, source.ErrInvalidInput), ShouldBeTrue)
	})
}
