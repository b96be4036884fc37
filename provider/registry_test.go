package provider

import (
	"errors"
	"strings"
	"testing"

	"github.com/megaloader/megaloader/source"
	. "github.com/smartystreets/goconvey/convey"
)

func noop(string, source.Options) (source.Extractor, error) {
	return nil, nil
}

func TestRegistry(t *testing.T) {
	registry := Default()

	Convey("Every registered domain should resolve regardless of case or www", t, func() {
		for _, p := range registry.Providers() {
			for _, domain := range p.Domains {
				for _, link := range []string{
					"https://" + domain + "/a/x",
					"https://WWW." + strings.ToUpper(domain) + "/a/x",
					domain + ":443/a/x",
				} {
					got, err := registry.Resolve(link)
					So(err, ShouldBeNil)
					So(got.ID, ShouldEqual, p.ID)
				}
			}
		}
	})

	Convey("Fanbox creator subdomains should resolve", t, func() {
		p, err := registry.Resolve("https://someartist.fanbox.cc/posts/1")
		So(err, ShouldBeNil)
		So(p.ID, ShouldEqual, "fanbox")
	})

	Convey("Unlisted bunkr mirrors should resolve by label", t, func() {
		for _, link := range []string{"https://bunkr.xyz/a/x", "https://cdn.bunkr.example/f/x"} {
			p, err := registry.Resolve(link)
			So(err, ShouldBeNil)
			So(p.ID, ShouldEqual, "bunkr")
		}
	})

	Convey("Unknown hosts should be unsupported", t, func() {
		for _, link := range []string{"https://notbunkr.com/a/x", "https://example.com", "https://pixiv.net.evil.com/"} {
			_, err := registry.Resolve(link)
			So(errors.Is(err, source.ErrUnsupportedDomain), ShouldBeTrue)

			var unsupported *source.UnsupportedDomainError
			So(errors.As(err, &unsupported), ShouldBeTrue)
		}
	})

	Convey("Malformed input should be rejected", t, func() {
		for _, link := range []string{"", "   ", "https://"} {
			_, err := registry.Resolve(link)
			So(errors.Is(err, source.ErrInvalidInput), ShouldBeTrue)
		}
	})

	Convey("Providers should be reachable by id", t, func() {
		p, ok := Get("GOFILE")
		So(ok, ShouldBeTrue)
		So(p.Name, ShouldEqual, "Gofile")

		_, ok = Get("nope")
		So(ok, ShouldBeFalse)
	})

	Convey("Domains should be sorted and unique", t, func() {
		domains := registry.Domains()
		So(domains, ShouldContain, "gofile.io")
		for i := 1; i < len(domains); i++ {
			So(domains[i-1] < domains[i], ShouldBeTrue)
		}
	})
}

func TestNewRegistry(t *testing.T) {
	Convey("A domain claimed twice should be an error", t, func() {
		_, err := NewRegistry(
			&Provider{ID: "a", Domains: []string{"example.com"}, New: noop},
			&Provider{ID: "b", Domains: []string{"WWW.example.com"}, New: noop},
		)
		So(err, ShouldNotBeNil)
	})

	Convey("A duplicate id should be an error", t, func() {
		_, err := NewRegistry(
			&Provider{ID: "a", New: noop},
			&Provider{ID: "a", New: noop},
		)
		So(err, ShouldNotBeNil)
	})

	Convey("A provider without a factory should be an error", t, func() {
		_, err := NewRegistry(&Provider{ID: "a"})
		So(err, ShouldNotBeNil)
	})

	Convey("Mirror ties should go to the first registered provider", t, func() {
		r, err := NewRegistry(
			&Provider{ID: "first", Mirrors: []string{"shared"}, New: noop},
			&Provider{ID: "second", Mirrors: []string{"shared"}, New: noop},
		)
		So(err, ShouldBeNil)

		p, ok := r.Lookup("cdn.shared.net")
		So(ok, ShouldBeTrue)
		So(p.ID, ShouldEqual, "first")
	})
}

func TestNormalizeURL(t *testing.T) {
	Convey("NormalizeURL should add a missing scheme only", t, func() {
		So(NormalizeURL("gofile.io/d/abc"), ShouldEqual, "https://gofile.io/d/abc")
		So(NormalizeURL("  http://bunkr.si/a/x "), ShouldEqual, "http://bunkr.si/a/x")
		So(NormalizeURL(" "), ShouldEqual, "")
	})
}

func TestNormalizeHost(t *testing.T) {
	Convey("NormalizeHost should canonicalize hosts", t, func() {
		cases := map[string]string{
			"https://WWW.Gofile.io/d/abc": "gofile.io",
			"gofile.io/d/abc":             "gofile.io",
			"http://pixeldrain.com:8080/": "pixeldrain.com",
			"https://bunkr.si./a/x":       "bunkr.si",
		}
		for in, want := range cases {
			got, err := NormalizeHost(in)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, want)
		}
	})
}
