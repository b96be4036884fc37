package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/megaloader/megaloader/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Compare should order versions numerically", t, func() {
		cases := []struct {
			a, b string
			want int
		}{
			{"0.2.0", "0.2.0", 0},
			{"v0.10.0", "0.9.9", 1},
			{"1.0.0", "1.0.1", -1},
		}
		for _, c := range cases {
			got, err := Compare(c.a, c.b)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, c.want)
		}
	})

	Convey("Compare should reject garbage", t, func() {
		_, err := Compare("latest", "1.0.0")
		So(err, ShouldNotBeNil)
	})
}

func TestLatest(t *testing.T) {
	Convey("Latest should strip the tag prefix and cache the answer", t, func() {
		filesystem.SetMemMapFs()

		var hits int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			_, _ = w.Write([]byte(`{"tag_name":"v1.4.2"}`))
		}))
		defer server.Close()
		releasesURL = server.URL

		latest, err := Latest(context.Background())
		So(err, ShouldBeNil)
		So(latest, ShouldEqual, "1.4.2")

		latest, err = Latest(context.Background())
		So(err, ShouldBeNil)
		So(latest, ShouldEqual, "1.4.2")
		So(hits, ShouldEqual, 1)
	})
}
