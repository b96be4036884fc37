package cmd

import (
	"testing"
	"time"

	"github.com/megaloader/megaloader/provider"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClosest(t *testing.T) {
	Convey("Typos of registered domains should get a suggestion", t, func() {
		got, ok := closest("gofle.io", provider.Default().Domains())
		So(ok, ShouldBeTrue)
		So(got, ShouldEqual, "gofile.io")
	})

	Convey("Unrelated hosts should get none", t, func() {
		_, ok := closest("example.com", []string{"pixiv.net", "gofile.io"})
		So(ok, ShouldBeFalse)

		_, ok = closest("anything", nil)
		So(ok, ShouldBeFalse)
	})
}

func TestParseValue(t *testing.T) {
	Convey("Values should take the type of the default", t, func() {
		v, err := parseValue(4, []string{"8"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 8)

		v, err = parseValue(false, []string{"true"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, true)

		v, err = parseValue(time.Second, []string{"1m30s"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, "1m30s")

		v, err = parseValue([]string{}, []string{"socks5://a:1080", "http://b:8080"})
		So(err, ShouldBeNil)
		So(v, ShouldResemble, []string{"socks5://a:1080", "http://b:8080"})
	})

	Convey("Malformed values should be rejected", t, func() {
		_, err := parseValue(4, []string{"many"})
		So(err, ShouldNotBeNil)

		_, err = parseValue(time.Second, []string{"soon"})
		So(err, ShouldNotBeNil)

		_, err = parseValue("", nil)
		So(err, ShouldNotBeNil)
	})
}

func TestCredentials(t *testing.T) {
	Convey("Only known credential names should be accepted", t, func() {
		So(validateCredential([]string{"pixiv", "session_id"}), ShouldBeNil)
		So(validateCredential([]string{"pixiv", "password"}), ShouldNotBeNil)
		So(validateCredential([]string{"bunkr", "token"}), ShouldNotBeNil)
		So(validateCredential([]string{"nope", "token"}), ShouldNotBeNil)
	})

	Convey("Masking should hide short secrets entirely", t, func() {
		So(mask("abc"), ShouldEqual, "********")
		So(mask("0123456789abcdef"), ShouldEqual, "****cdef")
	})
}
