package auth

import (
	"testing"

	"github.com/megaloader/megaloader/source"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
)

func init() {
	keyring.MockInit()
}

func TestKeyring(t *testing.T) {
	Convey("Given a mocked keyring", t, func() {
		Reset(func() {
			_ = Delete("gofile", "password")
		})

		Convey("Set, Get and Delete should round trip", func() {
			So(Set("gofile", "password", "hunter2"), ShouldBeNil)

			secret, err := Get("GoFile", "Password")
			So(err, ShouldBeNil)
			So(secret, ShouldEqual, "hunter2")

			So(Delete("gofile", "password"), ShouldBeNil)
			_, err = Get("gofile", "password")
			So(err, ShouldEqual, ErrNotFound)
		})
	})
}

func TestResolve(t *testing.T) {
	Convey("Given credentials in every layer", t, func() {
		So(Set("pixiv", "session_id", "from-keyring"), ShouldBeNil)
		viper.Set(ConfigKey("pixiv", "session_id"), "from-config")

		Reset(func() {
			_ = Delete("pixiv", "session_id")
			viper.Set(ConfigKey("pixiv", "session_id"), "")
		})

		Convey("Explicit options should win", func() {
			v, ok := Resolve(source.Options{"session_id": "from-option"}, "pixiv", "session_id")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, "from-option")
		})

		Convey("Configuration should come next", func() {
			v, ok := Resolve(nil, "pixiv", "session_id")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, "from-config")
		})

		Convey("The keyring should be the last resort", func() {
			viper.Set(ConfigKey("pixiv", "session_id"), "")
			v, ok := Resolve(nil, "pixiv", "session_id")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, "from-keyring")
		})

		Convey("Nothing anywhere should report false", func() {
			_, ok := Resolve(nil, "pixeldrain", "api_key")
			So(ok, ShouldBeFalse)
		})
	})
}
