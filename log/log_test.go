package log

import (
	"bytes"
	"testing"

	"github.com/megaloader/megaloader/filesystem"
	"github.com/megaloader/megaloader/key"
	"github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Given logs.write is disabled", t, func() {
		viper.Set(key.LogsWrite, false)
		So(Setup(), ShouldBeNil)
		So(Enabled(), ShouldBeFalse)

		Convey("WithFields should discard", func() {
			entry := WithFields(logrus.Fields{"item": "a.jpg"})
			So(entry.Logger.Level, ShouldEqual, logrus.PanicLevel)
		})
	})

	Convey("Given logs.write is enabled", t, func() {
		viper.Set(key.LogsWrite, true)
		viper.Set(key.LogsLevel, "not-a-level")
		defer viper.Set(key.LogsWrite, false)

		So(Setup(), ShouldBeNil)
		So(Enabled(), ShouldBeTrue)
		So(logrus.GetLevel(), ShouldEqual, logrus.InfoLevel)
	})
}

func TestSetVerbose(t *testing.T) {
	Convey("SetVerbose should route debug output to the writer", t, func() {
		var buf bytes.Buffer
		SetVerbose(&buf)
		Debugf("fetching %s", "a.jpg")
		So(buf.String(), ShouldContainSubstring, "fetching a.jpg")
	})
}
