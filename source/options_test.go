package source

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestOptions(t *testing.T) {
	Convey("Options", t, func() {
		Convey("ParseOptions should split pairs", func() {
			opts, err := ParseOptions([]string{"password=hunter2", "use_proxy = true", "empty="})
			So(err, ShouldBeNil)
			So(opts.String("password", ""), ShouldEqual, "hunter2")
			So(opts.Bool("use_proxy", false), ShouldBeTrue)

			_, ok := opts.Get("empty")
			So(ok, ShouldBeFalse)
		})

		Convey("ParseOptions should reject malformed pairs", func() {
			_, err := ParseOptions([]string{"novalue"})
			So(errors.Is(err, ErrInvalidInput), ShouldBeTrue)

			_, err = ParseOptions([]string{"=v"})
			So(errors.Is(err, ErrInvalidInput), ShouldBeTrue)
		})

		Convey("Accessors should fall back", func() {
			opts := Options{"n": "x", "b": "maybe"}
			So(opts.Int("n", 3), ShouldEqual, 3)
			So(opts.Int("missing", 5), ShouldEqual, 5)
			So(opts.Bool("b", true), ShouldBeTrue)
		})

		Convey("Merge should prefer the argument", func() {
			base := Options{"a": "1", "b": "1"}
			merged := base.Merge(Options{"b": "2"})
			So(merged, ShouldResemble, Options{"a": "1", "b": "2"})
			So(base["b"], ShouldEqual, "1")

			var empty Options
			So(empty.Merge(Options{"x": "y"}), ShouldResemble, Options{"x": "y"})
		})
	})
}
