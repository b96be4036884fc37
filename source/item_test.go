package source

import (
	"encoding/json"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNewItem(t *testing.T) {
	Convey("NewItem", t, func() {
		Convey("Should reject an empty download url", func() {
			_, err := NewItem("", "a.jpg")
			So(errors.Is(err, ErrInvalidInput), ShouldBeTrue)

			var invalid *InvalidInputError
			So(errors.As(err, &invalid), ShouldBeTrue)
			So(invalid.Field, ShouldEqual, "download_url")
		})

		Convey("Should reject an empty filename", func() {
			_, err := NewItem("https://x/a", "   ")
			So(errors.Is(err, ErrInvalidInput), ShouldBeTrue)
		})

		Convey("Should apply options", func() {
			item, err := NewItem(
				"https://cdn.example.com/a.jpg",
				"a.jpg",
				WithCollection("Album1"),
				WithSourceID("abc"),
				WithSize(42),
				WithHeader("referer", "https://example.com/"),
			)
			So(err, ShouldBeNil)
			So(item.CollectionName.MustGet(), ShouldEqual, "Album1")
			So(item.SourceID.MustGet(), ShouldEqual, "abc")
			So(item.SizeBytes.MustGet(), ShouldEqual, 42)
			So(item.String(), ShouldEqual, "a.jpg")

			referer, ok := item.Header("Referer")
			So(ok, ShouldBeTrue)
			So(referer, ShouldEqual, "https://example.com/")
		})

		Convey("Should ignore blank optional values", func() {
			item, err := NewItem("https://x/a", "a", WithCollection(" "), WithSize(-1))
			So(err, ShouldBeNil)
			So(item.CollectionName.IsAbsent(), ShouldBeTrue)
			So(item.SizeBytes.IsAbsent(), ShouldBeTrue)
		})

		Convey("HeaderMap should be a copy", func() {
			item, _ := NewItem("https://x/a", "a", WithHeader("Referer", "r"))
			headers := item.HeaderMap()
			headers["Referer"] = "changed"

			referer, _ := item.Header("Referer")
			So(referer, ShouldEqual, "r")
		})
	})
}

func TestItemJSON(t *testing.T) {
	Convey("Given an item", t, func() {
		item, _ := NewItem("https://x/a.jpg", "a.jpg", WithCollection("c"), WithHeader("Referer", "r"))

		Convey("It should encode snake_case keys", func() {
			data, err := json.Marshal(item)
			So(err, ShouldBeNil)

			var decoded map[string]any
			So(json.Unmarshal(data, &decoded), ShouldBeNil)
			So(decoded["download_url"], ShouldEqual, "https://x/a.jpg")
			So(decoded["collection_name"], ShouldEqual, "c")
			So(decoded["source_id"], ShouldBeNil)
			So(decoded["headers"], ShouldResemble, map[string]any{"Referer": "r"})
		})

		Convey("Decoding should validate", func() {
			var decoded Item
			err := json.Unmarshal([]byte(`{"download_url":"","filename":"a"}`), &decoded)
			So(errors.Is(err, ErrInvalidInput), ShouldBeTrue)

			So(json.Unmarshal([]byte(`{"download_url":"u","filename":"a","size_bytes":7}`), &decoded), ShouldBeNil)
			So(decoded.SizeBytes.MustGet(), ShouldEqual, 7)
		})
	})
}
