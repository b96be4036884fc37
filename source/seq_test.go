package source

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func numbered(n int) Body {
	return func(ctx context.Context, yield func(Item) bool) error {
		for i := range n {
			item, err := NewItem("https://x/"+string(rune('a'+i)), string(rune('a'+i)))
			if err != nil {
				return err
			}
			if !yield(item) {
				return nil
			}
		}
		return nil
	}
}

func TestGenerate(t *testing.T) {
	Convey("Generate", t, func() {
		ctx := context.Background()

		Convey("Should yield every item in order", func() {
			items, err := Collect(Generate(ctx, "test", "https://x", numbered(3)))
			So(err, ShouldBeNil)
			So(len(items), ShouldEqual, 3)
			So(items[0].Filename, ShouldEqual, "a")
			So(items[2].Filename, ShouldEqual, "c")
		})

		Convey("Should refuse a second iteration", func() {
			seq := Generate(ctx, "test", "https://x", numbered(2))
			_, err := Collect(seq)
			So(err, ShouldBeNil)

			_, err = Collect(seq)
			So(errors.Is(err, ErrConsumed), ShouldBeTrue)
		})

		Convey("Should stop when the consumer breaks", func() {
			pulled := 0
			for range Generate(ctx, "test", "https://x", numbered(5)) {
				pulled++
				if pulled == 2 {
					break
				}
			}
			So(pulled, ShouldEqual, 2)
		})

		Convey("Should wrap unclassified errors", func() {
			boom := errors.New("boom")
			seq := Generate(ctx, "test", "https://x", func(ctx context.Context, yield func(Item) bool) error {
				item, _ := NewItem("https://x/a", "a")
				yield(item)
				return boom
			})

			items, err := Collect(seq)
			So(len(items), ShouldEqual, 1)
			So(errors.Is(err, ErrExtraction), ShouldBeTrue)
			So(errors.Is(err, boom), ShouldBeTrue)

			var extraction *ExtractionError
			So(errors.As(err, &extraction), ShouldBeTrue)
			So(extraction.Extractor, ShouldEqual, "test")
		})

		Convey("Should keep credential errors as they are", func() {
			seq := Generate(ctx, "test", "https://x", func(context.Context, func(Item) bool) error {
				return &CredentialError{Extractor: "test", Reason: "password required"}
			})

			_, err := Collect(seq)
			var credential *CredentialError
			So(errors.As(err, &credential), ShouldBeTrue)
			So(errors.Is(err, ErrCredential), ShouldBeTrue)
			So(errors.Is(err, ErrExtraction), ShouldBeTrue)
		})
	})
}
