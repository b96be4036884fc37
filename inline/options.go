package inline

import (
	"io"
	"iter"

	"github.com/megaloader/megaloader/source"
	"github.com/samber/mo"
)

type Options struct {
	Out io.Writer

	// Source is the provider name reported in the output.
	Source string
	URL    string
	Items  iter.Seq2[source.Item, error]

	Json bool

	// Limit stops pulling items once reached.
	Limit mo.Option[int]

	// Width bounds text lines; zero disables truncation.
	Width int
}
