// Package inline implements the non-interactive extract mode: items are
// listed, never downloaded.
package inline

import (
	"encoding/json"
	"io"

	"github.com/megaloader/megaloader/source"
)

// Output is the document printed by `extract --json`.
type Output struct {
	// Source is the name of the provider that handled the link.
	Source string          `json:"source"`
	URL    string          `json:"url"`
	Count  int             `json:"count"`
	Items  []source.Record `json:"items"`
}

func writeJson(w io.Writer, items []source.Item, options *Options) error {
	records := make([]source.Record, len(items))
	for i, item := range items {
		records[i] = item.Record()
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(&Output{
		Source: options.Source,
		URL:    options.URL,
		Count:  len(items),
		Items:  records,
	})
}
