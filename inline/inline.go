package inline

import (
	"fmt"
	"io"
	"os"

	"github.com/megaloader/megaloader/color"
	"github.com/megaloader/megaloader/icon"
	"github.com/megaloader/megaloader/log"
	"github.com/megaloader/megaloader/source"
	"github.com/megaloader/megaloader/style"
	"github.com/megaloader/megaloader/util"
	"github.com/muesli/reflow/truncate"
)

// Run drains options.Items and prints them. Items gathered before a failure
// are still printed; the failure is returned afterwards.
func Run(options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}

	items, err := collect(options)
	if err != nil {
		log.Errorf("extraction stopped after %d items: %v", len(items), err)
	}

	var writeErr error
	if options.Json {
		writeErr = writeJson(options.Out, items, options)
	} else {
		writeErr = writeText(options.Out, items, options)
	}

	if err != nil {
		return err
	}
	return writeErr
}

func collect(options *Options) ([]source.Item, error) {
	var items []source.Item
	if options.Items == nil {
		return items, nil
	}

	limit, limited := options.Limit.Get()
	if limited && limit <= 0 {
		return items, nil
	}

	for item, err := range options.Items {
		if err != nil {
			return items, err
		}

		items = append(items, item)
		if limited && len(items) >= limit {
			break
		}
	}

	return items, nil
}

func writeText(w io.Writer, items []source.Item, options *Options) error {
	for _, item := range items {
		title := item.Filename
		if collection, ok := item.CollectionName.Get(); ok {
			title = collection + "/" + title
		}
		if size, ok := item.SizeBytes.Get(); ok {
			title += " " + style.Faint("("+util.FormatBytes(size)+")")
		}

		line := fmt.Sprintf("%s %s", style.Fg(color.Accent)(icon.Get(icon.Link)), title)
		if options.Width > 0 {
			line = truncate.StringWithTail(line, uint(options.Width), "…")
		}

		if _, err := fmt.Fprintf(w, "%s\n  %s\n", line, item.DownloadURL); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "%s %s from %s\n",
		style.Fg(color.Success)(icon.Get(icon.Success)),
		util.Quantify(len(items), "item", "items"),
		style.Bold(options.Source),
	)
	return err
}
