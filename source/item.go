package source

import (
	"encoding/json"
	"maps"
	"net/http"
	"strings"

	"github.com/samber/mo"
)

// Item describes one downloadable file.
type Item struct {
	DownloadURL    string
	Filename       string
	CollectionName mo.Option[string]
	SourceID       mo.Option[string]
	SizeBytes      mo.Option[int64]

	headers map[string]string
}

// ItemOption sets an optional Item attribute.
type ItemOption func(*Item)

// WithCollection groups the item under a folder name. Blank names are ignored.
func WithCollection(name string) ItemOption {
	return func(i *Item) {
		if name = strings.TrimSpace(name); name != "" {
			i.CollectionName = mo.Some(name)
		}
	}
}

// WithSourceID records the platform identifier of the item.
func WithSourceID(id string) ItemOption {
	return func(i *Item) {
		if id = strings.TrimSpace(id); id != "" {
			i.SourceID = mo.Some(id)
		}
	}
}

// WithSize records the expected size. Negative sizes are ignored.
func WithSize(size int64) ItemOption {
	return func(i *Item) {
		if size >= 0 {
			i.SizeBytes = mo.Some(size)
		}
	}
}

// WithHeader adds a header the download request must carry.
func WithHeader(name, value string) ItemOption {
	return func(i *Item) {
		if i.headers == nil {
			i.headers = make(map[string]string)
		}
		i.headers[http.CanonicalHeaderKey(name)] = value
	}
}

// WithHeaders adds every header of the map.
func WithHeaders(headers map[string]string) ItemOption {
	return func(i *Item) {
		for name, value := range headers {
			WithHeader(name, value)(i)
		}
	}
}

// NewItem validates and builds an Item.
func NewItem(downloadURL, filename string, opts ...ItemOption) (Item, error) {
	item := Item{
		DownloadURL: strings.TrimSpace(downloadURL),
		Filename:    strings.TrimSpace(filename),
	}

	if item.DownloadURL == "" {
		return Item{}, &InvalidInputError{Field: "download_url", Reason: "must not be empty"}
	}

	if item.Filename == "" {
		return Item{}, &InvalidInputError{Field: "filename", Reason: "must not be empty"}
	}

	for _, opt := range opts {
		opt(&item)
	}

	return item, nil
}

// Header returns a header required to fetch the item.
func (i Item) Header(name string) (string, bool) {
	value, ok := i.headers[http.CanonicalHeaderKey(name)]
	return value, ok
}

// HeaderMap returns a copy of the item headers.
func (i Item) HeaderMap() map[string]string {
	return maps.Clone(i.headers)
}

func (i Item) String() string {
	return i.Filename
}

// Record is the plain serializable form of an Item.
type Record struct {
	DownloadURL    string            `json:"download_url" jsonschema:"required"`
	Filename       string            `json:"filename" jsonschema:"required"`
	CollectionName *string           `json:"collection_name"`
	SourceID       *string           `json:"source_id"`
	Headers        map[string]string `json:"headers"`
	SizeBytes      *int64            `json:"size_bytes"`
}

func (i Item) Record() Record {
	headers := i.HeaderMap()
	if headers == nil {
		headers = map[string]string{}
	}

	return Record{
		DownloadURL:    i.DownloadURL,
		Filename:       i.Filename,
		CollectionName: i.CollectionName.ToPointer(),
		SourceID:       i.SourceID.ToPointer(),
		Headers:        headers,
		SizeBytes:      i.SizeBytes.ToPointer(),
	}
}

func (i Item) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.Record())
}

func (i *Item) UnmarshalJSON(data []byte) error {
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return err
	}

	opts := []ItemOption{WithHeaders(record.Headers)}
	if record.CollectionName != nil {
		opts = append(opts, WithCollection(*record.CollectionName))
	}
	if record.SourceID != nil {
		opts = append(opts, WithSourceID(*record.SourceID))
	}
	if record.SizeBytes != nil {
		opts = append(opts, WithSize(*record.SizeBytes))
	}

	item, err := NewItem(record.DownloadURL, record.Filename, opts...)
	if err != nil {
		return err
	}

	*i = item
	return nil
}
