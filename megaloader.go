// Package megaloader resolves links from supported file hosts and media
// platforms into downloadable items and stores them locally.
//
//	items, p, err := megaloader.Extract(ctx, "https://gofile.io/d/abc123", nil)
//	if err != nil {
//		return err
//	}
//	for item, err := range items {
//		...
//	}
package megaloader

import (
	"context"
	"iter"

	"github.com/megaloader/megaloader/downloader"
	"github.com/megaloader/megaloader/log"
	"github.com/megaloader/megaloader/provider"
	"github.com/megaloader/megaloader/source"
)

// Extract resolves the platform of rawURL and returns its lazy item
// sequence. Unsupported or malformed links fail here, before any request.
func Extract(ctx context.Context, rawURL string, opts source.Options) (iter.Seq2[source.Item, error], *provider.Provider, error) {
	return extract(ctx, provider.Default(), rawURL, opts)
}

// Download extracts rawURL and stores every item under target.
func Download(ctx context.Context, rawURL, target string, opts source.Options, cfg downloader.Config) (*downloader.Summary, error) {
	return download(ctx, provider.Default(), rawURL, target, opts, cfg)
}

func extract(ctx context.Context, registry *provider.Registry, rawURL string, opts source.Options) (iter.Seq2[source.Item, error], *provider.Provider, error) {
	rawURL = provider.NormalizeURL(rawURL)

	p, err := registry.Resolve(rawURL)
	if err != nil {
		return nil, nil, err
	}

	extractor, err := p.Extractor(rawURL, opts)
	if err != nil {
		return nil, p, err
	}

	log.Infof("extracting %s with %s", rawURL, p)
	return extractor.Extract(ctx), p, nil
}

func download(ctx context.Context, registry *provider.Registry, rawURL, target string, opts source.Options, cfg downloader.Config) (*downloader.Summary, error) {
	items, _, err := extract(ctx, registry, rawURL, opts)
	if err != nil {
		return nil, err
	}

	return downloader.Run(ctx, target, items, cfg)
}
