// Package provider maps URLs to the platform extractors that understand them.
package provider

import (
	"github.com/megaloader/megaloader/source"
)

// Provider describes one supported platform.
type Provider struct {
	// ID is the stable identifier used for options, credentials and logs.
	ID   string
	Name string

	// Domains are matched exactly against the normalized host.
	Domains []string

	// Subdomains makes every host ending in "."+domain resolve here too,
	// e.g. creator.fanbox.cc.
	Subdomains bool

	// Mirrors are host labels that identify the platform on domains
	// not listed above, e.g. "bunkr" for bunkr.black.
	Mirrors []string

	New source.Factory
}

func (p *Provider) String() string {
	return p.Name
}

// Extractor builds an extractor for rawURL.
func (p *Provider) Extractor(rawURL string, opts source.Options) (source.Extractor, error) {
	return p.New(rawURL, opts)
}
