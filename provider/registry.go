package provider

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"sync"

	"github.com/megaloader/megaloader/source"
	"github.com/samber/lo"
)

// Registry is an immutable domain table. Lookups are safe for concurrent use.
type Registry struct {
	providers []*Provider
	exact     map[string]*Provider
	byID      map[string]*Provider
}

// NewRegistry validates and indexes providers. Registration order breaks
// ties between mirror matches.
func NewRegistry(providers ...*Provider) (*Registry, error) {
	r := &Registry{
		exact: make(map[string]*Provider),
		byID:  make(map[string]*Provider),
	}

	for _, p := range providers {
		if p.ID == "" || p.New == nil {
			return nil, fmt.Errorf("provider %q: id and factory are required", p.Name)
		}

		if other, ok := r.byID[p.ID]; ok {
			return nil, fmt.Errorf("provider id %q registered twice (%s, %s)", p.ID, other.Name, p.Name)
		}
		r.byID[p.ID] = p

		for _, domain := range p.Domains {
			domain = normalizeHostname(domain)
			if other, ok := r.exact[domain]; ok {
				return nil, fmt.Errorf("domain %s registered by both %s and %s", domain, other.ID, p.ID)
			}
			r.exact[domain] = p
		}

		r.providers = append(r.providers, p)
	}

	return r, nil
}

// Default returns the process-wide registry of built-in platforms.
var Default = sync.OnceValue(func() *Registry {
	return lo.Must(NewRegistry(Builtins()...))
})

// Lookup resolves a host by exact domain, then by allowed subdomain,
// then by mirror label.
func (r *Registry) Lookup(host string) (*Provider, bool) {
	host = normalizeHostname(host)
	if host == "" {
		return nil, false
	}

	if p, ok := r.exact[host]; ok {
		return p, true
	}

	for _, p := range r.providers {
		if !p.Subdomains {
			continue
		}
		for _, domain := range p.Domains {
			if strings.HasSuffix(host, "."+normalizeHostname(domain)) {
				return p, true
			}
		}
	}

	labels := strings.Split(host, ".")
	for _, p := range r.providers {
		for _, mirror := range p.Mirrors {
			if slices.Contains(labels, mirror) {
				return p, true
			}
		}
	}

	return nil, false
}

// Resolve normalizes the host of rawURL and looks it up.
func (r *Registry) Resolve(rawURL string) (*Provider, error) {
	host, err := NormalizeHost(rawURL)
	if err != nil {
		return nil, err
	}

	p, ok := r.Lookup(host)
	if !ok {
		return nil, &source.UnsupportedDomainError{Host: host}
	}

	return p, nil
}

// Get returns a provider by its ID.
func (r *Registry) Get(id string) (*Provider, bool) {
	p, ok := r.byID[strings.ToLower(id)]
	return p, ok
}

// Providers returns the providers in registration order.
func (r *Registry) Providers() []*Provider {
	return slices.Clone(r.providers)
}

// Domains returns every exactly-registered domain, sorted.
func (r *Registry) Domains() []string {
	domains := lo.Keys(r.exact)
	slices.Sort(domains)
	return domains
}

// NormalizeURL trims rawURL and gives it an https scheme when it has none,
// so "gofile.io/d/abc" parses with a host.
func NormalizeURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL != "" && !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	return rawURL
}

// NormalizeHost extracts the host of rawURL: lower-cased, without port,
// trailing dot or leading "www.". A missing scheme defaults to https.
func NormalizeHost(rawURL string) (string, error) {
	rawURL = NormalizeURL(rawURL)
	if rawURL == "" {
		return "", &source.InvalidInputError{Field: "url", Reason: "must not be empty"}
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", &source.InvalidInputError{Field: "url", Reason: err.Error()}
	}

	host := normalizeHostname(u.Hostname())
	if host == "" {
		return "", &source.InvalidInputError{Field: "url", Reason: "no host in " + rawURL}
	}

	return host, nil
}

func normalizeHostname(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	host = strings.TrimSuffix(host, ".")
	return strings.TrimPrefix(host, "www.")
}
