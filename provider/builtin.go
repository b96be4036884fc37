package provider

import (
	"github.com/megaloader/megaloader/provider/bunkr"
	"github.com/megaloader/megaloader/provider/cyberdrop"
	"github.com/megaloader/megaloader/provider/fanbox"
	"github.com/megaloader/megaloader/provider/gofile"
	"github.com/megaloader/megaloader/provider/pixeldrain"
	"github.com/megaloader/megaloader/provider/pixiv"
)

// Builtins returns the supported platforms in resolution order.
func Builtins() []*Provider {
	return []*Provider{
		{
			ID:      bunkr.ID,
			Name:    "Bunkr",
			Domains: bunkr.Domains,
			Mirrors: []string{"bunkr"},
			New:     bunkr.New,
		},
		{
			ID:      cyberdrop.ID,
			Name:    "Cyberdrop",
			Domains: cyberdrop.Domains,
			Mirrors: []string{"cyberdrop"},
			New:     cyberdrop.New,
		},
		{
			ID:         fanbox.ID,
			Name:       "Fanbox",
			Domains:    []string{"fanbox.cc"},
			Subdomains: true,
			New:        fanbox.New,
		},
		{
			ID:      gofile.ID,
			Name:    "Gofile",
			Domains: []string{"gofile.io"},
			New:     gofile.New,
		},
		{
			ID:      pixeldrain.ID,
			Name:    "Pixeldrain",
			Domains: []string{"pixeldrain.com", "pixeldra.in"},
			New:     pixeldrain.New,
		},
		{
			ID:      pixiv.ID,
			Name:    "Pixiv",
			Domains: []string{"pixiv.net"},
			New:     pixiv.New,
		},
	}
}

// Get returns a built-in provider by ID.
func Get(id string) (*Provider, bool) {
	return Default().Get(id)
}
