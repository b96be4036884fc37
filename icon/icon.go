// Package icon renders status symbols in the variant chosen by icons.variant.
package icon

import (
	"github.com/megaloader/megaloader/key"
	"github.com/spf13/viper"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	squares = "squares"
)

func AvailableVariants() []string {
	return []string{emoji, nerd, plain, squares}
}

type Icon int

const (
	Success Icon = iota
	Fail
	Skip
	Filter
	Download
	Link
	Lock
	Progress
)

type def struct {
	emoji, nerd, plain, squares string
}

var icons = map[Icon]def{
	Success:  {emoji: "✅", nerd: "", plain: "✓", squares: "■"},
	Fail:     {emoji: "❌", nerd: "", plain: "✗", squares: "□"},
	Skip:     {emoji: "⏭️", nerd: "", plain: "=", squares: "▣"},
	Filter:   {emoji: "🔍", nerd: "", plain: "~", squares: "▨"},
	Download: {emoji: "📥", nerd: "", plain: "↓", squares: "▤"},
	Link:     {emoji: "🔗", nerd: "", plain: "→", squares: "▥"},
	Lock:     {emoji: "🔒", nerd: "", plain: "*", squares: "▦"},
	Progress: {emoji: "⏳", nerd: "", plain: "…", squares: "▧"},
}

// Get returns i in the configured variant; unknown variants fall back to plain.
func Get(i Icon) string {
	d := icons[i]
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case squares:
		return d.squares
	default:
		return d.plain
	}
}
