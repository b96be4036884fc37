// Package style composes lipgloss renderers for CLI output.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/megaloader/megaloader/color"
)

func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Fg returns a renderer with the foreground set to c.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string { return New().Foreground(c).Render(s) }
}

var (
	Faint  = func(s string) string { return New().Faint(true).Render(s) }
	Bold   = func(s string) string { return New().Bold(true).Render(s) }
	Italic = func(s string) string { return New().Italic(true).Render(s) }
)

// Tag renders s as a padded block.
func Tag(fg, bg lipgloss.Color) func(string) string {
	return func(s string) string { return New().Foreground(fg).Background(bg).Padding(0, 1).Render(s) }
}

var (
	Title      = Tag(color.New("230"), color.New("62"))
	ErrorTitle = Tag(color.New("230"), color.Failure)
)

// Status colors an item outcome such as "fetched" or "failed".
func Status(status string) string {
	switch status {
	case "fetched":
		return Fg(color.Success)(status)
	case "skipped":
		return Fg(color.Warning)(status)
	case "failed":
		return Fg(color.Failure)(status)
	default:
		return Faint(status)
	}
}
