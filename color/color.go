// Package color names the terminal colors used by CLI output.
package color

import "github.com/charmbracelet/lipgloss"

func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

// ANSI colors, so output follows the user's terminal theme.
var (
	Red    = New("1")
	Green  = New("2")
	Yellow = New("3")
	Blue   = New("4")
	Purple = New("5")
	Cyan   = New("6")

	HiRed  = New("9")
	HiCyan = New("14")
	Gray   = New("8")
)

// Roles used across commands.
var (
	Accent  = HiCyan
	Success = Green
	Warning = Yellow
	Failure = Red
	Muted   = Gray
)
