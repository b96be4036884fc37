// Package util holds small helpers shared by the core packages and the CLI.
package util

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/megaloader/megaloader/filesystem"
	"golang.org/x/term"
)

var (
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	repeatedUnderscores  = regexp.MustCompile(`_+`)
)

// SanitizeFilename replaces characters that are invalid on common filesystems
// with an underscore and collapses the resulting runs.
// The result is never empty and never a relative path element.
func SanitizeFilename(name string) string {
	clean := invalidFilenameChars.ReplaceAllString(name, "_")
	clean = repeatedUnderscores.ReplaceAllString(clean, "_")
	clean = strings.TrimSpace(clean)
	// windows drops trailing dots and spaces silently
	clean = strings.TrimRight(clean, ". ")

	if clean == "" {
		return "_"
	}

	return clean
}

// SplitExt splits a filename into stem and extension (with the dot).
// Leading dots of hidden files are kept in the stem.
func SplitExt(name string) (stem, ext string) {
	ext = filepath.Ext(name)
	if ext == name {
		return name, ""
	}
	return strings.TrimSuffix(name, ext), ext
}

// Quantify returns a pluralized string representation of a count.
func Quantify(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

// FormatBytes renders a byte count using binary units, e.g. 1.5 MiB.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// IsTerminal reports whether stdout is attached to a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// TerminalSize retrieves the current character dimensions of the terminal window.
func TerminalSize() (width, height int, err error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// Ignore executes a function and discards its error.
func Ignore(f func() error) {
	_ = f()
}

// Delete removes a file or a directory tree.
func Delete(path string) error {
	fs := filesystem.API()
	stat, err := fs.Stat(path)
	if err != nil {
		return err
	}

	if stat.IsDir() {
		return fs.RemoveAll(path)
	}
	return fs.Remove(path)
}
