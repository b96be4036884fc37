// Package where resolves the filesystem locations megaloader reads from and writes to.
package where

import (
	"os"
	"path/filepath"

	"github.com/megaloader/megaloader/constant"
	"github.com/megaloader/megaloader/filesystem"
	"github.com/megaloader/megaloader/key"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// EnvConfigPath overrides the configuration directory.
const EnvConfigPath = "MEGALOADER_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the configuration directory, honoring MEGALOADER_CONFIG_PATH
// before the platform's user config dir.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Megaloader))
}

// Cache resolves the persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Megaloader))
}

// Logs resolves the directory holding daily log files.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Downloads resolves the default target directory for run-download.
// The directory is not created here; the orchestrator creates what it writes.
func Downloads() string {
	if path := viper.GetString(key.DownloadsPath); path != "" {
		return path
	}
	return filepath.Join(".", "downloads")
}

// GofileToken resolves the cache file for the scraped gofile website token.
func GofileToken() string {
	return filepath.Join(Cache(), "gofile-wt.json")
}
