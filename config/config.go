// Package config owns the viper configuration engine: defaults, environment bindings and the config file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/megaloader/megaloader/constant"
	"github.com/megaloader/megaloader/filesystem"
	"github.com/megaloader/megaloader/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer maps configuration keys onto environment variable names.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// DotEnvFile is loaded from the working directory before environment bindings are read.
// Credentials such as PIXIV_PHPSESSID are commonly kept there.
var DotEnvFile = ".env"

// Setup initializes defaults, environment bindings and the optional TOML config file.
func Setup() error {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	viper.SetConfigName(constant.Megaloader)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Megaloader)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, name := range EnvExposed {
		field := Default[name]
		viper.MustBindEnv(append([]string{name, field.Env()}, field.Aliases...)...)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}

	return nil
}
