// Package auth resolves platform credentials from explicit options,
// configuration and the system keyring, in that order.
package auth

import (
	"errors"
	"strings"

	"github.com/megaloader/megaloader/constant"
	"github.com/megaloader/megaloader/key"
	"github.com/megaloader/megaloader/log"
	"github.com/megaloader/megaloader/source"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
)

// ErrNotFound is returned when no credential is stored in the keyring.
var ErrNotFound = keyring.ErrNotFound

func account(provider, name string) string {
	return strings.ToLower(provider) + "." + strings.ToLower(name)
}

// Set stores a credential in the system keyring.
func Set(provider, name, secret string) error {
	return keyring.Set(constant.Megaloader, account(provider, name), secret)
}

// Get reads a credential from the system keyring.
func Get(provider, name string) (string, error) {
	return keyring.Get(constant.Megaloader, account(provider, name))
}

// Delete removes a credential from the system keyring.
func Delete(provider, name string) error {
	return keyring.Delete(constant.Megaloader, account(provider, name))
}

// ConfigKey is the viper key holding a credential, e.g. credentials.pixiv.session_id.
func ConfigKey(provider, name string) string {
	return key.CredentialsPrefix + "." + account(provider, name)
}

// Resolve looks a credential up in opts, then in the configuration
// (including its environment bindings), then in the keyring.
func Resolve(opts source.Options, provider, name string) (string, bool) {
	if v, ok := opts.Get(name); ok {
		return v, true
	}

	if v := strings.TrimSpace(viper.GetString(ConfigKey(provider, name))); v != "" {
		return v, true
	}

	v, err := Get(provider, name)
	switch {
	case err == nil && v != "":
		return v, true
	case err != nil && !errors.Is(err, ErrNotFound):
		log.Debugf("keyring lookup for %s: %v", account(provider, name), err)
	}

	return "", false
}
