package network

import (
	"time"

	"github.com/megaloader/megaloader/constant"
	"github.com/megaloader/megaloader/key"
	"github.com/spf13/viper"
)

// Options configures a Session.
type Options struct {
	Timeout        time.Duration
	MaxRetries     int
	BackoffInitial time.Duration
	BackoffMax     time.Duration
	// Proxies are http://, https:// or socks5:// URLs rotated on connection failure.
	Proxies      []string
	MaxRotations int
	Headers      map[string]string
	// Impersonate dials with a Chrome TLS fingerprint.
	Impersonate bool
	UserAgent   string
}

// DefaultOptions mirrors the registered configuration defaults.
func DefaultOptions() Options {
	return Options{
		Timeout:        30 * time.Second,
		MaxRetries:     3,
		BackoffInitial: 500 * time.Millisecond,
		BackoffMax:     8 * time.Second,
		MaxRotations:   3,
		UserAgent:      constant.UserAgent,
	}
}

// OptionsFromConfig reads the http.* keys.
func OptionsFromConfig() Options {
	return Options{
		Timeout:        viper.GetDuration(key.HTTPTimeout),
		MaxRetries:     viper.GetInt(key.HTTPRetries),
		BackoffInitial: viper.GetDuration(key.HTTPBackoffInitial),
		BackoffMax:     viper.GetDuration(key.HTTPBackoffMax),
		Proxies:        viper.GetStringSlice(key.HTTPProxies),
		MaxRotations:   viper.GetInt(key.HTTPProxyRotations),
		Impersonate:    viper.GetBool(key.HTTPImpersonate),
		UserAgent:      viper.GetString(key.HTTPUserAgent),
	}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.Timeout <= 0 {
		o.Timeout = def.Timeout
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.BackoffInitial <= 0 {
		o.BackoffInitial = def.BackoffInitial
	}
	if o.BackoffMax < o.BackoffInitial {
		o.BackoffMax = o.BackoffInitial
	}
	if o.MaxRotations < 0 {
		o.MaxRotations = 0
	}
	if o.UserAgent == "" {
		o.UserAgent = def.UserAgent
	}
	return o
}
