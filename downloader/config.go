package downloader

import (
	"path"
	"time"

	"github.com/megaloader/megaloader/key"
	"github.com/megaloader/megaloader/network"
	"github.com/megaloader/megaloader/source"
	"github.com/spf13/viper"
)

// Config tunes a single Run.
type Config struct {
	// Flat ignores collection names and writes every file into the target.
	Flat bool

	// Filter is a glob matched against the sanitized filename.
	// Empty matches everything.
	Filter string

	// Concurrency is the number of parallel fetches, at least 1.
	Concurrency int

	// Verbose logs every item, not only failures.
	Verbose bool

	// Session performs the fetches. A session built from the http.*
	// configuration is used when nil.
	Session *network.Session

	// InactivityTimeout fails a transfer that receives no data for this
	// long. It defaults to the session timeout; the transfer as a whole
	// is not bounded.
	InactivityTimeout time.Duration

	// OnEvent observes progress. Calls are serialized.
	OnEvent func(Event)
}

// ConfigFromViper reads the downloads.* keys.
func ConfigFromViper() Config {
	return Config{
		Flat:        viper.GetBool(key.DownloadsFlat),
		Filter:      viper.GetString(key.DownloadsFilter),
		Concurrency: viper.GetInt(key.DownloadsConcurrency),
	}
}

func (c Config) normalized() (Config, error) {
	if c.Filter != "" {
		if _, err := path.Match(c.Filter, ""); err != nil {
			return c, &source.InvalidInputError{Field: "filter", Reason: err.Error()}
		}
	}

	if c.Concurrency < 1 {
		c.Concurrency = viper.GetInt(key.DownloadsConcurrency)
	}
	c.Concurrency = max(c.Concurrency, 1)

	if c.Session == nil {
		c.Session = network.NewSession(network.OptionsFromConfig())
	}

	if c.InactivityTimeout <= 0 {
		c.InactivityTimeout = c.Session.Options().Timeout
	}

	return c, nil
}
