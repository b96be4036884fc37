package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/megaloader/megaloader/color"
	"github.com/megaloader/megaloader/constant"
	"github.com/megaloader/megaloader/key"
	"github.com/megaloader/megaloader/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field is one registered configuration key with its factory default.
type Field struct {
	Key         string
	Value       any
	Description string
	// Aliases are additional environment variable names bound to the key,
	// kept for credentials people already export under well-known names.
	Aliases []string
}

// Pretty renders the field for `config info`.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the prefixed environment variable bound to the field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Megaloader + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string   `json:"key"`
		Value       any      `json:"value"`
		Default     any      `json:"default"`
		Description string   `json:"description"`
		Type        string   `json:"type"`
		Env         []string `json:"env"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
		Env:         append([]string{f.Env()}, f.Aliases...),
	})
}

func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case time.Duration:
		return "duration"
	case []string:
		return "[]string"
	default:
		return "unknown"
	}
}

// Default holds every registered field by key.
var Default = make(map[string]Field)

// EnvExposed lists the keys bound to environment variables, in registration order.
var EnvExposed []string

func register(k string, v any, desc string, aliases ...string) {
	if _, exists := Default[k]; exists {
		panic("duplicate config key: " + k)
	}
	Default[k] = Field{Key: k, Value: v, Description: desc, Aliases: aliases}
	EnvExposed = append(EnvExposed, k)
}

func init() {
	register(key.DownloadsPath, "", "Default target directory for downloads.\nEmpty means ./downloads")
	register(key.DownloadsConcurrency, 4, "Number of files fetched in parallel")
	register(key.DownloadsFlat, false, "Write every file directly into the target directory instead of per-collection folders")
	register(key.DownloadsFilter, "", "Glob restricting which filenames are downloaded, e.g. *.jpg")

	register(key.HTTPTimeout, 30*time.Second, "Timeout applied to every HTTP request")
	register(key.HTTPRetries, 3, "Retries for transient failures (429, 5xx, connection errors)")
	register(key.HTTPBackoffInitial, 500*time.Millisecond, "First backoff interval; doubles on each retry")
	register(key.HTTPBackoffMax, 8*time.Second, "Upper bound of a single backoff interval")
	register(key.HTTPProxies, []string{}, "Proxy pool rotated round-robin on connection failure.\nSupports http://, https:// and socks5:// URLs")
	register(key.HTTPProxyRotations, 3, "How many proxies are tried for one request before failing")
	register(key.HTTPImpersonate, false, "Use a Chrome TLS fingerprint for requests to hosting platforms")
	register(key.HTTPUserAgent, constant.UserAgent, "User-Agent sent with every request")

	register(key.CredentialsGofilePassword, "", "Password for protected gofile folders", "GOFILE_PASSWORD")
	register(key.CredentialsGofileToken, "", "Gofile account token; a guest token is created when empty", "GOFILE_TOKEN")
	register(key.CredentialsPixeldrainAPIKey, "", "Pixeldrain API key", "PIXELDRAIN_API_KEY")
	register(key.CredentialsPixivSessionID, "", "Pixiv PHPSESSID cookie", "PIXIV_PHPSESSID")
	register(key.CredentialsFanboxSessionID, "", "Fanbox FANBOXSESSID cookie", "FANBOX_SESSION_ID")

	register(key.PixeldrainUseProxy, false, "Download pixeldrain files through the community proxy hosts")
	register(key.GofileWebsiteTokenTTL, 24*time.Hour, "How long the scraped gofile website token is reused")

	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")

	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Look for a newer release when running the version command")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, plain, squares, nerd (nerd-font required)")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"blue":     style.Fg(color.Blue),
	"purple":   style.Fg(color.Purple),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"join":     strings.Join,
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}{{ if .Aliases }} {{ faint (join .Aliases ", ") }}{{ end }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
