// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Download orchestration - defaults for the run-download entry point.
const (
	DownloadsPath        = "downloads.path"
	DownloadsConcurrency = "downloads.concurrency"
	DownloadsFlat        = "downloads.flat"
	DownloadsFilter      = "downloads.filter"
)

// HTTP client - retry, timeout and proxy policy shared by every extractor session.
const (
	HTTPTimeout        = "http.timeout"
	HTTPRetries        = "http.retries"
	HTTPBackoffInitial = "http.backoff_initial"
	HTTPBackoffMax     = "http.backoff_max"
	HTTPProxies        = "http.proxies"
	HTTPProxyRotations = "http.proxy_rotations"
	HTTPImpersonate    = "http.impersonate"
	HTTPUserAgent      = "http.user_agent"
)

// Platform credentials - lowest-but-one precedence after explicit options (keyring is last).
const (
	CredentialsGofilePassword   = "credentials.gofile.password"
	CredentialsGofileToken      = "credentials.gofile.token"
	CredentialsPixeldrainAPIKey = "credentials.pixeldrain.api_key"
	CredentialsPixivSessionID   = "credentials.pixiv.session_id"
	CredentialsFanboxSessionID  = "credentials.fanbox.session_id"
	CredentialsPrefix           = "credentials"
)

// Platform tuning.
const (
	PixeldrainUseProxy    = "pixeldrain.use_proxy"
	GofileWebsiteTokenTTL = "gofile.website_token_ttl"
)

// Logging infrastructure.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI presentation.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
	IconsVariant    = "icons.variant"
)
