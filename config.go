package headless

import "github.com/goliatone/go-headless/internal/runtimeconfig"

// Config carries the module configuration. See DefaultConfig for the
// opinionated defaults.
type Config = runtimeconfig.Config

// SiteConfig carries site-wide defaults applied to new content.
type SiteConfig = runtimeconfig.SiteConfig

// I18NConfig selects the default language and the seeded language set.
type I18NConfig = runtimeconfig.I18NConfig

// StorageConfig selects the repository backend.
type StorageConfig = runtimeconfig.StorageConfig

// CacheConfig toggles the repository read cache.
type CacheConfig = runtimeconfig.CacheConfig

// WebhookConfig bounds webhook delivery behaviour.
type WebhookConfig = runtimeconfig.WebhookConfig

// MediaConfig bounds media processing behaviour.
type MediaConfig = runtimeconfig.MediaConfig

// Features toggles module functionality.
type Features = runtimeconfig.Features

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig = runtimeconfig.LoggingConfig

// DefaultConfig returns opinionated defaults for a fully featured deployment.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

var (
	ErrDefaultLanguageRequired   = runtimeconfig.ErrDefaultLanguageRequired
	ErrStorageProviderUnknown    = runtimeconfig.ErrStorageProviderUnknown
	ErrWebhookTimeoutInvalid     = runtimeconfig.ErrWebhookTimeoutInvalid
	ErrWebhookRetryBudgetInvalid = runtimeconfig.ErrWebhookRetryBudgetInvalid
	ErrLoggingProviderRequired   = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown    = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid       = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid      = runtimeconfig.ErrLoggingFormatInvalid
)
