package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrDefaultLanguageRequired = errors.New("headless config: default language is required")
var ErrLoggingProviderRequired = errors.New("headless config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("headless config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("headless config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("headless config: logging format is invalid")
var ErrWebhookRetryBudgetInvalid = errors.New("headless config: webhook retry budget must be zero or positive")
var ErrWebhookTimeoutInvalid = errors.New("headless config: webhook timeout must be positive")
var ErrStorageProviderUnknown = errors.New("headless config: storage provider is invalid")

// Config aggregates feature flags and adapter bindings for the headless module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled  bool
	Site     SiteConfig
	I18N     I18NConfig
	Storage  StorageConfig
	Cache    CacheConfig
	Webhooks WebhookConfig
	Media    MediaConfig
	Features Features
	Logging  LoggingConfig
}

// SiteConfig carries site-wide defaults applied to new content.
type SiteConfig struct {
	Name                 string
	Timezone             string
	DefaultContentStatus string
}

// I18NConfig seeds the language registry and selects the site default.
type I18NConfig struct {
	DefaultLanguage string
	Languages       []string
}

// StorageConfig selects the repository backend.
type StorageConfig struct {
	Provider string
}

// CacheConfig captures repository cache behaviour.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// WebhookConfig bounds outbound delivery behaviour.
type WebhookConfig struct {
	Timeout    time.Duration
	RetryLimit int
	RetryDelay time.Duration
}

// MediaConfig captures media processing behaviour.
type MediaConfig struct {
	MaxResponseBytes int
}

// Features toggles module functionality.
type Features struct {
	Versioning   bool
	Webhooks     bool
	Comments     bool
	MediaLibrary bool
	Logger       bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
}

// DefaultConfig returns opinionated defaults for a fully featured deployment.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Site: SiteConfig{
			Name:                 "Headless",
			Timezone:             "UTC",
			DefaultContentStatus: "draft",
		},
		I18N: I18NConfig{
			DefaultLanguage: "en",
			Languages:       []string{"en"},
		},
		Storage: StorageConfig{
			Provider: "memory",
		},
		Cache: CacheConfig{
			Enabled:    false,
			DefaultTTL: time.Minute,
		},
		Webhooks: WebhookConfig{
			Timeout:    10 * time.Second,
			RetryLimit: 3,
			RetryDelay: time.Minute,
		},
		Features: Features{
			Versioning:   true,
			Webhooks:     true,
			Comments:     true,
			MediaLibrary: true,
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.I18N.DefaultLanguage) == "" {
		return ErrDefaultLanguageRequired
	}
	switch normalize(cfg.Storage.Provider) {
	case "", "memory", "bun":
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}
	if cfg.Webhooks.RetryLimit < 0 {
		return ErrWebhookRetryBudgetInvalid
	}
	if cfg.Features.Webhooks && cfg.Webhooks.Timeout <= 0 {
		return ErrWebhookTimeoutInvalid
	}
	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if provider != "gologger" && provider != "noop" {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
