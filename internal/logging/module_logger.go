package logging

import (
	"context"

	"github.com/goliatone/go-headless/pkg/interfaces"
)

const (
	rootModule     = "headless"
	schemaModule   = "headless.schema"
	i18nModule     = "headless.i18n"
	contentModule  = "headless.content"
	taxonomyModule = "headless.taxonomy"
	commentsModule = "headless.comments"
	mediaModule    = "headless.media"
	webhooksModule = "headless.webhooks"
	queueModule    = "headless.queue"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field so entries can be filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{"module": module})
}

// SchemaLogger returns the logger namespace reserved for the schema registry.
func SchemaLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, schemaModule)
}

// I18NLogger returns the logger namespace reserved for language services.
func I18NLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, i18nModule)
}

// ContentLogger returns the logger namespace reserved for the content store.
func ContentLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, contentModule)
}

// TaxonomyLogger returns the logger namespace reserved for taxonomies.
func TaxonomyLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, taxonomyModule)
}

// CommentsLogger returns the logger namespace reserved for the comment subsystem.
func CommentsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commentsModule)
}

// MediaLogger returns the logger namespace reserved for the media library.
func MediaLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, mediaModule)
}

// WebhooksLogger returns the logger namespace reserved for webhook dispatch.
func WebhooksLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, webhooksModule)
}

// QueueLogger returns the logger namespace reserved for the task queue worker.
func QueueLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, queueModule)
}

// NoOp returns a logger that drops every entry. It satisfies the Logger
// contract so services operate safely when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

// NoOpProvider returns a provider whose loggers drop every entry.
func NoOpProvider() interfaces.LoggerProvider {
	return noopProvider{}
}

type noopProvider struct{}

func (noopProvider) GetLogger(string) interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
