package extension

import (
	"github.com/xraph/lendbook"
	"github.com/xraph/lendbook/i18n"
	"github.com/xraph/lendbook/plugin"
	"github.com/xraph/lendbook/store"
	"github.com/xraph/lendbook/transaction"
)

// Option configures the lendbook Forge extension.
type Option func(*Extension)

// WithStore sets the store for the Book.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithRecorder sets the wallet recorder. Without one, a journal over the
// extension's store is used.
func WithRecorder(r transaction.Recorder) Option {
	return func(e *Extension) {
		e.recorder = r
	}
}

// WithTranslator overrides the translator derived from Config.Language.
func WithTranslator(tr i18n.Translator) Option {
	return func(e *Extension) {
		e.translator = tr
	}
}

// WithBookOption passes a lendbook.Option through to the underlying Book.
func WithBookOption(opt lendbook.Option) Option {
	return func(e *Extension) {
		e.bookOpts = append(e.bookOpts, opt)
	}
}

// WithPlugin registers a lendbook plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.bookOpts = append(e.bookOpts, lendbook.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableRoutes prevents HTTP route registration.
func WithDisableRoutes() Option {
	return func(e *Extension) { e.config.DisableRoutes = true }
}

// WithDisableMigrate prevents auto-migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithDisableMetrics skips the metrics plugin.
func WithDisableMetrics() Option {
	return func(e *Extension) { e.config.DisableMetrics = true }
}

// WithBasePath sets the URL prefix for lendbook routes.
func WithBasePath(path string) Option {
	return func(e *Extension) { e.config.BasePath = path }
}

// WithStorageKey sets the blob key obligations are stored under.
func WithStorageKey(key string) Option {
	return func(e *Extension) { e.config.StorageKey = key }
}

// WithLanguage sets the transaction description language.
func WithLanguage(lang string) Option {
	return func(e *Extension) { e.config.Language = lang }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}
