// Package extension provides the Forge extension adapter for lendbook.
//
// It implements the forge.Extension interface to integrate a Book into a
// Forge application with DI registration, HTTP routes, metrics and
// lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.lendbook" or "lendbook" keys.
package extension

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	"github.com/xraph/lendbook"
	"github.com/xraph/lendbook/api"
	"github.com/xraph/lendbook/i18n"
	"github.com/xraph/lendbook/observability"
	"github.com/xraph/lendbook/store"
	"github.com/xraph/lendbook/store/memory"
	"github.com/xraph/lendbook/transaction"
	"github.com/xraph/lendbook/transaction/journal"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "lendbook"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Borrowed and lent money tracking"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts a lendbook Book as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	book       *lendbook.Book
	store      store.Store
	recorder   transaction.Recorder
	translator i18n.Translator
	bundle     *i18n.Bundle
	bookOpts   []lendbook.Option
}

// New creates a new lendbook Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Book returns the underlying Book.
// This is nil until Register is called.
func (e *Extension) Book() *lendbook.Book { return e.book }

// Register implements [forge.Extension]. It loads configuration, builds
// the Book, registers it in the DI container and mounts the HTTP API.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	// Use memory store if no store was provided programmatically.
	if e.store == nil {
		e.store = memory.New()
	}
	if e.recorder == nil {
		e.recorder = journal.New(e.store)
	}

	bundle, err := i18n.NewBundle()
	if err != nil {
		return err
	}
	e.bundle = bundle

	opts := e.buildBookOpts()
	if !e.config.DisableMetrics {
		opts = append(opts, lendbook.WithPlugin(
			observability.NewMetricsExtension(forgeMetrics{m: fapp.Metrics()}),
		))
	}

	e.book = lendbook.New(e.store, e.recorder, opts...)

	if !e.config.DisableRoutes {
		if err := e.registerRoutes(fapp.Router()); err != nil {
			return err
		}
	}

	return vessel.Provide(fapp.Container(), func() (*lendbook.Book, error) {
		return e.book, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.book == nil {
		return errors.New("lendbook: extension not initialized")
	}

	if !e.config.DisableMigrate {
		if err := e.book.Start(ctx); err != nil {
			return err
		}
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(ctx context.Context) error {
	if e.book != nil {
		if err := e.book.Stop(ctx); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("lendbook: store not initialized")
	}
	return e.store.Ping(ctx)
}

func (e *Extension) registerRoutes(r forge.Router) error {
	base := "/" + strings.Trim(e.config.BasePath, "/")
	srv := api.NewServer(e.book, api.WithBundle(e.bundle))
	return r.Handle(base, http.StripPrefix(base, srv.Handler()))
}

// buildBookOpts constructs lendbook.Option values from the resolved config.
func (e *Extension) buildBookOpts() []lendbook.Option {
	opts := make([]lendbook.Option, 0, len(e.bookOpts)+2)

	if e.config.StorageKey != "" {
		opts = append(opts, lendbook.WithStorageKey(e.config.StorageKey))
	}

	switch {
	case e.translator != nil:
		opts = append(opts, lendbook.WithTranslator(e.translator))
	case e.bundle != nil && e.config.Language != "":
		opts = append(opts, lendbook.WithTranslator(e.bundle.Localizer(e.config.Language)))
	}

	// Append any pass-through Book options.
	opts = append(opts, e.bookOpts...)

	return opts
}

// --- Config Loading ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("lendbook: configuration is required but not found in config files; " +
				"ensure 'extensions.lendbook' or 'lendbook' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("lendbook: configuration loaded",
		forge.F("disable_routes", e.config.DisableRoutes),
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("disable_metrics", e.config.DisableMetrics),
		forge.F("base_path", e.config.BasePath),
		forge.F("storage_key", e.config.StorageKey),
		forge.F("language", e.config.Language),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	for _, key := range []string{"extensions.lendbook", "lendbook"} {
		if !cm.IsSet(key) {
			continue
		}
		if err := cm.Bind(key, &cfg); err == nil {
			e.Logger().Debug("lendbook: loaded config from file",
				forge.F("key", key),
			)
			return cfg, true
		}
		e.Logger().Warn("lendbook: failed to bind config",
			forge.F("key", key),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.BasePath == "" {
		cfg.BasePath = defaults.BasePath
	}
	if cfg.StorageKey == "" {
		cfg.StorageKey = defaults.StorageKey
	}
	if cfg.Language == "" {
		cfg.Language = defaults.Language
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic bool flags fill gaps.
func mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableRoutes {
		yamlConfig.DisableRoutes = true
	}
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}
	if programmaticConfig.DisableMetrics {
		yamlConfig.DisableMetrics = true
	}

	// String fields: YAML takes precedence.
	if yamlConfig.BasePath == "" {
		yamlConfig.BasePath = programmaticConfig.BasePath
	}
	if yamlConfig.StorageKey == "" {
		yamlConfig.StorageKey = programmaticConfig.StorageKey
	}
	if yamlConfig.Language == "" {
		yamlConfig.Language = programmaticConfig.Language
	}

	// Fill remaining zeros with defaults.
	return mergeWithDefaults(yamlConfig)
}
