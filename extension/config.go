package extension

import "github.com/xraph/lendbook"

// Config holds the lendbook extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.lendbook" or "lendbook" keys).
type Config struct {
	// DisableRoutes prevents HTTP route registration.
	DisableRoutes bool `json:"disable_routes" mapstructure:"disable_routes" yaml:"disable_routes"`

	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// DisableMetrics skips registering the metrics plugin.
	DisableMetrics bool `json:"disable_metrics" mapstructure:"disable_metrics" yaml:"disable_metrics"`

	// BasePath is the URL prefix for lendbook routes (default: "/lendbook").
	BasePath string `json:"base_path" mapstructure:"base_path" yaml:"base_path"`

	// StorageKey is the blob key obligations are stored under
	// (default: "borrowed_money").
	StorageKey string `json:"storage_key" mapstructure:"storage_key" yaml:"storage_key"`

	// Language selects the translation used for transaction descriptions
	// (default: "en").
	Language string `json:"language" mapstructure:"language" yaml:"language"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BasePath:   "/lendbook",
		StorageKey: lendbook.DefaultStorageKey,
		Language:   "en",
	}
}
