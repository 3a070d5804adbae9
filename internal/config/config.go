package config

// Config represents the full application configuration.
type Config struct {
	Language      string              `yaml:"language"`
	Whitelist     WhitelistConfig     `yaml:"whitelist"`
	Output        OutputConfig        `yaml:"output"`
	Modules       ModulesConfig       `yaml:"modules"`
	Checks        ChecksConfig        `yaml:"checks"`
	Checkers      CheckersConfig      `yaml:"checkers"`
	Store         StoreConfig         `yaml:"store"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// WhitelistConfig locates the persistent whitelist file.
type WhitelistConfig struct {
	Path string `yaml:"path"`
}

// OutputConfig controls where and how reports are written.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Format    string `yaml:"format"` // json, html, console
}

// ModulesConfig selects which checker modules run.
type ModulesConfig struct {
	// Enable and Disable are mutually exclusive; an empty Enable list
	// falls back to the DefaultEnabled policy.
	Enable         []string `yaml:"enable"`
	Disable        []string `yaml:"disable"`
	DefaultEnabled bool     `yaml:"defaultEnabled"`
}

// ChecksConfig tunes the orchestration of a check run.
type ChecksConfig struct {
	MaxParallel int `yaml:"maxParallel"`

	// ModuleTimeout is a Go duration string; empty means unbounded.
	ModuleTimeout string `yaml:"moduleTimeout"`
}

// CheckersConfig carries per-checker settings.
type CheckersConfig struct {
	LanguageTool LanguageToolConfig `yaml:"languagetool"`
}

// LanguageToolConfig configures the LanguageTool backend connection.
type LanguageToolConfig struct {
	URL string `yaml:"url"`
}

// StoreConfig configures the run-history persistence layer.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ObservabilityConfig configures logging.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`  // debug, info, error
	Format  string `yaml:"format"` // json, human
}

// Merge combines multiple configuration instances, prioritising the latter ones.
func Merge(configs ...Config) Config {
	result := Config{}
	for _, cfg := range configs {
		result = merge(result, cfg)
	}
	return result
}

func merge(base, overlay Config) Config {
	result := base

	if overlay.Language != "" {
		result.Language = overlay.Language
	}
	result.Whitelist = chooseWhitelist(base.Whitelist, overlay.Whitelist)
	result.Output = chooseOutput(base.Output, overlay.Output)
	result.Modules = chooseModules(base.Modules, overlay.Modules)
	result.Checks = chooseChecks(base.Checks, overlay.Checks)
	result.Checkers = chooseCheckers(base.Checkers, overlay.Checkers)
	result.Store = chooseStore(base.Store, overlay.Store)
	result.Observability = chooseObservability(base.Observability, overlay.Observability)

	return result
}

func chooseWhitelist(base, overlay WhitelistConfig) WhitelistConfig {
	if overlay.Path != "" {
		return overlay
	}
	return base
}

func chooseOutput(base, overlay OutputConfig) OutputConfig {
	result := base
	if overlay.Directory != "" {
		result.Directory = overlay.Directory
	}
	if overlay.Format != "" {
		result.Format = overlay.Format
	}
	return result
}

func chooseModules(base, overlay ModulesConfig) ModulesConfig {
	if len(overlay.Enable) > 0 || len(overlay.Disable) > 0 || overlay.DefaultEnabled {
		return overlay
	}
	return base
}

func chooseChecks(base, overlay ChecksConfig) ChecksConfig {
	result := base
	if overlay.MaxParallel != 0 {
		result.MaxParallel = overlay.MaxParallel
	}
	if overlay.ModuleTimeout != "" {
		result.ModuleTimeout = overlay.ModuleTimeout
	}
	return result
}

func chooseCheckers(base, overlay CheckersConfig) CheckersConfig {
	result := base
	if overlay.LanguageTool.URL != "" {
		result.LanguageTool = overlay.LanguageTool
	}
	return result
}

func chooseStore(base, overlay StoreConfig) StoreConfig {
	if overlay.Enabled || overlay.Path != "" {
		return overlay
	}
	return base
}

func chooseObservability(base, overlay ObservabilityConfig) ObservabilityConfig {
	result := base
	if overlay.Logging.Enabled || overlay.Logging.Level != "" || overlay.Logging.Format != "" {
		result.Logging = overlay.Logging
	}
	return result
}
