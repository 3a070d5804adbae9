package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kytta/LaTeXBuddy/internal/config"
)

func TestMergePrioritizesLaterConfigs(t *testing.T) {
	base := config.Config{
		Output: config.OutputConfig{Directory: "default"},
	}
	file := config.Config{
		Output: config.OutputConfig{Directory: "file"},
	}
	final := config.Config{
		Output: config.OutputConfig{Directory: "env"},
	}

	merged := config.Merge(base, file, final)

	if merged.Output.Directory != "env" {
		t.Fatalf("expected env directory to win, got %s", merged.Output.Directory)
	}
}

func TestMergePreservesBaseWhenOverlayEmpty(t *testing.T) {
	base := config.Config{
		Language:  "de",
		Whitelist: config.WhitelistConfig{Path: "wl"},
		Checks:    config.ChecksConfig{MaxParallel: 4, ModuleTimeout: "30s"},
	}

	merged := config.Merge(base, config.Config{})

	if merged.Language != "de" {
		t.Fatalf("expected base language to survive, got %s", merged.Language)
	}
	if merged.Whitelist.Path != "wl" {
		t.Fatalf("expected base whitelist path to survive, got %s", merged.Whitelist.Path)
	}
	if merged.Checks.MaxParallel != 4 || merged.Checks.ModuleTimeout != "30s" {
		t.Fatalf("expected base checks config to survive, got %+v", merged.Checks)
	}
}

func TestMergeModulesOverlayWins(t *testing.T) {
	base := config.Config{
		Modules: config.ModulesConfig{DefaultEnabled: true},
	}
	overlay := config.Config{
		Modules: config.ModulesConfig{Enable: []string{"aspell"}},
	}

	merged := config.Merge(base, overlay)

	if len(merged.Modules.Enable) != 1 || merged.Modules.Enable[0] != "aspell" {
		t.Fatalf("expected overlay module selection, got %+v", merged.Modules)
	}
}

func TestLoadReadsFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "latexbuddy.yaml")
	if err := os.WriteFile(file, []byte("output:\n  directory: file\n"), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("LATEXBUDDY_OUTPUT_DIRECTORY", "env")

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: []string{dir},
		FileName:    "latexbuddy",
		EnvPrefix:   "LATEXBUDDY",
	})
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}

	if cfg.Output.Directory != "env" {
		t.Fatalf("expected env override, got %s", cfg.Output.Directory)
	}
}

func TestLoadReadsCheckerSettingsFromFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "latexbuddy.yaml")
	content := `
language: de
checkers:
  languagetool:
    url: http://lt.internal:8081
checks:
  maxParallel: 2
  moduleTimeout: 45s
`
	if err := os.WriteFile(file, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: []string{dir},
		FileName:    "latexbuddy",
		EnvPrefix:   "LATEXBUDDY_TEST_CHECKERS",
	})
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}

	if cfg.Language != "de" {
		t.Fatalf("expected language 'de', got %s", cfg.Language)
	}
	if cfg.Checkers.LanguageTool.URL != "http://lt.internal:8081" {
		t.Fatalf("expected languagetool url from file, got %s", cfg.Checkers.LanguageTool.URL)
	}
	if cfg.Checks.MaxParallel != 2 || cfg.Checks.ModuleTimeout != "45s" {
		t.Fatalf("expected checks config from file, got %+v", cfg.Checks)
	}
}
