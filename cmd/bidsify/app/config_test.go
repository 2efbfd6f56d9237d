package app

import (
	"os"
	"path/filepath"
	"testing"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"LOG_LEVEL", "LOG_FORMAT", "LOG_OUTPUT", "BIDSIFY_OUT_DIR", "BIDSIFY_DRY_RUN"} {
		t.Setenv(key, "")
	}
	return home
}

// TestLoadConfig verifies basic config loading.
func TestLoadConfig(t *testing.T) {
	isolate(t)

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.LogFormat != "auto" {
		t.Errorf("LogFormat = %q, want auto", config.LogFormat)
	}
	if config.LogOutput != "stderr" {
		t.Errorf("LogOutput = %q, want stderr", config.LogOutput)
	}
	if config.Options == nil {
		t.Fatal("Options is nil")
	}
	if config.ConfigFile != "" {
		t.Errorf("ConfigFile = %q, want none", config.ConfigFile)
	}
}

// TestLoadConfig_File verifies the namespaces are decoded into options.
func TestLoadConfig_File(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "study.yaml")
	content := `
general:
  InstitutionName: X
meg:
  write: true
  PowerLineFrequency: 50
channels:
  type: [meg, eeg]
events:
  trl:
    - [1, 1200, 0]
out_dir: /bids/sub-01
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.ConfigFile != path {
		t.Errorf("ConfigFile = %q, want %q", config.ConfigFile, path)
	}
	if config.OutputDir != "/bids/sub-01" {
		t.Errorf("OutputDir = %q", config.OutputDir)
	}

	opts := config.Options
	// viper folds keys to lower case; field names are matched case-insensitively downstream.
	if opts.General["institutionname"] != "X" {
		t.Errorf("General = %v", opts.General)
	}
	if !opts.MEG.Enabled() || len(opts.MEG.Fields) != 1 {
		t.Errorf("MEG = %+v", opts.MEG)
	}
	if len(opts.Channels.Type) != 2 {
		t.Errorf("Channels.Type = %v", opts.Channels.Type)
	}
	if len(opts.Events.Trl) != 1 || opts.Events.Trl[0][1] != 1200 {
		t.Errorf("Events.Trl = %v", opts.Events.Trl)
	}
}

// TestLoadConfig_HomeFile verifies the default search location.
func TestLoadConfig_HomeFile(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, ".bidsify.yaml")
	if err := os.WriteFile(path, []byte("dry_run: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if !config.DryRun {
		t.Error("dry_run from home config not loaded")
	}
}

// TestConfig_EnvironmentVariables verifies environment variable loading.
func TestConfig_EnvironmentVariables(t *testing.T) {
	isolate(t)
	t.Setenv("BIDSIFY_OUT_DIR", "/out")
	t.Setenv("LOG_LEVEL", "debug")

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.OutputDir != "/out" {
		t.Errorf("OutputDir = %q, want /out", config.OutputDir)
	}
	if config.EnvLogLevel != "debug" {
		t.Errorf("EnvLogLevel = %q, want debug", config.EnvLogLevel)
	}
}

// TestLoadConfig_Errors verifies unreadable and invalid configuration fails.
func TestLoadConfig_Errors(t *testing.T) {
	isolate(t)

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	content := "events:\n  trl: [[1, 2, 0]]\n  trialtable_file: trials.tsv\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for conflicting event options")
	}
}

// TestUpdateFromFlags verifies flag values take precedence.
func TestUpdateFromFlags(t *testing.T) {
	config := &Config{Format: "json"}
	config.UpdateFromFlags(true, false, true, "", "warn")

	if !config.Verbose || config.Quiet || !config.NoColor {
		t.Errorf("flags not applied: %+v", config)
	}
	if config.Format != "json" {
		t.Errorf("Format = %q, empty flag must keep json", config.Format)
	}
	if config.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", config.LogLevel)
	}
}
