package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/bidsify/pkg/constants"
	"github.com/agentstation/bidsify/pkg/errors"
	"github.com/agentstation/bidsify/pkg/options"
)

// namespaces are the config sections decoded into options.Options.
var namespaces = []string{"general", "anat", "meg", "channels", "events"}

var configExts = []string{"yaml", "yml", "json", "toml"}

// Config holds the application configuration loaded from config files,
// environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Conversion settings
	OutputDir       string
	DryRun          bool
	CalibrationPath string

	// Options is the decoded general/anat/meg/channels/events configuration.
	Options *options.Options

	// Logging configuration. LogLevel is the explicit --log-level flag;
	// EnvLogLevel comes from LOG_LEVEL and ranks below -v and -q.
	LogLevel    string
	EnvLogLevel string
	LogFormat   string
	LogOutput   string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. BIDSIFY_* environment variables
// 3. .env files
// 4. Config file (path, or bidsify.yaml in . or ~/.bidsify.yaml)
// 5. Defaults
func LoadConfig(path string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "reading "+path, err)
		}
	} else if found := findConfigFile(); found != "" {
		v.SetConfigFile(found)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "reading "+found, err)
		}
	}

	raw := make(map[string]any, len(namespaces))
	for _, ns := range namespaces {
		if val := v.Get(ns); val != nil {
			raw[ns] = val
		}
	}
	opts, err := options.Decode(raw)
	if err != nil {
		return nil, err
	}

	return &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		OutputDir:       v.GetString("out_dir"),
		DryRun:          v.GetBool("dry_run"),
		CalibrationPath: v.GetString("calibration"),

		Options: opts,

		EnvLogLevel: getEnvOrDefault("LOG_LEVEL", v.GetString("log_level")),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", v.GetString("log_format")),
		LogOutput:   getEnvOrDefault("LOG_OUTPUT", v.GetString("log_output")),
	}, nil
}

// findConfigFile returns the first existing default config file, trying
// ./bidsify.{yaml,yml,json,toml} before ~/.bidsify.{yaml,yml,json,toml}.
func findConfigFile() string {
	var candidates []string
	for _, ext := range configExts {
		candidates = append(candidates, constants.ConfigName+"."+ext)
	}
	if home, err := os.UserHomeDir(); err == nil {
		for _, ext := range configExts {
			candidates = append(candidates, home+string(os.PathSeparator)+"."+constants.ConfigName+"."+ext)
		}
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// .env.local overrides .env
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
