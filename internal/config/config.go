package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/release-signing/internal/output"
	"github.com/eugenenazirov/release-signing/internal/signing"
)

const (
	defaultProjectDir     = "."
	defaultOutput         = output.FormatJSON
	defaultLogLevel       = "info"
	defaultGoogleClientID = "000000000000-placeholder.apps.googleusercontent.com"
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	ProjectDir      string
	PropertiesFile  string
	BundledKeystore string
	DebugKeystore   string
	Defaults        signing.Defaults
	GoogleClientID  string
	Output          string
	ShowSecrets     bool
	Strict          bool
	LogLevel        string
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	ProjectDir      string       `yaml:"project_dir"`
	PropertiesFile  string       `yaml:"properties_file"`
	BundledKeystore string       `yaml:"bundled_keystore"`
	DebugKeystore   string       `yaml:"debug_keystore"`
	Defaults        yamlDefaults `yaml:"defaults"`
	Output          string       `yaml:"output"`
	ShowSecrets     *bool        `yaml:"show_secrets"`
	Strict          *bool        `yaml:"strict"`
	LogLevel        string       `yaml:"log_level"`
}

// yamlDefaults represents the defaults section in YAML.
type yamlDefaults struct {
	StorePassword  *string `yaml:"store_password"`
	KeyPassword    *string `yaml:"key_password"`
	KeyAlias       string  `yaml:"key_alias"`
	GoogleClientID string  `yaml:"google_client_id"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile      string
	ProjectDir      *string
	PropertiesFile  *string
	BundledKeystore *string
	DebugKeystore   *string
	Output          *string
	ShowSecrets     *bool
	Strict          *bool
	LogLevel        *string
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Load from YAML file if specified
	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		applyYAMLConfig(&cfg, yamlCfg)
	}

	// Apply environment variables (override YAML)
	if err := applyEnvConfig(&cfg); err != nil {
		return Config{}, err
	}

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	resolvePaths(&cfg)
	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		ProjectDir:      defaultProjectDir,
		PropertiesFile:  signing.DefaultPropertiesFile,
		BundledKeystore: signing.DefaultBundledKeystore,
		DebugKeystore:   defaultDebugKeystore(),
		Defaults:        signing.DefaultDefaults(),
		GoogleClientID:  defaultGoogleClientID,
		Output:          defaultOutput,
		LogLevel:        defaultLogLevel,
	}
}

// defaultDebugKeystore mirrors where the Android tooling keeps its debug keystore.
func defaultDebugKeystore() string {
	if userHome := strings.TrimSpace(os.Getenv("ANDROID_USER_HOME")); userHome != "" {
		return filepath.Join(userHome, "debug.keystore")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return signing.DefaultDebugKeystorePath(home)
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) {
	setString(&cfg.ProjectDir, yamlCfg.ProjectDir)
	setString(&cfg.PropertiesFile, yamlCfg.PropertiesFile)
	setString(&cfg.BundledKeystore, yamlCfg.BundledKeystore)
	setString(&cfg.DebugKeystore, yamlCfg.DebugKeystore)
	setString(&cfg.Output, yamlCfg.Output)
	setString(&cfg.LogLevel, yamlCfg.LogLevel)
	setString(&cfg.Defaults.KeyAlias, yamlCfg.Defaults.KeyAlias)
	setString(&cfg.GoogleClientID, yamlCfg.Defaults.GoogleClientID)

	// Passwords may legitimately be empty.
	if yamlCfg.Defaults.StorePassword != nil {
		cfg.Defaults.StorePassword = *yamlCfg.Defaults.StorePassword
	}
	if yamlCfg.Defaults.KeyPassword != nil {
		cfg.Defaults.KeyPassword = *yamlCfg.Defaults.KeyPassword
	}

	if yamlCfg.ShowSecrets != nil {
		cfg.ShowSecrets = *yamlCfg.ShowSecrets
	}
	if yamlCfg.Strict != nil {
		cfg.Strict = *yamlCfg.Strict
	}
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) error {
	setString(&cfg.ProjectDir, os.Getenv("SIGNCFG_PROJECT_DIR"))
	setString(&cfg.PropertiesFile, os.Getenv("SIGNCFG_PROPERTIES_FILE"))
	setString(&cfg.BundledKeystore, os.Getenv("SIGNCFG_BUNDLED_KEYSTORE"))
	setString(&cfg.DebugKeystore, os.Getenv("SIGNCFG_DEBUG_KEYSTORE"))
	setString(&cfg.Output, os.Getenv("SIGNCFG_OUTPUT"))
	setString(&cfg.LogLevel, os.Getenv("SIGNCFG_LOG_LEVEL"))

	var errs error
	if raw := strings.TrimSpace(os.Getenv("SIGNCFG_SHOW_SECRETS")); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("SIGNCFG_SHOW_SECRETS: invalid boolean %q", raw))
		} else {
			cfg.ShowSecrets = value
		}
	}
	if raw := strings.TrimSpace(os.Getenv("SIGNCFG_STRICT")); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("SIGNCFG_STRICT: invalid boolean %q", raw))
		} else {
			cfg.Strict = value
		}
	}
	return errs
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	setStringPtr(&cfg.ProjectDir, overrides.ProjectDir)
	setStringPtr(&cfg.PropertiesFile, overrides.PropertiesFile)
	setStringPtr(&cfg.BundledKeystore, overrides.BundledKeystore)
	setStringPtr(&cfg.DebugKeystore, overrides.DebugKeystore)
	setStringPtr(&cfg.Output, overrides.Output)
	setStringPtr(&cfg.LogLevel, overrides.LogLevel)

	if overrides.ShowSecrets != nil {
		cfg.ShowSecrets = *overrides.ShowSecrets
	}
	if overrides.Strict != nil {
		cfg.Strict = *overrides.Strict
	}
}

// validateConfig validates the final configuration and reports every problem at once.
func validateConfig(cfg Config) error {
	var errs error
	if cfg.ProjectDir == "" {
		errs = multierr.Append(errs, fmt.Errorf("project dir cannot be empty"))
	}
	if cfg.PropertiesFile == "" {
		errs = multierr.Append(errs, fmt.Errorf("properties file cannot be empty"))
	}
	if cfg.BundledKeystore == "" {
		errs = multierr.Append(errs, fmt.Errorf("bundled keystore cannot be empty"))
	}
	if cfg.Defaults.KeyAlias == "" {
		errs = multierr.Append(errs, fmt.Errorf("default key alias cannot be empty"))
	}
	switch cfg.Output {
	case output.FormatJSON, output.FormatYAML, output.FormatProperties:
	default:
		errs = multierr.Append(errs, fmt.Errorf("unsupported output format %q", cfg.Output))
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = multierr.Append(errs, fmt.Errorf("unsupported log level %q", cfg.LogLevel))
	}
	return errs
}

// resolvePaths anchors relative properties and keystore paths at the project dir.
func resolvePaths(cfg *Config) {
	cfg.PropertiesFile = anchor(cfg.ProjectDir, cfg.PropertiesFile)
	cfg.BundledKeystore = anchor(cfg.ProjectDir, cfg.BundledKeystore)
}

func anchor(dir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(dir, path)
}

func setString(dst *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*dst = value
	}
}

func setStringPtr(dst *string, value *string) {
	if value != nil {
		setString(dst, *value)
	}
}
