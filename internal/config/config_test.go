package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eugenenazirov/release-signing/internal/output"
	"github.com/eugenenazirov/release-signing/internal/signing"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"SIGNCFG_PROJECT_DIR",
		"SIGNCFG_PROPERTIES_FILE",
		"SIGNCFG_BUNDLED_KEYSTORE",
		"SIGNCFG_DEBUG_KEYSTORE",
		"SIGNCFG_OUTPUT",
		"SIGNCFG_LOG_LEVEL",
		"SIGNCFG_SHOW_SECRETS",
		"SIGNCFG_STRICT",
		"ANDROID_USER_HOME",
	} {
		t.Setenv(key, "")
	}
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.ProjectDir != defaultProjectDir {
		t.Fatalf("expected default project dir, got %s", cfg.ProjectDir)
	}
	if cfg.PropertiesFile != "key.properties" {
		t.Fatalf("unexpected properties file %s", cfg.PropertiesFile)
	}
	if cfg.BundledKeystore != filepath.Join("..", "release-keystore.jks") {
		t.Fatalf("unexpected bundled keystore %s", cfg.BundledKeystore)
	}
	if cfg.Defaults != signing.DefaultDefaults() {
		t.Fatalf("unexpected defaults %+v", cfg.Defaults)
	}
	if cfg.Output != output.FormatJSON || cfg.LogLevel != "info" {
		t.Fatalf("unexpected output/log level %s/%s", cfg.Output, cfg.LogLevel)
	}
	if cfg.ShowSecrets || cfg.Strict {
		t.Fatalf("expected secrets hidden and strict disabled by default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SIGNCFG_PROJECT_DIR", "/work/android")
	t.Setenv("SIGNCFG_OUTPUT", "yaml")
	t.Setenv("SIGNCFG_STRICT", "true")
	t.Setenv("ANDROID_USER_HOME", "/opt/android-home")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.PropertiesFile != "/work/android/key.properties" {
		t.Fatalf("expected anchored properties file, got %s", cfg.PropertiesFile)
	}
	if cfg.BundledKeystore != "/work/release-keystore.jks" {
		t.Fatalf("expected anchored bundled keystore, got %s", cfg.BundledKeystore)
	}
	if cfg.DebugKeystore != "/opt/android-home/debug.keystore" {
		t.Fatalf("unexpected debug keystore %s", cfg.DebugKeystore)
	}
	if cfg.Output != output.FormatYAML || !cfg.Strict {
		t.Fatalf("expected env overrides to apply, got %+v", cfg)
	}
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("SIGNCFG_OUTPUT", "yaml")
	t.Setenv("SIGNCFG_LOG_LEVEL", "warn")

	path := filepath.Join(t.TempDir(), "signcfg.yaml")
	content := `project_dir: /from/yaml
bundled_keystore: /keys/bundled.jks
output: properties
show_secrets: true
defaults:
  store_password: ""
  key_alias: upload
  google_client_id: yaml-client
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(&CLIOverrides{
		ConfigFile: path,
		ProjectDir: strPtr("/from/cli"),
		LogLevel:   strPtr("debug"),
		Strict:     boolPtr(true),
	})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.ProjectDir != "/from/cli" {
		t.Fatalf("expected CLI project dir, got %s", cfg.ProjectDir)
	}
	if cfg.PropertiesFile != "/from/cli/key.properties" {
		t.Fatalf("unexpected properties file %s", cfg.PropertiesFile)
	}
	if cfg.BundledKeystore != "/keys/bundled.jks" {
		t.Fatalf("expected absolute keystore kept, got %s", cfg.BundledKeystore)
	}
	// environment overrides YAML
	if cfg.Output != output.FormatYAML {
		t.Fatalf("expected env output to override YAML, got %s", cfg.Output)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected CLI log level, got %s", cfg.LogLevel)
	}
	if !cfg.ShowSecrets || !cfg.Strict {
		t.Fatalf("expected show secrets and strict enabled")
	}
	if cfg.Defaults.StorePassword != "" || cfg.Defaults.KeyPassword != signing.DefaultPassword {
		t.Fatalf("unexpected password defaults %+v", cfg.Defaults)
	}
	if cfg.Defaults.KeyAlias != "upload" || cfg.GoogleClientID != "yaml-client" {
		t.Fatalf("unexpected YAML defaults %+v / %s", cfg.Defaults, cfg.GoogleClientID)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("SIGNCFG_STRICT", "maybe")

	if _, err := Load(nil); err == nil || !strings.Contains(err.Error(), "SIGNCFG_STRICT") {
		t.Fatalf("expected invalid boolean error, got %v", err)
	}

	t.Setenv("SIGNCFG_STRICT", "")
	_, err := Load(&CLIOverrides{Output: strPtr("xml"), LogLevel: strPtr("loud")})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{`unsupported output format "xml"`, `unsupported log level "loud"`} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %v", want, err)
		}
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	clearEnv(t)

	if _, err := Load(&CLIOverrides{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
