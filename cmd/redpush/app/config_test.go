package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/agentstation/redpush/pkg/constants"
)

// isolate points HOME at an empty directory so no real config is read.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(constants.EnvRedashURL, "")
	t.Setenv(constants.EnvRedashKey, "")
	t.Setenv("LOG_LEVEL", "")
	return home
}

// TestLoadConfig verifies defaults.
func TestLoadConfig(t *testing.T) {
	isolate(t)

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.Timeout != constants.DefaultHTTPTimeout {
		t.Errorf("Timeout = %v, want %v", config.Timeout, constants.DefaultHTTPTimeout)
	}
	if config.Concurrency != constants.DefaultConcurrency {
		t.Errorf("Concurrency = %d, want %d", config.Concurrency, constants.DefaultConcurrency)
	}
	if config.AuthScheme != "key" {
		t.Errorf("AuthScheme = %q, want key", config.AuthScheme)
	}
	if config.LogFormat == "" {
		t.Error("LogFormat not set to default")
	}
}

// TestConfig_EnvironmentVariables verifies the Redash variables are bound.
func TestConfig_EnvironmentVariables(t *testing.T) {
	isolate(t)
	t.Setenv(constants.EnvRedashURL, "https://redash.example.com")
	t.Setenv(constants.EnvRedashKey, "secret")
	t.Setenv("REDPUSH_CONCURRENCY", "4")
	t.Setenv("LOG_LEVEL", "debug")

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.RedashURL != "https://redash.example.com" {
		t.Errorf("RedashURL = %q", config.RedashURL)
	}
	if config.APIKey != "secret" {
		t.Errorf("APIKey = %q", config.APIKey)
	}
	if config.Concurrency != 4 {
		t.Errorf("Concurrency = %d, want 4", config.Concurrency)
	}
	if config.BaseLogLevel != "debug" {
		t.Errorf("BaseLogLevel = %q, want debug", config.BaseLogLevel)
	}
	if config.LogLevel != "" {
		t.Errorf("LogLevel = %q, want empty (flag only)", config.LogLevel)
	}
}

// TestConfig_File verifies an explicit config file.
func TestConfig_File(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "redpush.yaml")
	content := `redash_url: https://file.example.com
api_key: from-file
timeout: 10s
page_size: 100
ignored_fields:
  - updated_at
  - version
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	if config.RedashURL != "https://file.example.com" || config.APIKey != "from-file" {
		t.Errorf("connection = %q / %q", config.RedashURL, config.APIKey)
	}
	if config.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", config.Timeout)
	}
	if config.PageSize != 100 {
		t.Errorf("PageSize = %d, want 100", config.PageSize)
	}
	if len(config.IgnoredFields) != 2 || config.IgnoredFields[0] != "updated_at" {
		t.Errorf("IgnoredFields = %v", config.IgnoredFields)
	}
	if config.ConfigFile != path {
		t.Errorf("ConfigFile = %q, want %q", config.ConfigFile, path)
	}

	// Environment wins over the file
	t.Setenv(constants.EnvRedashKey, "from-env")
	config, err = LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if config.APIKey != "from-env" {
		t.Errorf("APIKey = %q, want from-env", config.APIKey)
	}
}

// TestConfig_MissingFile verifies an explicit missing file is an error.
func TestConfig_MissingFile(t *testing.T) {
	isolate(t)
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

// TestConfig_UpdateFromFlags verifies only changed flags override.
func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{RedashURL: "https://env.example.com", APIKey: "env-key", Concurrency: 1, Timeout: time.Minute}

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("redash-url", "", "")
	flags.String("api-key", "", "")
	flags.Int("concurrency", 1, "")
	flags.Duration("timeout", time.Minute, "")
	flags.BoolP("verbose", "v", false, "")
	if err := flags.Parse([]string{"--redash-url", "https://flag.example.com", "--concurrency", "8", "-v"}); err != nil {
		t.Fatal(err)
	}

	config.UpdateFromFlags(flags)
	if config.RedashURL != "https://flag.example.com" {
		t.Errorf("RedashURL = %q", config.RedashURL)
	}
	if config.APIKey != "env-key" {
		t.Errorf("APIKey = %q, unset flag must not override", config.APIKey)
	}
	if config.Concurrency != 8 {
		t.Errorf("Concurrency = %d, want 8", config.Concurrency)
	}
	if config.Timeout != time.Minute {
		t.Errorf("Timeout = %v", config.Timeout)
	}
	if !config.Verbose {
		t.Error("Verbose not applied")
	}
}

// TestConfig_RedashConfig verifies the conversion to a client config.
func TestConfig_RedashConfig(t *testing.T) {
	config := &Config{RedashURL: "https://redash.example.com/", APIKey: "k", Concurrency: 3}
	rc := config.RedashConfig()
	if rc.URL != "https://redash.example.com" {
		t.Errorf("URL = %q, trailing slash not trimmed", rc.URL)
	}
	if rc.Concurrency != 3 || rc.APIKey != "k" {
		t.Errorf("RedashConfig() = %+v", rc)
	}
}
