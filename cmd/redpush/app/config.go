package app

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/agentstation/redpush/pkg/constants"
	"github.com/agentstation/redpush/pkg/errors"
	"github.com/agentstation/redpush/pkg/redash"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Redash connection
	RedashURL      string
	APIKey         string
	AuthScheme     string
	Timeout        time.Duration
	PageSize       int
	Concurrency    int
	WritableFields []string

	// IgnoredFields are left out of the unchanged check before updates
	IgnoredFields []string

	// Logging configuration. LogLevel is the --log-level flag, BaseLogLevel
	// comes from LOG_LEVEL or the config file and loses to -v/-q.
	LogLevel     string
	BaseLogLevel string
	LogFormat    string
	LogOutput    string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (applied later by UpdateFromFlags)
// 2. Environment variables
// 3. .env files
// 4. Config file (configFile, or ~/.redpush.yaml / ./.redpush.yaml)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix("REDPUSH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// The connection keys keep their historical variable names.
	_ = v.BindEnv("redash_url", constants.EnvRedashURL)
	_ = v.BindEnv("api_key", constants.EnvRedashKey)

	v.SetDefault("timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("page_size", constants.DefaultPageSize)
	v.SetDefault("concurrency", constants.DefaultConcurrency)
	v.SetDefault("auth_scheme", "key")
	v.SetDefault("log.level", "")
	v.SetDefault("log.format", "auto")
	v.SetDefault("log.output", "stderr")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.WrapIO("read", configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".redpush")
		// A missing default config file is fine
		_ = v.ReadInConfig()
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		RedashURL:      v.GetString("redash_url"),
		APIKey:         v.GetString("api_key"),
		AuthScheme:     v.GetString("auth_scheme"),
		Timeout:        v.GetDuration("timeout"),
		PageSize:       v.GetInt("page_size"),
		Concurrency:    v.GetInt("concurrency"),
		WritableFields: v.GetStringSlice("writable_fields"),
		IgnoredFields:  v.GetStringSlice("ignored_fields"),

		BaseLogLevel: firstNonEmpty(os.Getenv("LOG_LEVEL"), v.GetString("log.level")),
		LogFormat:    firstNonEmpty(os.Getenv("LOG_FORMAT"), v.GetString("log.format")),
		LogOutput:    firstNonEmpty(os.Getenv("LOG_OUTPUT"), v.GetString("log.output")),
	}
	return config, nil
}

// UpdateFromFlags copies the flags the user actually set over the loaded
// values, so flags take precedence over env vars and the config file.
func (c *Config) UpdateFromFlags(flags *pflag.FlagSet) {
	str := func(name string, dst *string) {
		if f := flags.Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	boolean := func(name string, dst *bool) {
		if f := flags.Lookup(name); f != nil && f.Changed {
			*dst, _ = flags.GetBool(name)
		}
	}

	boolean("verbose", &c.Verbose)
	boolean("quiet", &c.Quiet)
	boolean("no-color", &c.NoColor)
	str("format", &c.Format)
	str("log-level", &c.LogLevel)
	str("redash-url", &c.RedashURL)
	str("api-key", &c.APIKey)

	if f := flags.Lookup("concurrency"); f != nil && f.Changed {
		c.Concurrency, _ = flags.GetInt("concurrency")
	}
	if f := flags.Lookup("timeout"); f != nil && f.Changed {
		c.Timeout, _ = flags.GetDuration("timeout")
	}
}

// RedashConfig turns the resolved values into an explicit client config.
func (c *Config) RedashConfig() redash.Config {
	return redash.Config{
		URL:            strings.TrimRight(c.RedashURL, "/"),
		APIKey:         c.APIKey,
		AuthScheme:     c.AuthScheme,
		Timeout:        c.Timeout,
		PageSize:       c.PageSize,
		Concurrency:    c.Concurrency,
		WritableFields: c.WritableFields,
	}
}

// DefaultConfigPath is where the config file is looked up first.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".redpush.yaml"
	}
	return filepath.Join(home, ".redpush.yaml")
}

// loadEnvFiles loads environment variables from .env files.
// Variables already set in the environment are not overridden.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
