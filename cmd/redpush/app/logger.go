package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agentstation/redpush/pkg/logging"
)

// NewLogger builds the CLI logger. The level is, in order of precedence:
// --log-level, -q together with -v (warn), -v (debug), -q (warn),
// LOG_LEVEL or log.level from the config file, info.
func NewLogger(config *Config) zerolog.Logger {
	level := determineLogLevel(config)
	return logging.NewLoggerFromConfig(&logging.Config{
		Level:     level,
		Format:    config.LogFormat,
		Output:    config.LogOutput,
		NoColor:   config.NoColor || os.Getenv("NO_COLOR") != "",
		AddCaller: level == "debug" || level == "trace",
	})
}

func determineLogLevel(config *Config) string {
	switch {
	case config.LogLevel != "":
		level := validateLogLevel(config.LogLevel)
		if level != strings.ToLower(config.LogLevel) {
			fmt.Fprintf(os.Stderr, "Warning: invalid log level %q, using %q\n", config.LogLevel, level)
		}
		return level
	case config.Verbose && config.Quiet:
		fmt.Fprintln(os.Stderr, "Warning: both --verbose and --quiet specified, using --quiet")
		return "warn"
	case config.Verbose:
		return "debug"
	case config.Quiet:
		return "warn"
	case config.BaseLogLevel != "":
		return validateLogLevel(config.BaseLogLevel)
	default:
		return "info"
	}
}

// validateLogLevel normalizes a level name. Anything zerolog does not know
// becomes info.
func validateLogLevel(level string) string {
	return logging.ParseLevel(level).String()
}
