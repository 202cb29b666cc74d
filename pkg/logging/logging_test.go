package logging_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/redpush/pkg/logging"
)

func TestContextFields(t *testing.T) {
	rec := logging.NewRecorder(t)

	ctx := rec.Context(context.Background())
	ctx = logging.WithOperation(ctx, "push")
	ctx = logging.WithRedpushID(ctx, 42)
	ctx = logging.WithRemoteID(ctx, 10)
	ctx = logging.WithRunID(ctx, "run-1")

	logging.FromContext(ctx).Info().Msg("updating query")

	entries := rec.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "push", entries[0]["operation"])
	assert.Equal(t, "42", entries[0]["redpush_id"])
	assert.Equal(t, float64(10), entries[0]["remote_id"])
	assert.Equal(t, "run-1", entries[0]["run_id"])
	assert.Equal(t, "run-1", logging.RunID(ctx))
	assert.Equal(t, []string{"updating query"}, rec.Messages(zerolog.InfoLevel))
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
	//nolint:staticcheck // nil context is handled explicitly
	assert.Same(t, logging.Default(), logging.FromContext(nil))
	assert.Same(t, logging.Default(), logging.FromContext(logging.WithLogger(context.Background(), nil)))
}

func TestWithFieldTypes(t *testing.T) {
	rec := logging.NewRecorder(t)
	ctx := rec.Context(context.Background())
	ctx = logging.WithField(ctx, "count", 3)
	ctx = logging.WithField(ctx, "dry_run", true)
	ctx = logging.WithField(ctx, "cause", errors.New("boom"))

	logging.FromContext(ctx).Warn().Msg("partial")

	entry := rec.Entries()[0]
	assert.Equal(t, float64(3), entry["count"])
	assert.Equal(t, true, entry["dry_run"])
	assert.Equal(t, "boom", entry["cause"])
	assert.Equal(t, []string{"partial"}, rec.Messages(zerolog.WarnLevel))
	assert.Empty(t, rec.Messages(zerolog.InfoLevel))
}

func TestRecorderConcurrentWrites(t *testing.T) {
	rec := logging.NewRecorder(t)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			rec.Logger.Debug().Int("n", n).Msg("hydrated")
		}(i)
	}
	wg.Wait()
	assert.Len(t, rec.Entries(), 20)
}

func TestNewLoggerFromConfig(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	t.Run("writes json to a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "redpush.log")
		logger := logging.NewLoggerFromConfig(&logging.Config{
			Level:  "debug",
			Format: "json",
			Output: path,
			Fields: map[string]any{"app": "redpush", "pid": 1},
		})
		logger.Debug().Msg("hello")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"app":"redpush","pid":1`)
		assert.Contains(t, string(data), `"message":"hello"`)
	})

	t.Run("level filters events", func(t *testing.T) {
		logger := logging.NewLoggerFromConfig(&logging.Config{Level: "warn", Format: "json", Output: "discard"})
		assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		logger := logging.NewLoggerFromConfig(nil)
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"chatty":  zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, logging.ParseLevel(in), in)
	}
}

func TestCaptureDefault(t *testing.T) {
	rec := logging.CaptureDefault(t)
	logging.Default().Info().Str("redpush_id", "a").Msg("captured")

	assert.Equal(t, []string{"captured"}, rec.Messages(zerolog.InfoLevel))
}
