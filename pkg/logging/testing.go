package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// Recorder captures JSON log events in tests. It is safe to log from
// several goroutines.
type Recorder struct {
	Logger *zerolog.Logger

	mu  sync.Mutex
	buf bytes.Buffer
}

// NewRecorder returns a recorder logging at trace level. The global level
// is restored when the test ends.
func NewRecorder(t testing.TB) *Recorder {
	t.Helper()
	old := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(old) })

	r := &Recorder{}
	logger := zerolog.New(r).Level(zerolog.TraceLevel)
	r.Logger = &logger
	return r
}

// Write implements io.Writer.
func (r *Recorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Write(p)
}

// Context returns ctx carrying the recorder's logger.
func (r *Recorder) Context(ctx context.Context) context.Context {
	return WithLogger(ctx, r.Logger)
}

// Output returns everything logged so far.
func (r *Recorder) Output() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.String()
}

// Entries decodes every logged event. Lines that are not JSON are skipped.
func (r *Recorder) Entries() []map[string]any {
	var out []map[string]any
	for _, line := range strings.Split(r.Output(), "\n") {
		var entry map[string]any
		if line == "" || json.Unmarshal([]byte(line), &entry) != nil {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// Messages returns the messages logged at level, in order.
func (r *Recorder) Messages(level zerolog.Level) []string {
	var out []string
	for _, e := range r.Entries() {
		if e[zerolog.LevelFieldName] == level.String() {
			msg, _ := e[zerolog.MessageFieldName].(string)
			out = append(out, msg)
		}
	}
	return out
}

// CaptureDefault swaps the process-wide logger for a recorder until the
// test ends.
func CaptureDefault(t testing.TB) *Recorder {
	t.Helper()
	original := defaultLogger
	r := NewRecorder(t)
	SetDefault(*r.Logger)
	t.Cleanup(func() { SetDefault(original) })
	return r
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}
