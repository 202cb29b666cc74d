package archive

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/redpush"
	"github.com/agentstation/redpush/internal/appcontext"
	"github.com/agentstation/redpush/internal/redashtest"
	"github.com/agentstation/redpush/pkg/errors"
	"github.com/agentstation/redpush/pkg/records"
	"github.com/agentstation/redpush/pkg/store"
)

func run(t *testing.T, remote *redashtest.Fake, args ...string) (string, string, error) {
	t.Helper()
	app := &appcontext.Mock{
		SyncerFunc:   func() (redpush.Syncer, error) { return redpush.New(remote) },
		NoColorValue: true,
	}
	cmd := NewCommand(app)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestArchiveCommand(t *testing.T) {
	remote := redashtest.New(
		redashtest.Query(1, 10, "Keep", "SELECT 1"),
		redashtest.Query(2, 20, "Drop", "SELECT 2"),
	)
	path := filepath.Join(t.TempDir(), "queries.yaml")
	require.NoError(t, store.SaveCollection(records.Collection{redashtest.Query(0, 10, "Keep", "SELECT 1")}, path))

	out, errOut, err := run(t, remote, "-i", path)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, remote.Removed)
	assert.Len(t, remote.Archived, 1)
	assert.Contains(t, out, "Drop")
	assert.Contains(t, errOut, "1 archived")
}

func TestArchiveCommandEmptyLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("[]\n"), 0o644))

	remote := redashtest.New(redashtest.Query(1, 10, "A", "x"))
	_, errOut, err := run(t, remote, "-i", path)
	assert.True(t, errors.IsUsage(err))
	assert.Empty(t, remote.Removed)
	assert.Contains(t, errOut, "every remote query (1)")

	_, _, err = run(t, remote, "-i", path, "--allow-empty")
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, remote.Removed)
}

func TestArchiveCommandMissingFile(t *testing.T) {
	_, _, err := run(t, redashtest.New())
	assert.True(t, errors.IsUsage(err))
}
