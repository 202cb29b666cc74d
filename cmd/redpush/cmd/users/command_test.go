package users

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

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestUsersCommand(t *testing.T) {
	remote := redashtest.New()
	path := writeCSV(t, "Ada,Lovelace,ada@example.com\nGrace,Hopper,grace@example.com\n")

	out, errOut, err := run(t, remote, "-i", path)
	require.NoError(t, err)
	assert.Len(t, remote.Users, 2)
	assert.Contains(t, out, "grace@example.com")
	assert.Contains(t, errOut, "Created 2 users")
}

func TestUsersCommandInvalidCSV(t *testing.T) {
	remote := redashtest.New()
	path := writeCSV(t, "Ada,Lovelace,ada@example.com\nBroken,row\n")

	_, _, err := run(t, remote, "-i", path)
	assert.True(t, errors.IsParse(err))
	assert.Empty(t, remote.Users, "nothing is created when a row is invalid")
}

func TestUsersCommandFailure(t *testing.T) {
	remote := redashtest.New()
	remote.FailUser = "Grace Hopper"
	path := writeCSV(t, "Ada,Lovelace,ada@example.com\nGrace,Hopper,grace@example.com\n")

	_, errOut, err := run(t, remote, "-i", path)
	assert.True(t, errors.IsRemote(err))
	assert.Len(t, remote.Users, 1)
	assert.Contains(t, errOut, "Created 1 users before Grace Hopper failed")
}
