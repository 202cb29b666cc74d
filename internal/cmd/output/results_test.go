package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/redpush"
	"github.com/agentstation/redpush/pkg/reconciler"
	"github.com/agentstation/redpush/pkg/records"
)

func samplePlan() *reconciler.Plan {
	return &reconciler.Plan{
		Operation: reconciler.OperationPush,
		Resource:  "query",
		Actions: []reconciler.Action{
			{Type: reconciler.ActionCreate, Key: records.IntKey(3), HasKey: true, Local: records.FromPairs("name", "New")},
			{Type: reconciler.ActionUpdate, Key: records.StringKey("sales"), HasKey: true, RemoteID: 7,
				Local: records.FromPairs("name", "Sales"), Changed: []string{"query", "tags"}},
			{Type: reconciler.ActionUnchanged, Key: records.IntKey(9), HasKey: true, RemoteID: 9,
				Local: records.FromPairs("name", "Same")},
		},
	}
}

func TestFormatOperationTable(t *testing.T) {
	var buf bytes.Buffer
	res := &redpush.OperationResult{Plan: samplePlan(), Result: &reconciler.Result{DryRun: true}}

	require.NoError(t, FormatOperation(&buf, "table", res, false))
	out := buf.String()
	assert.Contains(t, out, "create")
	assert.Contains(t, out, "query, tags")
	assert.NotContains(t, out, "Same")

	buf.Reset()
	require.NoError(t, FormatOperation(&buf, "table", res, true))
	assert.Contains(t, buf.String(), "Same")
}

func TestFormatOperationJSON(t *testing.T) {
	plan := samplePlan()
	res := &redpush.OperationResult{
		Plan: plan,
		Result: &reconciler.Result{
			Operation: reconciler.OperationPush,
			Applied:   []reconciler.Outcome{{Action: plan.Actions[0], RemoteID: 101}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, FormatOperation(&buf, "json", res, false))

	var view OperationView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &view))
	assert.Equal(t, "push", view.Operation)
	require.Len(t, view.Planned, 3)
	assert.Equal(t, "sales", view.Planned[1].RedpushID)
	require.Len(t, view.Applied, 1)
	assert.Equal(t, int64(101), view.Applied[0].ID)
	assert.Nil(t, view.Failed)
}

func TestFormatUsers(t *testing.T) {
	users := records.Collection{records.FromPairs("id", int64(4), "name", "Ada Lovelace", "email", "ada@example.com")}

	var buf bytes.Buffer
	require.NoError(t, FormatUsers(&buf, "table", users))
	assert.Contains(t, buf.String(), "ada@example.com")

	buf.Reset()
	require.NoError(t, FormatUsers(&buf, "json", users))
	assert.JSONEq(t, `[{"id":4,"name":"Ada Lovelace","email":"ada@example.com"}]`, buf.String())
}

func TestParseFormatResults(t *testing.T) {
	for _, ok := range []string{"table", "JSON", "yaml", ""} {
		_, err := ParseFormat(ok)
		assert.NoError(t, err, ok)
	}
	_, err := ParseFormat("wide")
	assert.Error(t, err)
}
