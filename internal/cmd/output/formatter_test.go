package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/redpush/internal/cmd/table"
	"github.com/agentstation/redpush/pkg/records"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"wide", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
	assert.True(t, FormatYAML.Structured())
	assert.False(t, FormatTable.Structured())
}

func TestTableData(t *testing.T) {
	var buf bytes.Buffer
	data := table.Data{Headers: []string{"Name", "ID"}, Rows: [][]string{{"Sales", "7"}}}
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, data))
	assert.Contains(t, buf.String(), "Sales")
	assert.Contains(t, buf.String(), "7")
}

func TestTablePropertiesKeepFieldOrder(t *testing.T) {
	var buf bytes.Buffer
	info := struct {
		Version   string `json:"version"`
		GoVersion string `json:"go_version"`
	}{"1.2.0", "go1.24"}
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, info))

	out := buf.String()
	assert.Contains(t, out, "Go Version")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("1.2.0")), bytes.Index(buf.Bytes(), []byte("go1.24")))
}

func TestYAMLLiteralBlocks(t *testing.T) {
	var buf bytes.Buffer
	rec := records.FromPairs("name", "Sales", "query", "SELECT 1\nFROM t")
	require.NoError(t, NewFormatter(FormatYAML).Format(&buf, rec))
	assert.Equal(t, "name: Sales\nquery: |-\n  SELECT 1\n  FROM t\n", buf.String())
}

func TestJSONIndent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatJSON).Format(&buf, map[string]int{"queries": 2}))
	assert.Equal(t, "{\n  \"queries\": 2\n}\n", buf.String())
}
