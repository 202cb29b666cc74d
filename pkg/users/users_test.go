package users

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/redpush/pkg/errors"
)

func TestParse(t *testing.T) {
	in := "Ada,Lovelace,ada@example.com\nAlan, Turing , alan@example.com\n"
	c, err := Parse(strings.NewReader(in), "users.csv")
	require.NoError(t, err)
	require.Len(t, c, 2)

	assert.Equal(t, "Ada Lovelace", c[0].Name())
	email, _ := c[0].Get("email")
	assert.Equal(t, "ada@example.com", email)
	assert.Equal(t, []string{"name", "email"}, c[0].Keys())
	assert.Equal(t, "Alan Turing", c[1].Name())
}

func TestParseEmpty(t *testing.T) {
	c, err := Parse(strings.NewReader(""), "")
	require.NoError(t, err)
	assert.Empty(t, c)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		line int
		msg  string
	}{
		{"too few columns", "Ada,ada@example.com\n", 1, "expected 3 columns"},
		{"too many columns", "ok,ok,ok@example.com\nA,B,a@b.c,extra\n", 2, "got 4"},
		{"empty email", "Ada,Lovelace,\n", 1, "email is empty"},
		{"no at sign", "Ada,Lovelace,ada.example.com\n", 1, "invalid email"},
		{"bare quote", "Ada,\"Love\"lace,ada@example.com\n", 1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.in), "users.csv")
			require.Error(t, err)
			assert.True(t, errors.IsParse(err))

			var pe *errors.ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, "csv", pe.Format)
			assert.Equal(t, "users.csv", pe.File)
			assert.Equal(t, tt.line, pe.Line)
			assert.Contains(t, pe.Message, tt.msg)
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.csv")
	require.NoError(t, os.WriteFile(path, []byte("Grace,Hopper,grace@example.com\n"), 0o644))

	c, err := ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, c, 1)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.True(t, errors.IsNotFound(err))
}
