// Package users parses the CSV files accepted by the users command.
//
// Each row is "firstname,lastname,email" with no header. A row becomes a
// record {name: "firstname lastname", email: email}.
package users

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/agentstation/redpush/pkg/errors"
	"github.com/agentstation/redpush/pkg/records"
)

const columns = 3

// Parse reads user rows from r. file names the source in errors.
func Parse(r io.Reader, file string) (records.Collection, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	out := records.Collection{}
	for line := 1; ; line++ {
		row, err := reader.Read()
		if stderrors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			var perr *csv.ParseError
			if stderrors.As(err, &perr) {
				line = perr.Line
			}
			return nil, &errors.ParseError{Format: "csv", File: file, Line: line, Message: err.Error(), Err: err}
		}

		user, err := fromRow(row)
		if err != nil {
			return nil, &errors.ParseError{Format: "csv", File: file, Line: line, Message: err.Error()}
		}
		out = append(out, user)
	}
}

// ParseFile reads user rows from a file on disk.
func ParseFile(path string) (records.Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errors.IOError{Operation: "open", Path: path, Message: "no such file or directory", Err: errors.ErrNotFound}
		}
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f, path)
}

func fromRow(row []string) (*records.Record, error) {
	if len(row) != columns {
		return nil, fmt.Errorf("expected %d columns (firstname,lastname,email), got %d", columns, len(row))
	}
	first := strings.TrimSpace(row[0])
	last := strings.TrimSpace(row[1])
	email := strings.TrimSpace(row[2])

	if email == "" {
		return nil, fmt.Errorf("email is empty")
	}
	if at := strings.Index(email, "@"); at <= 0 || at == len(email)-1 {
		return nil, fmt.Errorf("invalid email %q", email)
	}

	return records.FromPairs(
		"name", strings.TrimSpace(first+" "+last),
		"email", email,
	), nil
}
