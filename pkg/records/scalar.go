package records

import (
	"strconv"
	"strings"
)

// quotedString is a string the YAML encoder writes double quoted.
//
// Multi-line strings are normally written as literal blocks, but a literal
// block header carries no indentation indicator, so text whose first line
// is indented, that holds carriage returns, or that is made of line breaks
// only would not read back unchanged.
type quotedString string

// MarshalYAML implements the goccy/go-yaml BytesMarshaler interface.
func (s quotedString) MarshalYAML() ([]byte, error) {
	return []byte(strconv.Quote(string(s))), nil
}

// needsQuoting reports whether s cannot be written as a literal block and
// read back byte for byte.
func needsQuoting(s string) bool {
	if !strings.ContainsAny(s, "\r\n") {
		return false
	}
	if strings.Contains(s, "\r") {
		return true
	}
	body := strings.TrimLeft(s, "\n")
	if body == "" || len(body) != len(s) {
		return true
	}
	if body[0] == ' ' || body[0] == '\t' {
		return true
	}
	trimmed := strings.TrimRight(s, "\n")
	last := trimmed[strings.LastIndexByte(trimmed, '\n')+1:]
	return strings.TrimLeft(last, " \t") == ""
}

func yamlString(s string) any {
	if needsQuoting(s) {
		return quotedString(s)
	}
	return s
}
