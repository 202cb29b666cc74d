// Package store reads and writes record collections as YAML files.
//
// Two layouts are supported: a single aggregate file holding a sequence of
// records, and a directory with one file per record named
// "{id}-{slug}.yaml". Strings containing a newline are written as literal
// block scalars so that diffs of SQL text stay line aligned, unless they
// could not be read back unchanged that way; those are double quoted.
// Writes are not atomic and stale files are never removed.
package store

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/redpush/pkg/constants"
	"github.com/agentstation/redpush/pkg/errors"
	"github.com/agentstation/redpush/pkg/records"
)

// Marshal renders a collection as YAML text, keeping each record's key order.
func Marshal(c records.Collection) ([]byte, error) {
	if len(c) == 0 {
		return []byte("[]\n"), nil
	}

	commentMap := yaml.CommentMap{}
	for i, r := range c {
		if name := r.Name(); name != "" && !strings.ContainsAny(name, "\r\n") {
			commentMap[fmt.Sprintf("$[%d]", i)] = []*yaml.Comment{
				yaml.HeadComment(" " + name),
			}
		}
	}

	data, err := yaml.MarshalWithOptions(c.YAML(),
		yaml.Indent(2),
		yaml.IndentSequence(false),
		yaml.UseLiteralStyleIfMultiline(true),
		yaml.WithComment(commentMap),
	)
	if err != nil {
		return nil, fmt.Errorf("marshaling collection: %w", err)
	}
	return addBlankLinesBetweenRecords(data), nil
}

// MarshalRecord renders a single record as a YAML mapping.
func MarshalRecord(r *records.Record) ([]byte, error) {
	data, err := yaml.MarshalWithOptions(r.MapSlice(),
		yaml.Indent(2),
		yaml.IndentSequence(false),
		yaml.UseLiteralStyleIfMultiline(true),
	)
	if err != nil {
		return nil, fmt.Errorf("marshaling record %s: %w", r.Label(), err)
	}
	return data, nil
}

// addBlankLinesBetweenRecords separates top level entries for readability.
func addBlankLinesBetweenRecords(data []byte) []byte {
	lines := bytes.Split(data, []byte("\n"))
	out := make([][]byte, 0, len(lines)+len(lines)/4)
	for i, line := range lines {
		if i > 0 && bytes.HasPrefix(line, []byte("#")) {
			out = append(out, nil)
		}
		out = append(out, line)
	}
	return bytes.Join(out, []byte("\n"))
}

// SaveCollection writes c to path as one aggregate file.
func SaveCollection(c records.Collection, path string) error {
	data, err := Marshal(c)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

// SaveRecord writes a single record to path.
func SaveRecord(r *records.Record, path string) error {
	data, err := MarshalRecord(r)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

// SaveSplit writes one file per record under dir and returns the written
// paths in collection order. Records mapping to the same file name overwrite
// each other; the last one wins.
func SaveSplit(c records.Collection, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", dir, err)
	}
	paths := make([]string, 0, len(c))
	for _, r := range c {
		path := filepath.Join(dir, FileName(r))
		if err := SaveRecord(r, path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// Load reads records from path. A file may hold a sequence of records or a
// single record. A directory is read file by file in name order, taking
// every .yaml and .yml file at its top level.
func Load(path string) (records.Collection, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errors.IOError{Operation: "read", Path: path, Message: "no such file or directory", Err: errors.ErrNotFound}
		}
		return nil, errors.WrapIO("stat", path, err)
	}
	if !info.IsDir() {
		return loadFile(path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	out := records.Collection{}
	for _, name := range names {
		c, err := loadFile(filepath.Join(path, name))
		if err != nil {
			return nil, err
		}
		out = append(out, c...)
	}
	return out, nil
}

func loadFile(path string) (records.Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	c, err := Unmarshal(data)
	if err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return c, nil
}

// Unmarshal parses YAML text holding a sequence of records, a single record
// or nothing at all.
func Unmarshal(data []byte) (records.Collection, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return records.Collection{}, nil
	}
	var raw any
	if err := yaml.UnmarshalWithOptions(data, &raw, yaml.UseOrderedMap()); err != nil {
		return nil, err
	}
	v, err := records.Normalize(raw)
	if err != nil {
		return nil, err
	}
	if r, ok := v.(*records.Record); ok {
		return records.Collection{r}, nil
	}
	return records.CollectionOf(v)
}
