package records

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// MarshalJSON writes the record as a JSON object in insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping the order of its keys.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeJSON(dec)
	if err != nil {
		return err
	}
	rec, ok := v.(*Record)
	if !ok {
		return fmt.Errorf("records: expected a JSON object, got %T", v)
	}
	*r = *rec
	return nil
}

func decodeJSON(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			r := New()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("records: unexpected object key %v", kt)
				}
				v, err := decodeJSON(dec)
				if err != nil {
					return nil, err
				}
				r.put(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return r, nil
		case '[':
			list := []any{}
			for dec.More() {
				v, err := decodeJSON(dec)
				if err != nil {
					return nil, err
				}
				list = append(list, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return list, nil
		}
		return nil, fmt.Errorf("records: unexpected delimiter %v", t)
	default:
		return Normalize(t)
	}
}

// MarshalYAML returns an ordered YAML mapping.
func (r *Record) MarshalYAML() (any, error) {
	return r.MapSlice(), nil
}

// MapSlice converts the record, recursively, into an ordered YAML mapping.
func (r *Record) MapSlice() yaml.MapSlice {
	if r == nil {
		return nil
	}
	ms := make(yaml.MapSlice, 0, len(r.keys))
	for _, k := range r.keys {
		ms = append(ms, yaml.MapItem{Key: k, Value: toYAML(r.values[k])})
	}
	return ms
}

func toYAML(v any) any {
	switch x := v.(type) {
	case *Record:
		return x.MapSlice()
	case string:
		return yamlString(x)
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = toYAML(item)
		}
		return out
	}
	return v
}

// UnmarshalYAML reads a YAML mapping keeping the order of its keys.
func (r *Record) UnmarshalYAML(data []byte) error {
	var ms yaml.MapSlice
	if err := yaml.UnmarshalWithOptions(data, &ms, yaml.UseOrderedMap()); err != nil {
		return err
	}
	rec, err := fromMapSlice(ms)
	if err != nil {
		return err
	}
	*r = *rec
	return nil
}

// ParseJSONCollection decodes a JSON array of objects.
func ParseJSONCollection(rd io.Reader) (Collection, error) {
	dec := json.NewDecoder(rd)
	dec.UseNumber()
	v, err := decodeJSON(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Collection{}, nil
		}
		return nil, err
	}
	return CollectionOf(v)
}

// CollectionOf converts a normalized value into a collection. nil is an
// empty collection; anything but a list of mappings is rejected.
func CollectionOf(v any) (Collection, error) {
	if v == nil {
		return Collection{}, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("records: expected a list of records, got %s", typeName(v))
	}
	out := make(Collection, 0, len(list))
	for i, item := range list {
		rec, ok := item.(*Record)
		if !ok {
			return nil, fmt.Errorf("records: item #%d is %s, not a mapping", i, typeName(item))
		}
		out = append(out, rec)
	}
	return out, nil
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case int64, float64:
		return "a number"
	case string:
		return "a string"
	case []any:
		return "a list"
	case *Record:
		return "a mapping"
	}
	return fmt.Sprintf("%T", v)
}
