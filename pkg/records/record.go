// Package records provides the open, ordered data model shared by every
// redpush component.
//
// A Record is one query, dashboard or user definition. It is an ordered
// mapping from field name to Value, where a Value is always one of:
//
//	nil, bool, int64, float64, string, []any, *Record
//
// Every decoder (Redash JSON, local YAML) normalizes into that closed set,
// so two records loaded from different sources compare structurally. Key
// insertion order is preserved for display and dumps but never used for
// identity.
package records

import (
	"fmt"
	"sort"
	"strings"
)

// Well-known field names.
const (
	FieldID         = "id"
	FieldRedpushID  = "redpush_id"
	FieldName       = "name"
	FieldSlug       = "slug"
	FieldIsArchived = "is_archived"
	FieldOptions    = "options"
)

// Field is one key/value pair of a Record.
type Field struct {
	Key   string
	Value any
}

// Record is an ordered mapping from field name to Value.
// The zero value is an empty record ready to use.
type Record struct {
	keys   []string
	values map[string]any
}

// New returns an empty record.
func New() *Record {
	return &Record{values: make(map[string]any)}
}

// FromPairs builds a record from alternating keys and values, keeping order.
// It panics on an odd argument count or a non-string key; it is meant for
// literals in code and tests.
//
//	rec := records.FromPairs("redpush_id", 1, "name", "Daily sales")
func FromPairs(kv ...any) *Record {
	if len(kv)%2 != 0 {
		panic("records: FromPairs needs an even number of arguments")
	}
	r := New()
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("records: FromPairs key %v is not a string", kv[i]))
		}
		r.Set(key, kv[i+1])
	}
	return r
}

// Len returns the number of fields.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Keys returns the field names in insertion order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Fields returns the fields in insertion order.
func (r *Record) Fields() []Field {
	if r == nil {
		return nil
	}
	out := make([]Field, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, Field{Key: k, Value: r.values[k]})
	}
	return out
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (any, bool) {
	if r == nil || r.values == nil {
		return nil, false
	}
	v, ok := r.values[key]
	return v, ok
}

// Has reports whether key is present.
func (r *Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Set stores value under key. New keys are appended, existing keys keep
// their position. Values that cannot be represented are stored as their
// fmt.Sprint form.
func (r *Record) Set(key string, value any) {
	v, err := Normalize(value)
	if err != nil {
		v = fmt.Sprint(value)
	}
	r.put(key, v)
}

// put stores an already normalized value.
func (r *Record) put(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Delete removes key if present.
func (r *Record) Delete(key string) {
	if r == nil || r.values == nil {
		return
	}
	if _, ok := r.values[key]; !ok {
		return
	}
	delete(r.values, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i:i], r.keys[i+1:]...)
			break
		}
	}
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := &Record{
		keys:   make([]string, len(r.keys)),
		values: make(map[string]any, len(r.values)),
	}
	copy(c.keys, r.keys)
	for k, v := range r.values {
		c.values[k] = cloneValue(v)
	}
	return c
}

// Sorted returns a deep copy whose keys, and the keys of every nested
// mapping, are in ascending alphabetical order.
func (r *Record) Sorted() *Record {
	if r == nil {
		return nil
	}
	keys := r.Keys()
	sort.Strings(keys)
	s := &Record{keys: keys, values: make(map[string]any, len(keys))}
	for _, k := range keys {
		s.values[k] = sortValue(r.values[k])
	}
	return s
}

// Equal reports whether both records hold the same keys with equal values.
// Key order is ignored.
func (r *Record) Equal(o *Record) bool {
	return Equal(r, o)
}

// ID returns the Redash-assigned id, if the record has a usable one.
func (r *Record) ID() (int64, bool) {
	v, ok := r.Get(FieldID)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int64:
		return n, n > 0
	case float64:
		if n == float64(int64(n)) && n > 0 {
			return int64(n), true
		}
	case string:
		var id int64
		if _, err := fmt.Sscan(n, &id); err == nil && id > 0 {
			return id, true
		}
	}
	return 0, false
}

// SetID stores the remote id.
func (r *Record) SetID(id int64) {
	r.put(FieldID, id)
}

// RedpushID returns the merge key of the record.
func (r *Record) RedpushID() (Key, bool) {
	v, ok := r.Get(FieldRedpushID)
	if !ok {
		return Key{}, false
	}
	return KeyOf(v)
}

// Name returns the name field, or "" when absent or not a string.
func (r *Record) Name() string {
	v, _ := r.Get(FieldName)
	s, _ := v.(string)
	return s
}

// Slug returns the slug field (dashboards), or "".
func (r *Record) Slug() string {
	v, _ := r.Get(FieldSlug)
	s, _ := v.(string)
	return s
}

// IsArchived reports whether the remote flagged the record as archived.
func (r *Record) IsArchived() bool {
	v, _ := r.Get(FieldIsArchived)
	b, _ := v.(bool)
	return b
}

// Options returns the nested options mapping, or nil.
func (r *Record) Options() *Record {
	v, _ := r.Get(FieldOptions)
	o, _ := v.(*Record)
	return o
}

// Label is a short human description used in logs and tables.
func (r *Record) Label() string {
	var parts []string
	if key, ok := r.RedpushID(); ok {
		parts = append(parts, "redpush_id="+key.String())
	}
	if id, ok := r.ID(); ok {
		parts = append(parts, fmt.Sprintf("id=%d", id))
	}
	if name := r.Name(); name != "" {
		parts = append(parts, fmt.Sprintf("name=%q", name))
	}
	if len(parts) == 0 {
		return "<record>"
	}
	return strings.Join(parts, " ")
}

// String implements fmt.Stringer.
func (r *Record) String() string {
	return r.Label()
}
