package records

// Collection is an ordered sequence of records, the unit every operation
// reads and writes.
type Collection []*Record

// Clone deep-copies the collection.
func (c Collection) Clone() Collection {
	if c == nil {
		return nil
	}
	out := make(Collection, len(c))
	for i, r := range c {
		out[i] = r.Clone()
	}
	return out
}

// Len returns the number of records.
func (c Collection) Len() int { return len(c) }

// Keys returns the redpush ids present in the collection, in order.
// Records without a usable id are skipped.
func (c Collection) Keys() []Key {
	keys := make([]Key, 0, len(c))
	for _, r := range c {
		if k, ok := r.RedpushID(); ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// Value returns the collection as a normalized list value.
func (c Collection) Value() []any {
	out := make([]any, len(c))
	for i, r := range c {
		out[i] = r
	}
	return out
}

// YAML returns the collection in a form the YAML encoder keeps ordered.
func (c Collection) YAML() []any {
	out := make([]any, len(c))
	for i, r := range c {
		out[i] = r.MapSlice()
	}
	return out
}
