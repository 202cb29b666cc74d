// Package canonical produces the comparison form of a record collection:
// records sorted by redpush_id with every mapping's keys in alphabetical
// order. The canonical form is only ever used for matching and diffing.
package canonical

import (
	"fmt"
	"sort"

	"github.com/agentstation/redpush/pkg/errors"
	"github.com/agentstation/redpush/pkg/records"
)

// Canonicalize returns a sorted deep copy of c. Every record must carry a
// unique redpush_id. The input is not modified.
func Canonicalize(c records.Collection) (records.Collection, error) {
	return CanonicalizeNamed("collection", c)
}

// CanonicalizeNamed is Canonicalize with a collection name used in errors.
func CanonicalizeNamed(name string, c records.Collection) (records.Collection, error) {
	type entry struct {
		key records.Key
		rec *records.Record
	}
	entries := make([]entry, 0, len(c))
	seen := make(map[records.Key]int, len(c))
	for i, r := range c {
		key, ok := r.RedpushID()
		if !ok {
			if err := invalidKey(name, r, i); err != nil {
				return nil, err
			}
			return nil, errors.NewMissingKeyError(name, i)
		}
		if _, dup := seen[key]; dup {
			return nil, errors.NewDuplicateError(name, key.String(), i)
		}
		seen[key] = i
		entries = append(entries, entry{key: key, rec: r})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].key.Less(entries[j].key)
	})

	out := make(records.Collection, len(entries))
	for i, e := range entries {
		out[i] = e.rec.Sorted()
	}
	return out, nil
}

// Index maps redpush_id to record. Records without a redpush_id are left
// out; they can never be matched. A repeated redpush_id, or one that is
// neither an integer nor a string, is an error.
func Index(name string, c records.Collection) (map[records.Key]*records.Record, error) {
	idx := make(map[records.Key]*records.Record, len(c))
	for i, r := range c {
		key, ok := r.RedpushID()
		if !ok {
			if err := invalidKey(name, r, i); err != nil {
				return nil, err
			}
			continue
		}
		if _, dup := idx[key]; dup {
			return nil, errors.NewDuplicateError(name, key.String(), i)
		}
		idx[key] = r
	}
	return idx, nil
}

// Equal reports whether two collections have the same canonical form.
func Equal(a, b records.Collection) (bool, error) {
	ca, err := CanonicalizeNamed("left", a)
	if err != nil {
		return false, err
	}
	cb, err := CanonicalizeNamed("right", b)
	if err != nil {
		return false, err
	}
	if len(ca) != len(cb) {
		return false, nil
	}
	for i := range ca {
		if !ca[i].Equal(cb[i]) {
			return false, nil
		}
	}
	return true, nil
}

// invalidKey reports a redpush_id that is set but cannot be used as a key.
// A null redpush_id counts as absent.
func invalidKey(name string, r *records.Record, index int) error {
	v, _ := r.Get(records.FieldRedpushID)
	if v == nil {
		return nil
	}
	return errors.NewInvalidKeyError(name, fmt.Sprint(v), index)
}
