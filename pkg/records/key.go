package records

import (
	"math"
	"strconv"
	"strings"
)

// Key is a redpush_id value: an integer or a string. It is comparable and
// can be used as a map key.
type Key struct {
	Num   int64
	Str   string
	IsNum bool
}

// IntKey returns a numeric key.
func IntKey(n int64) Key { return Key{Num: n, IsNum: true} }

// StringKey returns a string key.
func StringKey(s string) Key { return Key{Str: s} }

// KeyOf converts a normalized value into a Key. Integral floats become
// numeric keys. Fractional or out of range floats, nil, booleans, lists
// and mappings are not valid keys.
func KeyOf(v any) (Key, bool) {
	switch x := v.(type) {
	case int64:
		return IntKey(x), true
	case int:
		return IntKey(int64(x)), true
	case float64:
		if x != math.Trunc(x) || x < math.MinInt64 || x >= math.MaxInt64 {
			return Key{}, false
		}
		return IntKey(int64(x)), true
	case string:
		return StringKey(x), true
	}
	return Key{}, false
}

// Value returns the key as a record value (int64 or string).
func (k Key) Value() any {
	if k.IsNum {
		return k.Num
	}
	return k.Str
}

// Compare orders keys: numbers ascending, then strings ascending.
func (k Key) Compare(o Key) int {
	switch {
	case k.IsNum && o.IsNum:
		switch {
		case k.Num < o.Num:
			return -1
		case k.Num > o.Num:
			return 1
		}
		return 0
	case k.IsNum:
		return -1
	case o.IsNum:
		return 1
	}
	return strings.Compare(k.Str, o.Str)
}

// Less reports whether k sorts before o.
func (k Key) Less(o Key) bool { return k.Compare(o) < 0 }

func (k Key) String() string {
	if k.IsNum {
		return strconv.FormatInt(k.Num, 10)
	}
	return k.Str
}
