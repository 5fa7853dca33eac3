// Package params implements the flat parameter bag shared by route
// matching and URL building. A bag merges path captures with query-string
// values into a single map, with path captures taking precedence, and
// serializes back to a deterministic query string.
package params

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
)

// Bag holds the parameters of one resolved location. Keys are flat and
// single-valued. Values coming from the URL are always strings; callers
// building URLs may also supply bool, integer, and float scalars.
type Bag map[string]any

// SerializationError reports a bag value that cannot be represented in a
// query string.
type SerializationError struct {
	Key  string
	Type string
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("params: value for %q has unsupported type %s", e.Key, e.Type)
}

// Merge combines path captures with a raw query string. Query pairs are
// percent-decoded; for a repeated query key the first value wins; pairs that
// fail to decode are dropped. Path captures always win over query keys of
// the same name.
func Merge(captures map[string]string, rawQuery string) Bag {
	bag := make(Bag, len(captures)+4)

	if rawQuery != "" {
		// ParseQuery reports the first bad pair but still returns
		// everything that decoded cleanly.
		values, _ := url.ParseQuery(rawQuery)
		for key, vals := range values {
			if len(vals) > 0 {
				bag[key] = vals[0]
			}
		}
	}

	for key, val := range captures {
		bag[key] = val
	}

	return bag
}

// Serialize encodes a bag as a query string without the leading "?".
// Keys are emitted in sorted order so output is deterministic. Keys listed
// in exclude are skipped. A value that is not a string, bool, integer, or
// float yields a SerializationError.
func Serialize(bag Bag, exclude ...string) (string, error) {
	if len(bag) == 0 {
		return "", nil
	}

	skip := make(map[string]struct{}, len(exclude))
	for _, key := range exclude {
		skip[key] = struct{}{}
	}

	values := url.Values{}
	for key, val := range bag {
		if _, ok := skip[key]; ok {
			continue
		}
		s, ok := Format(val)
		if !ok {
			return "", &SerializationError{Key: key, Type: fmt.Sprintf("%T", val)}
		}
		values.Set(key, s)
	}

	return values.Encode(), nil
}

// Format renders a scalar bag value as its string form. The second return
// is false for non-scalar values.
func Format(val any) (string, bool) {
	switch v := val.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.FormatInt(int64(v), 10), true
	case int8:
		return strconv.FormatInt(int64(v), 10), true
	case int16:
		return strconv.FormatInt(int64(v), 10), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint8:
		return strconv.FormatUint(uint64(v), 10), true
	case uint16:
		return strconv.FormatUint(uint64(v), 10), true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}

// String returns the string form of the value under key, or "" when the
// key is absent or non-scalar.
func (b Bag) String(key string) string {
	val, ok := b[key]
	if !ok {
		return ""
	}
	s, _ := Format(val)
	return s
}

// Has reports whether key is present.
func (b Bag) Has(key string) bool {
	_, ok := b[key]
	return ok
}

// Keys returns the bag's keys in sorted order.
func (b Bag) Keys() []string {
	keys := make([]string, 0, len(b))
	for key := range b {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy of the bag.
func (b Bag) Clone() Bag {
	if b == nil {
		return nil
	}
	out := make(Bag, len(b))
	for key, val := range b {
		out[key] = val
	}
	return out
}
