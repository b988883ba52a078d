// CLAUDE:SUMMARY Insertion-ordered settings map with order-preserving JSON encode/decode.
package tree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Settings is a string-keyed map of arbitrary JSON values that remembers
// insertion order. Page builder exports are order-sensitive: re-exporting a
// document must not shuffle keys, so the stock map[string]any is not enough.
//
// Decoded values are normalized to a closed set of shapes:
//
//	JSON object → *Settings
//	JSON array  → []any
//	number      → json.Number
//	string/bool/null → string / bool / nil
type Settings struct {
	keys   []string
	values map[string]any
}

// NewSettings returns an empty Settings map.
func NewSettings() *Settings {
	return &Settings{values: make(map[string]any)}
}

// Len returns the number of keys.
func (s *Settings) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Keys returns the keys in insertion order. The slice is a copy.
func (s *Settings) Keys() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Get returns the value for key and whether it is present.
func (s *Settings) Get(key string) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.values[key]
	return v, ok
}

// Has reports whether key is present.
func (s *Settings) Has(key string) bool {
	if s == nil {
		return false
	}
	_, ok := s.values[key]
	return ok
}

// Set stores value under key. An existing key keeps its position; a new key
// is appended. Set never deletes.
func (s *Settings) Set(key string, value any) {
	if s.values == nil {
		s.values = make(map[string]any)
	}
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Range calls fn for each key/value pair in insertion order. It stops early
// if fn returns false.
func (s *Settings) Range(fn func(key string, value any) bool) {
	if s == nil {
		return
	}
	for _, k := range s.keys {
		if !fn(k, s.values[k]) {
			return
		}
	}
}

// Clone returns a deep copy. Nested objects and arrays are copied; scalar
// values are shared (they are immutable).
func (s *Settings) Clone() *Settings {
	if s == nil {
		return nil
	}
	out := &Settings{
		keys:   make([]string, len(s.keys)),
		values: make(map[string]any, len(s.values)),
	}
	copy(out.keys, s.keys)
	for k, v := range s.values {
		out.values[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case *Settings:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Equal reports deep value equality. Key order is ignored: two maps with the
// same keys and equal values are equal regardless of insertion history.
func (s *Settings) Equal(other *Settings) bool {
	if s.Len() != other.Len() {
		return false
	}
	if s == nil || other == nil {
		return true // both empty
	}
	for k, v := range s.values {
		ov, ok := other.values[k]
		if !ok || !ValueEqual(v, ov) {
			return false
		}
	}
	return true
}

// ValueEqual reports deep equality between two decoded JSON values.
func ValueEqual(a, b any) bool {
	switch av := a.(type) {
	case *Settings:
		bv, ok := b.(*Settings)
		return ok && av.Equal(bv)
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !ValueEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case json.Number:
		bv, ok := b.(json.Number)
		if !ok {
			return false
		}
		if av == bv {
			return true
		}
		af, errA := av.Float64()
		bf, errB := bv.Float64()
		return errA == nil && errB == nil && af == bf
	default:
		return a == b
	}
}

// MarshalJSON encodes the map with keys in insertion order.
func (s *Settings) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(s.values[k])
		if err != nil {
			return nil, fmt.Errorf("settings key %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving key order.
func (s *Settings) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("settings: expected object, got %v", tok)
	}
	decoded, err := decodeObject(dec)
	if err != nil {
		return err
	}
	*s = *decoded
	return nil
}

// DecodeValue parses raw JSON into the normalized value shapes used by
// Settings: objects become *Settings, arrays []any, numbers json.Number.
func DecodeValue(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (any, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("settings: unexpected delimiter %q", t)
		}
	default:
		return tok, nil
	}
}

// decodeObject consumes tokens up to and including the closing '}'.
func decodeObject(dec *json.Decoder) (*Settings, error) {
	out := NewSettings()
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			return out, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("settings: expected key, got %v", tok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		out.Set(key, val)
	}
}

// decodeArray consumes tokens up to and including the closing ']'.
func decodeArray(dec *json.Decoder) ([]any, error) {
	out := []any{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); ok && d == ']' {
			return out, nil
		}
		val, err := decodeToken(dec, tok)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
}

// String returns a helper for accessing string-typed settings; missing or
// non-string values yield "".
func (s *Settings) String(key string) string {
	v, ok := s.Get(key)
	if !ok {
		return ""
	}
	str, _ := v.(string)
	return str
}

// Int returns an int-typed setting, or def when missing or not numeric.
func (s *Settings) Int(key string, def int) int {
	v, ok := s.Get(key)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
		if f, err := n.Float64(); err == nil {
			return int(f)
		}
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i
		}
	}
	return def
}
