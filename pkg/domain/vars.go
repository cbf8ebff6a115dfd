package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Var is a single named binding.
type Var struct {
	Name  string
	Value any
}

// Vars is an ordered set of bindings. Order is insertion order and is kept
// when encoding to JSON, unlike a Go map.
type Vars []Var

// NewVars builds Vars from alternating name/value arguments, in the manner of
// slog attributes. It panics on a non-string name or a dangling name, both of
// which are programming errors in a producer.
func NewVars(kv ...any) Vars {
	if len(kv)%2 != 0 {
		panic(fmt.Sprintf("domain.NewVars: odd number of arguments (%d)", len(kv)))
	}
	out := make(Vars, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		name, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("domain.NewVars: name at position %d is %T, not string", i, kv[i]))
		}
		out = out.Set(name, kv[i+1])
	}
	return out
}

// Get returns the value bound to name.
func (v Vars) Get(name string) (any, bool) {
	for _, kv := range v {
		if kv.Name == name {
			return kv.Value, true
		}
	}
	return nil, false
}

// Set returns v with name bound to value. An existing binding keeps its position.
// The receiver's backing array may be reused; callers own the result.
// An empty []int or []string is stored as an empty []any, the only form an
// empty JSON array can decode back to.
func (v Vars) Set(name string, value any) Vars {
	value = canonicalEmpty(value)
	for i := range v {
		if v[i].Name == name {
			v[i].Value = value
			return v
		}
	}
	return append(v, Var{Name: name, Value: value})
}

// Merge returns a new Vars holding v overlaid by other: existing names are
// overwritten in place, new names are appended. Neither input is modified.
func (v Vars) Merge(other Vars) Vars {
	out := make(Vars, len(v), len(v)+len(other))
	copy(out, v)
	for _, kv := range other {
		out = out.Set(kv.Name, kv.Value)
	}
	return out
}

func canonicalEmpty(value any) any {
	switch val := value.(type) {
	case []int:
		if len(val) == 0 {
			return []any{}
		}
	case []string:
		if len(val) == 0 {
			return []any{}
		}
	}
	return value
}

// Names returns the binding names in order.
func (v Vars) Names() []string {
	names := make([]string, len(v))
	for i, kv := range v {
		names[i] = kv.Name
	}
	return names
}

// Clone deep-copies the bindings, including slice values.
func (v Vars) Clone() Vars {
	if v == nil {
		return nil
	}
	out := make(Vars, len(v))
	for i, kv := range v {
		out[i] = Var{Name: kv.Name, Value: cloneValue(kv.Value)}
	}
	return out
}

// String renders the bindings as "a=1 b=[1 2]".
func (v Vars) String() string {
	parts := make([]string, len(v))
	for i, kv := range v {
		parts[i] = fmt.Sprintf("%s=%s", kv.Name, FormatValue(kv.Value))
	}
	return strings.Join(parts, " ")
}

// FormatValue renders a binding value for terminal display.
func FormatValue(value any) string {
	switch val := value.(type) {
	case nil:
		return "null"
	case string:
		return val
	case []int:
		return fmt.Sprint(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// MarshalJSON encodes the bindings as a JSON object in insertion order.
func (v Vars) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range v {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(kv.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(kv.Value)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", kv.Name, err)
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping key order. Whole numbers decode
// to int, non-empty homogeneous arrays to []int or []string and empty arrays
// to []any, matching what Set stores, so that a decoded Run compares equal to
// the one that was encoded.
func (v *Vars) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*v = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("variables: expected object, got %v", tok)
	}

	out := Vars{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("variables: unexpected key %v", keyTok)
		}
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("variable %q: %w", key, err)
		}
		out = append(out, Var{Name: key, Value: normalizeValue(raw)})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*v = out
	return nil
}

func normalizeValue(raw any) any {
	switch val := raw.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return int(i)
		}
		f, _ := val.Float64()
		return f
	case []any:
		items := make([]any, len(val))
		for i, item := range val {
			items[i] = normalizeValue(item)
		}
		if len(items) == 0 {
			return items
		}
		if ints, ok := asInts(items); ok {
			return ints
		}
		if strs, ok := asStrings(items); ok {
			return strs
		}
		return items
	case map[string]any:
		for k, item := range val {
			val[k] = normalizeValue(item)
		}
		return val
	default:
		return val
	}
}

func asInts(items []any) ([]int, bool) {
	out := make([]int, len(items))
	for i, item := range items {
		n, ok := item.(int)
		if !ok {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

func asStrings(items []any) ([]string, bool) {
	out := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out[i] = s
	}
	return out, true
}

func cloneValue(value any) any {
	switch val := value.(type) {
	case []int:
		return slices.Clone(val)
	case []string:
		return slices.Clone(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case Vars:
		return val.Clone()
	default:
		return val
	}
}
