package docinfo

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/alnah/go-rstpost/internal/yamlutil"
)

type valueKind int

const (
	nullValue valueKind = iota
	textValue
	listValue
)

// Value is a metadata field value: null, a string, or a list of values whose
// entries are themselves null or strings.
type Value struct {
	kind  valueKind
	text  string
	items []Value
}

// Null returns the absent value.
func Null() Value { return Value{} }

// Text returns a string value.
func Text(s string) Value { return Value{kind: textValue, text: s} }

// List returns a list value. Items keep their order, including null slots.
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: listValue, items: items}
}

// Strings builds a list value from plain strings.
func Strings(items ...string) Value {
	vals := make([]Value, len(items))
	for i, s := range items {
		vals[i] = Text(s)
	}
	return List(vals...)
}

// IsNull reports whether v is absent.
func (v Value) IsNull() bool { return v.kind == nullValue }

// IsList reports whether v is a list.
func (v Value) IsList() bool { return v.kind == listValue }

// Text returns the string of a text value.
func (v Value) Text() (string, bool) {
	if v.kind != textValue {
		return "", false
	}
	return v.text, true
}

// Items returns the entries of a list value.
func (v Value) Items() []Value {
	if v.kind != listValue {
		return nil
	}
	return v.items
}

// Strings returns the non-null entries of a list value, or the text of a
// text value as a single entry.
func (v Value) Strings() []string {
	switch v.kind {
	case textValue:
		return []string{v.text}
	case listValue:
		out := make([]string, 0, len(v.items))
		for _, item := range v.items {
			if s, ok := item.Text(); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// String formats v for display.
func (v Value) String() string {
	switch v.kind {
	case textValue:
		return v.text
	case listValue:
		parts := make([]string, len(v.items))
		for i, item := range v.items {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return "<null>"
}

// Equal reports whether v and o hold the same value.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind || v.text != o.text || len(v.items) != len(o.items) {
		return false
	}
	for i := range v.items {
		if !v.items[i].Equal(o.items[i]) {
			return false
		}
	}
	return true
}

// plain converts v to nil, string or []any for encoders.
func (v Value) plain() any {
	switch v.kind {
	case textValue:
		return v.text
	case listValue:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.plain()
		}
		return out
	}
	return nil
}

// MarshalJSON encodes v as null, a string, or an array.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.plain())
}

// MarshalYAML encodes v as null, a string, or a sequence.
func (v Value) MarshalYAML() (any, error) {
	return v.plain(), nil
}

// Metadata is an ordered mapping of field names to values.
// Setting an existing name replaces its value in place.
type Metadata struct {
	keys   []string
	values map[string]Value
}

// NewMetadata returns an empty mapping.
func NewMetadata() *Metadata {
	return &Metadata{values: make(map[string]Value)}
}

// Set stores v under name.
func (m *Metadata) Set(name string, v Value) {
	if _, ok := m.values[name]; !ok {
		m.keys = append(m.keys, name)
	}
	m.values[name] = v
}

// Get returns the value stored under name.
func (m *Metadata) Get(name string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	v, ok := m.values[name]
	return v, ok
}

// Text returns the string stored under name, if it is a text value.
func (m *Metadata) Text(name string) (string, bool) {
	v, ok := m.Get(name)
	if !ok {
		return "", false
	}
	return v.Text()
}

// Keys returns the field names in insertion order.
func (m *Metadata) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Len returns the number of fields.
func (m *Metadata) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// MarshalJSON encodes m as an object with keys in insertion order.
func (m *Metadata) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(m.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes m as a mapping with keys in insertion order.
func (m *Metadata) MarshalYAML() (any, error) {
	out := make(yamlutil.MapSlice, 0, m.Len())
	for _, key := range m.Keys() {
		out = append(out, yamlutil.MapItem{Key: key, Value: m.values[key].plain()})
	}
	return out, nil
}
