package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Attributes is a string-keyed map that remembers insertion order.
// Re-setting an existing key keeps its original position.
type Attributes struct {
	keys   []string
	values map[string]Value
}

// NewAttributes creates an empty attribute map
func NewAttributes() *Attributes {
	return &Attributes{values: make(map[string]Value)}
}

// Attrs builds an attribute map from alternating key/value arguments.
// Values are converted with ValueOf. It panics on a non-string key.
func Attrs(kv ...any) *Attributes {
	if len(kv)%2 != 0 {
		panic("graph.Attrs: odd number of arguments")
	}
	a := NewAttributes()
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("graph.Attrs: key %v is not a string", kv[i]))
		}
		a.Set(k, ValueOf(kv[i+1]))
	}
	return a
}

// Len returns the number of keys
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.keys)
}

// Get returns the value stored under key
func (a *Attributes) Get(key string) (Value, bool) {
	if a == nil {
		return Value{}, false
	}
	v, ok := a.values[key]
	return v, ok
}

// Has reports whether key is present
func (a *Attributes) Has(key string) bool {
	_, ok := a.Get(key)
	return ok
}

// Set stores v under key
func (a *Attributes) Set(key string, v Value) {
	if a.values == nil {
		a.values = make(map[string]Value)
	}
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = v
}

// Delete removes key and returns the value it held
func (a *Attributes) Delete(key string) (Value, bool) {
	if a == nil {
		return Value{}, false
	}
	v, ok := a.values[key]
	if !ok {
		return Value{}, false
	}
	delete(a.values, key)
	for i, k := range a.keys {
		if k == key {
			a.keys = append(a.keys[:i:i], a.keys[i+1:]...)
			break
		}
	}
	return v, true
}

// Keys returns the keys in insertion order
func (a *Attributes) Keys() []string {
	if a == nil {
		return nil
	}
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

// Range calls fn for each pair in insertion order until fn returns false
func (a *Attributes) Range(fn func(key string, v Value) bool) {
	if a == nil {
		return
	}
	for _, k := range a.keys {
		if !fn(k, a.values[k]) {
			return
		}
	}
}

// Clone returns a shallow copy. Nested maps and lists are shared.
func (a *Attributes) Clone() *Attributes {
	out := &Attributes{
		keys:   make([]string, 0, a.Len()),
		values: make(map[string]Value, a.Len()),
	}
	a.Range(func(k string, v Value) bool {
		out.keys = append(out.keys, k)
		out.values[k] = v
		return true
	})
	return out
}

// Merge copies every pair of other into a, overwriting existing keys
func (a *Attributes) Merge(other *Attributes) {
	other.Range(func(k string, v Value) bool {
		a.Set(k, v)
		return true
	})
}

// Equal reports whether both maps hold the same pairs in the same order
func (a *Attributes) Equal(o *Attributes) bool {
	if a.Len() != o.Len() {
		return false
	}
	if a.Len() == 0 {
		return true
	}
	for i, k := range a.keys {
		if o.keys[i] != k || !a.values[k].Equal(o.values[k]) {
			return false
		}
	}
	return true
}

// MarshalJSON writes the pairs as a JSON object in insertion order
func (a *Attributes) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range a.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := a.values[k].MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object preserving key order
func (a *Attributes) UnmarshalJSON(data []byte) error {
	dec := newDecoder(data)
	v, err := decodeValue(dec)
	if err != nil {
		return err
	}
	m, ok := v.AsMap()
	if !ok {
		return fmt.Errorf("graph: expected JSON object, got %s", v.Kind())
	}
	*a = *m
	return nil
}

var errUnexpectedDelim = errors.New("graph: unexpected JSON delimiter")

func newDecoder(data []byte) *json.Decoder {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec
}

// decodeValue reads one JSON value from the token stream
func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return Value{}, io.ErrUnexpectedEOF
		}
		return Value{}, err
	}
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case string:
		return StringValue(t), nil
	case bool:
		return BoolValue(t), nil
	case json.Number:
		return numberValue(t), nil
	case json.Delim:
		switch t {
		case '{':
			m := NewAttributes()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := kt.(string)
				if !ok {
					return Value{}, fmt.Errorf("graph: object key %v is not a string", kt)
				}
				v, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				m.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return MapValue(m), nil
		case '[':
			l := make([]Value, 0)
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				l = append(l, v)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return ListValue(l), nil
		}
	}
	return Value{}, errUnexpectedDelim
}
