package graph

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"
)

// Kind identifies the variant held by a Value
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindTime
	KindMap
	KindList
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	case KindMap:
		return "map"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Value is a variant-typed attribute value. The zero Value is null.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
	t    time.Time
	m    *Attributes
	l    []Value
}

func Null() Value                 { return Value{} }
func StringValue(s string) Value  { return Value{kind: KindString, s: s} }
func IntValue(i int64) Value      { return Value{kind: KindInt, i: i} }
func FloatValue(f float64) Value  { return Value{kind: KindFloat, f: f} }
func BoolValue(b bool) Value      { return Value{kind: KindBool, b: b} }
func TimeValue(t time.Time) Value { return Value{kind: KindTime, t: t} }

// MapValue wraps a nested attribute map. A nil map yields null.
func MapValue(m *Attributes) Value {
	if m == nil {
		return Null()
	}
	return Value{kind: KindMap, m: m}
}

func ListValue(l []Value) Value { return Value{kind: KindList, l: l} }

// ValueOf converts a plain Go value into a Value. Unsupported types are
// formatted with %v and stored as strings.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case string:
		return StringValue(x)
	case bool:
		return BoolValue(x)
	case int:
		return IntValue(int64(x))
	case int8:
		return IntValue(int64(x))
	case int16:
		return IntValue(int64(x))
	case int32:
		return IntValue(int64(x))
	case int64:
		return IntValue(x)
	case uint:
		return IntValue(int64(x))
	case uint8:
		return IntValue(int64(x))
	case uint16:
		return IntValue(int64(x))
	case uint32:
		return IntValue(int64(x))
	case uint64:
		if x > math.MaxInt64 {
			return FloatValue(float64(x))
		}
		return IntValue(int64(x))
	case float32:
		return FloatValue(float64(x))
	case float64:
		return FloatValue(x)
	case json.Number:
		return numberValue(x)
	case time.Time:
		return TimeValue(x)
	case *time.Time:
		if x == nil {
			return Null()
		}
		return TimeValue(*x)
	case *Attributes:
		return MapValue(x)
	case []Value:
		return ListValue(x)
	case []any:
		l := make([]Value, len(x))
		for i, e := range x {
			l[i] = ValueOf(e)
		}
		return ListValue(l)
	case []string:
		l := make([]Value, len(x))
		for i, e := range x {
			l[i] = StringValue(e)
		}
		return ListValue(l)
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewAttributes()
		for _, k := range keys {
			m.Set(k, ValueOf(x[k]))
		}
		return MapValue(m)
	default:
		return StringValue(fmt.Sprintf("%v", v))
	}
}

func numberValue(n json.Number) Value {
	if i, err := n.Int64(); err == nil {
		return IntValue(i)
	}
	f, err := n.Float64()
	if err != nil {
		return StringValue(n.String())
	}
	return FloatValue(f)
}

// Kind returns the variant held by v
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v holds no value
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }
func (v Value) AsInt() (int64, bool)     { return v.i, v.kind == KindInt }
func (v Value) AsBool() (bool, bool)     { return v.b, v.kind == KindBool }
func (v Value) AsTime() (time.Time, bool) {
	return v.t, v.kind == KindTime
}
func (v Value) AsMap() (*Attributes, bool) { return v.m, v.kind == KindMap }
func (v Value) AsList() ([]Value, bool)    { return v.l, v.kind == KindList }

// AsFloat returns the numeric value of an int or float variant
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// Interface returns v as a plain Go value
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	case KindTime:
		return v.t
	case KindMap:
		return v.m
	case KindList:
		out := make([]any, len(v.l))
		for i, e := range v.l {
			out[i] = e.Interface()
		}
		return out
	default:
		return nil
	}
}

// Equal reports deep equality of two values
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.s == o.s
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindBool:
		return v.b == o.b
	case KindTime:
		return v.t.Equal(o.t)
	case KindMap:
		return v.m.Equal(o.m)
	case KindList:
		if len(v.l) != len(o.l) {
			return false
		}
		for i := range v.l {
			if !v.l[i].Equal(o.l[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Key renders a scalar value as a node identifier. Null, map and list
// values cannot identify a node.
func (v Value) Key() (string, bool) {
	switch v.kind {
	case KindString:
		return v.s, true
	case KindInt:
		return strconv.FormatInt(v.i, 10), true
	case KindFloat:
		if math.IsNaN(v.f) {
			return "", false
		}
		return strconv.FormatFloat(v.f, 'f', -1, 64), true
	case KindBool:
		return strconv.FormatBool(v.b), true
	case KindTime:
		return v.t.Format(time.RFC3339Nano), true
	default:
		return "", false
	}
}

// String implements fmt.Stringer
func (v Value) String() string {
	if k, ok := v.Key(); ok {
		return k
	}
	data, err := v.MarshalJSON()
	if err != nil {
		return v.kind.String()
	}
	return string(data)
}

// MarshalJSON encodes the value as its natural JSON form. Times are
// RFC 3339 strings; non-finite floats become null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.s)
	case KindInt:
		return []byte(strconv.FormatInt(v.i, 10)), nil
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.f)
	case KindBool:
		return []byte(strconv.FormatBool(v.b)), nil
	case KindTime:
		return json.Marshal(v.t.Format(time.RFC3339Nano))
	case KindMap:
		return v.m.MarshalJSON()
	case KindList:
		if v.l == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.l)
	}
	return nil, fmt.Errorf("graph: cannot marshal value of kind %d", v.kind)
}

// UnmarshalJSON decodes any JSON document, keeping object key order
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := newDecoder(data)
	val, err := decodeValue(dec)
	if err != nil {
		return err
	}
	*v = val
	return nil
}
