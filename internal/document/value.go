// Package document models Elasticsearch _source documents as a recursive
// value type and resolves dotted field paths through them.
package document

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"

	"github.com/goccy/go-json"
)

// Kind identifies which variant a Value holds.
type Kind int

// Value kinds.
const (
	Null Kind = iota
	String
	Number
	Bool
	List
	Map
)

var kindNames = map[Kind]string{
	Null:   "null",
	String: "string",
	Number: "number",
	Bool:   "bool",
	List:   "list",
	Map:    "map",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Value is one node of a document tree. The zero Value is Null.
type Value struct {
	kind Kind
	str  string
	num  json.Number
	b    bool
	list []Value
	m    map[string]Value
}

// NullValue returns the Null value.
func NullValue() Value { return Value{} }

// StringValue wraps s.
func StringValue(s string) Value { return Value{kind: String, str: s} }

// NumberValue wraps a JSON number literal.
func NumberValue(n json.Number) Value { return Value{kind: Number, num: n} }

// BoolValue wraps b.
func BoolValue(b bool) Value { return Value{kind: Bool, b: b} }

// ListValue wraps items.
func ListValue(items ...Value) Value { return Value{kind: List, list: items} }

// MapValue wraps m. A nil map becomes an empty one.
func MapValue(m map[string]Value) Value {
	if m == nil {
		m = map[string]Value{}
	}
	return Value{kind: Map, m: m}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is Null.
func (v Value) IsNull() bool { return v.kind == Null }

// Str returns the string held by v and whether v is a String.
func (v Value) Str() (string, bool) {
	return v.str, v.kind == String
}

// Field returns the member key of a Map value.
func (v Value) Field(key string) (Value, bool) {
	if v.kind != Map {
		return Value{}, false
	}
	child, ok := v.m[key]
	return child, ok
}

// Len is the length of a String, List or Map, and 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case String:
		return len(v.str)
	case List:
		return len(v.list)
	case Map:
		return len(v.m)
	default:
		return 0
	}
}

// Truthy reports whether v is present and not empty: a non-empty string,
// a non-zero number, true, or a non-empty list or map.
func (v Value) Truthy() bool {
	switch v.kind {
	case String, List, Map:
		return v.Len() > 0
	case Bool:
		return v.b
	case Number:
		f, err := v.num.Float64()
		if err != nil {
			return v.num != ""
		}
		return f != 0
	default:
		return false
	}
}

// String renders v for diagnostics. Strings are returned unquoted.
func (v Value) String() string {
	if v.kind == String {
		return v.str
	}
	var buf bytes.Buffer
	v.render(&buf)
	return buf.String()
}

func (v Value) render(buf *bytes.Buffer) {
	switch v.kind {
	case String:
		b, _ := json.Marshal(v.str)
		buf.Write(b)
	case Number:
		buf.WriteString(v.num.String())
	case Bool:
		fmt.Fprintf(buf, "%t", v.b)
	case List:
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteString(", ")
			}
			item.render(buf)
		}
		buf.WriteByte(']')
	case Map:
		keys := make([]string, 0, len(v.m))
		for k := range v.m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteString(", ")
			}
			b, _ := json.Marshal(k)
			buf.Write(b)
			buf.WriteString(": ")
			v.m[k].render(buf)
		}
		buf.WriteByte('}')
	default:
		buf.WriteString("null")
	}
}

// FromAny converts the output of a JSON decoder into a Value. Unsupported
// Go types become Null.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Value{}
	case Value:
		return t
	case string:
		return StringValue(t)
	case json.Number:
		return NumberValue(t)
	case float64:
		return NumberValue(json.Number(strconv.FormatFloat(t, 'g', -1, 64)))
	case int:
		return NumberValue(json.Number(strconv.Itoa(t)))
	case int64:
		return NumberValue(json.Number(strconv.FormatInt(t, 10)))
	case bool:
		return BoolValue(t)
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = FromAny(item)
		}
		return ListValue(items...)
	case map[string]any:
		m := make(map[string]Value, len(t))
		for k, item := range t {
			m[k] = FromAny(item)
		}
		return MapValue(m)
	default:
		return Value{}
	}
}

// UnmarshalJSON decodes any JSON value, keeping numbers as literals.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode document value: %w", err)
	}
	*v = FromAny(raw)
	return nil
}
