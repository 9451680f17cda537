package jsondict

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"unicode/utf8"
)

type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

var kindNames = [...]string{
	KindNull:   "null",
	KindBool:   "bool",
	KindNumber: "number",
	KindString: "string",
	KindArray:  "array",
	KindObject: "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "<unknown kind>"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(d []byte) error {
	for i, name := range kindNames {
		if name == string(d) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unrecognized kind %q", d)
}

// IsContainer is true for arrays and objects, the kinds that get wrapped
// into live nodes when read out of a tree.
func (k Kind) IsContainer() bool {
	return k == KindArray || k == KindObject
}

// Elem is anything a read from a live tree can return: a Value for scalars
// and detached data, a *Map or a *List for live containers.
type Elem interface {
	Kind() Kind

	// Detach returns a plain deep copy that is not connected to any store.
	Detach() Value

	isElem()
}

// Value is an immutable JSON-shaped value. The zero Value is null.
type Value struct {
	kind  Kind
	b     bool
	isInt bool
	i     int64
	f     float64
	s     string
	arr   []Value
	obj   map[string]Value
}

func Null() Value           { return Value{} }
func Bool(b bool) Value     { return Value{kind: KindBool, b: b} }
func Int(i int64) Value     { return Value{kind: KindNumber, isInt: true, i: i, f: float64(i)} }
func Float(f float64) Value { return Value{kind: KindNumber, f: f} }
func String(s string) Value { return Value{kind: KindString, s: s} }

func Array(elems ...Value) Value {
	return Value{kind: KindArray, arr: slices.Clone(elems)}
}

func Object(fields map[string]Value) Value {
	obj := make(map[string]Value, len(fields))
	for k, v := range fields {
		obj[k] = v
	}
	return Value{kind: KindObject, obj: obj}
}

func (v Value) Kind() Kind     { return v.kind }
func (v Value) Detach() Value  { return v }
func (Value) isElem()          {}
func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) Bool() bool     { return v.b }
func (v Value) Str() string    { return v.s }
func (v Value) IsInt() bool    { return v.kind == KindNumber && v.isInt }
func (v Value) Float() float64 { return v.f }

// Int returns the number truncated towards zero, saturating at the int64
// limits. NaN reads as 0.
func (v Value) Int() int64 {
	switch {
	case v.isInt:
		return v.i
	case math.IsNaN(v.f):
		return 0
	case v.f >= math.MaxInt64:
		return math.MaxInt64
	case v.f <= math.MinInt64:
		return math.MinInt64
	default:
		return int64(v.f)
	}
}

// Len is the number of elements of an array or fields of an object.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return len(v.obj)
	default:
		return 0
	}
}

// Index returns the i-th element of an array, or null when out of range.
func (v Value) Index(i int) Value {
	if i < 0 || i >= len(v.arr) {
		return Value{}
	}
	return v.arr[i]
}

func (v Value) Field(key string) (Value, bool) {
	f, ok := v.obj[key]
	return f, ok
}

// Keys returns the object's keys in sorted order.
func (v Value) Keys() []string {
	keys := make([]string, 0, len(v.obj))
	for k := range v.obj {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (v Value) Elems() []Value {
	return slices.Clone(v.arr)
}

// Native converts the value into plain Go data: nil, bool, int64, float64,
// string, []any and map[string]any.
func (v Value) Native() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		if v.isInt {
			return v.i
		}
		return v.f
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.Native()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.obj))
		for k, e := range v.obj {
			out[k] = e.Native()
		}
		return out
	default:
		return nil
	}
}

// String renders canonical JSON (sorted keys).
func (v Value) String() string {
	buf, err := appendJSON(nil, v)
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return string(buf)
}

func (v Value) MarshalJSON() ([]byte, error) {
	return appendJSON(nil, v)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	d, err := JSON.Decode(data)
	if err != nil {
		return err
	}
	*v = d
	return nil
}

func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		switch {
		case v.isInt && other.isInt:
			return v.i == other.i
		case v.isInt:
			return intEqualsFloat(v.i, other.f)
		case other.isInt:
			return intEqualsFloat(other.i, v.f)
		default:
			return v.f == other.f
		}
	case KindString:
		return v.s == other.s
	case KindArray:
		return slices.EqualFunc(v.arr, other.arr, Value.Equal)
	case KindObject:
		if len(v.obj) != len(other.obj) {
			return false
		}
		for k, a := range v.obj {
			b, ok := other.obj[k]
			if !ok || !a.Equal(b) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// intEqualsFloat compares exactly: 1<<53+1 does not equal float64(1<<53).
func intEqualsFloat(i int64, f float64) bool {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return false
	}
	return int64(f) == i
}

// validate rejects what cannot be stored losslessly: non-finite numbers and
// strings or keys that are not valid UTF-8.
func (v Value) validate() error {
	switch v.kind {
	case KindNumber:
		if !v.isInt && (math.IsNaN(v.f) || math.IsInf(v.f, 0)) {
			return fmt.Errorf("%w: non-finite number %v", ErrUnsupportedType, v.f)
		}
	case KindString:
		return validString(v.s)
	case KindArray:
		for _, e := range v.arr {
			if err := e.validate(); err != nil {
				return err
			}
		}
	case KindObject:
		for k, e := range v.obj {
			if err := validKey(k); err != nil {
				return err
			}
			if err := e.validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

func validString(s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: invalid UTF-8 in string %q", ErrUnsupportedType, s)
	}
	return nil
}

func validKey(k string) error {
	if !utf8.ValidString(k) {
		return fmt.Errorf("%w: invalid UTF-8 in key %q", ErrUnsupportedType, k)
	}
	return nil
}

// Equal compares two trees structurally. Live nodes, Values and plain Go
// data all compare equal when they hold the same shape and scalars.
func Equal(a, b any) bool {
	va, err := From(a)
	if err != nil {
		return false
	}
	vb, err := From(b)
	if err != nil {
		return false
	}
	return va.Equal(vb)
}

func MustFrom(x any) Value {
	return must(From(x))
}

// From converts plain Go data, Values and live nodes into a Value. Live
// nodes are detached, so the result never aliases a tree. Non-finite numbers
// and invalid UTF-8 are rejected with ErrUnsupportedType, whichever way they
// arrive.
func From(x any) (Value, error) {
	switch x := x.(type) {
	case nil:
		return Value{}, nil
	case Value:
		return x, x.validate()
	case *Map:
		if x == nil {
			return Value{}, nil
		}
		return x.Detach(), nil
	case *List:
		if x == nil {
			return Value{}, nil
		}
		return x.Detach(), nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return fromUint(uint64(x)), nil
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return fromUint(x), nil
	case float32:
		return fromFloat(float64(x))
	case float64:
		return fromFloat(x)
	case json.Number:
		return fromNumberLiteral(string(x))
	case string:
		return String(x), validString(x)
	case []Value:
		v := Array(x...)
		return v, v.validate()
	case map[string]Value:
		v := Object(x)
		return v, v.validate()
	case []any:
		arr := make([]Value, len(x))
		for i, e := range x {
			v, err := From(e)
			if err != nil {
				return Value{}, err
			}
			arr[i] = v
		}
		return Value{kind: KindArray, arr: arr}, nil
	case map[string]any:
		obj := make(map[string]Value, len(x))
		for k, e := range x {
			if err := validKey(k); err != nil {
				return Value{}, err
			}
			v, err := From(e)
			if err != nil {
				return Value{}, err
			}
			obj[k] = v
		}
		return Value{kind: KindObject, obj: obj}, nil
	case map[any]any:
		obj := make(map[string]Value, len(x))
		for k, e := range x {
			ks, ok := k.(string)
			if !ok {
				return Value{}, fmt.Errorf("%w: object key %T", ErrUnsupportedType, k)
			}
			if err := validKey(ks); err != nil {
				return Value{}, err
			}
			v, err := From(e)
			if err != nil {
				return Value{}, err
			}
			obj[ks] = v
		}
		return Value{kind: KindObject, obj: obj}, nil
	default:
		return fromReflect(reflect.ValueOf(x))
	}
}

func fromUint(u uint64) Value {
	if u > math.MaxInt64 {
		return Float(float64(u))
	}
	return Int(int64(u))
}

func fromFloat(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, fmt.Errorf("%w: non-finite number %v", ErrUnsupportedType, f)
	}
	return Float(f), nil
}

// fromNumberLiteral keeps integer literals integral and everything with a
// fraction or an exponent floating.
func fromNumberLiteral(s string) (Value, error) {
	if !isFloatLiteral(s) {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, fmt.Errorf("%w: number %q", ErrUnsupportedType, s)
	}
	return fromFloat(f)
}

func isFloatLiteral(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '.', 'e', 'E':
			return true
		}
	}
	return false
}

func fromReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Invalid:
		return Value{}, nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Value{}, nil
		}
		return From(rv.Elem().Interface())
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return fromUint(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return fromFloat(rv.Float())
	case reflect.String:
		return String(rv.String()), validString(rv.String())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Value{}, nil
		}
		n := rv.Len()
		arr := make([]Value, n)
		for i := 0; i < n; i++ {
			v, err := From(rv.Index(i).Interface())
			if err != nil {
				return Value{}, err
			}
			arr[i] = v
		}
		return Value{kind: KindArray, arr: arr}, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, fmt.Errorf("%w: object key %v", ErrUnsupportedType, rv.Type().Key())
		}
		obj := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			if err := validKey(iter.Key().String()); err != nil {
				return Value{}, err
			}
			v, err := From(iter.Value().Interface())
			if err != nil {
				return Value{}, err
			}
			obj[iter.Key().String()] = v
		}
		return Value{kind: KindObject, obj: obj}, nil
	default:
		return Value{}, fmt.Errorf("%w: %v", ErrUnsupportedType, rv.Type())
	}
}
