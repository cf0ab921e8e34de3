package tablestore

import (
	"database/sql/driver"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindText
	KindBinary
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Value is a primitive value bound as a statement parameter.
// The zero Value is NULL.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	bin  []byte
}

func Null() Value { return Value{} }
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }
func Int(i int64) Value { return Value{kind: KindInt, i: i} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }
func Text(s string) Value { return Value{kind: KindText, s: s} }
func Binary(b []byte) Value { return Value{kind: KindBinary, bin: b} }
func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// ValueOf converts a Go value into a Value. Values implementing
// driver.Valuer are resolved first.
func ValueOf(val any) (Value, error) {
	switch x := val.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case *Value:
		if x == nil {
			return Null(), nil
		}
		return *x, nil
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
		return uintValue(uint64(x))
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return uintValue(x)
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case string:
		return Text(x), nil
	case []byte:
		if x == nil {
			return Null(), nil
		}
		return Binary(x), nil
	case driver.Valuer:
		if rv := reflect.ValueOf(x); rv.Kind() == reflect.Ptr && rv.IsNil() {
			return Null(), nil
		}
		dv, err := x.Value()
		if err != nil {
			return Value{}, err
		}
		if _, again := dv.(driver.Valuer); again {
			return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedValue, val)
		}
		return ValueOf(dv)
	default:
		if rv := reflect.ValueOf(val); rv.Kind() == reflect.Ptr {
			if rv.IsNil() {
				return Null(), nil
			}
			return ValueOf(rv.Elem().Interface())
		}
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedValue, val)
	}
}

func uintValue(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Value{}, fmt.Errorf("%w: %d overflows int64", ErrUnsupportedValue, u)
	}
	return Int(int64(u)), nil
}

// Value implements driver.Valuer.
func (v Value) Value() (driver.Value, error) {
	switch v.kind {
	case KindBool:
		return v.b, nil
	case KindInt:
		return v.i, nil
	case KindFloat:
		return v.f, nil
	case KindText:
		return v.s, nil
	case KindBinary:
		return v.bin, nil
	default:
		return nil, nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindText:
		return v.s
	case KindBinary:
		return fmt.Sprintf("binary(len=%d)", len(v.bin))
	default:
		return "NULL"
	}
}

// bindValue converts val and returns what gets handed to the driver.
func bindValue(val any) (any, error) {
	v, err := ValueOf(val)
	if err != nil {
		return nil, err
	}

	return v.Value()
}

var numericTypes = map[string]bool{
	"tinyint": true, "smallint": true, "mediumint": true, "int": true, "integer": true, "bigint": true,
	"int2": true, "int4": true, "int8": true,
	"decimal": true, "numeric": true, "dec": true, "fixed": true,
	"float": true, "float4": true, "float8": true, "double": true, "real": true,
	"smallserial": true, "serial": true, "bigserial": true,
}

// isNumericType reports whether colType names a numeric column. Only the
// base name counts: "int(11) unsigned" and "double precision" are numeric,
// "int4range" and "interval" are not.
func isNumericType(colType string) bool {
	t := strings.ToLower(strings.TrimSpace(colType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = t[:i]
	}

	base, _, _ := strings.Cut(strings.TrimSpace(t), " ")
	return numericTypes[base]
}

// checkColumn reports whether v can be stored in col.
func checkColumn(col Column, v Value) error {
	if !isNumericType(col.Type) {
		return nil
	}

	switch v.kind {
	case KindBinary:
		return fmt.Errorf("%w: binary value for %s column %s", ErrValueMismatch, col.Type, col.Name)
	case KindText:
		if _, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64); err != nil {
			return fmt.Errorf("%w: %q for %s column %s", ErrValueMismatch, v.s, col.Type, col.Name)
		}
	}

	return nil
}
