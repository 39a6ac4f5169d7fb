package runtime

import (
	"fmt"
	"math"
	"strconv"
	"unsafe"
)

type ValueType uint8

const (
	TypeUndefined ValueType = iota
	TypeNull
	TypeBoolean
	TypeFloatNumber
	TypeIntegerNumber
	TypeString
	TypeSymbol
	TypeObject
)

// String returns a human-readable string representation of the ValueType
func (vt ValueType) String() string {
	switch vt {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeFloatNumber, TypeIntegerNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeSymbol:
		return "symbol"
	case TypeObject:
		return "object"
	default:
		return "unknown"
	}
}

type StringObject struct {
	value string
}

// SymbolObject carries a symbol's description; symbol identity is the
// pointer itself, so two symbols with the same description are distinct.
type SymbolObject struct {
	desc string
}

// Value is a tagged script value. Undefined, null, booleans and numbers
// live entirely in typ/payload; strings, symbols and objects are shared
// references behind obj.
type Value struct {
	typ     ValueType
	payload uint64
	obj     unsafe.Pointer
}

var (
	Undefined = Value{typ: TypeUndefined}
	Null      = Value{typ: TypeNull}
	True      = Value{typ: TypeBoolean, payload: 1}
	False     = Value{typ: TypeBoolean, payload: 0}
	NaN       = Value{typ: TypeFloatNumber, payload: math.Float64bits(math.NaN())}
)

func NumberValue(value float64) Value {
	return Value{typ: TypeFloatNumber, payload: math.Float64bits(value)}
}

func IntegerValue(value int32) Value {
	return Value{typ: TypeIntegerNumber, payload: uint64(int64(value))}
}

func BooleanValue(value bool) Value {
	if value {
		return True
	}
	return False
}

func NewString(value string) Value {
	return Value{typ: TypeString, obj: unsafe.Pointer(&StringObject{value: value})}
}

func NewSymbol(desc string) Value {
	return Value{typ: TypeSymbol, obj: unsafe.Pointer(&SymbolObject{desc: desc})}
}

func objectValue(o *Object) Value {
	return Value{typ: TypeObject, obj: unsafe.Pointer(o)}
}

func (v Value) Type() ValueType { return v.typ }

func (v Value) TypeName() string {
	if v.typ == TypeObject && v.IsCallable() {
		return "function"
	}
	return v.typ.String()
}

func (v Value) IsUndefined() bool { return v.typ == TypeUndefined }
func (v Value) IsNull() bool      { return v.typ == TypeNull }
func (v Value) IsBoolean() bool   { return v.typ == TypeBoolean }
func (v Value) IsNumber() bool {
	return v.typ == TypeFloatNumber || v.typ == TypeIntegerNumber
}
func (v Value) IsString() bool { return v.typ == TypeString }
func (v Value) IsSymbol() bool { return v.typ == TypeSymbol }
func (v Value) IsObject() bool { return v.typ == TypeObject }

// IsCallable reports whether the value is an object with call behavior.
func (v Value) IsCallable() bool {
	if v.typ != TypeObject {
		return false
	}
	_, ok := v.AsObject().self.(callable)
	return ok
}

func (v Value) AsBoolean() bool {
	if v.typ != TypeBoolean {
		panic("value is not a boolean")
	}
	return v.payload != 0
}

func (v Value) AsFloat() float64 {
	if v.typ != TypeFloatNumber {
		panic("value is not a float")
	}
	return math.Float64frombits(v.payload)
}

func (v Value) AsInteger() int32 {
	if v.typ != TypeIntegerNumber {
		panic("value is not an integer")
	}
	return int32(int64(v.payload))
}

// ToFloat converts either number representation to float64.
func (v Value) ToFloat() float64 {
	switch v.typ {
	case TypeFloatNumber:
		return v.AsFloat()
	case TypeIntegerNumber:
		return float64(v.AsInteger())
	default:
		panic("value is not a number")
	}
}

func (v Value) AsString() string {
	if v.typ != TypeString {
		panic("value is not a string")
	}
	return (*StringObject)(v.obj).value
}

func (v Value) AsSymbolObject() *SymbolObject {
	if v.typ != TypeSymbol {
		panic("value is not a symbol")
	}
	return (*SymbolObject)(v.obj)
}

func (v Value) AsObject() *Object {
	if v.typ != TypeObject {
		panic("value is not an object")
	}
	return (*Object)(v.obj)
}

// SameValue implements the ECMAScript SameValue comparison:
// NaN is SameValue NaN, +0 is not SameValue -0.
func (v Value) SameValue(other Value) bool {
	if v.IsNumber() && other.IsNumber() {
		vf, of := v.ToFloat(), other.ToFloat()
		if math.IsNaN(vf) && math.IsNaN(of) {
			return true
		}
		if vf == 0 && of == 0 {
			return math.Signbit(vf) == math.Signbit(of)
		}
		return vf == of
	}
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeUndefined, TypeNull:
		return true
	case TypeBoolean:
		return v.payload == other.payload
	case TypeString:
		return v.AsString() == other.AsString()
	case TypeSymbol, TypeObject:
		return v.obj == other.obj
	default:
		return false
	}
}

// Is implements SameValueZero: like SameValue but +0 is -0. Used where
// identity without zero-sign distinction is wanted (e.g. collections).
func (v Value) Is(other Value) bool {
	if v.IsNumber() && other.IsNumber() {
		vf, of := v.ToFloat(), other.ToFloat()
		if math.IsNaN(vf) && math.IsNaN(of) {
			return true
		}
		return vf == of
	}
	return v.SameValue(other)
}

// StrictlyEquals implements the Strict Equality Comparison (`===`).
// NaN !== NaN, +0 === -0, no coercion.
func (v Value) StrictlyEquals(other Value) bool {
	if v.IsNumber() && other.IsNumber() {
		vf, of := v.ToFloat(), other.ToFloat()
		if math.IsNaN(vf) || math.IsNaN(of) {
			return false
		}
		return vf == of
	}
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeUndefined, TypeNull:
		return true
	case TypeBoolean:
		return v.payload == other.payload
	case TypeString:
		return v.AsString() == other.AsString()
	case TypeSymbol, TypeObject:
		return v.obj == other.obj
	default:
		return false
	}
}

// ToString renders the value following ECMAScript ToString for primitives.
// Objects render as a debug tag; the core carries no toString protocol.
func (v Value) ToString() string {
	switch v.typ {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBoolean:
		if v.AsBoolean() {
			return "true"
		}
		return "false"
	case TypeIntegerNumber:
		return strconv.FormatInt(int64(v.AsInteger()), 10)
	case TypeFloatNumber:
		return floatToString(v.AsFloat())
	case TypeString:
		return v.AsString()
	case TypeSymbol:
		return fmt.Sprintf("Symbol(%s)", v.AsSymbolObject().desc)
	case TypeObject:
		o := v.AsObject()
		if _, ok := o.self.(callable); ok {
			return "[object Function]"
		}
		return "[object " + o.ClassName() + "]"
	}
	return fmt.Sprintf("<unknown type %d>", v.typ)
}

// floatToString implements ECMAScript number-to-string (7.1.12.1) closely
// enough for canonical property keys: fixed notation within
// [1e-6, 1e21), exponential with a cleaned exponent outside it.
func floatToString(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs < 1e-6 || abs >= 1e21 {
		return cleanExponentialFormat(strconv.FormatFloat(f, 'e', -1, 64))
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// cleanExponentialFormat removes leading zeros from the exponent to match
// the script-language format, e.g. "1e-07" -> "1e-7".
func cleanExponentialFormat(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == 'e' || s[i] == 'E' {
			if i+1 < len(s) && (s[i+1] == '+' || s[i+1] == '-') {
				sign := s[i+1]
				j := i + 2
				for j < len(s) && s[j] == '0' {
					j++
				}
				if j >= len(s) {
					return s[:i+2] + "0"
				}
				return s[:i+1] + string(sign) + s[j:]
			}
			break
		}
	}
	return s
}
