package runtime

import "fmt"

// Thrown carries a thrown script value across Go call boundaries as an
// error. Any value can be thrown, not only Error-shaped objects; the
// payload is preserved exactly and can be rethrown or inspected.
type Thrown struct {
	Value Value
}

func (t *Thrown) Error() string {
	return "uncaught exception: " + t.Value.ToString()
}

// Throw wraps a script value for propagation as a Go error.
func Throw(v Value) error {
	return &Thrown{Value: v}
}

// ThrownValue unwraps the script value from an error produced by Throw.
func ThrownValue(err error) (Value, bool) {
	if t, ok := err.(*Thrown); ok {
		return t.Value, true
	}
	return Undefined, false
}

// newErrorObject builds a plain error-shaped object: name and message
// data properties on a fresh object whose prototype is ObjectPrototype.
// The core carries no Error constructor surface, so error objects are
// ordinary objects distinguished by shape.
func (e *Engine) newErrorObject(name, msg string) Value {
	obj := e.NewObject()
	obj.putProp(StringKey("name"), DataDescriptor(NewString(name), true, false, true))
	obj.putProp(StringKey("message"), DataDescriptor(NewString(msg), true, false, true))
	return obj.Value()
}

func (e *Engine) NewTypeError(format string, args ...interface{}) error {
	return Throw(e.newErrorObject("TypeError", fmt.Sprintf(format, args...)))
}

func (e *Engine) NewRangeError(format string, args ...interface{}) error {
	return Throw(e.newErrorObject("RangeError", fmt.Sprintf(format, args...)))
}

func (e *Engine) NewReferenceError(format string, args ...interface{}) error {
	return Throw(e.newErrorObject("ReferenceError", fmt.Sprintf(format, args...)))
}

func (e *Engine) NewSyntaxError(format string, args ...interface{}) error {
	return Throw(e.newErrorObject("SyntaxError", fmt.Sprintf(format, args...)))
}
