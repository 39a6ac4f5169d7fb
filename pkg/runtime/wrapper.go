package runtime

import "strconv"

const classSymbol = "Symbol"

// wrapperObject carries the primitive a this-coercion wrapped. String
// wrappers materialize length and read-only indexed characters.
type wrapperObject struct {
	baseObject
	primitive Value
}

// PrimitiveValue returns the wrapped primitive of a wrapper object.
func (o *Object) PrimitiveValue() (Value, bool) {
	if w, ok := o.self.(*wrapperObject); ok {
		return w.primitive, true
	}
	return Undefined, false
}

func (e *Engine) newWrapper(class string, proto *Object, primitive Value) *Object {
	obj := &Object{engine: e}
	w := &wrapperObject{primitive: primitive}
	w.init(obj, class, proto)
	obj.self = w
	return obj
}

func (e *Engine) newBooleanWrapper(v Value) *Object {
	return e.newWrapper(classBoolean, e.BooleanPrototype, v)
}

func (e *Engine) newNumberWrapper(v Value) *Object {
	return e.newWrapper(classNumber, e.NumberPrototype, v)
}

func (e *Engine) newSymbolWrapper(v Value) *Object {
	return e.newWrapper(classSymbol, e.ObjectPrototype, v)
}

func (e *Engine) newStringWrapper(v Value) *Object {
	obj := e.newWrapper(classString, e.StringPrototype, v)
	runes := []rune(v.AsString())
	for i, r := range runes {
		obj.putProp(StringKey(strconv.Itoa(i)),
			DataDescriptor(NewString(string(r)), false, true, false))
	}
	obj.putProp(lengthKey,
		DataDescriptor(IntegerValue(int32(len(runes))), false, false, false))
	return obj
}
