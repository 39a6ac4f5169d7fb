package runtime

// iteratorObject drives a Go producer function through the script
// iterator protocol. Exhaustion is sticky: once the producer reports
// done, every later next yields {undefined, true}.
type iteratorObject struct {
	baseObject
	producer func() (Value, bool)
	done     bool
}

// newIteratorPrototype builds the shared prototype all engine-created
// iterators inherit: a next method plus a descriptive tag.
func (e *Engine) newIteratorPrototype() *Object {
	proto := e.newPlainObject(classObject, e.ObjectPrototype)
	nextFn := e.NewNativeFunction("next", 0,
		func(eng *Engine, this Value, args []Value) (Value, error) {
			if !this.IsObject() {
				return Undefined, eng.NewTypeError("next called on a non-iterator")
			}
			it, ok := this.AsObject().self.(*iteratorObject)
			if !ok {
				return Undefined, eng.NewTypeError("next called on a non-iterator")
			}
			return it.advance(eng), nil
		})
	proto.putProp(StringKey("next"), DataDescriptor(nextFn.Value(), true, false, true))
	proto.putProp(SymbolKey(e.symToStringTag), DataDescriptor(NewString("Iterator"), false, false, true))
	return proto
}

func (it *iteratorObject) advance(e *Engine) Value {
	if it.done || it.producer == nil {
		return e.iterResult(Undefined, true)
	}
	v, ok := it.producer()
	if !ok {
		it.done = true
		it.producer = nil
		return e.iterResult(Undefined, true)
	}
	return e.iterResult(v, false)
}

func (e *Engine) iterResult(v Value, done bool) Value {
	obj := e.NewObject()
	obj.putProp(StringKey("value"), DataDescriptor(v, true, true, true))
	obj.putProp(StringKey("done"), DataDescriptor(BooleanValue(done), true, true, true))
	return obj.Value()
}

func (e *Engine) newIterator(producer func() (Value, bool)) *Object {
	obj := &Object{engine: e}
	it := &iteratorObject{producer: producer}
	it.init(obj, classIterator, e.IteratorPrototype)
	obj.self = it
	return obj
}

// NewValuesIterator iterates a fixed slice of values.
func (e *Engine) NewValuesIterator(values []Value) *Object {
	i := 0
	return e.newIterator(func() (Value, bool) {
		if i >= len(values) {
			return Undefined, false
		}
		v := values[i]
		i++
		return v, true
	})
}

// NewOwnKeysIterator iterates a snapshot of an object's own enumerable
// string keys taken at creation time.
func (e *Engine) NewOwnKeysIterator(obj *Object) *Object {
	var names []Value
	for _, k := range obj.enumerableKeys() {
		if k.IsString() {
			names = append(names, NewString(k.Name()))
		}
	}
	return e.NewValuesIterator(names)
}

// Iterate drains an iterator through the protocol itself (its next
// property), calling fn for each produced value. An error from fn stops
// the iteration and is returned as-is.
func (e *Engine) Iterate(iter Value, fn func(Value) error) error {
	if !iter.IsObject() {
		return e.NewTypeError("%s is not an iterator", iter.TypeName())
	}
	obj := iter.AsObject()
	next, err := obj.Get(StringKey("next"))
	if err != nil {
		return err
	}
	if !next.IsCallable() {
		return e.NewTypeError("iterator has no callable next")
	}
	for {
		res, err := e.CallFunction(next, iter, nil)
		if err != nil {
			return err
		}
		if !res.IsObject() {
			return e.NewTypeError("iterator result is not an object")
		}
		done, err := res.AsObject().Get(StringKey("done"))
		if err != nil {
			return err
		}
		if done.IsBoolean() && done.AsBoolean() {
			return nil
		}
		v, err := res.AsObject().Get(StringKey("value"))
		if err != nil {
			return err
		}
		if err := fn(v); err != nil {
			return err
		}
	}
}
