package runtime

import "strconv"

var lengthKey = StringKey("length")

// arrayObject keeps the length invariant: length always exceeds every
// own index, index definitions past the end grow it, and shrinking it
// deletes elements from the top down.
type arrayObject struct {
	baseObject
}

func (e *Engine) NewArray(elems ...Value) *Object {
	obj := &Object{engine: e}
	a := &arrayObject{}
	a.init(obj, classArray, e.ArrayPrototype)
	obj.self = a
	a.props.set(lengthKey, &property{
		value:    arrayLengthValue(uint32(len(elems))),
		getter:   Undefined,
		setter:   Undefined,
		writable: true,
	})
	for i, v := range elems {
		a.props.set(StringKey(strconv.Itoa(i)), &property{
			value:        v,
			getter:       Undefined,
			setter:       Undefined,
			writable:     true,
			enumerable:   true,
			configurable: true,
		})
	}
	return obj
}

func arrayLengthValue(n uint32) Value {
	return NumberValue(float64(n))
}

func (a *arrayObject) getLength() uint32 {
	p, _ := a.props.get(lengthKey)
	return uint32(p.value.ToFloat())
}

func (a *arrayObject) defineOwnProperty(key PropertyKey, desc PropertyDescriptor, throw bool) (bool, error) {
	if key == lengthKey {
		return a.defineLength(desc, throw)
	}
	if idx, isIndex := key.arrayIndex(); isIndex {
		oldLen := a.getLength()
		if idx >= oldLen {
			lenProp, _ := a.props.get(lengthKey)
			if !lenProp.writable {
				return a.propFail(throw, "cannot add element %d: length is read-only", idx)
			}
		}
		ok, err := a.baseObject.defineOwnProperty(key, desc, throw)
		if !ok {
			return ok, err
		}
		if idx >= oldLen {
			lenProp, _ := a.props.get(lengthKey)
			lenProp.value = arrayLengthValue(idx + 1)
		}
		return true, nil
	}
	return a.baseObject.defineOwnProperty(key, desc, throw)
}

// defineLength implements the length redefinition algorithm. Shrinking
// deletes indices descending; a non-configurable element stops the
// truncation with length left one above it and the whole definition
// reported as failed. A writable:false rider applies only after the
// deletions are done.
func (a *arrayObject) defineLength(desc PropertyDescriptor, throw bool) (bool, error) {
	if !desc.HasValue {
		return a.baseObject.defineOwnProperty(lengthKey, desc, throw)
	}
	newLen, err := a.obj.engine.toArrayLength(desc.Value)
	if err != nil {
		return false, err
	}
	lenProp, _ := a.props.get(lengthKey)
	oldLen := uint32(lenProp.value.ToFloat())

	applied := desc
	applied.Value = arrayLengthValue(newLen)
	if newLen >= oldLen {
		return a.baseObject.defineOwnProperty(lengthKey, applied, throw)
	}
	if !lenProp.writable {
		return a.propFail(throw, "cannot redefine property %q: cannot change value of non-writable property", "length")
	}

	deferredWritable := applied.Writable == FlagFalse
	if deferredWritable {
		applied.Writable = FlagNotSet
	}
	for i := oldLen; i > newLen; i-- {
		idx := i - 1
		key := StringKey(strconv.FormatUint(uint64(idx), 10))
		p, exists := a.props.get(key)
		if !exists {
			continue
		}
		if !p.configurable {
			blocked := applied
			blocked.Value = arrayLengthValue(idx + 1)
			if deferredWritable {
				blocked.Writable = FlagFalse
			}
			_, _ = a.baseObject.defineOwnProperty(lengthKey, blocked, false)
			return a.propFail(throw, "cannot delete non-configurable element %d while shrinking length", idx)
		}
		a.props.remove(key)
	}
	if deferredWritable {
		applied.Writable = FlagFalse
	}
	return a.baseObject.defineOwnProperty(lengthKey, applied, throw)
}

// toArrayLength validates a candidate length value: a number whose
// uint32 conversion round-trips exactly.
func (e *Engine) toArrayLength(v Value) (uint32, error) {
	if !v.IsNumber() {
		return 0, e.NewRangeError("invalid array length")
	}
	f := v.ToFloat()
	n := uint32(f)
	if float64(n) != f {
		return 0, e.NewRangeError("invalid array length")
	}
	return n, nil
}
