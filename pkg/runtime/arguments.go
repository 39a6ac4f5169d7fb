package runtime

import "strconv"

// argumentsObject links its indexed properties to the parameter
// bindings of the call it belongs to. The link is live in both
// directions until an index is deleted, made non-writable, or turned
// into an accessor.
type argumentsObject struct {
	baseObject
	mapped map[uint32]*Binding
}

// newArgumentsObject builds the arguments object during declaration
// instantiation. Mapping applies only to non-strict functions without
// duplicate parameter names; strict callers get a poisoned callee.
func (e *Engine) newArgumentsObject(f *funcObject, args []Value, env *DeclarativeEnvironment) *Object {
	obj := &Object{engine: e}
	a := &argumentsObject{}
	a.init(obj, classArguments, e.ObjectPrototype)
	obj.self = a

	for i, v := range args {
		obj.putProp(StringKey(strconv.Itoa(i)), DataDescriptor(v, true, true, true))
	}
	obj.putProp(lengthKey, DataDescriptor(IntegerValue(int32(len(args))), true, false, true))

	def := f.def
	if def.Strict {
		poison := AccessorDescriptor(e.throwTypeError.Value(), e.throwTypeError.Value(), false, false)
		obj.putProp(StringKey("callee"), poison)
		return obj
	}

	obj.putProp(StringKey("callee"), DataDescriptor(f.obj.Value(), true, false, true))
	if !def.hasDuplicateParams() {
		a.mapped = make(map[uint32]*Binding)
		for i := range args {
			if i >= len(def.Params) {
				break
			}
			if b := env.bindingFor(def.Params[i]); b != nil {
				a.mapped[uint32(i)] = b
			}
		}
	}
	return obj
}

func (a *argumentsObject) mappedBinding(key PropertyKey) (uint32, *Binding, bool) {
	if a.mapped == nil {
		return 0, nil, false
	}
	idx, ok := key.arrayIndex()
	if !ok {
		return 0, nil, false
	}
	b, ok := a.mapped[idx]
	return idx, b, ok
}

func (a *argumentsObject) getOwnProperty(key PropertyKey) (PropertyDescriptor, bool) {
	desc, ok := a.baseObject.getOwnProperty(key)
	if !ok {
		return desc, false
	}
	if _, b, mapped := a.mappedBinding(key); mapped {
		desc.Value = b.value
	}
	return desc, true
}

func (a *argumentsObject) get(key PropertyKey, receiver Value) (Value, error) {
	if _, b, mapped := a.mappedBinding(key); mapped {
		return b.value, nil
	}
	return a.baseObject.get(key, receiver)
}

func (a *argumentsObject) defineOwnProperty(key PropertyKey, desc PropertyDescriptor, throw bool) (bool, error) {
	idx, b, mapped := a.mappedBinding(key)
	ok, err := a.baseObject.defineOwnProperty(key, desc, throw)
	if !ok || !mapped {
		return ok, err
	}
	if desc.IsAccessor() {
		delete(a.mapped, idx)
		return true, nil
	}
	if desc.HasValue {
		b.value = desc.Value
	}
	if desc.Writable == FlagFalse {
		// freeze the last linked value into the property, then unlink
		if p, exists := a.props.get(key); exists {
			p.value = b.value
		}
		delete(a.mapped, idx)
	}
	return true, nil
}

func (a *argumentsObject) deleteProperty(key PropertyKey, throw bool) (bool, error) {
	ok, err := a.baseObject.deleteProperty(key, throw)
	if ok {
		if idx, _, mapped := a.mappedBinding(key); mapped {
			delete(a.mapped, idx)
		}
	}
	return ok, err
}
