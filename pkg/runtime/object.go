package runtime

import (
	"fmt"
	"sort"
)

const (
	classObject    = "Object"
	classFunction  = "Function"
	classArray     = "Array"
	classArguments = "Arguments"
	classBoolean   = "Boolean"
	classNumber    = "Number"
	classString    = "String"
	classIterator  = "Iterator"
)

// Object is the handle every script object shares. Behavior lives in
// self: kinds override individual internal methods (array length rules,
// mapped arguments, function call slots) while the shared algorithms
// stay on baseObject.
type Object struct {
	engine *Engine
	self   objectImpl
}

// objectImpl is the internal-method suite. receiver on get/set is the
// original target of the access, so accessors see the right this even
// when found on a prototype.
type objectImpl interface {
	className() string
	prototype() *Object
	setPrototype(proto *Object) bool
	isExtensible() bool
	preventExtensions()

	getOwnProperty(key PropertyKey) (PropertyDescriptor, bool)
	defineOwnProperty(key PropertyKey, desc PropertyDescriptor, throw bool) (bool, error)
	hasOwnProperty(key PropertyKey) bool
	get(key PropertyKey, receiver Value) (Value, error)
	set(key PropertyKey, value Value, throw bool) (bool, error)
	deleteProperty(key PropertyKey, throw bool) (bool, error)
	ownKeys() []PropertyKey
}

// callable is implemented by function kinds; constructable by the
// subset that supports new.
type callable interface {
	call(this Value, args []Value) (Value, error)
}

type constructable interface {
	construct(args []Value, newTarget Value) (Value, error)
}

func (o *Object) Value() Value      { return objectValue(o) }
func (o *Object) ClassName() string { return o.self.className() }

func (o *Object) Prototype() *Object     { return o.self.prototype() }
func (o *Object) IsExtensible() bool     { return o.self.isExtensible() }
func (o *Object) PreventExtensions()     { o.self.preventExtensions() }
func (o *Object) OwnKeys() []PropertyKey { return o.self.ownKeys() }

// SetPrototype rejects changes that would create a prototype cycle and
// changes on non-extensible objects.
func (o *Object) SetPrototype(proto *Object) bool {
	return o.self.setPrototype(proto)
}

func (o *Object) GetOwnProperty(key PropertyKey) (PropertyDescriptor, bool) {
	return o.self.getOwnProperty(key)
}

func (o *Object) HasOwnProperty(key PropertyKey) bool {
	return o.self.hasOwnProperty(key)
}

func (o *Object) HasProperty(key PropertyKey) bool {
	for cur := o; cur != nil; cur = cur.self.prototype() {
		if cur.self.hasOwnProperty(key) {
			return true
		}
	}
	return false
}

func (o *Object) Get(key PropertyKey) (Value, error) {
	return o.self.get(key, o.Value())
}

// DefineOwnProperty validates the descriptor against the current state
// and merges it in. throw selects the failure mode: a TypeError, or a
// quiet false.
func (o *Object) DefineOwnProperty(key PropertyKey, desc PropertyDescriptor, throw bool) (bool, error) {
	return o.self.defineOwnProperty(key, desc, throw)
}

// PropertyEntry pairs a key with its descriptor for the batch form.
type PropertyEntry struct {
	Key  PropertyKey
	Desc PropertyDescriptor
}

// DefineOwnProperties applies whole property specs in order: each
// descriptor is completed (unset fields become false/undefined) before
// definition, and the first failure stops the batch.
func (o *Object) DefineOwnProperties(entries []PropertyEntry, throw bool) (bool, error) {
	for _, ent := range entries {
		ok, err := o.self.defineOwnProperty(ent.Key, ent.Desc.complete(), throw)
		if !ok {
			return false, err
		}
	}
	return true, nil
}

func (o *Object) Set(key PropertyKey, value Value, throw bool) (bool, error) {
	return o.self.set(key, value, throw)
}

func (o *Object) Delete(key PropertyKey, throw bool) (bool, error) {
	return o.self.deleteProperty(key, throw)
}

// putProp installs a property during object setup, where validation
// cannot fail. A failure here is an engine bug.
func (o *Object) putProp(key PropertyKey, desc PropertyDescriptor) {
	ok, err := o.self.defineOwnProperty(key, desc, true)
	if !ok || err != nil {
		panic(fmt.Sprintf("runtime: putProp %q failed: %v", key.Name(), err))
	}
}

// enumerableKeys returns the own keys whose properties are enumerable,
// in ownKeys order.
func (o *Object) enumerableKeys() []PropertyKey {
	var out []PropertyKey
	for _, k := range o.self.ownKeys() {
		if desc, ok := o.self.getOwnProperty(k); ok && desc.Enumerable.Bool() {
			out = append(out, k)
		}
	}
	return out
}

// --- property storage ---

type propStore interface {
	get(key PropertyKey) (*property, bool)
	set(key PropertyKey, p *property)
	remove(key PropertyKey)
	keys() []PropertyKey
	size() int
}

// mapStore is the default ordered store: a map for lookup plus an
// insertion-order slice. keys() reports integer-like string keys first
// in ascending numeric order, then remaining strings, then symbols,
// each group in insertion order.
type mapStore struct {
	props map[PropertyKey]*property
	order []PropertyKey
}

func newMapStore() *mapStore {
	return &mapStore{props: make(map[PropertyKey]*property)}
}

func (s *mapStore) get(key PropertyKey) (*property, bool) {
	p, ok := s.props[key]
	return p, ok
}

func (s *mapStore) set(key PropertyKey, p *property) {
	if _, exists := s.props[key]; !exists {
		s.order = append(s.order, key)
	}
	s.props[key] = p
}

func (s *mapStore) remove(key PropertyKey) {
	if _, exists := s.props[key]; !exists {
		return
	}
	delete(s.props, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *mapStore) size() int { return len(s.props) }

func (s *mapStore) keys() []PropertyKey {
	type indexed struct {
		key PropertyKey
		idx uint32
	}
	var ints []indexed
	var strs, syms []PropertyKey
	for _, k := range s.order {
		if idx, ok := k.arrayIndex(); ok {
			ints = append(ints, indexed{k, idx})
		} else if k.IsSymbol() {
			syms = append(syms, k)
		} else {
			strs = append(strs, k)
		}
	}
	sort.Slice(ints, func(i, j int) bool { return ints[i].idx < ints[j].idx })
	out := make([]PropertyKey, 0, len(ints)+len(strs)+len(syms))
	for _, in := range ints {
		out = append(out, in.key)
	}
	out = append(out, strs...)
	out = append(out, syms...)
	return out
}

// --- base object ---

type baseObject struct {
	obj        *Object
	class      string
	proto      *Object
	extensible bool
	props      propStore
}

func (o *baseObject) init(outer *Object, class string, proto *Object) {
	o.obj = outer
	o.class = class
	o.proto = proto
	o.extensible = true
	o.props = newMapStore()
}

func (o *baseObject) className() string  { return o.class }
func (o *baseObject) prototype() *Object { return o.proto }
func (o *baseObject) isExtensible() bool { return o.extensible }
func (o *baseObject) preventExtensions() { o.extensible = false }

func (o *baseObject) setPrototype(proto *Object) bool {
	if proto == o.proto {
		return true
	}
	if !o.extensible {
		return false
	}
	for p := proto; p != nil; p = p.self.prototype() {
		if p == o.obj {
			return false
		}
	}
	o.proto = proto
	return true
}

func (o *baseObject) hasOwnProperty(key PropertyKey) bool {
	_, ok := o.props.get(key)
	return ok
}

func (o *baseObject) getOwnProperty(key PropertyKey) (PropertyDescriptor, bool) {
	p, ok := o.props.get(key)
	if !ok {
		return PropertyDescriptor{}, false
	}
	return p.toDescriptor(), true
}

func (o *baseObject) ownKeys() []PropertyKey { return o.props.keys() }

func (o *baseObject) propFail(throw bool, format string, args ...interface{}) (bool, error) {
	if throw {
		return false, o.obj.engine.NewTypeError(format, args...)
	}
	return false, nil
}

// validateAndApply checks a descriptor against the existing property
// state and, when legal, produces the merged stored form. A nil result
// with ok=true means no change is needed.
func (o *baseObject) validateAndApply(existing *property, desc PropertyDescriptor) (*property, bool, string) {
	if existing == nil {
		if !o.extensible {
			return nil, false, "object is not extensible"
		}
		return newPropertyFromDescriptor(desc), true, ""
	}
	if desc.IsGeneric() && desc.Enumerable == FlagNotSet && desc.Configurable == FlagNotSet {
		return nil, true, ""
	}
	if !existing.configurable {
		if desc.Configurable == FlagTrue {
			return nil, false, "cannot make non-configurable property configurable"
		}
		if desc.Enumerable != FlagNotSet && desc.Enumerable.Bool() != existing.enumerable {
			return nil, false, "cannot change enumerability of non-configurable property"
		}
		if !desc.IsGeneric() {
			if desc.IsAccessor() != existing.accessor {
				return nil, false, "cannot change kind of non-configurable property"
			}
			if existing.accessor {
				if desc.HasGetter && !desc.Getter.SameValue(existing.getter) {
					return nil, false, "cannot change getter of non-configurable property"
				}
				if desc.HasSetter && !desc.Setter.SameValue(existing.setter) {
					return nil, false, "cannot change setter of non-configurable property"
				}
			} else {
				if !existing.writable {
					if desc.Writable == FlagTrue {
						return nil, false, "cannot make non-writable property writable"
					}
					if desc.HasValue && !desc.Value.SameValue(existing.value) {
						return nil, false, "cannot change value of non-writable property"
					}
				}
			}
		}
	}
	return applyDescriptor(existing, desc), true, ""
}

// applyDescriptor merges set descriptor fields into a clone of the
// existing property. A kind switch resets the attributes of the side
// being left behind.
func applyDescriptor(existing *property, desc PropertyDescriptor) *property {
	p := existing.clone()
	if desc.IsAccessor() && !p.accessor {
		p.accessor = true
		p.value = Undefined
		p.writable = false
		p.getter = Undefined
		p.setter = Undefined
	} else if desc.IsData() && p.accessor {
		p.accessor = false
		p.getter = Undefined
		p.setter = Undefined
		p.value = Undefined
		p.writable = false
	}
	if desc.HasValue {
		p.value = desc.Value
	}
	if desc.Writable != FlagNotSet {
		p.writable = desc.Writable.Bool()
	}
	if desc.HasGetter {
		p.getter = desc.Getter
	}
	if desc.HasSetter {
		p.setter = desc.Setter
	}
	if desc.Enumerable != FlagNotSet {
		p.enumerable = desc.Enumerable.Bool()
	}
	if desc.Configurable != FlagNotSet {
		p.configurable = desc.Configurable.Bool()
	}
	return p
}

func (o *baseObject) defineOwnProperty(key PropertyKey, desc PropertyDescriptor, throw bool) (bool, error) {
	existing, _ := o.props.get(key)
	merged, ok, reason := o.validateAndApply(existing, desc)
	if !ok {
		return o.propFail(throw, "cannot redefine property %q: %s", key.Name(), reason)
	}
	if merged != nil {
		o.props.set(key, merged)
	}
	return true, nil
}

func (o *baseObject) get(key PropertyKey, receiver Value) (Value, error) {
	if p, ok := o.props.get(key); ok {
		if p.accessor {
			if p.getter.IsUndefined() {
				return Undefined, nil
			}
			return o.obj.engine.CallFunction(p.getter, receiver, nil)
		}
		return p.value, nil
	}
	if o.proto != nil {
		return o.proto.self.get(key, receiver)
	}
	return Undefined, nil
}

func (o *baseObject) set(key PropertyKey, value Value, throw bool) (bool, error) {
	if p, ok := o.props.get(key); ok {
		if p.accessor {
			if p.setter.IsUndefined() {
				return o.propFail(throw, "cannot set property %q: getter-only accessor", key.Name())
			}
			if _, err := o.obj.engine.CallFunction(p.setter, o.obj.Value(), []Value{value}); err != nil {
				return false, err
			}
			return true, nil
		}
		if !p.writable {
			return o.propFail(throw, "cannot assign to read-only property %q", key.Name())
		}
		return o.obj.self.defineOwnProperty(key, ValueDescriptor(value), throw)
	}
	if found, done, err := o.setOnPrototype(key, value, throw); found {
		return done, err
	}
	if !o.extensible {
		return o.propFail(throw, "cannot add property %q: object is not extensible", key.Name())
	}
	return o.obj.self.defineOwnProperty(key, DataDescriptor(value, true, true, true), throw)
}

// setOnPrototype resolves an assignment through the prototype chain.
// found=false means no chain property constrained the write and the
// caller should create an own property.
func (o *baseObject) setOnPrototype(key PropertyKey, value Value, throw bool) (found, done bool, err error) {
	for proto := o.proto; proto != nil; proto = proto.self.prototype() {
		desc, ok := proto.self.getOwnProperty(key)
		if !ok {
			continue
		}
		if desc.IsAccessor() {
			if desc.Setter.IsUndefined() {
				done, err = o.propFail(throw, "cannot set property %q: getter-only accessor", key.Name())
				return true, done, err
			}
			if _, err = o.obj.engine.CallFunction(desc.Setter, o.obj.Value(), []Value{value}); err != nil {
				return true, false, err
			}
			return true, true, nil
		}
		if !desc.Writable.Bool() {
			done, err = o.propFail(throw, "cannot assign to read-only property %q", key.Name())
			return true, done, err
		}
		return false, false, nil
	}
	return false, false, nil
}

func (o *baseObject) deleteProperty(key PropertyKey, throw bool) (bool, error) {
	p, ok := o.props.get(key)
	if !ok {
		return true, nil
	}
	if !p.configurable {
		return o.propFail(throw, "cannot delete non-configurable property %q", key.Name())
	}
	o.props.remove(key)
	return true, nil
}
