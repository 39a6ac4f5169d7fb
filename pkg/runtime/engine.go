package runtime

// Engine owns the shared prototypes, the global object, and the
// execution-context stack. One engine, one goroutine: nothing here is
// synchronized.
type Engine struct {
	ObjectPrototype   *Object
	FunctionPrototype *Object
	ArrayPrototype    *Object
	IteratorPrototype *Object
	BooleanPrototype  *Object
	NumberPrototype   *Object
	StringPrototype   *Object
	GlobalObject      *Object

	globalEnv *ObjectEnvironment
	ctxStack  []*ExecutionContext

	// throwTypeError is the shared poisoned accessor installed for
	// caller/arguments on strict functions and callee on strict
	// arguments objects.
	throwTypeError *Object

	symToStringTag Value
}

func NewEngine() *Engine {
	e := &Engine{
		symToStringTag: NewSymbol("Symbol.toStringTag"),
	}

	e.ObjectPrototype = e.newPlainObject(classObject, nil)
	e.FunctionPrototype = e.newPlainObject(classFunction, e.ObjectPrototype)

	e.throwTypeError = e.NewNativeFunction("", 0,
		func(eng *Engine, this Value, args []Value) (Value, error) {
			return Undefined, eng.NewTypeError("access to restricted property")
		})
	e.throwTypeError.PreventExtensions()

	e.ArrayPrototype = e.newPlainObject(classObject, e.ObjectPrototype)
	e.BooleanPrototype = e.newPlainObject(classObject, e.ObjectPrototype)
	e.NumberPrototype = e.newPlainObject(classObject, e.ObjectPrototype)
	e.StringPrototype = e.newPlainObject(classObject, e.ObjectPrototype)
	e.IteratorPrototype = e.newIteratorPrototype()

	e.GlobalObject = e.NewObject()
	e.GlobalObject.putProp(StringKey("globalThis"),
		DataDescriptor(e.GlobalObject.Value(), true, false, true))
	e.GlobalObject.putProp(StringKey("undefined"),
		DataDescriptor(Undefined, false, false, false))
	e.GlobalObject.putProp(StringKey("NaN"),
		DataDescriptor(NaN, false, false, false))

	e.globalEnv = e.NewObjectEnvironment(e.GlobalObject, nil)
	e.ctxStack = []*ExecutionContext{{
		This:        e.GlobalObject.Value(),
		VariableEnv: e.globalEnv,
		LexicalEnv:  e.globalEnv,
	}}
	return e
}

// GlobalEnvironment is the environment the base context runs in.
func (e *Engine) GlobalEnvironment() EnvironmentRecord { return e.globalEnv }

func (e *Engine) newPlainObject(class string, proto *Object) *Object {
	obj := &Object{engine: e}
	b := &baseObject{}
	b.init(obj, class, proto)
	obj.self = b
	return obj
}

// NewObject creates a plain object with the default prototype.
func (e *Engine) NewObject() *Object {
	return e.newPlainObject(classObject, e.ObjectPrototype)
}

// NewObjectWithProto creates a plain object with an explicit prototype,
// which may be nil.
func (e *Engine) NewObjectWithProto(proto *Object) *Object {
	return e.newPlainObject(classObject, proto)
}

// CallFunction invokes a callable value. The callee resolves its own
// this binding, so primitives and undefined are legal thisArg values.
func (e *Engine) CallFunction(fn Value, this Value, args []Value) (Value, error) {
	if !fn.IsCallable() {
		return Undefined, e.NewTypeError("%s is not a function", fn.ToString())
	}
	return fn.AsObject().self.(callable).call(this, args)
}

// Construct runs fn as a constructor with fn itself as new target.
func (e *Engine) Construct(fn Value, args []Value) (Value, error) {
	return e.ConstructWithTarget(fn, args, fn)
}

// ConstructWithTarget runs fn as a constructor. The instance prototype
// comes from newTarget's prototype property when that is an object.
func (e *Engine) ConstructWithTarget(fn Value, args []Value, newTarget Value) (Value, error) {
	if !fn.IsObject() {
		return Undefined, e.NewTypeError("%s is not a constructor", fn.ToString())
	}
	ctor, ok := fn.AsObject().self.(constructable)
	if !ok {
		return Undefined, e.NewTypeError("%s is not a constructor", fn.ToString())
	}
	return ctor.construct(args, newTarget)
}

// ToObject coerces a value to an object, wrapping primitives. Undefined
// and null have no object form.
func (e *Engine) ToObject(v Value) (*Object, error) {
	switch v.Type() {
	case TypeObject:
		return v.AsObject(), nil
	case TypeBoolean:
		return e.newBooleanWrapper(v), nil
	case TypeFloatNumber, TypeIntegerNumber:
		return e.newNumberWrapper(v), nil
	case TypeString:
		return e.newStringWrapper(v), nil
	case TypeSymbol:
		return e.newSymbolWrapper(v), nil
	default:
		return nil, e.NewTypeError("cannot convert %s to object", v.TypeName())
	}
}
