package runtime

// BodyFunc evaluates a function body. The body reads its parameters
// and this through the engine's current context and reports how it
// finished as a completion record.
type BodyFunc func(e *Engine) Completion

// FuncDecl is a function declaration hoisted inside another function.
type FuncDecl struct {
	Name string
	Def  *FunctionDef
}

// FunctionDef describes a script function independent of any closure:
// its parameter list, the hoisted declarations of its body, strictness
// and the body itself.
type FunctionDef struct {
	Name      string
	Params    []string
	VarNames  []string
	FuncDecls []FuncDecl
	Strict    bool
	Body      BodyFunc
}

func (d *FunctionDef) hasDuplicateParams() bool {
	seen := make(map[string]struct{}, len(d.Params))
	for _, p := range d.Params {
		if _, ok := seen[p]; ok {
			return true
		}
		seen[p] = struct{}{}
	}
	return false
}

type funcObject struct {
	baseObject
	def   *FunctionDef
	scope EnvironmentRecord
}

// NewFunction creates a closure over the global environment.
func (e *Engine) NewFunction(def *FunctionDef) *Object {
	return e.NewClosure(def, e.globalEnv)
}

// NewClosure creates a function object capturing scope. The function
// gets length/name, a fresh prototype object whose constructor slot
// points back at it, and in strict mode poisoned caller/arguments
// accessors.
func (e *Engine) NewClosure(def *FunctionDef, scope EnvironmentRecord) *Object {
	if scope == nil {
		scope = e.globalEnv
	}
	obj := &Object{engine: e}
	f := &funcObject{def: def, scope: scope}
	f.init(obj, classFunction, e.FunctionPrototype)
	obj.self = f

	obj.putProp(StringKey("length"),
		DataDescriptor(IntegerValue(int32(len(def.Params))), false, false, true))
	obj.putProp(StringKey("name"),
		DataDescriptor(NewString(def.Name), false, false, true))

	protoObj := e.NewObject()
	protoObj.self.(*baseObject).props = &ctorSlotStore{inner: newMapStore()}
	protoObj.putProp(constructorKey,
		DataDescriptor(obj.Value(), true, false, true))
	obj.putProp(StringKey("prototype"),
		DataDescriptor(protoObj.Value(), true, false, false))

	if def.Strict {
		poison := AccessorDescriptor(e.throwTypeError.Value(), e.throwTypeError.Value(), false, true)
		obj.putProp(StringKey("caller"), poison)
		obj.putProp(StringKey("arguments"), poison)
	}
	return obj
}

func (f *funcObject) call(this Value, args []Value) (Value, error) {
	e := f.obj.engine
	thisVal, err := e.resolveThisBinding(this, f.def.Strict)
	if err != nil {
		return Undefined, err
	}

	env := e.NewDeclarativeEnvironment(f.scope)
	leave := e.enterContext(&ExecutionContext{
		Function:    f.obj,
		This:        thisVal,
		VariableEnv: env,
		LexicalEnv:  env,
	})
	defer leave()

	if err := e.instantiateDeclarations(env, f, args); err != nil {
		return Undefined, err
	}
	if f.def.Body == nil {
		return Undefined, nil
	}

	comp := f.def.Body(e)
	switch comp.Type {
	case CompletionNormal:
		return Undefined, nil
	case CompletionReturn:
		return comp.ResultValue(), nil
	case CompletionThrow:
		return Undefined, Throw(comp.Value)
	default:
		return Undefined, e.NewSyntaxError("illegal %s completion across function boundary", comp.Type)
	}
}

func (f *funcObject) construct(args []Value, newTarget Value) (Value, error) {
	e := f.obj.engine
	proto := e.ObjectPrototype
	if newTarget.IsObject() {
		pv, err := newTarget.AsObject().Get(StringKey("prototype"))
		if err != nil {
			return Undefined, err
		}
		if pv.IsObject() {
			proto = pv.AsObject()
		}
	}
	instance := e.NewObjectWithProto(proto)
	ret, err := f.call(instance.Value(), args)
	if err != nil {
		return Undefined, err
	}
	if ret.IsObject() {
		return ret, nil
	}
	return instance.Value(), nil
}

// resolveThisBinding applies the sloppy-mode substitutions: the global
// object for undefined/null, a wrapper for primitives. Strict functions
// see thisArg untouched.
func (e *Engine) resolveThisBinding(this Value, strict bool) (Value, error) {
	if strict {
		return this, nil
	}
	if this.IsUndefined() || this.IsNull() {
		return e.GlobalObject.Value(), nil
	}
	if this.IsObject() {
		return this, nil
	}
	obj, err := e.ToObject(this)
	if err != nil {
		return Undefined, err
	}
	return obj.Value(), nil
}

// instantiateDeclarations populates the function environment in order:
// parameters (a duplicated name keeps its last positional value), the
// arguments object, hoisted function declarations, then var names that
// are not already bound.
func (e *Engine) instantiateDeclarations(env *DeclarativeEnvironment, f *funcObject, args []Value) error {
	def := f.def
	for i, name := range def.Params {
		v := Undefined
		if i < len(args) {
			v = args[i]
		}
		if !env.HasBinding(name) {
			_ = env.CreateMutableBinding(name)
		}
		_ = env.InitializeBinding(name, v)
	}
	if !env.HasBinding("arguments") {
		argsObj := e.newArgumentsObject(f, args, env)
		_ = env.CreateMutableBinding("arguments")
		_ = env.InitializeBinding("arguments", argsObj.Value())
	}
	for _, fd := range def.FuncDecls {
		fn := e.NewClosure(fd.Def, env)
		if !env.HasBinding(fd.Name) {
			_ = env.CreateMutableBinding(fd.Name)
		}
		_ = env.InitializeBinding(fd.Name, fn.Value())
	}
	for _, name := range def.VarNames {
		if env.HasBinding(name) {
			continue
		}
		_ = env.CreateMutableBinding(name)
		_ = env.InitializeBinding(name, Undefined)
	}
	return nil
}

// --- native functions ---

// NativeFunc is a function implemented in Go. It receives the raw
// thisArg without sloppy-mode substitution.
type NativeFunc func(e *Engine, this Value, args []Value) (Value, error)

type nativeFuncObject struct {
	baseObject
	fn NativeFunc
}

// NewNativeFunction wraps a Go function as a callable object. Native
// functions carry length and name but no prototype property and cannot
// be constructed.
func (e *Engine) NewNativeFunction(name string, length int, fn NativeFunc) *Object {
	obj := &Object{engine: e}
	n := &nativeFuncObject{fn: fn}
	n.init(obj, classFunction, e.FunctionPrototype)
	obj.self = n
	obj.putProp(StringKey("length"),
		DataDescriptor(IntegerValue(int32(length)), false, false, true))
	obj.putProp(StringKey("name"),
		DataDescriptor(NewString(name), false, false, true))
	return obj
}

func (f *nativeFuncObject) call(this Value, args []Value) (Value, error) {
	e := f.obj.engine
	leave := e.enterContext(&ExecutionContext{
		Function:    f.obj,
		This:        this,
		VariableEnv: e.globalEnv,
		LexicalEnv:  e.globalEnv,
	})
	defer leave()
	return f.fn(e, this, args)
}

// --- virtualized constructor slot ---

var constructorKey = StringKey("constructor")

// ctorSlotStore decorates a store with a single out-of-band slot for
// the constructor property of a default prototype object. The slot
// behaves like a normal property; only its storage is special.
type ctorSlotStore struct {
	inner propStore
	slot  *property
	atEnd bool
}

func (s *ctorSlotStore) get(key PropertyKey) (*property, bool) {
	if key == constructorKey {
		if s.slot != nil {
			return s.slot, true
		}
		return nil, false
	}
	return s.inner.get(key)
}

func (s *ctorSlotStore) set(key PropertyKey, p *property) {
	if key == constructorKey {
		if s.slot == nil {
			s.atEnd = s.inner.size() > 0
		}
		s.slot = p
		return
	}
	s.inner.set(key, p)
}

func (s *ctorSlotStore) remove(key PropertyKey) {
	if key == constructorKey {
		s.slot = nil
		return
	}
	s.inner.remove(key)
}

func (s *ctorSlotStore) size() int {
	n := s.inner.size()
	if s.slot != nil {
		n++
	}
	return n
}

func (s *ctorSlotStore) keys() []PropertyKey {
	ks := s.inner.keys()
	if s.slot == nil {
		return ks
	}
	if s.atEnd {
		return append(ks, constructorKey)
	}
	insert := len(ks)
	for i, k := range ks {
		if _, ok := k.arrayIndex(); !ok {
			insert = i
			break
		}
	}
	out := make([]PropertyKey, 0, len(ks)+1)
	out = append(out, ks[:insert]...)
	out = append(out, constructorKey)
	out = append(out, ks[insert:]...)
	return out
}
