package runtime

// Binding is one name slot in a declarative environment. An
// uninitialized binding exists but cannot be read yet; an immutable
// binding rejects writes after initialization.
type Binding struct {
	value       Value
	mutable     bool
	initialized bool
}

func (b *Binding) Value() Value { return b.value }

// EnvironmentRecord is one frame of the lexical chain. Names resolve
// innermost-first through Outer links; the engine's ResolveBinding does
// the walk.
type EnvironmentRecord interface {
	HasBinding(name string) bool
	CreateMutableBinding(name string) error
	CreateImmutableBinding(name string) error
	InitializeBinding(name string, v Value) error
	SetMutableBinding(name string, v Value, strict bool) error
	GetBindingValue(name string, strict bool) (Value, error)
	DeleteBinding(name string) bool
	Outer() EnvironmentRecord
}

// DeclarativeEnvironment stores bindings directly, one Binding per
// name.
type DeclarativeEnvironment struct {
	engine   *Engine
	outer    EnvironmentRecord
	bindings map[string]*Binding
}

func (e *Engine) NewDeclarativeEnvironment(outer EnvironmentRecord) *DeclarativeEnvironment {
	return &DeclarativeEnvironment{
		engine:   e,
		outer:    outer,
		bindings: make(map[string]*Binding),
	}
}

func (d *DeclarativeEnvironment) Outer() EnvironmentRecord { return d.outer }

func (d *DeclarativeEnvironment) HasBinding(name string) bool {
	_, ok := d.bindings[name]
	return ok
}

func (d *DeclarativeEnvironment) CreateMutableBinding(name string) error {
	if _, ok := d.bindings[name]; ok {
		return d.engine.NewTypeError("binding %q already declared", name)
	}
	d.bindings[name] = &Binding{mutable: true}
	return nil
}

func (d *DeclarativeEnvironment) CreateImmutableBinding(name string) error {
	if _, ok := d.bindings[name]; ok {
		return d.engine.NewTypeError("binding %q already declared", name)
	}
	d.bindings[name] = &Binding{mutable: false}
	return nil
}

func (d *DeclarativeEnvironment) InitializeBinding(name string, v Value) error {
	b, ok := d.bindings[name]
	if !ok {
		return d.engine.NewReferenceError("cannot initialize undeclared binding %q", name)
	}
	b.value = v
	b.initialized = true
	return nil
}

func (d *DeclarativeEnvironment) SetMutableBinding(name string, v Value, strict bool) error {
	b, ok := d.bindings[name]
	if !ok {
		if strict {
			return d.engine.NewReferenceError("%s is not defined", name)
		}
		d.bindings[name] = &Binding{value: v, mutable: true, initialized: true}
		return nil
	}
	if !b.initialized {
		return d.engine.NewReferenceError("cannot access %q before initialization", name)
	}
	if !b.mutable {
		if strict {
			return d.engine.NewTypeError("assignment to constant %q", name)
		}
		return nil
	}
	b.value = v
	return nil
}

func (d *DeclarativeEnvironment) GetBindingValue(name string, strict bool) (Value, error) {
	b, ok := d.bindings[name]
	if !ok {
		return Undefined, d.engine.NewReferenceError("%s is not defined", name)
	}
	if !b.initialized {
		return Undefined, d.engine.NewReferenceError("cannot access %q before initialization", name)
	}
	return b.value, nil
}

func (d *DeclarativeEnvironment) DeleteBinding(name string) bool {
	if _, ok := d.bindings[name]; !ok {
		return true
	}
	delete(d.bindings, name)
	return true
}

// bindingFor exposes the binding cell itself. The mapped arguments
// object shares these cells so indexed reads and writes stay live.
func (d *DeclarativeEnvironment) bindingFor(name string) *Binding {
	return d.bindings[name]
}

// ObjectEnvironment delegates bindings to an object's properties; the
// global environment is one of these over the global object.
type ObjectEnvironment struct {
	engine  *Engine
	outer   EnvironmentRecord
	binding *Object
}

func (e *Engine) NewObjectEnvironment(binding *Object, outer EnvironmentRecord) *ObjectEnvironment {
	return &ObjectEnvironment{engine: e, outer: outer, binding: binding}
}

func (o *ObjectEnvironment) Outer() EnvironmentRecord { return o.outer }
func (o *ObjectEnvironment) BindingObject() *Object   { return o.binding }

func (o *ObjectEnvironment) HasBinding(name string) bool {
	return o.binding.HasProperty(StringKey(name))
}

func (o *ObjectEnvironment) CreateMutableBinding(name string) error {
	_, err := o.binding.DefineOwnProperty(StringKey(name),
		DataDescriptor(Undefined, true, true, true), true)
	return err
}

func (o *ObjectEnvironment) CreateImmutableBinding(name string) error {
	_, err := o.binding.DefineOwnProperty(StringKey(name),
		DataDescriptor(Undefined, false, true, false), true)
	return err
}

func (o *ObjectEnvironment) InitializeBinding(name string, v Value) error {
	return o.SetMutableBinding(name, v, false)
}

func (o *ObjectEnvironment) SetMutableBinding(name string, v Value, strict bool) error {
	_, err := o.binding.Set(StringKey(name), v, strict)
	return err
}

func (o *ObjectEnvironment) GetBindingValue(name string, strict bool) (Value, error) {
	key := StringKey(name)
	if !o.binding.HasProperty(key) {
		if strict {
			return Undefined, o.engine.NewReferenceError("%s is not defined", name)
		}
		return Undefined, nil
	}
	return o.binding.Get(key)
}

func (o *ObjectEnvironment) DeleteBinding(name string) bool {
	ok, _ := o.binding.Delete(StringKey(name), false)
	return ok
}

// ResolveBinding walks the current lexical chain for name.
func (e *Engine) ResolveBinding(name string) (Value, error) {
	for env := e.CurrentContext().LexicalEnv; env != nil; env = env.Outer() {
		if env.HasBinding(name) {
			return env.GetBindingValue(name, true)
		}
	}
	return Undefined, e.NewReferenceError("%s is not defined", name)
}

// SetBinding assigns to the nearest binding holding name; in sloppy
// mode an unresolvable name becomes a global property.
func (e *Engine) SetBinding(name string, v Value, strict bool) error {
	for env := e.CurrentContext().LexicalEnv; env != nil; env = env.Outer() {
		if env.HasBinding(name) {
			return env.SetMutableBinding(name, v, strict)
		}
	}
	if strict {
		return e.NewReferenceError("%s is not defined", name)
	}
	_, err := e.GlobalObject.Set(StringKey(name), v, false)
	return err
}
