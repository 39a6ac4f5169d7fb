package runtime

import (
	"testing"
)

func TestDeclarativeBindingLifecycle(t *testing.T) {
	e := NewEngine()
	env := e.NewDeclarativeEnvironment(nil)

	if err := env.CreateMutableBinding("x"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	// reading before initialization is an error
	_, err := env.GetBindingValue("x", true)
	if name := thrownName(t, err); name != "ReferenceError" {
		t.Errorf("expected ReferenceError before init, got %s", name)
	}
	if err := env.InitializeBinding("x", IntegerValue(1)); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if err := env.SetMutableBinding("x", IntegerValue(2), true); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	v, err := env.GetBindingValue("x", true)
	if err != nil || v.AsInteger() != 2 {
		t.Errorf("expected 2, got %v err=%v", v, err)
	}

	// duplicate declaration is rejected
	if err := env.CreateMutableBinding("x"); err == nil {
		t.Errorf("expected duplicate declaration to fail")
	}
}

func TestImmutableBinding(t *testing.T) {
	e := NewEngine()
	env := e.NewDeclarativeEnvironment(nil)
	_ = env.CreateImmutableBinding("k")
	_ = env.InitializeBinding("k", IntegerValue(1))

	// strict write throws, sloppy write is silently dropped
	err := env.SetMutableBinding("k", IntegerValue(2), true)
	if name := thrownName(t, err); name != "TypeError" {
		t.Errorf("expected TypeError, got %s", name)
	}
	if err := env.SetMutableBinding("k", IntegerValue(2), false); err != nil {
		t.Errorf("expected sloppy write to be ignored, got %v", err)
	}
	v, _ := env.GetBindingValue("k", true)
	if v.AsInteger() != 1 {
		t.Errorf("expected value unchanged, got %s", v.ToString())
	}
}

func TestResolveBindingWalksChain(t *testing.T) {
	e := NewEngine()
	outerVisible := false
	fn := e.NewFunction(&FunctionDef{
		Params: []string{"outer"},
		FuncDecls: []FuncDecl{
			{Name: "inner", Def: &FunctionDef{
				Body: func(e *Engine) Completion {
					v, err := e.ResolveBinding("outer")
					outerVisible = err == nil && v.AsInteger() == 5
					return NormalCompletion()
				},
			}},
		},
		Body: func(e *Engine) Completion {
			inner, _ := e.ResolveBinding("inner")
			_, _ = e.CallFunction(inner, Undefined, nil)
			return NormalCompletion()
		},
	})
	if _, err := e.CallFunction(fn.Value(), Undefined, []Value{IntegerValue(5)}); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if !outerVisible {
		t.Errorf("expected the inner function to see the outer binding")
	}
}

func TestResolveUnknownBinding(t *testing.T) {
	e := NewEngine()
	_, err := e.ResolveBinding("nope")
	if name := thrownName(t, err); name != "ReferenceError" {
		t.Errorf("expected ReferenceError, got %s", name)
	}
}

func TestGlobalObjectBacksGlobalEnvironment(t *testing.T) {
	e := NewEngine()
	mustDefine(t, e.GlobalObject, StringKey("answer"), DataDescriptor(IntegerValue(42), true, true, true))
	v, err := e.ResolveBinding("answer")
	if err != nil || v.AsInteger() != 42 {
		t.Errorf("expected global property visible as a binding, got %v err=%v", v, err)
	}
	// globalThis points back at the global object
	gt, _ := e.ResolveBinding("globalThis")
	if !gt.IsObject() || gt.AsObject() != e.GlobalObject {
		t.Errorf("expected globalThis to be the global object")
	}
}

func TestSloppyAssignmentCreatesGlobal(t *testing.T) {
	e := NewEngine()
	if err := e.SetBinding("fresh", IntegerValue(9), false); err != nil {
		t.Fatalf("sloppy global assignment failed: %v", err)
	}
	if !e.GlobalObject.HasOwnProperty(StringKey("fresh")) {
		t.Errorf("expected sloppy assignment to land on the global object")
	}
	// strict assignment to an unresolvable name throws instead
	err := e.SetBinding("fresh2", IntegerValue(9), true)
	if name := thrownName(t, err); name != "ReferenceError" {
		t.Errorf("expected ReferenceError, got %s", name)
	}
}

func TestDeleteBinding(t *testing.T) {
	e := NewEngine()
	env := e.NewDeclarativeEnvironment(nil)
	_ = env.CreateMutableBinding("x")
	_ = env.InitializeBinding("x", IntegerValue(1))
	if !env.DeleteBinding("x") {
		t.Errorf("expected delete to succeed")
	}
	if env.HasBinding("x") {
		t.Errorf("expected binding gone")
	}
}
