package runtime

import (
	"testing"
)

func iterNext(t *testing.T, e *Engine, iter *Object) (Value, bool) {
	t.Helper()
	next, err := iter.Get(StringKey("next"))
	if err != nil {
		t.Fatalf("getting next failed: %v", err)
	}
	res, err := e.CallFunction(next, iter.Value(), nil)
	if err != nil {
		t.Fatalf("next call failed: %v", err)
	}
	v, _ := res.AsObject().Get(StringKey("value"))
	d, _ := res.AsObject().Get(StringKey("done"))
	return v, d.AsBoolean()
}

func TestValuesIteratorProtocol(t *testing.T) {
	e := NewEngine()
	iter := e.NewValuesIterator([]Value{IntegerValue(1), IntegerValue(2)})

	v, done := iterNext(t, e, iter)
	if done || v.AsInteger() != 1 {
		t.Errorf("expected {1, false}, got {%s, %v}", v.ToString(), done)
	}
	v, done = iterNext(t, e, iter)
	if done || v.AsInteger() != 2 {
		t.Errorf("expected {2, false}, got {%s, %v}", v.ToString(), done)
	}
	v, done = iterNext(t, e, iter)
	if !done || !v.IsUndefined() {
		t.Errorf("expected {undefined, true}, got {%s, %v}", v.ToString(), done)
	}
	// exhaustion is sticky
	v, done = iterNext(t, e, iter)
	if !done || !v.IsUndefined() {
		t.Errorf("expected sticky exhaustion, got {%s, %v}", v.ToString(), done)
	}
}

func TestIteratorPrototypeShared(t *testing.T) {
	e := NewEngine()
	a := e.NewValuesIterator(nil)
	b := e.NewValuesIterator(nil)
	if a.Prototype() != e.IteratorPrototype || b.Prototype() != e.IteratorPrototype {
		t.Errorf("expected both iterators to share the iterator prototype")
	}
	// next lives on the prototype, not per instance
	if a.HasOwnProperty(StringKey("next")) {
		t.Errorf("expected next on the prototype only")
	}
	tag, _ := a.Get(SymbolKey(e.symToStringTag))
	if tag.ToString() != "Iterator" {
		t.Errorf("expected Iterator tag, got %s", tag.ToString())
	}
}

func TestNextOnNonIterator(t *testing.T) {
	e := NewEngine()
	next, err := e.IteratorPrototype.Get(StringKey("next"))
	if err != nil {
		t.Fatalf("getting next failed: %v", err)
	}
	for _, this := range []Value{e.NewObject().Value(), IntegerValue(1), Undefined} {
		_, err := e.CallFunction(next, this, nil)
		if err == nil {
			t.Errorf("expected TypeError for this=%s", this.ToString())
			continue
		}
		if name := thrownName(t, err); name != "TypeError" {
			t.Errorf("expected TypeError, got %s", name)
		}
	}
}

func TestOwnKeysIteratorSnapshot(t *testing.T) {
	e := NewEngine()
	obj := e.NewObject()
	mustDefine(t, obj, StringKey("a"), DataDescriptor(IntegerValue(1), true, true, true))
	mustDefine(t, obj, StringKey("hidden"), DataDescriptor(IntegerValue(2), true, false, true))
	mustDefine(t, obj, StringKey("b"), DataDescriptor(IntegerValue(3), true, true, true))

	iter := e.NewOwnKeysIterator(obj)
	// mutations after creation do not affect the snapshot
	mustDefine(t, obj, StringKey("late"), DataDescriptor(IntegerValue(4), true, true, true))

	var got []string
	if err := e.Iterate(iter.Value(), func(v Value) error {
		got = append(got, v.AsString())
		return nil
	}); err != nil {
		t.Fatalf("iterate failed: %v", err)
	}
	want := []string{"a", "b"}
	if len(got) != len(want) {
		t.Fatalf("expected keys %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestIterateStopsOnCallbackError(t *testing.T) {
	e := NewEngine()
	iter := e.NewValuesIterator([]Value{IntegerValue(1), IntegerValue(2), IntegerValue(3)})
	count := 0
	err := e.Iterate(iter.Value(), func(v Value) error {
		count++
		if count == 2 {
			return e.NewTypeError("stop")
		}
		return nil
	})
	if err == nil {
		t.Fatalf("expected the callback error to propagate")
	}
	if count != 2 {
		t.Errorf("expected iteration stopped at 2, got %d", count)
	}
}

func TestIterateRejectsNonIterator(t *testing.T) {
	e := NewEngine()
	if err := e.Iterate(e.NewObject().Value(), func(Value) error { return nil }); err == nil {
		t.Errorf("expected error for object without next")
	}
	if err := e.Iterate(IntegerValue(1), func(Value) error { return nil }); err == nil {
		t.Errorf("expected error for primitive")
	}
}
