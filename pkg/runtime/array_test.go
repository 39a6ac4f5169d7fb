package runtime

import (
	"testing"
)

func arrayLength(t *testing.T, arr *Object) float64 {
	t.Helper()
	v, err := arr.Get(StringKey("length"))
	if err != nil {
		t.Fatalf("reading length failed: %v", err)
	}
	return v.ToFloat()
}

func TestArrayInitialState(t *testing.T) {
	e := NewEngine()
	arr := e.NewArray(IntegerValue(10), IntegerValue(20), IntegerValue(30))
	if n := arrayLength(t, arr); n != 3 {
		t.Errorf("expected length 3, got %v", n)
	}
	v, _ := arr.Get(StringKey("1"))
	if v.AsInteger() != 20 {
		t.Errorf("expected arr[1] == 20, got %s", v.ToString())
	}
	desc, _ := arr.GetOwnProperty(StringKey("length"))
	if !desc.Writable.Bool() || desc.Enumerable.Bool() || desc.Configurable.Bool() {
		t.Errorf("expected length writable, non-enumerable, non-configurable")
	}
}

func TestArrayIndexDefineExtendsLength(t *testing.T) {
	e := NewEngine()
	arr := e.NewArray()
	ok, err := arr.Set(StringKey("5"), IntegerValue(1), true)
	if !ok || err != nil {
		t.Fatalf("set arr[5] failed: %v", err)
	}
	if n := arrayLength(t, arr); n != 6 {
		t.Errorf("expected length 6 after arr[5], got %v", n)
	}
	// holes in between stay absent
	if arr.HasOwnProperty(StringKey("3")) {
		t.Errorf("expected hole at index 3")
	}
}

func TestArrayLengthShrinkDeletesElements(t *testing.T) {
	e := NewEngine()
	arr := e.NewArray(IntegerValue(1), IntegerValue(2), IntegerValue(3), IntegerValue(4))
	ok, err := arr.Set(StringKey("length"), IntegerValue(2), true)
	if !ok || err != nil {
		t.Fatalf("length shrink failed: %v", err)
	}
	if n := arrayLength(t, arr); n != 2 {
		t.Errorf("expected length 2, got %v", n)
	}
	if arr.HasOwnProperty(StringKey("2")) || arr.HasOwnProperty(StringKey("3")) {
		t.Errorf("expected indices 2 and 3 deleted")
	}
	if !arr.HasOwnProperty(StringKey("1")) {
		t.Errorf("expected index 1 to survive")
	}
}

func TestArrayLengthShrinkStopsAtNonConfigurable(t *testing.T) {
	e := NewEngine()
	arr := e.NewArray(IntegerValue(0), IntegerValue(1), IntegerValue(2), IntegerValue(3), IntegerValue(4))
	// pin index 2
	mustDefine(t, arr, StringKey("2"), PropertyDescriptor{Configurable: FlagFalse})

	ok, err := arr.Set(StringKey("length"), IntegerValue(1), false)
	if ok || err != nil {
		t.Errorf("expected lenient shrink failure, got ok=%v err=%v", ok, err)
	}
	// truncation stops one above the pinned index
	if n := arrayLength(t, arr); n != 3 {
		t.Errorf("expected length 3 after blocked shrink, got %v", n)
	}
	if arr.HasOwnProperty(StringKey("3")) || arr.HasOwnProperty(StringKey("4")) {
		t.Errorf("expected indices above the pin deleted")
	}
	if !arr.HasOwnProperty(StringKey("2")) {
		t.Errorf("expected pinned index retained")
	}

	// throwing mode reports a TypeError for the same shrink
	_, err = arr.Set(StringKey("length"), IntegerValue(1), true)
	if name := thrownName(t, err); name != "TypeError" {
		t.Errorf("expected TypeError, got %s", name)
	}
}

func TestArrayInvalidLength(t *testing.T) {
	e := NewEngine()
	arr := e.NewArray()
	for _, v := range []Value{NumberValue(1.5), NumberValue(-1), NumberValue(4294967296), NaN} {
		_, err := arr.Set(StringKey("length"), v, false)
		if err == nil {
			t.Errorf("expected RangeError for length %s", v.ToString())
			continue
		}
		if name := thrownName(t, err); name != "RangeError" {
			t.Errorf("expected RangeError for length %s, got %s", v.ToString(), name)
		}
	}
}

func TestArrayReadOnlyLength(t *testing.T) {
	e := NewEngine()
	arr := e.NewArray(IntegerValue(1))
	mustDefine(t, arr, StringKey("length"), PropertyDescriptor{Writable: FlagFalse})

	ok, _ := arr.Set(StringKey("length"), IntegerValue(5), false)
	if ok {
		t.Errorf("expected length write to fail")
	}
	// extending past the end needs a writable length
	ok, _ = arr.Set(StringKey("3"), IntegerValue(9), false)
	if ok {
		t.Errorf("expected out-of-range index define to fail")
	}
	// in-range elements are still writable
	ok, err := arr.Set(StringKey("0"), IntegerValue(7), true)
	if !ok || err != nil {
		t.Errorf("expected in-range write to succeed: %v", err)
	}
}

func TestArrayShrinkWithDeferredReadOnly(t *testing.T) {
	e := NewEngine()
	arr := e.NewArray(IntegerValue(1), IntegerValue(2), IntegerValue(3))
	desc := PropertyDescriptor{Value: IntegerValue(1), HasValue: true, Writable: FlagFalse}
	ok, err := arr.DefineOwnProperty(StringKey("length"), desc, true)
	if !ok || err != nil {
		t.Fatalf("shrink with writable:false failed: %v", err)
	}
	if n := arrayLength(t, arr); n != 1 {
		t.Errorf("expected length 1, got %v", n)
	}
	got, _ := arr.GetOwnProperty(StringKey("length"))
	if got.Writable.Bool() {
		t.Errorf("expected length left read-only")
	}
}
