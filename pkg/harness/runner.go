package harness

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"vesper/pkg/runtime"
)

// Runner executes scenarios against a fresh engine, keeping the
// objects each step creates addressable by name.
type Runner struct {
	engine  *runtime.Engine
	objects map[string]*runtime.Object
	log     *logrus.Entry
}

func NewRunner() *Runner {
	return &Runner{
		engine:  runtime.NewEngine(),
		objects: make(map[string]*runtime.Object),
		log:     logrus.WithField("component", "harness"),
	}
}

// Engine exposes the underlying engine, mainly for tests that mix
// declarative steps with direct calls.
func (r *Runner) Engine() *runtime.Engine { return r.engine }

// RunFile loads and runs one scenario file.
func (r *Runner) RunFile(path string) error {
	sc, err := LoadScenario(path)
	if err != nil {
		return err
	}
	return r.Run(sc)
}

func (r *Runner) Run(sc *Scenario) error {
	log := r.log.WithField("scenario", sc.Name)
	log.Debugf("running %d steps", len(sc.Steps))
	for i, step := range sc.Steps {
		if err := r.runStep(log, i, step); err != nil {
			return errors.Wrapf(err, "scenario %q step %d", sc.Name, i+1)
		}
	}
	log.Debug("scenario passed")
	return nil
}

func (r *Runner) runStep(log *logrus.Entry, i int, step Step) error {
	switch {
	case step.NewObject != nil:
		return r.runNewObject(log, step.NewObject)
	case step.NewArray != nil:
		return r.runNewArray(log, step.NewArray)
	case step.Define != nil:
		return r.runDefine(log, step.Define)
	case step.Set != nil:
		return r.runSet(log, step.Set)
	case step.Get != nil:
		return r.runGet(log, step.Get)
	case step.Delete != nil:
		return r.runDelete(log, step.Delete)
	case step.SetProto != nil:
		return r.runSetProto(log, step.SetProto)
	case step.OwnKeys != nil:
		return r.runOwnKeys(log, step.OwnKeys)
	case step.Iterate != nil:
		return r.runIterate(log, step.Iterate)
	default:
		return errors.Errorf("step %d has no operation", i+1)
	}
}

func (r *Runner) lookup(name string) (*runtime.Object, error) {
	if obj, ok := r.objects[name]; ok {
		return obj, nil
	}
	return nil, errors.Errorf("unknown object %q", name)
}

func (r *Runner) runNewObject(log *logrus.Entry, s *NewObjectStep) error {
	var obj *runtime.Object
	if s.Proto != "" {
		proto, err := r.lookup(s.Proto)
		if err != nil {
			return err
		}
		obj = r.engine.NewObjectWithProto(proto)
	} else {
		obj = r.engine.NewObject()
	}
	r.objects[s.Name] = obj
	log.Debugf("new_object %s", s.Name)
	return nil
}

func (r *Runner) runNewArray(log *logrus.Entry, s *NewArrayStep) error {
	elems := make([]runtime.Value, len(s.Elements))
	for i, raw := range s.Elements {
		v, err := r.valueFromYAML(raw)
		if err != nil {
			return err
		}
		elems[i] = v
	}
	r.objects[s.Name] = r.engine.NewArray(elems...)
	log.Debugf("new_array %s len=%d", s.Name, len(elems))
	return nil
}

func (r *Runner) runDefine(log *logrus.Entry, s *DefineStep) error {
	obj, err := r.lookup(s.On)
	if err != nil {
		return err
	}
	desc, err := r.descriptorFromYAML(s.Descriptor)
	if err != nil {
		return err
	}
	var ok bool
	var opErr error
	if s.Batch {
		ok, opErr = obj.DefineOwnProperties(
			[]runtime.PropertyEntry{{Key: runtime.StringKey(s.Key), Desc: desc}}, s.Throw)
	} else {
		ok, opErr = obj.DefineOwnProperty(runtime.StringKey(s.Key), desc, s.Throw)
	}
	log.Debugf("define %s.%s ok=%v err=%v", s.On, s.Key, ok, opErr)
	return checkOutcome("define", s.Expect, ok, opErr)
}

func (r *Runner) runSet(log *logrus.Entry, s *SetStep) error {
	obj, err := r.lookup(s.On)
	if err != nil {
		return err
	}
	v, err := r.valueFromYAML(s.Value)
	if err != nil {
		return err
	}
	ok, opErr := obj.Set(runtime.StringKey(s.Key), v, s.Throw)
	log.Debugf("set %s.%s ok=%v err=%v", s.On, s.Key, ok, opErr)
	return checkOutcome("set", s.Expect, ok, opErr)
}

func (r *Runner) runGet(log *logrus.Entry, s *GetStep) error {
	obj, err := r.lookup(s.On)
	if err != nil {
		return err
	}
	got, opErr := obj.Get(runtime.StringKey(s.Key))
	if opErr != nil {
		return errors.Wrapf(opErr, "get %s.%s", s.On, s.Key)
	}
	want, err := r.valueFromYAML(s.Expect)
	if err != nil {
		return err
	}
	log.Debugf("get %s.%s = %s", s.On, s.Key, got.ToString())
	if !got.SameValue(want) {
		return errors.Errorf("get %s.%s: expected %s, got %s",
			s.On, s.Key, want.ToString(), got.ToString())
	}
	return nil
}

func (r *Runner) runDelete(log *logrus.Entry, s *DeleteStep) error {
	obj, err := r.lookup(s.On)
	if err != nil {
		return err
	}
	ok, opErr := obj.Delete(runtime.StringKey(s.Key), s.Throw)
	log.Debugf("delete %s.%s ok=%v err=%v", s.On, s.Key, ok, opErr)
	return checkOutcome("delete", s.Expect, ok, opErr)
}

func (r *Runner) runSetProto(log *logrus.Entry, s *SetProtoStep) error {
	obj, err := r.lookup(s.On)
	if err != nil {
		return err
	}
	proto, err := r.lookup(s.Proto)
	if err != nil {
		return err
	}
	ok := obj.SetPrototype(proto)
	log.Debugf("set_proto %s -> %s ok=%v", s.On, s.Proto, ok)
	return checkOutcome("set_proto", s.Expect, ok, nil)
}

func (r *Runner) runOwnKeys(log *logrus.Entry, s *OwnKeysStep) error {
	obj, err := r.lookup(s.On)
	if err != nil {
		return err
	}
	var got []string
	for _, k := range obj.OwnKeys() {
		if k.IsString() {
			got = append(got, k.Name())
		}
	}
	log.Debugf("own_keys %s = %v", s.On, got)
	if len(got) != len(s.Expect) {
		return errors.Errorf("own_keys %s: expected %v, got %v", s.On, s.Expect, got)
	}
	for i := range got {
		if got[i] != s.Expect[i] {
			return errors.Errorf("own_keys %s: expected %v, got %v", s.On, s.Expect, got)
		}
	}
	return nil
}

func (r *Runner) runIterate(log *logrus.Entry, s *IterateStep) error {
	obj, err := r.lookup(s.Over)
	if err != nil {
		return err
	}
	var iter *runtime.Object
	if s.Keys {
		iter = r.engine.NewOwnKeysIterator(obj)
	} else {
		length, gerr := obj.Get(runtime.StringKey("length"))
		if gerr != nil {
			return errors.Wrapf(gerr, "iterate %s", s.Over)
		}
		n := int(length.ToFloat())
		values := make([]runtime.Value, 0, n)
		for i := 0; i < n; i++ {
			v, gerr := obj.Get(runtime.StringKey(fmt.Sprintf("%d", i)))
			if gerr != nil {
				return errors.Wrapf(gerr, "iterate %s[%d]", s.Over, i)
			}
			values = append(values, v)
		}
		iter = r.engine.NewValuesIterator(values)
	}
	var got []string
	if err := r.engine.Iterate(iter.Value(), func(v runtime.Value) error {
		got = append(got, v.ToString())
		return nil
	}); err != nil {
		return errors.Wrapf(err, "iterate %s", s.Over)
	}
	log.Debugf("iterate %s = %v", s.Over, got)
	if len(got) != len(s.Expect) {
		return errors.Errorf("iterate %s: expected %v, got %v", s.Over, s.Expect, got)
	}
	for i := range got {
		if got[i] != s.Expect[i] {
			return errors.Errorf("iterate %s: expected %v, got %v", s.Over, s.Expect, got)
		}
	}
	return nil
}

// checkOutcome compares an operation result with the step's expect
// clause: ok (the default), fail for a quiet false, throw for a thrown
// script value.
func checkOutcome(op, expect string, ok bool, err error) error {
	switch expect {
	case "", expectOK:
		if err != nil {
			return errors.Wrapf(err, "%s failed", op)
		}
		if !ok {
			return errors.Errorf("%s reported failure", op)
		}
	case expectFail:
		if err != nil {
			return errors.Wrapf(err, "%s threw instead of failing quietly", op)
		}
		if ok {
			return errors.Errorf("%s succeeded but was expected to fail", op)
		}
	case "throw":
		if err == nil {
			return errors.Errorf("%s did not throw", op)
		}
		if _, thrown := runtime.ThrownValue(err); !thrown {
			return errors.Wrapf(err, "%s failed outside the script layer", op)
		}
	default:
		return errors.Errorf("unknown expect %q", expect)
	}
	return nil
}

// valueFromYAML maps a scenario scalar to a script value. Objects are
// referenced by name through a {ref: name} map; {undefined: true}
// produces undefined; null is null.
func (r *Runner) valueFromYAML(raw interface{}) (runtime.Value, error) {
	switch v := raw.(type) {
	case nil:
		return runtime.Null, nil
	case bool:
		return runtime.BooleanValue(v), nil
	case int:
		return runtime.NumberValue(float64(v)), nil
	case int64:
		return runtime.NumberValue(float64(v)), nil
	case float64:
		return runtime.NumberValue(v), nil
	case string:
		return runtime.NewString(v), nil
	case map[string]interface{}:
		if name, ok := v["ref"].(string); ok {
			obj, err := r.lookup(name)
			if err != nil {
				return runtime.Undefined, err
			}
			return obj.Value(), nil
		}
		if u, ok := v["undefined"].(bool); ok && u {
			return runtime.Undefined, nil
		}
		return runtime.Undefined, errors.Errorf("unsupported value map %v", v)
	default:
		return runtime.Undefined, errors.Errorf("unsupported value %T", raw)
	}
}

func (r *Runner) descriptorFromYAML(d Descriptor) (runtime.PropertyDescriptor, error) {
	var desc runtime.PropertyDescriptor
	if d.Value != nil || d.HasValue {
		v, err := r.valueFromYAML(d.Value)
		if err != nil {
			return desc, err
		}
		desc.Value = v
		desc.HasValue = true
	}
	desc.Writable = flagFromYAML(d.Writable)
	desc.Enumerable = flagFromYAML(d.Enumerable)
	desc.Configurable = flagFromYAML(d.Configurable)
	return desc, nil
}

func flagFromYAML(b *bool) runtime.Flag {
	if b == nil {
		return runtime.FlagNotSet
	}
	return runtime.ToFlag(*b)
}
