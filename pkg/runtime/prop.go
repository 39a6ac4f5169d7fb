package runtime

// Flag is a tri-state property attribute: not set, false, or true.
type Flag uint8

const (
	FlagNotSet Flag = iota
	FlagFalse
	FlagTrue
)

func (f Flag) Bool() bool { return f == FlagTrue }

func ToFlag(b bool) Flag {
	if b {
		return FlagTrue
	}
	return FlagFalse
}

// PropertyDescriptor is the external shape of one property definition.
// A descriptor is a data descriptor (value/writable), an accessor
// descriptor (getter/setter), or generic (neither pair present).
// Presence of value/getter/setter is tracked explicitly because the
// zero Value is a legitimate undefined.
type PropertyDescriptor struct {
	Value    Value
	HasValue bool

	Getter    Value
	HasGetter bool
	Setter    Value
	HasSetter bool

	Writable     Flag
	Enumerable   Flag
	Configurable Flag
}

func DataDescriptor(value Value, writable, enumerable, configurable bool) PropertyDescriptor {
	return PropertyDescriptor{
		Value:        value,
		HasValue:     true,
		Writable:     ToFlag(writable),
		Enumerable:   ToFlag(enumerable),
		Configurable: ToFlag(configurable),
	}
}

func AccessorDescriptor(getter, setter Value, enumerable, configurable bool) PropertyDescriptor {
	return PropertyDescriptor{
		Getter:       getter,
		HasGetter:    true,
		Setter:       setter,
		HasSetter:    true,
		Enumerable:   ToFlag(enumerable),
		Configurable: ToFlag(configurable),
	}
}

// ValueDescriptor is a descriptor that only carries a value, leaving all
// attributes unset (they keep their current values when merged).
func ValueDescriptor(value Value) PropertyDescriptor {
	return PropertyDescriptor{Value: value, HasValue: true}
}

func (d PropertyDescriptor) IsData() bool {
	return d.HasValue || d.Writable != FlagNotSet
}

func (d PropertyDescriptor) IsAccessor() bool {
	return d.HasGetter || d.HasSetter
}

func (d PropertyDescriptor) IsGeneric() bool {
	return !d.IsData() && !d.IsAccessor()
}

// complete fills every unset field with its default (false / undefined),
// turning a partial descriptor into a full data or accessor one. Used by
// the batch definition form, which applies whole property specs.
func (d PropertyDescriptor) complete() PropertyDescriptor {
	if d.Writable == FlagNotSet {
		d.Writable = FlagFalse
	}
	if d.Enumerable == FlagNotSet {
		d.Enumerable = FlagFalse
	}
	if d.Configurable == FlagNotSet {
		d.Configurable = FlagFalse
	}
	if d.IsAccessor() {
		d.Writable = FlagNotSet
		if !d.HasGetter {
			d.Getter = Undefined
			d.HasGetter = true
		}
		if !d.HasSetter {
			d.Setter = Undefined
			d.HasSetter = true
		}
	} else if !d.HasValue {
		d.Value = Undefined
		d.HasValue = true
	}
	return d
}

// property is the stored form of one own property. Exactly one of the
// data pair and the accessor pair is meaningful at any time.
type property struct {
	value        Value
	getter       Value
	setter       Value
	accessor     bool
	writable     bool
	enumerable   bool
	configurable bool
}

func (p *property) toDescriptor() PropertyDescriptor {
	if p.accessor {
		return PropertyDescriptor{
			Getter:       p.getter,
			HasGetter:    true,
			Setter:       p.setter,
			HasSetter:    true,
			Enumerable:   ToFlag(p.enumerable),
			Configurable: ToFlag(p.configurable),
		}
	}
	return PropertyDescriptor{
		Value:        p.value,
		HasValue:     true,
		Writable:     ToFlag(p.writable),
		Enumerable:   ToFlag(p.enumerable),
		Configurable: ToFlag(p.configurable),
	}
}

func (p *property) clone() *property {
	c := *p
	return &c
}

// newPropertyFromDescriptor creates a fresh property, defaulting every
// unset attribute to false and unset values to undefined.
func newPropertyFromDescriptor(desc PropertyDescriptor) *property {
	p := &property{
		value:        Undefined,
		getter:       Undefined,
		setter:       Undefined,
		writable:     desc.Writable.Bool(),
		enumerable:   desc.Enumerable.Bool(),
		configurable: desc.Configurable.Bool(),
	}
	if desc.IsAccessor() {
		p.accessor = true
		p.writable = false
		if desc.HasGetter {
			p.getter = desc.Getter
		}
		if desc.HasSetter {
			p.setter = desc.Setter
		}
		return p
	}
	if desc.HasValue {
		p.value = desc.Value
	}
	return p
}

type KeyKind uint8

const (
	KeyKindString KeyKind = iota
	KeyKindSymbol
)

// PropertyKey is a property key: a string or a symbol. The type is
// comparable, so it serves directly as a map key; symbol identity is the
// SymbolObject pointer.
type PropertyKey struct {
	kind KeyKind
	name string
	sym  *SymbolObject
}

func StringKey(name string) PropertyKey {
	return PropertyKey{kind: KeyKindString, name: name}
}

func SymbolKey(sym Value) PropertyKey {
	return PropertyKey{kind: KeyKindSymbol, sym: sym.AsSymbolObject()}
}

// NumberKey converts a numeric key to its canonical string form before
// lookup, so NumberKey(0.000001) matches a stored key "0.000001".
func NumberKey(n float64) PropertyKey {
	return StringKey(floatToString(n))
}

// ValueKey derives a property key from an arbitrary value: symbols keep
// their identity, everything else is keyed by its canonical string form.
func ValueKey(v Value) PropertyKey {
	if v.IsSymbol() {
		return SymbolKey(v)
	}
	return StringKey(v.ToString())
}

func (k PropertyKey) IsString() bool { return k.kind == KeyKindString }
func (k PropertyKey) IsSymbol() bool { return k.kind == KeyKindSymbol }

// Name returns the string form of a string key; symbols return their
// description for diagnostics only.
func (k PropertyKey) Name() string {
	if k.kind == KeyKindSymbol {
		return "Symbol(" + k.sym.desc + ")"
	}
	return k.name
}

func (k PropertyKey) String() string { return k.Name() }

// arrayIndex reports whether a string key is a canonical array index
// (a base-10 integer without leading zeros, below 2^32-1).
func (k PropertyKey) arrayIndex() (uint32, bool) {
	if k.kind != KeyKindString {
		return 0, false
	}
	return parseArrayIndex(k.name)
}

func parseArrayIndex(s string) (uint32, bool) {
	if s == "" {
		return 0, false
	}
	if len(s) > 1 && s[0] == '0' {
		return 0, false
	}
	var idx uint64
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		idx = idx*10 + uint64(c-'0')
		if idx > 4294967294 {
			return 0, false
		}
	}
	return uint32(idx), true
}
