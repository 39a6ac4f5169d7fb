package runtime

// CompletionType classifies how a body finished.
type CompletionType uint8

const (
	CompletionNormal CompletionType = iota
	CompletionReturn
	CompletionThrow
	CompletionBreak
	CompletionContinue
)

func (t CompletionType) String() string {
	switch t {
	case CompletionNormal:
		return "normal"
	case CompletionReturn:
		return "return"
	case CompletionThrow:
		return "throw"
	case CompletionBreak:
		return "break"
	case CompletionContinue:
		return "continue"
	default:
		return "unknown"
	}
}

// Completion is the record a function body hands back to Call. HasValue
// distinguishes `return` from `return undefined`; both look identical
// to the caller but the distinction stays observable here. Target names
// the label of a break/continue, empty for unlabeled.
type Completion struct {
	Type     CompletionType
	Value    Value
	HasValue bool
	Target   string
}

func NormalCompletion() Completion {
	return Completion{Type: CompletionNormal}
}

func NormalValueCompletion(v Value) Completion {
	return Completion{Type: CompletionNormal, Value: v, HasValue: true}
}

// ReturnCompletion is an explicit return with a value.
func ReturnCompletion(v Value) Completion {
	return Completion{Type: CompletionReturn, Value: v, HasValue: true}
}

// BareReturnCompletion is `return;` with no operand.
func BareReturnCompletion() Completion {
	return Completion{Type: CompletionReturn}
}

func ThrowCompletion(v Value) Completion {
	return Completion{Type: CompletionThrow, Value: v, HasValue: true}
}

func BreakCompletion(target string) Completion {
	return Completion{Type: CompletionBreak, Target: target}
}

func ContinueCompletion(target string) Completion {
	return Completion{Type: CompletionContinue, Target: target}
}

// Abrupt reports whether the completion interrupts sequential
// evaluation.
func (c Completion) Abrupt() bool { return c.Type != CompletionNormal }

// ResultValue is the value a completion contributes, undefined when
// none was carried.
func (c Completion) ResultValue() Value {
	if c.HasValue {
		return c.Value
	}
	return Undefined
}
