package runtime

// ExecutionContext is one entry of the engine's context stack. Function
// is nil for the base (global) context.
type ExecutionContext struct {
	Function    *Object
	This        Value
	VariableEnv EnvironmentRecord
	LexicalEnv  EnvironmentRecord
}

// enterContext pushes ctx and returns the paired leave function. Call
// sites defer the leave so the pop runs even when the body throws.
func (e *Engine) enterContext(ctx *ExecutionContext) func() {
	e.ctxStack = append(e.ctxStack, ctx)
	return func() {
		e.ctxStack = e.ctxStack[:len(e.ctxStack)-1]
	}
}

// CurrentContext returns the innermost context; the base context is
// always present, so this never fails.
func (e *Engine) CurrentContext() *ExecutionContext {
	return e.ctxStack[len(e.ctxStack)-1]
}

// ContextDepth reports the stack depth including the base context.
func (e *Engine) ContextDepth() int { return len(e.ctxStack) }

// CurrentThis is the this value of the innermost context.
func (e *Engine) CurrentThis() Value { return e.CurrentContext().This }
