package runtime

// Hooks is what record.Recorder implements. Splitting it out as an
// interface (rather than importing record directly) keeps runtime
// independent of the step-recording format: runtime only needs to know
// *when* to call out, not what a Step or an object table looks like.
type Hooks interface {
	// BeforeStatement fires as control reaches statement id, before any of
	// its sub-expressions evaluate.
	BeforeStatement(id int, env *Env, line int)
	// AfterStatement fires once statement id has fully executed.
	AfterStatement(id int, env *Env, line int)
	// BeforeExpression fires before expression id evaluates.
	BeforeExpression(id int, env *Env, line int)
	// AfterExpression fires once expression id has produced val. Callable
	// values are the "checked at runtime, short-circuited" exclusion:
	// Hooks implementations may choose not to record a step for these
	// (looking up a function value is not, by itself, an interesting
	// program state change), but runtime always calls AfterExpression and
	// leaves that decision to the Hooks implementation. isTest is set when
	// id is a condition sub-expression of an if/while header, so the
	// implementation can additionally record the value's boolean coercion.
	AfterExpression(id int, val Value, env *Env, line int, isTest bool)
}

// NopHooks discards every callback; useful for tests that only want
// Interp's evaluation semantics without a full recorder attached.
type NopHooks struct{}

func (NopHooks) BeforeStatement(int, *Env, int)              {}
func (NopHooks) AfterStatement(int, *Env, int)               {}
func (NopHooks) BeforeExpression(int, *Env, int)             {}
func (NopHooks) AfterExpression(int, Value, *Env, int, bool) {}

// IsCallable reports whether v is a function-like value, the runtime half
// of the callable-valued-expression exclusion.
func IsCallable(v Value) bool {
	switch v.(type) {
	case *Function, *Builtin, *BoundMethod, *Class:
		return true
	}
	return false
}
