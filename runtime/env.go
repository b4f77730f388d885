package runtime

// Env is one lexical scope. Python's scoping is function-level (no block
// scope for if/for/while), so Env is created per module and per function
// call only — Interp never pushes a new Env for an if/for/while body.
type Env struct {
	vars   map[string]Value
	parent *Env
}

func NewEnv(parent *Env) *Env {
	return &Env{vars: make(map[string]Value), parent: parent}
}

// Get resolves name through the scope chain, matching Python's LEGB lookup
// restricted to Local/Enclosing/Global (no Builtins scope here — when Get
// finds nothing, the interpreter's Name evaluation tries its class table
// and then the builtins table).
func (e *Env) Get(name string) (Value, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set assigns into the nearest scope that already defines name, or the
// local scope if none does — Python's implicit-local-on-first-assignment
// rule, absent an explicit `global`/`nonlocal` declaration (not modeled:
// the traced subset has no nested function reassigning an outer variable).
func (e *Env) Set(name string, v Value) {
	for cur := e; cur != nil; cur = cur.parent {
		if _, ok := cur.vars[name]; ok {
			cur.vars[name] = v
			return
		}
	}
	e.vars[name] = v
}

// SetLocal always assigns into e itself, used for parameter binding on
// function entry where shadowing an outer name of the same name is correct.
func (e *Env) SetLocal(name string, v Value) {
	e.vars[name] = v
}

// Locals returns the name->Value map of this scope only (no parent
// lookup), the input record.Recorder needs for each step's "locals"
// snapshot.
func (e *Env) Locals() map[string]Value {
	return e.vars
}
