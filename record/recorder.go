package record

import (
	"github.com/viant/pytracer/runtime"
)

// Recorder implements runtime.Hooks, appending one Step per marker
// callback. It holds no reference to the Interp that drives it — Tracer
// wires NewInterp(recorder, ...) itself — which keeps record independent
// of runtime's control-flow internals.
type Recorder struct {
	steps    []Step
	maxSteps int // 0 = unbounded; guards pathological loops same as Interp
}

// New returns an empty Recorder. maxSteps caps the number of Steps kept
// (oldest-first truncation never happens — once the cap is hit, further
// callbacks are silently dropped, matching the "never raise on
// unserializable/oversized state" error policy).
func New(maxSteps int) *Recorder {
	return &Recorder{maxSteps: maxSteps}
}

func (r *Recorder) full() bool {
	return r.maxSteps > 0 && len(r.steps) >= r.maxSteps
}

func (r *Recorder) BeforeStatement(id int, env *runtime.Env, line int) {
	if r.full() {
		return
	}
	locals := snapshotLocals(env.Locals())
	r.steps = append(r.steps, Step{
		NodeID:      id,
		Event:       BeforeStatement,
		Line:        line,
		Locals:      locals,
		ObjectTable: buildObjectTable(locals),
	})
}

func (r *Recorder) AfterStatement(id int, env *runtime.Env, line int) {
	if r.full() {
		return
	}
	locals := snapshotLocals(env.Locals())
	r.steps = append(r.steps, Step{
		NodeID:      id,
		Event:       AfterStatement,
		Line:        line,
		Locals:      locals,
		ObjectTable: buildObjectTable(locals),
	})
}

func (r *Recorder) BeforeExpression(id int, env *runtime.Env, line int) {
	if r.full() {
		return
	}
	locals := snapshotLocals(env.Locals())
	r.steps = append(r.steps, Step{
		NodeID:      id,
		Event:       BeforeExpression,
		Line:        line,
		Locals:      locals,
		ObjectTable: buildObjectTable(locals),
	})
}

// AfterExpression is where the callable-valued-expression exclusion is
// enforced at runtime: a value that is itself a function/class/method
// being looked up (not called) produces no Step, since nothing about the
// program's data state changed by naming it. isTest carries a marked
// if/while condition's boolean coercion alongside its raw value.
func (r *Recorder) AfterExpression(id int, val runtime.Value, env *runtime.Env, line int, isTest bool) {
	if r.full() {
		return
	}
	if runtime.IsCallable(val) {
		return
	}
	locals := snapshotLocals(env.Locals())
	step := Step{
		NodeID:      id,
		Event:       AfterExpression,
		Line:        line,
		Locals:      locals,
		Value:       val,
		ObjectTable: buildObjectTable(locals),
	}
	if isTest {
		b := runtime.Truthy(val)
		step.Test = &b
	}
	r.steps = append(r.steps, step)
}

// Steps returns every Step recorded so far, in firing order.
func (r *Recorder) Steps() []Step {
	return r.steps
}

// Reset discards all recorded steps without touching maxSteps, used by
// Tracer.Reset between runs of the same Tracer instance.
func (r *Recorder) Reset() {
	r.steps = nil
}
