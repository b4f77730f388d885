package runtime

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/viant/pytracer/lang"
)

// Interp executes a rewritten lang.Node tree. One Interp is single-run,
// single-goroutine: Tracer creates a fresh Interp per Run, matching the
// "concurrent runs require separate tracer instances" resource model.
type Interp struct {
	Hooks   Hooks
	Stdout  io.Writer
	Global  *Env
	classes map[string]*Class

	maxSteps  int
	stepCount int

	line int // current source line, updated on each statement entry
}

// NewInterp constructs an interpreter. maxSteps bounds total statement
// executions as a simple infinite-loop guard (the source tracer's
// equivalent is Thonny's single-step debugger budget); zero means
// unbounded.
func NewInterp(hooks Hooks, stdout io.Writer, maxSteps int) *Interp {
	if hooks == nil {
		hooks = NopHooks{}
	}
	return &Interp{
		Hooks:    hooks,
		Stdout:   stdout,
		Global:   NewEnv(nil),
		classes:  make(map[string]*Class),
		maxSteps: maxSteps,
	}
}

// control-flow signals, recovered internally; never escape Run.
type returnSignal struct{ value Value }
type breakSignal struct{}
type continueSignal struct{}

// RuntimeError models a Python exception raised by traced code (as opposed
// to a Go-level bug in the interpreter itself).
type RuntimeError struct {
	PyType  string // "ZeroDivisionError", "IndexError", "KeyError", ...
	Message string
	Line    int
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s (line %d)", e.PyType, e.Message, e.Line)
}

func (i *Interp) raise(pyType, msg string) {
	panic(&RuntimeError{PyType: pyType, Message: msg, Line: i.line})
}

// Run executes module's top-level body, then — if entrypoint is non-empty
// — looks it up as a function in the global scope and calls it with args.
// A nil/empty entrypoint runs the module only and always returns Nil,
// matching the supplemented "markdown snippet without an entry point"
// behavior in SPEC_FULL.md.
func (i *Interp) Run(ctx context.Context, module *lang.Node, entrypoint string, args []Value) (result Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(*RuntimeError); ok {
				err = rerr
				return
			}
			panic(r) // not ours: a real interpreter bug, let it surface
		}
	}()

	i.execBody(module, i.Global)

	if entrypoint == "" {
		return Nil, nil
	}
	fnVal, ok := i.Global.Get(entrypoint)
	if !ok {
		return nil, fmt.Errorf("entrypoint %q not defined", entrypoint)
	}
	fn, ok := fnVal.(*Function)
	if !ok {
		return nil, fmt.Errorf("entrypoint %q is not a function", entrypoint)
	}
	return i.callFunction(fn, args), nil
}

// execBody executes the (marker-interleaved) children of a statement-list
// node in order, checking ctx-less cooperative cancellation via maxSteps.
func (i *Interp) execBody(body *lang.Node, env *Env) {
	for idx, n := range body.Children {
		if n.Type == lang.NodeMarkerCall {
			switch n.MarkerKind {
			case lang.MarkerBeforeStatement:
				if idx+1 < len(body.Children) {
					i.line = body.Children[idx+1].Pos.StartLine
				}
				i.Hooks.BeforeStatement(n.MarkerArg, env, i.line)
			case lang.MarkerAfterStatement:
				if idx > 0 {
					i.line = body.Children[idx-1].Pos.StartLine
				}
				i.Hooks.AfterStatement(n.MarkerArg, env, i.line)
			}
			continue
		}
		i.execStmt(n, env)
	}
}

func (i *Interp) execStmt(n *lang.Node, env *Env) {
	i.line = n.Pos.StartLine
	i.stepCount++
	if i.maxSteps > 0 && i.stepCount > i.maxSteps {
		i.raise("RecursionError", "step budget exceeded")
	}

	switch n.Type {
	case lang.NodeExprStatement:
		// tree-sitter nests an assignment inside an expression statement
		if len(n.Children) > 0 {
			switch c := n.Children[0]; c.Type {
			case lang.NodeAssign:
				i.execAssign(c, env)
			case lang.NodeAugAssign:
				i.execAugAssign(c, env)
			default:
				i.eval(c, env)
			}
		}
	case lang.NodeAssign:
		i.execAssign(n, env)
	case lang.NodeAugAssign:
		i.execAugAssign(n, env)
	case lang.NodeIf:
		i.execIf(n, env)
	case lang.NodeFor:
		i.execFor(n, env)
	case lang.NodeWhile:
		i.execWhile(n, env)
	case lang.NodeReturn:
		var v Value = Nil
		if len(n.Children) > 0 {
			v = i.eval(n.Children[0], env)
		}
		panic(returnSignal{value: v})
	case lang.NodePass:
		// no-op
	case lang.NodeBreak:
		panic(breakSignal{})
	case lang.NodeContinue:
		panic(continueSignal{})
	case lang.NodeFunctionDef:
		env.SetLocal(n.Name, i.makeFunction(n, env, false))
	case lang.NodeClassDef:
		i.execClassDef(n, env)
	default:
		// Unhandled statement kind (e.g. import, with, try): walked for
		// its expressions but otherwise a no-op — matches the spec's
		// "core budget" scope, which targets the constructs the six
		// end-to-end scenarios exercise.
		for _, c := range n.Children {
			i.eval(c, env)
		}
	}
}

func (i *Interp) execAssign(n *lang.Node, env *Env) {
	target := fieldChild(n, "left")
	valueNode := fieldChild(n, "right")
	val := i.eval(valueNode, env)
	i.bind(target, val, env)
}

func (i *Interp) bind(target *lang.Node, val Value, env *Env) {
	switch target.Type {
	case lang.NodeName:
		env.Set(target.Name, val)
	case lang.NodeTuple, lang.NodeList:
		items := valuesOf(val)
		for idx, elt := range target.Children {
			if idx < len(items) {
				i.bind(elt, items[idx], env)
			}
		}
	case lang.NodeSubscript:
		obj := i.eval(fieldChild(target, "value"), env)
		idx := i.eval(fieldChild(target, "subscript"), env)
		i.setSubscript(obj, idx, val)
	case lang.NodeAttribute:
		obj := i.eval(fieldChild(target, "object"), env)
		if inst, ok := obj.(*Instance); ok {
			inst.Fields.Set(Str(target.Name), val)
		}
	}
}

func (i *Interp) execAugAssign(n *lang.Node, env *Env) {
	target := fieldChild(n, "left")
	rhs := i.eval(fieldChild(n, "right"), env)
	cur := i.eval(target, env)
	op := strings.TrimSuffix(n.Op, "=")
	i.bind(target, applyBinOpValues(op, cur, rhs, i), env)
}

func (i *Interp) execIf(n *lang.Node, env *Env) {
	cond := i.eval(fieldChild(n, "condition"), env)
	if Truthy(cond) {
		if body := fieldChildOrNamed(n, "consequence"); body != nil {
			i.execBody(body, env)
		}
		return
	}
	if alt := fieldChildOrNamed(n, "alternative"); alt != nil {
		if alt.Type == lang.NodeIf {
			i.execIf(alt, env)
		} else {
			i.execBody(alt, env)
		}
	}
}

func (i *Interp) execWhile(n *lang.Node, env *Env) {
	cond := fieldChild(n, "condition")
	body := fieldChildOrNamed(n, "body")
	for Truthy(i.eval(cond, env)) {
		if i.runLoopBody(body, env) {
			break
		}
	}
}

func (i *Interp) execFor(n *lang.Node, env *Env) {
	target := fieldChild(n, "left")
	iterNode := fieldChild(n, "right")
	iterVal := i.eval(iterNode, env)
	body := fieldChildOrNamed(n, "body")

	for _, item := range iterate(iterVal) {
		i.bind(target, item, env)
		if i.runLoopBody(body, env) {
			break
		}
	}
}

// runLoopBody executes one loop iteration's body, absorbing a continue
// signal and reporting whether a break signal ended the loop.
func (i *Interp) runLoopBody(body *lang.Node, env *Env) (brk bool) {
	defer func() {
		if r := recover(); r != nil {
			switch r.(type) {
			case breakSignal:
				brk = true
			case continueSignal:
				brk = false
			default:
				panic(r)
			}
		}
	}()
	i.execBody(body, env)
	return false
}

func (i *Interp) execClassDef(n *lang.Node, env *Env) {
	cls := &Class{Name: n.Name, Methods: make(map[string]*Function)}
	body := fieldChildOrNamed(n, "body")
	if body != nil {
		for _, stmt := range body.Children {
			if stmt.Type == lang.NodeFunctionDef {
				cls.Methods[stmt.Name] = i.makeFunction(stmt, env, true)
			}
		}
	}
	i.classes[n.Name] = cls
	env.SetLocal(n.Name, cls)
}

func (i *Interp) makeFunction(n *lang.Node, env *Env, isMethod bool) *Function {
	fn := &Function{Name: n.Name, Body: fieldChildOrNamed(n, "body"), Env: env}
	if params := fieldChildOrNamed(n, "parameters"); params != nil {
		for _, p := range params.Children {
			fn.Params = append(fn.Params, parseParam(p, i, env))
		}
	}
	return fn
}

func parseParam(p *lang.Node, i *Interp, env *Env) Param {
	switch p.Type {
	case lang.NodeName:
		return Param{Name: p.Name}
	case lang.NodeParameter:
		name := ""
		var def Value
		for _, c := range p.Children {
			if c.Field == "name" || c.Type == lang.NodeName {
				name = c.Name
			}
			if c.Field == "value" {
				def = i.eval(c, env)
			}
		}
		return Param{Name: name, Default: def}
	}
	return Param{Name: p.Text}
}

// eval evaluates an expression node, transparently stepping through
// NodeMarkerCall(MarkerAfterExpression) wrappers to fire the before/after
// hooks around the wrapped expression's own evaluation.
func (i *Interp) eval(n *lang.Node, env *Env) Value {
	if n == nil {
		return Nil
	}
	if n.Type == lang.NodeMarkerCall && n.MarkerKind == lang.MarkerAfterExpression {
		i.Hooks.BeforeExpression(n.MarkerArg, env, i.line)
		val := i.eval(n.Children[0], env)
		i.Hooks.AfterExpression(n.MarkerArg, val, env, i.line, n.Children[0].IsTest)
		return val
	}

	switch n.Type {
	case lang.NodeConstant:
		return parseConstant(n.Text)
	case lang.NodeName:
		if v, ok := env.Get(n.Name); ok {
			return v
		}
		if cls, ok := i.classes[n.Name]; ok {
			return cls
		}
		if b, ok := builtins[n.Name]; ok {
			return b
		}
		i.raise("NameError", fmt.Sprintf("name %q is not defined", n.Name))
	case lang.NodeTuple:
		return NewTuple(i.evalAll(n.Children, env)...)
	case lang.NodeList:
		return NewList(i.evalAll(n.Children, env)...)
	case lang.NodeSet:
		s := NewSet()
		for _, v := range i.evalAll(n.Children, env) {
			s.Add(v)
		}
		return s
	case lang.NodeDict:
		d := NewDict()
		for _, c := range n.Children {
			if len(c.Children) == 2 {
				d.Set(i.eval(c.Children[0], env), i.eval(c.Children[1], env))
			}
		}
		return d
	case lang.NodeBinOp:
		left := i.eval(fieldChild(n, "left"), env)
		right := i.eval(fieldChild(n, "right"), env)
		return applyBinOpValues(n.Op, left, right, i)
	case lang.NodeBoolOp:
		return i.evalBoolOp(n, env)
	case lang.NodeUnaryOp:
		return i.evalUnaryOp(n, env)
	case lang.NodeCompare:
		return i.evalCompare(n, env)
	case lang.NodeSubscript:
		obj := i.eval(fieldChild(n, "value"), env)
		idx := i.eval(fieldChild(n, "subscript"), env)
		return i.getSubscript(obj, idx)
	case lang.NodeAttribute:
		obj := i.eval(fieldChild(n, "object"), env)
		return i.getAttribute(obj, n.Name)
	case lang.NodeCall:
		return i.evalCall(n, env)
	case lang.NodeLambda:
		return i.makeFunction(n, env, false)
	case lang.NodeJoinedStr:
		var sb strings.Builder
		for _, c := range n.Children {
			switch c.Type {
			case lang.NodeFormattedValue:
				sb.WriteString(displayString(i.eval(c, env)))
			case lang.NodeStringContent:
				sb.WriteString(c.Text)
			}
			// string_start/string_end (quote marks and the f-prefix) carry
			// no interpolated content and are skipped.
		}
		return Str(sb.String())
	case lang.NodeFormattedValue:
		if len(n.Children) > 0 {
			return i.eval(n.Children[0], env)
		}
		return Str("")
	}
	return Nil
}

func (i *Interp) evalAll(nodes []*lang.Node, env *Env) []Value {
	out := make([]Value, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, i.eval(n, env))
	}
	return out
}

func (i *Interp) evalBoolOp(n *lang.Node, env *Env) Value {
	var result Value = Bool(true)
	for idx, c := range n.Children {
		v := i.eval(c, env)
		if n.Op == "or" {
			if Truthy(v) {
				return v
			}
		} else { // and
			if !Truthy(v) {
				return v
			}
		}
		if idx == len(n.Children)-1 {
			result = v
		}
	}
	return result
}

func (i *Interp) evalUnaryOp(n *lang.Node, env *Env) Value {
	v := i.eval(n.Children[0], env)
	switch n.Op {
	case "-":
		switch t := v.(type) {
		case Int:
			return -t
		case Float:
			return -t
		}
	case "not":
		return Bool(!Truthy(v))
	}
	return v
}

func (i *Interp) evalCompare(n *lang.Node, env *Env) Value {
	if len(n.Children) < 2 {
		return Bool(true)
	}
	left := i.eval(n.Children[0], env)
	ops := strings.Fields(n.Op)
	// re-join the two-word operators that splitting Op on spaces breaks apart
	for j := 0; j+1 < len(ops); j++ {
		if (ops[j] == "not" && ops[j+1] == "in") || (ops[j] == "is" && ops[j+1] == "not") {
			ops = append(append(ops[:j:j], ops[j]+" "+ops[j+1]), ops[j+2:]...)
		}
	}
	for idx := 1; idx < len(n.Children); idx++ {
		right := i.eval(n.Children[idx], env)
		op := "=="
		if idx-1 < len(ops) {
			op = ops[idx-1]
		}
		ok := op == "is not" && !compare("is", left, right)
		if op != "is not" {
			ok = compare(op, left, right)
		}
		if !ok {
			return Bool(false)
		}
		left = right
	}
	return Bool(true)
}

func (i *Interp) evalCall(n *lang.Node, env *Env) Value {
	calleeNode := fieldChild(n, "function")
	argsNode := fieldChildOrNamed(n, "arguments")

	var args []Value
	if argsNode != nil {
		args = i.evalAll(argsNode.Children, env)
	}

	if callee := fieldChildOrNamed(n, "function"); callee != nil && callee.Type == lang.NodeAttribute {
		obj := i.eval(fieldChild(callee, "object"), env)
		return i.callMethod(obj, callee.Name, args)
	}

	fnVal := i.eval(calleeNode, env)
	return i.call(fnVal, args)
}

func (i *Interp) call(fnVal Value, args []Value) Value {
	switch fn := fnVal.(type) {
	case *Builtin:
		v, err := fn.Call(i, args)
		if err != nil {
			i.raise("TypeError", err.Error())
		}
		return v
	case *Function:
		return i.callFunction(fn, args)
	case *BoundMethod:
		return i.callFunction(fn.Func, append([]Value{fn.Receiver}, args...))
	case *Class:
		return i.instantiate(fn, args)
	}
	i.raise("TypeError", "object is not callable")
	return Nil
}

func (i *Interp) callMethod(obj Value, name string, args []Value) Value {
	if inst, ok := obj.(*Instance); ok {
		if m, ok := inst.Class.Methods[name]; ok {
			return i.callFunction(m, append([]Value{obj}, args...))
		}
	}
	if b, ok := builtinMethod(obj, name); ok {
		return i.call(b, args)
	}
	i.raise("AttributeError", fmt.Sprintf("no attribute %q", name))
	return Nil
}

func (i *Interp) instantiate(cls *Class, args []Value) Value {
	inst := &Instance{Class: cls, Fields: NewDict()}
	if ctor, ok := cls.Methods["__init__"]; ok {
		i.callFunction(ctor, append([]Value{inst}, args...))
	}
	return inst
}

func (i *Interp) callFunction(fn *Function, args []Value) (result Value) {
	local := NewEnv(fn.Env)
	for idx, p := range fn.Params {
		if idx < len(args) {
			local.SetLocal(p.Name, args[idx])
		} else if p.Default != nil {
			local.SetLocal(p.Name, p.Default)
		} else {
			local.SetLocal(p.Name, Nil)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			if rs, ok := r.(returnSignal); ok {
				result = rs.value
				return
			}
			panic(r)
		}
	}()

	if fn.IsLambda {
		return i.eval(fn.Body, local)
	}
	i.execBody(fn.Body, local)
	return Nil
}

func (i *Interp) getAttribute(obj Value, name string) Value {
	if inst, ok := obj.(*Instance); ok {
		if v, ok := inst.Fields.Get(Str(name)); ok {
			return v
		}
		if m, ok := inst.Class.Methods[name]; ok {
			return &BoundMethod{Receiver: inst, Func: m}
		}
	}
	if b, ok := builtinMethod(obj, name); ok {
		return b
	}
	i.raise("AttributeError", fmt.Sprintf("no attribute %q", name))
	return Nil
}

func (i *Interp) getSubscript(obj, idx Value) Value {
	switch o := obj.(type) {
	case *List:
		ix := normalizeIndex(int(idx.(Int)), len(o.Items), i)
		return o.Items[ix]
	case *Tuple:
		ix := normalizeIndex(int(idx.(Int)), len(o.Items), i)
		return o.Items[ix]
	case Str:
		ix := normalizeIndex(int(idx.(Int)), len(o), i)
		return Str(string(o)[ix])
	case *Dict:
		if v, ok := o.Get(idx); ok {
			return v
		}
		i.raise("KeyError", fmt.Sprintf("%v", idx))
	}
	i.raise("TypeError", "object is not subscriptable")
	return Nil
}

func (i *Interp) setSubscript(obj, idx, val Value) {
	switch o := obj.(type) {
	case *List:
		ix := normalizeIndex(int(idx.(Int)), len(o.Items), i)
		o.Items[ix] = val
	case *Dict:
		o.Set(idx, val)
	default:
		i.raise("TypeError", "object does not support item assignment")
	}
}

func normalizeIndex(idx, length int, i *Interp) int {
	if idx < 0 {
		idx += length
	}
	if idx < 0 || idx >= length {
		i.raise("IndexError", "index out of range")
	}
	return idx
}

func fieldChild(n *lang.Node, field string) *lang.Node {
	for _, c := range n.Children {
		if c.Field == field {
			return c
		}
		if c.Type == lang.NodeMarkerCall && len(c.Children) == 1 && c.Children[0].Field == field {
			return c
		}
	}
	return nil
}

// fieldChildOrNamed returns the child fieldChild finds for field, or nil.
// Its second loop repeats the same Field match, so there is no fallback to
// a child whose Field is empty.
func fieldChildOrNamed(n *lang.Node, field string) *lang.Node {
	if c := fieldChild(n, field); c != nil {
		return c
	}
	for _, c := range n.Children {
		if c.Field == field {
			return c
		}
	}
	return nil
}

func valuesOf(v Value) []Value {
	switch t := v.(type) {
	case *Tuple:
		return t.Items
	case *List:
		return t.Items
	}
	return nil
}

func iterate(v Value) []Value {
	switch t := v.(type) {
	case *List:
		return t.Items
	case *Tuple:
		return t.Items
	case *Range:
		out := make([]Value, 0, t.Len())
		for idx := 0; idx < t.Len(); idx++ {
			out = append(out, t.At(idx))
		}
		return out
	case Str:
		out := make([]Value, 0, len(t))
		for _, r := range string(t) {
			out = append(out, Str(string(r)))
		}
		return out
	case *Dict:
		out := make([]Value, 0, len(t.Entries))
		for _, e := range t.Entries {
			out = append(out, e.Key)
		}
		return out
	case *Set:
		return t.Items()
	case *Enumerate:
		return t.Materialize()
	}
	return nil
}

// Materialize eagerly expands an Enumerate into (index, value) tuples,
// matching format_object_nicely's handling of lazy enumerate objects.
func (e *Enumerate) Materialize() []Value {
	items := iterateShallow(e.Seq)
	out := make([]Value, 0, len(items))
	for idx, v := range items {
		out = append(out, NewTuple(Int(e.Start+int64(idx)), v))
	}
	return out
}

// iterateShallow avoids re-entering Enumerate.Materialize for a nested
// enumerate(enumerate(...)) — an edge case the traced subset doesn't
// exercise, but kept as a visible seam rather than infinite recursion risk.
func iterateShallow(v Value) []Value {
	if _, ok := v.(*Enumerate); ok {
		return nil
	}
	return iterate(v)
}

// Truthy reports Python's boolean coercion of v: the bool() built-in's
// rules, also used to record a test position's boolean coercion.
func Truthy(v Value) bool {
	switch t := v.(type) {
	case Bool:
		return bool(t)
	case Int:
		return t != 0
	case Float:
		return t != 0
	case Str:
		return len(t) > 0
	case NilVal:
		return false
	case *List:
		return len(t.Items) > 0
	case *Tuple:
		return len(t.Items) > 0
	case *Dict:
		return len(t.Entries) > 0
	case *Set:
		return len(t.order) > 0
	}
	return true
}

func parseConstant(text string) Value {
	switch text {
	case "True":
		return Bool(true)
	case "False":
		return Bool(false)
	case "None":
		return Nil
	}
	if strings.HasPrefix(text, "\"") || strings.HasPrefix(text, "'") {
		return Str(strings.Trim(text, "\"'"))
	}
	if iv, err := strconv.ParseInt(text, 10, 64); err == nil {
		return Int(iv)
	}
	if fv, err := strconv.ParseFloat(text, 64); err == nil {
		return Float(fv)
	}
	return Str(text)
}
