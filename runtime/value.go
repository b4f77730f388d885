// Package runtime is the tree-walking evaluator pytracer substitutes for a
// native Python eval: it executes a rewritten lang.Node tree directly,
// firing the four marker hooks at the points rewrite spliced them in.
package runtime

import (
	"fmt"
	"sync/atomic"

	"github.com/viant/pytracer/lang"
)

// ObjectID is a synthetic, process-lifetime-unique identity for reference
// values, standing in for CPython's id(). It is minted once per reference
// value, on the value's first Identity() call, and never changes, which is what makes an object
// table keyed by ObjectID stable across steps.
type ObjectID uint64

var nextObjectID uint64

func newObjectID() ObjectID {
	return ObjectID(atomic.AddUint64(&nextObjectID, 1))
}

// ResetObjectIDs restarts identity minting at 1. Tracer.Reset calls this so
// that two runs of the same snippet produce identical object tables, which
// the two-run "shared tracer instance" scenario in the testable-properties
// list depends on.
func ResetObjectIDs() {
	atomic.StoreUint64(&nextObjectID, 0)
}

// Value is anything a traced program can hold in a variable. Primitive
// values (Bool, Int, Float, Str, NilVal) are plain Go types boxed directly
// as Value — they carry no identity, matching Python's interned small
// immutables being indistinguishable by id() for tracing purposes. Every
// other kind is a pointer type implementing Identity().
type Value interface {
	Kind() string
}

// Identified is implemented by every reference Value; callers use it to
// look up (or allocate) the ObjectID used as an object-table key.
type Identified interface {
	Value
	Identity() ObjectID
}

type (
	Bool   bool
	Int    int64
	Float  float64
	Str    string
	NilVal struct{}
)

func (Bool) Kind() string   { return "bool" }
func (Int) Kind() string    { return "int" }
func (Float) Kind() string  { return "float" }
func (Str) Kind() string    { return "str" }
func (NilVal) Kind() string { return "NoneType" }

// Nil is the single shared representation of Python's None.
var Nil = NilVal{}

type idBase struct {
	id   ObjectID
	once bool
}

func (b *idBase) Identity() ObjectID {
	if !b.once {
		b.id = newObjectID()
		b.once = true
	}
	return b.id
}

// List is a mutable, ordered, reference-typed sequence (Python list).
type List struct {
	idBase
	Items []Value
}

func NewList(items ...Value) *List { return &List{Items: items} }
func (*List) Kind() string         { return "list" }

// Tuple is immutable-by-convention but still reference-typed for id()
// purposes, matching CPython.
type Tuple struct {
	idBase
	Items []Value
}

func NewTuple(items ...Value) *Tuple { return &Tuple{Items: items} }
func (*Tuple) Kind() string          { return "tuple" }

// DictEntry preserves Python 3.7+ insertion order, which serialize needs to
// reproduce deterministic key ordering.
type DictEntry struct {
	Key Value
	Val Value
}

type Dict struct {
	idBase
	Entries []DictEntry
}

func NewDict() *Dict { return &Dict{} }
func (*Dict) Kind() string { return "dict" }

func (d *Dict) Get(key Value) (Value, bool) {
	k := keyString(key)
	for _, e := range d.Entries {
		if keyString(e.Key) == k {
			return e.Val, true
		}
	}
	return nil, false
}

func (d *Dict) Set(key, val Value) {
	k := keyString(key)
	for i, e := range d.Entries {
		if keyString(e.Key) == k {
			d.Entries[i].Val = val
			return
		}
	}
	d.Entries = append(d.Entries, DictEntry{Key: key, Val: val})
}

// keyString gives dict/set a total, hashable ordering key for primitive
// Python keys (str/int/bool/float). Reference-typed keys aren't valid
// Python dict keys in the traced subset, so they are not handled here.
func keyString(v Value) string {
	switch t := v.(type) {
	case Str:
		return "s:" + string(t)
	case Int:
		return fmt.Sprintf("i:%d", int64(t))
	case Bool:
		return fmt.Sprintf("b:%v", bool(t))
	case Float:
		return fmt.Sprintf("f:%v", float64(t))
	default:
		return fmt.Sprintf("r:%p", v)
	}
}

type Set struct {
	idBase
	order []Value
	seen  map[string]bool
}

func NewSet() *Set { return &Set{seen: make(map[string]bool)} }
func (*Set) Kind() string { return "set" }

func (s *Set) Add(v Value) {
	k := keyString(v)
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	if s.seen[k] {
		return
	}
	s.seen[k] = true
	s.order = append(s.order, v)
}

func (s *Set) Contains(v Value) bool {
	if s.seen == nil {
		return false
	}
	return s.seen[keyString(v)]
}

func (s *Set) Items() []Value { return s.order }

// Instance is a user-defined class instance: a class pointer plus a field
// table, matching __dict__.
type Instance struct {
	idBase
	Class  *Class
	Fields *Dict
}

func (*Instance) Kind() string { return "instance" }

type Class struct {
	idBase
	Name    string
	Methods map[string]*Function
}

func (*Class) Kind() string { return "class" }

// Function is a user-defined def/lambda, closing over the Environment it
// was created in.
type Function struct {
	idBase
	Name     string
	Params   []Param
	Body     *lang.Node
	Env      *Env
	IsLambda bool
}

func (*Function) Kind() string { return "function" }

type Param struct {
	Name    string
	Default Value // nil if required
}

// BoundMethod is a Function paired with the Instance it was looked up on —
// the Attribute-access result for obj.method, matching format_object_nicely's
// "Owner.method()" rendering.
type BoundMethod struct {
	idBase
	Receiver *Instance
	Func     *Function
}

func (*BoundMethod) Kind() string { return "bound_method" }

// Builtin is a host-provided function (print, len, range, enumerate, ...).
type Builtin struct {
	idBase
	Name string
	Call func(i *Interp, args []Value) (Value, error)
}

func (*Builtin) Kind() string { return "builtin_function_or_method" }

// Range is Python's lazy range() object; Stop/Start/Step follow range()'s
// own argument-normalization rules (see NewRange).
type Range struct {
	idBase
	Start, Stop, Step int64
}

func (*Range) Kind() string { return "range" }

func NewRange(start, stop, step int64) *Range {
	return &Range{Start: start, Stop: stop, Step: step}
}

func (r *Range) Len() int {
	if r.Step == 0 {
		return 0
	}
	if r.Step > 0 {
		if r.Stop <= r.Start {
			return 0
		}
		return int((r.Stop - r.Start + r.Step - 1) / r.Step)
	}
	if r.Stop >= r.Start {
		return 0
	}
	return int((r.Start - r.Stop - r.Step - 1) / -r.Step)
}

func (r *Range) At(i int) Int { return Int(r.Start + int64(i)*r.Step) }

// Enumerate is a lazy enumerate() wrapper. format_object_nicely in the
// source tracer materializes these eagerly into [(i, v), ...] rather than
// show "<enumerate object>"; Enumerate.Materialize does the same.
type Enumerate struct {
	idBase
	Seq   Value
	Start int64
}

func (*Enumerate) Kind() string { return "enumerate" }
