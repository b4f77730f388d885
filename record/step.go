// Package record implements the Step Recorder: it is the runtime.Hooks
// implementation a Tracer attaches to its Interp, and turns each marker
// callback into a captured Step with a snapshot of the frame's locals and
// the reachable object table at that instant.
package record

import "github.com/viant/pytracer/runtime"

// EventType is the four marker callback kinds, carried on every Step so
// assemble can tell a statement boundary from an expression boundary when
// deciding where a new trace line group starts.
type EventType string

const (
	BeforeStatement  EventType = "before-statement"
	AfterStatement   EventType = "after-statement"
	BeforeExpression EventType = "before-expression"
	AfterExpression  EventType = "after-expression"
)

// ObjectEntry is one row of the object table: a reachable reference value,
// typed and flagged for the serializer. Value is the structural body: for
// a collection, its children expressed as nested ObjectIDs (so the
// visualizer can follow an alias instead of seeing a second copy) wherever
// a child is itself a reference type, and as a plain serialized value
// wherever a child is a primitive; for a primitive entry, Value is just
// its serialized value.
type ObjectEntry struct {
	ID           runtime.ObjectID
	Kind         string // "sequence" | "mapping" | "set" | "custom-record" | "primitive"
	ClassName    string // set for custom-record entries
	IsCollection bool
	Value        interface{}
}

// Step is one recorded instant: a single marker callback firing, with
// everything the Trace Assembler needs to build a Trace Line Entry without
// going back to the interpreter.
type Step struct {
	NodeID      int
	Event       EventType
	Line        int
	Locals      map[string]runtime.Value // shallow snapshot, copied at capture time
	Value       runtime.Value             // set for after-expression only
	Test        *bool                     // set for after-expression on a test position only
	ObjectTable map[runtime.ObjectID]ObjectEntry
}
