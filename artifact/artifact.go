// Package artifact defines the single JSON document a Tracer run produces:
// metadata, the marker-free AST, derived relationships, the assembled
// trace, and the program's final result — everything the (out-of-scope)
// visualizer consumes.
package artifact

import "github.com/viant/pytracer/serialize"

// Metadata identifies one run: which problem, which entrypoint, and a
// correlation ID for logs/metrics/traces.
type Metadata struct {
	RunID      string `json:"run_id"`
	ProblemKey string `json:"problem_key"`
	Entrypoint string `json:"entrypoint,omitempty"`
	ServerMode bool   `json:"server_mode"`
}

// SourceNode is the public, JSON-shaped projection of lang.Node: enough
// structure for the visualizer to highlight the node currently executing,
// without exposing pytracer's internal marker-node plumbing.
type SourceNode struct {
	ID       int          `json:"id"`
	Type     string       `json:"type"`
	Text     string       `json:"text"`
	Line     int          `json:"line"`
	Children []SourceNode `json:"children,omitempty"`
}

// Relationship is the JSON projection of relate.Relationship.
type Relationship struct {
	Container string `json:"container"`
	Cursor    string `json:"cursor"`
	Type      string `json:"type"`
	NodeID    int    `json:"node_id"`
}

// ObjectTableEntry is the JSON projection of one record.ObjectEntry. Value
// holds the structural body: for a collection, its children (nested
// reference values as their object-table identity, primitives as their own
// serialized value); for a primitive entry, the serialized value itself.
type ObjectTableEntry struct {
	Kind         string      `json:"kind"`
	ClassName    string      `json:"class_name,omitempty"`
	IsCollection bool        `json:"is_collection"`
	Value        interface{} `json:"value,omitempty"`
}

// Step is one recorded callback, JSON-shaped. Locals/VarTable/ObjectTable
// are left nil (omitted from the JSON) whenever the step's locals equal the
// group's final (last step's) locals — the per-step half of assemble's
// compression. The enclosing TraceLineEntry carries that final state in
// full as VarTable/ObjectTable, but its Locals only as a delta.
type Step struct {
	NodeID      int                         `json:"node_id"`
	Event       string                      `json:"event"`
	Line        int                         `json:"line"`
	Value       serialize.Value             `json:"value,omitempty"`
	Test        *bool                       `json:"test,omitempty"`
	Locals      map[string]serialize.Value  `json:"locals,omitempty"`
	VarTable    map[string]serialize.Value  `json:"var_table,omitempty"`
	ObjectTable map[string]ObjectTableEntry `json:"object_table,omitempty"`
}

// TraceLineEntry groups every Step that shares a source line (or starts a
// new statement). VarTable and ObjectTable are the group's final (last
// step's) state. Locals is not a full snapshot: it is serialize.Delta of
// the previous entry's final locals against this group's (the full locals
// for the first entry), omitted when nothing changed; there is no separate
// field holding the group's full locals. The synthetic trailing entry
// carries only its one step.
type TraceLineEntry struct {
	Line        int                           `json:"line"`
	Steps       []Step                        `json:"steps"`
	Locals      map[string]serialize.Value    `json:"locals,omitempty"`
	VarTable    map[string]serialize.Value    `json:"var_table,omitempty"`
	ObjectTable map[string]ObjectTableEntry   `json:"object_table,omitempty"`
}

// Artifact is the complete output document.
type Artifact struct {
	Metadata      Metadata          `json:"metadata"`
	AST           SourceNode        `json:"ast"`
	Relationships []Relationship    `json:"relationships"`
	Trace         []TraceLineEntry  `json:"trace"`
	Result        serialize.Value   `json:"result"`
	Stdout        string            `json:"stdout,omitempty"`
}
