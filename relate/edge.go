// Package relate is the Relationship Analyzer: a static pass over a clean
// (unwrapped) lang.Node tree that classifies variables as containers or
// cursors and emits the edges the visualizer uses to draw index arrows.
package relate

// EdgeType is the closed set of container/cursor relationship shapes.
type EdgeType string

const (
	KeyAccess      EdgeType = "key-access"
	KeyAssignment  EdgeType = "key-assignment"
	KeyIndex       EdgeType = "key-index"
	ValueIndex     EdgeType = "value-index"
	DictKey        EdgeType = "dict-key"
	DictValue      EdgeType = "dict-value"
	MembershipTest EdgeType = "membership-test"
)

// Relationship is one container<->cursor edge, attributed to the node
// where it was observed so the validator can cross-check it against a
// real node ID.
type Relationship struct {
	Container string
	Cursor    string
	Type      EdgeType
	NodeID    int // negative for manually supplied relationships
}

// ManualRelationship is a caller-supplied edge the analyzer didn't derive
// itself — the spec's "manual relationships appended with synthetic
// negative node IDs" allowance, for cases the static heuristics can't see
// (e.g. a relationship that only makes sense given a specific input).
type ManualRelationship struct {
	Container string
	Cursor    string
	Type      EdgeType
}
