// Package lang defines the mutable node tree pytracer instruments and walks.
//
// tree-sitter's concrete syntax tree is read-only: it cannot be given the
// synthetic marker-call nodes the rewriter inserts, and it carries no place
// to stash a stable node ID. Node is therefore our own tree, built once by
// Parse from a tree-sitter parse, then owned end to end by rewrite, runtime
// and relate.
package lang

// NodeType enumerates the Python constructs pytracer understands. It is a
// closed set: anything tree-sitter-python produces that has no NodeType
// mapping is folded into NodeOther and walked generically (children only,
// no semantic handling).
type NodeType string

const (
	NodeModule          NodeType = "Module"
	NodeExprStatement   NodeType = "ExprStatement"
	NodeAssign          NodeType = "Assign"
	NodeAugAssign       NodeType = "AugAssign"
	NodeFor             NodeType = "For"
	NodeWhile           NodeType = "While"
	NodeIf              NodeType = "If"
	NodeReturn          NodeType = "Return"
	NodePass            NodeType = "Pass"
	NodeBreak           NodeType = "Break"
	NodeContinue        NodeType = "Continue"
	NodeFunctionDef     NodeType = "FunctionDef"
	NodeLambda          NodeType = "Lambda"
	NodeClassDef        NodeType = "ClassDef"
	NodeName            NodeType = "Name"
	NodeConstant        NodeType = "Constant"
	NodeSubscript       NodeType = "Subscript"
	NodeAttribute       NodeType = "Attribute"
	NodeCall            NodeType = "Call"
	NodeBinOp           NodeType = "BinOp"
	NodeBoolOp          NodeType = "BoolOp"
	NodeUnaryOp         NodeType = "UnaryOp"
	NodeCompare         NodeType = "Compare"
	NodeTuple           NodeType = "Tuple"
	NodeList            NodeType = "List"
	NodeDict            NodeType = "Dict"
	NodeSet             NodeType = "Set"
	NodeSlice           NodeType = "Slice"
	NodeFormattedValue  NodeType = "FormattedValue"
	NodeJoinedStr       NodeType = "JoinedStr"
	NodeStringContent   NodeType = "StringContent"
	NodeParameter       NodeType = "Parameter"
	NodeKeyword         NodeType = "Keyword"
	NodeOther           NodeType = "Other"

	// NodeMarkerCall tags a synthetic call the rewriter spliced in
	// (before-statement, after-statement, before-expression,
	// after-expression). Marker calls are never reported to the
	// relationship analyzer or the validator; artifact.FromNode drops them
	// from the public AST projection.
	NodeMarkerCall NodeType = "MarkerCall"
)

// Position is a 0-indexed, inclusive-start/exclusive-end byte range and a
// 1-indexed line range in the original source, kept on every Node for diagnostics and for
// grouping trace steps by line.
type Position struct {
	StartByte uint32
	EndByte   uint32
	StartLine int // 1-indexed, matches the source's own line numbering
	EndLine   int
}

// Node is one construct in the instrumented tree. Field is the role this
// node plays in its parent (tree-sitter field name equivalent: "target",
// "value", "iter", "body", …) used by classifiers that need to know whether
// a Name sits in assignment-target position without re-deriving it from
// parent type alone.
type Node struct {
	ID       int // stable, sequential; 0 means "not yet assigned"
	Type     NodeType
	Field    string
	Text     string // verbatim source text this node spans
	Pos      Position
	Children []*Node
	Parent   *Node

	// Fields below are populated selectively depending on Type; unused
	// fields for a given Type are left at zero value.
	Name string // Name.Id, Attribute.Attr, FunctionDef.Name, keyword arg name
	Op   string // BinOp/BoolOp/UnaryOp/Compare/AugAssign operator text

	// IsTest marks a condition expression (the test sub-expression of an
	// if/while header) rewrite has identified as a test position: when
	// after-expression fires for the wrapping marker, the recorded step
	// also carries the value's boolean coercion.
	IsTest bool

	// MarkerKind is set only when Type == NodeMarkerCall.
	MarkerKind MarkerKind
	// MarkerArg is the node-id argument of a marker call.
	MarkerArg int
	// For MarkerAfterExpression nodes, Children holds exactly one entry:
	// the original expression being wrapped. Statement markers have no
	// children.
}

// MarkerKind identifies which of the four instrumentation call shapes a
// NodeMarkerCall node represents.
type MarkerKind int

const (
	MarkerNone MarkerKind = iota
	MarkerBeforeStatement
	MarkerAfterStatement
	MarkerBeforeExpression
	MarkerAfterExpression
)

// Walk visits n and every descendant, pre-order, parent before children.
func Walk(n *Node, visit func(*Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, visit)
	}
}

// Find returns the first descendant (including n itself) for which match
// returns true, or nil.
func Find(n *Node, match func(*Node) bool) *Node {
	var found *Node
	Walk(n, func(cur *Node) bool {
		if found != nil {
			return false
		}
		if match(cur) {
			found = cur
			return false
		}
		return true
	})
	return found
}

// IsLiteral reports whether n is a constant literal: the rewriter never
// wraps these in before/after-expression markers since a literal has no
// runtime value worth stepping through independently of its parent.
func (n *Node) IsLiteral() bool {
	return n.Type == NodeConstant
}
