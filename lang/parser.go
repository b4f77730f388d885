package lang

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Parser turns Python source into a Node tree via the real tree-sitter
// Python grammar. Modeled on the teacher's TreeSitterInspector
// (inspector/golang/inspector_tree_sitter.go): one parser per call, no
// shared mutable state, ParseCtx so callers can bound parse time.
type Parser struct{}

// NewParser returns a ready-to-use Parser. It has no fields today; the
// constructor exists so callers don't depend on Parser's zero value being
// meaningful, and so options can be added later without breaking callers.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses src and converts the resulting tree-sitter CST into a fresh
// Node tree. Every Node in the result has ID == 0; assigning stable IDs is
// rewrite's job, not the parser's, so that re-parsing the same source for a
// new run never accidentally reuses IDs across problem keys.
func (p *Parser) Parse(ctx context.Context, src []byte) (*Node, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse python source: %w", err)
	}
	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("parse python source: syntax error near byte %d", firstErrorByte(root))
	}
	return convert(root, src, ""), nil
}

// anonymousTokensText collects the text of n's unnamed children (operator
// keywords/symbols tree-sitter doesn't promote to named nodes) joined by a
// single space, e.g. "a < b < c" -> "< <", "not x" -> "not", "a is not b"
// -> "is not".
func anonymousTokensText(n *sitter.Node, src []byte) string {
	var parts []string
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		c := n.Child(i)
		if c.IsNamed() {
			continue
		}
		parts = append(parts, c.Content(src))
	}
	joined := ""
	for idx, p := range parts {
		if idx > 0 {
			joined += " "
		}
		joined += p
	}
	return joined
}

// hasInterpolationChild reports whether a "string" node wraps at least one
// "{expr}" placeholder, the tree-sitter-python signal that it's an f-string
// rather than a plain string literal.
func hasInterpolationChild(n *sitter.Node) bool {
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		if c := n.Child(i); c.IsNamed() && c.Type() == "interpolation" {
			return true
		}
	}
	return false
}

func firstErrorByte(n *sitter.Node) uint32 {
	if n.IsError() || n.IsMissing() {
		return n.StartByte()
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.HasError() {
			return firstErrorByte(c)
		}
	}
	return n.StartByte()
}

// convert walks a tree-sitter node recursively into our own Node, tagging
// each child with the grammar's field name (when tree-sitter-python exposes
// one) so later passes can tell a Subscript's "value" child from its
// "subscript" child without re-deriving it from position.
func convert(n *sitter.Node, src []byte, field string) *Node {
	out := &Node{
		Type:  mapType(n.Type()),
		Field: field,
		Text:  n.Content(src),
		Pos: Position{
			StartByte: n.StartByte(),
			EndByte:   n.EndByte(),
			StartLine: int(n.StartPoint().Row) + 1,
			EndLine:   int(n.EndPoint().Row) + 1,
		},
	}

	// tree-sitter-python represents both plain and f-strings as a "string"
	// node; only the presence of an "interpolation" child tells them apart.
	// A plain string stays NodeConstant; an f-string becomes NodeJoinedStr
	// so eval interpolates it instead of treating it as opaque text.
	if n.Type() == "string" && hasInterpolationChild(n) {
		out.Type = NodeJoinedStr
	}

	switch out.Type {
	case NodeName:
		out.Name = out.Text
	case NodeAttribute:
		if attr := n.ChildByFieldName("attribute"); attr != nil {
			out.Name = attr.Content(src)
		}
	case NodeFunctionDef, NodeClassDef:
		if name := n.ChildByFieldName("name"); name != nil {
			out.Name = name.Content(src)
		}
	case NodeBinOp, NodeAugAssign:
		if op := n.ChildByFieldName("operator"); op != nil {
			out.Op = op.Content(src)
		}
	case NodeBoolOp:
		out.Op = anonymousTokensText(n, src) // "and" / "or"
	case NodeUnaryOp:
		out.Op = anonymousTokensText(n, src) // "-" / "not"
	case NodeCompare:
		out.Op = anonymousTokensText(n, src) // space-joined: "<", "< <", "is not", ...
	}

	count := int(n.ChildCount())
	out.Children = make([]*Node, 0, count)
	for i := 0; i < count; i++ {
		c := n.Child(i)
		if !c.IsNamed() {
			continue // punctuation/keyword tokens carry no semantic content
		}
		childField := n.FieldNameForChild(i)
		child := convert(c, src, childField)
		child.Parent = out
		out.Children = append(out.Children, child)
	}
	return out
}

// mapType translates a tree-sitter-python node kind string into our closed
// NodeType set. Kinds pytracer has no handling for fall through to
// NodeOther and are still walked (for child traversal) but never classified
// by rewrite or relate.
func mapType(kind string) NodeType {
	switch kind {
	case "module":
		return NodeModule
	case "expression_statement":
		return NodeExprStatement
	case "assignment":
		return NodeAssign
	case "augmented_assignment":
		return NodeAugAssign
	case "for_statement":
		return NodeFor
	case "while_statement":
		return NodeWhile
	case "if_statement", "elif_clause":
		return NodeIf
	case "return_statement":
		return NodeReturn
	case "pass_statement":
		return NodePass
	case "break_statement":
		return NodeBreak
	case "continue_statement":
		return NodeContinue
	case "function_definition":
		return NodeFunctionDef
	case "lambda":
		return NodeLambda
	case "class_definition":
		return NodeClassDef
	case "identifier":
		return NodeName
	case "integer", "float", "string", "true", "false", "none", "concatenated_string":
		return NodeConstant
	case "subscript":
		return NodeSubscript
	case "attribute":
		return NodeAttribute
	case "call":
		return NodeCall
	case "binary_operator":
		return NodeBinOp
	case "boolean_operator":
		return NodeBoolOp
	case "unary_operator", "not_operator":
		return NodeUnaryOp
	case "comparison_operator":
		return NodeCompare
	case "tuple", "pattern_list":
		return NodeTuple
	case "list", "list_comprehension":
		return NodeList
	case "dictionary", "dictionary_comprehension":
		return NodeDict
	case "set", "set_comprehension":
		return NodeSet
	case "slice":
		return NodeSlice
	case "interpolation":
		return NodeFormattedValue
	case "string_content":
		return NodeStringContent
	case "parameter", "typed_parameter", "default_parameter", "typed_default_parameter":
		return NodeParameter
	case "keyword_argument":
		return NodeKeyword
	default:
		return NodeOther
	}
}
