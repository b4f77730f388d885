package rewrite

import "github.com/viant/pytracer/lang"

// wrappableExpr reports whether n should receive a before/after-expression
// marker pair. The exclusions mirror _is_assignment_target /
// _is_function_parameter / _is_function_name in ast_transformer.py plus the
// f-string placeholder carve-out described alongside them: wrapping an
// assignment target would record a value that doesn't exist yet, wrapping a
// parameter name would record it before the call that binds it, and
// wrapping a callee name (or its attribute in a method call) would insert a
// step between "look up the function" and "call it" that no learner reads
// as an expression evaluation. Only expression kinds are candidates at all:
// statements and structural nodes (blocks, argument and parameter lists)
// are never wrapped.
func wrappableExpr(n *lang.Node) bool {
	switch n.Type {
	case lang.NodeName, lang.NodeSubscript, lang.NodeAttribute, lang.NodeCall,
		lang.NodeBinOp, lang.NodeBoolOp, lang.NodeUnaryOp, lang.NodeCompare,
		lang.NodeTuple, lang.NodeList, lang.NodeDict, lang.NodeSet, lang.NodeJoinedStr:
	default:
		return false
	}
	if n.IsLiteral() {
		return false
	}
	if n.Type == lang.NodeMarkerCall {
		return false
	}
	if isAssignmentTarget(n) {
		return false
	}
	if isFunctionParameter(n) {
		return false
	}
	if isFunctionNameCallPosition(n) {
		return false
	}
	if isInterpolatedPlaceholder(n) {
		return false
	}
	if isJoinedStrPart(n) {
		return false
	}
	return true
}

func isAssignmentTarget(n *lang.Node) bool {
	p := n.Parent
	if p == nil {
		return false
	}
	switch p.Type {
	case lang.NodeAssign, lang.NodeAugAssign:
		return n.Field == "left"
	case lang.NodeFor:
		return n.Field == "left"
	case lang.NodeTuple, lang.NodeList:
		return isAssignmentTarget(p) // an element of an unpacking target
	}
	return false
}

func isFunctionParameter(n *lang.Node) bool {
	p := n.Parent
	if p == nil {
		return false
	}
	if p.Field == "parameters" {
		return true
	}
	if p.Type == lang.NodeParameter {
		return true
	}
	return false
}

func isFunctionNameCallPosition(n *lang.Node) bool {
	if n.Type != lang.NodeName {
		return false
	}
	p := n.Parent
	if p == nil {
		return false
	}
	if n.Field == "function" && p.Type == lang.NodeCall {
		return true
	}
	if n.Field == "attribute" && p.Type == lang.NodeAttribute &&
		p.Field == "function" && p.Parent != nil && p.Parent.Type == lang.NodeCall {
		return true
	}
	return false
}

func isInterpolatedPlaceholder(n *lang.Node) bool {
	return n.Parent != nil && n.Parent.Type == lang.NodeFormattedValue
}

// isJoinedStrPart reports whether n is one of an f-string's own structural
// children (a formatted-value slot or a literal text run between them)
// rather than an independently steppable expression; wrapping these would
// replace the whole format, the same reasoning isInterpolatedPlaceholder
// applies one level deeper to the placeholder's inner expression.
func isJoinedStrPart(n *lang.Node) bool {
	return n.Parent != nil && n.Parent.Type == lang.NodeJoinedStr
}

// isStatementBody reports whether field names a statement-list slot on
// parentType.
func isStatementBody(parentType lang.NodeType, field string) bool {
	switch parentType {
	case lang.NodeModule:
		return field == "" // module's direct children are all statements
	case lang.NodeFunctionDef, lang.NodeIf, lang.NodeFor, lang.NodeWhile, lang.NodeClassDef:
		return field == "body" || field == "alternative" || field == "consequence"
	}
	return false
}
