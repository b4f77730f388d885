// Package rewrite assigns stable node IDs to a parsed tree and splices in
// the marker nodes that make each statement and expression observable to
// the step recorder at run time.
package rewrite

import "github.com/viant/pytracer/lang"

// Rewriter holds the node-ID cache a tracer reuses across runs of the same
// problem key; a fresh Rewriter (or Tracer.Reset) starts IDs back at 1.
type Rewriter struct {
	ids *IDCache
}

// New returns a Rewriter backed by a fresh ID cache.
func New() *Rewriter {
	return &Rewriter{ids: NewIDCache()}
}

// Reset discards the ID cache, so the next Rewrite call mints IDs from 1
// again regardless of problem key.
func (r *Rewriter) Reset() {
	r.ids = NewIDCache()
}

// Rewrite assigns IDs and splices markers into root in place, scoped to
// problemKey, and returns root for chaining. root must be the tree a fresh
// lang.Parser.Parse produced — Rewrite is not idempotent against a tree it
// has already rewritten.
func (r *Rewriter) Rewrite(root *lang.Node, problemKey string) *lang.Node {
	r.assignIDs(root, problemKey)
	markTestPositions(root)
	r.wrapStatementBodies(root)
	r.wrapExpressions(root)
	return root
}

// markTestPositions flags the condition sub-expression of every if/while
// header as a test position (spec's "Test positions" rule). It runs before
// wrapExpressions splices in the expression marker, but the flag lives on
// the original node, which wrapExpression tucks under the marker's single
// child rather than cloning — so the mark is still visible at eval time.
func markTestPositions(n *lang.Node) {
	lang.Walk(n, func(cur *lang.Node) bool {
		switch cur.Type {
		case lang.NodeIf, lang.NodeWhile:
			if cond := fieldChild(cur, "condition"); cond != nil {
				cond.IsTest = true
			}
		}
		return true
	})
}

func fieldChild(n *lang.Node, field string) *lang.Node {
	for _, c := range n.Children {
		if c.Field == field {
			return c
		}
	}
	return nil
}

// assignIDs walks the whole tree (including nodes that will never be
// wrapped, such as Module itself) and gives every node a stable ID. Nodes
// that never appear in the trace — punctuation, field names — were already
// dropped by lang.convert, so no ID is ever "wasted" on something the
// recorder will never reference.
func (r *Rewriter) assignIDs(n *lang.Node, problemKey string) {
	lang.Walk(n, func(cur *lang.Node) bool {
		cur.ID = r.ids.Assign(problemKey, cur.Pos.StartByte, string(cur.Type)+"/"+cur.Field)
		return true
	})
}

// wrapStatementBodies finds every statement-list slot in the tree and
// replaces it with [beforeMarker(stmt1), stmt1, afterMarker(stmt1),
// beforeMarker(stmt2), stmt2, afterMarker(stmt2), ...]. The module node is
// itself the top-level statement list, so its own Children get the splice.
func (r *Rewriter) wrapStatementBodies(n *lang.Node) {
	lang.Walk(n, func(cur *lang.Node) bool {
		if cur.Type == lang.NodeModule {
			r.wrapBody(cur)
			return true
		}
		for _, child := range cur.Children {
			if isStatementBody(cur.Type, child.Field) {
				r.wrapBody(child)
			}
		}
		return true
	})
}

// wrapBody rewrites body.Children (a statement list node's children) to
// include statement markers. body itself is the container node (e.g. the
// "body" block of a function/if/for); its Children slice is the thing that
// gets the marker splice.
func (r *Rewriter) wrapBody(body *lang.Node) {
	orig := body.Children
	wrapped := make([]*lang.Node, 0, len(orig)*3)
	for _, stmt := range orig {
		wrapped = append(wrapped, statementMarker(lang.MarkerBeforeStatement, stmt.ID, body))
		wrapped = append(wrapped, stmt)
		wrapped = append(wrapped, statementMarker(lang.MarkerAfterStatement, stmt.ID, body))
	}
	body.Children = wrapped
}

func statementMarker(kind lang.MarkerKind, stmtID int, parent *lang.Node) *lang.Node {
	return &lang.Node{
		Type:       lang.NodeMarkerCall,
		MarkerKind: kind,
		MarkerArg:  stmtID,
		Parent:     parent,
		Pos:        parent.Pos,
	}
}

// wrapExpressions replaces every wrappable expression node in place with a
// NodeMarkerCall(MarkerAfterExpression) whose single child is the original
// node, mirroring after-expression(before-expression(id), <expr>) — the
// interpreter fires before-expression, evaluates that child, then fires
// after-expression with the result.
//
// Children of markerable statement nodes are walked too: a module's direct
// children are statements (already wrapped above, and skipped here via the
// expression-kind check in wrappableExpr), and a statement's own
// sub-expressions (the right-hand side of an assignment, a call's
// arguments, a condition) are expressions reached through normal recursion.
func (r *Rewriter) wrapExpressions(n *lang.Node) {
	lang.Walk(n, func(cur *lang.Node) bool {
		if cur.Type == lang.NodeMarkerCall {
			// cur's single child is the expression cur itself already
			// wraps; don't wrap it a second time. Walk still recurses
			// into it afterwards, which is where its own sub-expressions
			// (e.g. a wrapped BinOp's operands) get wrapped.
			return true
		}
		for i, child := range cur.Children {
			if child.Type == lang.NodeMarkerCall {
				continue // statement marker, not an expression slot
			}
			if !wrappableExpr(child) {
				continue
			}
			cur.Children[i] = wrapExpression(child)
		}
		return true
	})
}

func wrapExpression(inner *lang.Node) *lang.Node {
	marker := &lang.Node{
		Type:       lang.NodeMarkerCall,
		MarkerKind: lang.MarkerAfterExpression,
		MarkerArg:  inner.ID,
		Field:      inner.Field,
		Parent:     inner.Parent,
		Pos:        inner.Pos,
		Children:   []*lang.Node{inner},
	}
	inner.Parent = marker
	return marker
}
