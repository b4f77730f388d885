package relate

import "github.com/viant/pytracer/lang"

// role names the kinds of position a Name usage can occupy (cursor
// context, non-cursor context, container). classifyVariables does not use
// it; usage below records what is actually tallied.
type role int

const (
	roleNonCursor role = iota
	roleCursor
	roleContainer
)

// usage records, per variable name, how many times it was used in a
// cursor-qualifying position and whether it was marked a container.
// classifyVariables turns this into a final container/cursor verdict. Uses
// in non-cursor positions are not tallied: nonCursorCount stays zero, so
// every name with at least one cursor-position use resolves as a cursor.
type usage struct {
	cursorCount    int
	nonCursorCount int
	isContainer    bool
}

// classifyVariables walks root once, tallying usage contexts for every
// Name, then resolves each into "cursor" or "container" (or neither, if it
// never appeared in a qualifying position). A variable qualifies as a
// cursor when its cursor-usage count is at least its non-cursor count and
// strictly positive — ties favor cursor, matching
// _is_cursor_variable's ">=" comparison in the source analyzer.
func classifyVariables(root *lang.Node) map[string]usage {
	usages := make(map[string]usage)

	get := func(name string) usage { return usages[name] }
	set := func(name string, u usage) { usages[name] = u }

	lang.Walk(root, func(n *lang.Node) bool {
		switch n.Type {
		case lang.NodeAssign:
			target := firstChildByField(n, "left")
			value := firstChildByField(n, "right")
			if target != nil && target.Type == lang.NodeName && value != nil && isLiteralCollection(value) {
				u := get(target.Name)
				u.isContainer = true
				set(target.Name, u)
			}
		case lang.NodeFor:
			iter := firstChildByField(n, "right")
			target := firstChildByField(n, "left")
			classifyForLoop(iter, target, get, set)
		case lang.NodeSubscript:
			classifySubscript(n, get, set)
		case lang.NodeCompare:
			classifyMembership(n, get, set)
		}
		return true
	})

	return usages
}

func isLiteralCollection(n *lang.Node) bool {
	switch n.Type {
	case lang.NodeList, lang.NodeDict, lang.NodeSet, lang.NodeTuple:
		return true
	}
	return false
}

func firstChildByField(n *lang.Node, field string) *lang.Node {
	for _, c := range n.Children {
		if c.Field == field {
			return c
		}
	}
	return nil
}

// classifyForLoop marks the iterable a container (unless it's range(),
// which produces cursors, not containers, for its loop variable) and
// handles the enumerate()-first-element and range()-loop-variable cursor
// rules.
func classifyForLoop(iter, target *lang.Node, get func(string) usage, set func(string, usage)) {
	if iter == nil || target == nil {
		return
	}

	if call, isCall := asCall(iter); isCall {
		switch callName(call) {
		case "range":
			if target.Type == lang.NodeName {
				u := get(target.Name)
				u.cursorCount++
				set(target.Name, u)
			}
			return
		case "enumerate":
			if target.Type == lang.NodeTuple && len(target.Children) > 0 {
				first := target.Children[0]
				if first.Type == lang.NodeName {
					u := get(first.Name)
					u.cursorCount++
					set(first.Name, u)
				}
			}
			// the wrapped sequence inside enumerate(...) is itself a
			// container if it's a bare name.
			if len(call.Children) > 0 {
				if args := firstChildByField(call, "arguments"); args != nil && len(args.Children) > 0 {
					if args.Children[0].Type == lang.NodeName {
						u := get(args.Children[0].Name)
						u.isContainer = true
						set(args.Children[0].Name, u)
					}
				}
			}
			return
		}
	}

	if iter.Type == lang.NodeName {
		u := get(iter.Name)
		u.isContainer = true
		set(iter.Name, u)
	}
}

func asCall(n *lang.Node) (*lang.Node, bool) {
	if n.Type == lang.NodeCall {
		return n, true
	}
	return nil, false
}

func callName(call *lang.Node) string {
	fn := firstChildByField(call, "function")
	if fn != nil && fn.Type == lang.NodeName {
		return fn.Name
	}
	return ""
}

// classifySubscript marks the subscripted value a container and its index
// a cursor, with the ±2 small-integer-offset exception: arr[i-1] still
// counts i as a cursor usage (a common off-by-one access pattern), but
// arr[i-100] does not, on the theory that a large offset indicates i isn't
// really being used to walk arr.
func classifySubscript(n *lang.Node, get func(string) usage, set func(string, usage)) {
	value := firstChildByField(n, "value")
	index := firstChildByField(n, "subscript")
	if value != nil && value.Type == lang.NodeName {
		u := get(value.Name)
		u.isContainer = true
		set(value.Name, u)
	}
	if index == nil {
		return
	}
	markIndexCursor(index, get, set)
}

func markIndexCursor(index *lang.Node, get func(string) usage, set func(string, usage)) {
	if index.Type == lang.NodeName {
		u := get(index.Name)
		u.cursorCount++
		set(index.Name, u)
		return
	}
	if index.Type == lang.NodeBinOp && (index.Op == "+" || index.Op == "-") {
		left := indexOperand(index, 0)
		right := indexOperand(index, 1)
		if left != nil && left.Type == lang.NodeName && smallOffset(right) {
			u := get(left.Name)
			u.cursorCount++
			set(left.Name, u)
		}
		if right != nil && right.Type == lang.NodeName && smallOffset(left) {
			u := get(right.Name)
			u.cursorCount++
			set(right.Name, u)
		}
	}
}

func indexOperand(n *lang.Node, pos int) *lang.Node {
	if pos < len(n.Children) {
		return n.Children[pos]
	}
	return nil
}

// smallOffset reports whether n is a literal integer constant within ±2,
// or simply not present (a unary operand): the qualifying condition for
// still treating the name operand of a binary subscript index as a cursor
// usage.
func smallOffset(n *lang.Node) bool {
	if n == nil {
		return true
	}
	if n.Type != lang.NodeConstant {
		return false
	}
	switch n.Text {
	case "-2", "-1", "0", "1", "2":
		return true
	}
	return false
}

// classifyMembership handles `x in container`: container becomes a
// container variable (membership-test RHS), matching
// _analyze_membership_test.
func classifyMembership(n *lang.Node, get func(string) usage, set func(string, usage)) {
	if n.Op != "in" && n.Op != "not in" {
		return
	}
	if len(n.Children) < 2 {
		return
	}
	rhs := n.Children[len(n.Children)-1]
	if rhs.Type == lang.NodeName {
		u := get(rhs.Name)
		u.isContainer = true
		set(rhs.Name, u)
	}
}

// isCursor resolves the final container/cursor verdict for name.
func isCursor(u usage) bool {
	return u.cursorCount > 0 && u.cursorCount >= u.nonCursorCount
}
