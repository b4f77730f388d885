package relate

import "github.com/viant/pytracer/lang"

// Analyze walks root (the clean, unwrapped parse tree — never the
// rewritten one with marker nodes spliced in) and returns the
// container/cursor relationships it can derive statically, plus manual
// ones appended as-is with synthetic negative node IDs.
func Analyze(root *lang.Node, manual []ManualRelationship) []Relationship {
	usages := classifyVariables(root)

	var rels []Relationship
	seen := make(map[string]bool)

	add := func(r Relationship) {
		key := r.Container + "|" + r.Cursor + "|" + string(r.Type)
		if seen[key] {
			return
		}
		seen[key] = true
		rels = append(rels, r)
	}

	lang.Walk(root, func(n *lang.Node) bool {
		switch n.Type {
		case lang.NodeSubscript:
			emitSubscriptEdges(n, usages, add)
		case lang.NodeCompare:
			emitMembershipEdge(n, usages, add)
		case lang.NodeFor:
			emitForLoopDictEdges(n, usages, add)
		}
		return true
	})

	nextManualID := -1
	for _, m := range manual {
		rels = append(rels, Relationship{
			Container: m.Container,
			Cursor:    m.Cursor,
			Type:      m.Type,
			NodeID:    nextManualID,
		})
		nextManualID--
	}

	return rels
}

func emitSubscriptEdges(n *lang.Node, usages map[string]usage, add func(Relationship)) {
	value := firstChildByField(n, "value")
	index := firstChildByField(n, "subscript")
	if value == nil || value.Type != lang.NodeName || index == nil {
		return
	}

	edgeType := KeyAccess
	if isAssignmentTargetOf(n) {
		edgeType = KeyAssignment
	}

	for _, name := range cursorNamesIn(index, usages) {
		add(Relationship{Container: value.Name, Cursor: name, Type: edgeType, NodeID: n.ID})
	}
}

// isAssignmentTargetOf reports whether n (a Subscript) sits in the "left"
// field of an Assign — i.e. this is a `container[idx] = value` write.
func isAssignmentTargetOf(n *lang.Node) bool {
	return n.Parent != nil && n.Parent.Type == lang.NodeAssign && n.Field == "left"
}

// cursorNamesIn returns every Name within index (itself, or any Name
// operand of a binary expression, whatever the other operand is) that
// classify.go resolved as a cursor.
func cursorNamesIn(index *lang.Node, usages map[string]usage) []string {
	var names []string
	if index.Type == lang.NodeName {
		if isCursor(usages[index.Name]) {
			names = append(names, index.Name)
		}
		return names
	}
	if index.Type == lang.NodeBinOp {
		for _, c := range index.Children {
			if c.Type == lang.NodeName && isCursor(usages[c.Name]) {
				names = append(names, c.Name)
			}
		}
	}
	return names
}

func emitMembershipEdge(n *lang.Node, usages map[string]usage, add func(Relationship)) {
	if n.Op != "in" && n.Op != "not in" {
		return
	}
	if len(n.Children) < 2 {
		return
	}
	lhs := n.Children[0]
	rhs := n.Children[len(n.Children)-1]
	if lhs.Type != lang.NodeName || rhs.Type != lang.NodeName {
		return
	}
	add(Relationship{Container: rhs.Name, Cursor: lhs.Name, Type: MembershipTest, NodeID: n.ID})
}

// emitForLoopDictEdges covers every for-header shape in the edge table:
// plain `for v in C`, `range(len(C))`, `enumerate(C)`, `zip(C1, C2)`,
// `reversed(C)`, and the dict-view methods (`.items()`/`.keys()`/
// `.values()`), matching _analyze_for_loop_iterable's dispatch on the
// iterable's shape.
func emitForLoopDictEdges(n *lang.Node, usages map[string]usage, add func(Relationship)) {
	iter := firstChildByField(n, "right")
	target := firstChildByField(n, "left")
	if iter == nil || target == nil {
		return
	}

	if iter.Type != lang.NodeCall {
		// plain `for v in C`
		if iter.Type == lang.NodeName && target.Type == lang.NodeName {
			add(Relationship{Container: iter.Name, Cursor: target.Name, Type: ValueIndex, NodeID: n.ID})
		}
		return
	}

	callee := firstChildByField(iter, "function")
	if callee != nil && callee.Type == lang.NodeAttribute {
		emitDictMethodEdges(n, callee, target, add)
		return
	}

	switch callName(iter) {
	case "range":
		emitRangeLenEdges(n, iter, target, add)
	case "enumerate":
		emitEnumerateEdges(n, iter, target, add)
	case "zip":
		emitZipEdges(n, iter, target, add)
	case "reversed":
		emitReversedEdges(n, iter, target, add)
	}
}

// emitDictMethodEdges covers `for k, v in d.items()`-shaped loops: k gets
// a dict-key edge to d, v gets a dict-value edge, matching
// _analyze_dict_method_in_for.
func emitDictMethodEdges(n, callee, target *lang.Node, add func(Relationship)) {
	receiver := firstChildByField(callee, "object")
	if receiver == nil || receiver.Type != lang.NodeName {
		return
	}

	switch callee.Name {
	case "items":
		if target.Type == lang.NodeTuple && len(target.Children) == 2 {
			if k := target.Children[0]; k.Type == lang.NodeName {
				add(Relationship{Container: receiver.Name, Cursor: k.Name, Type: DictKey, NodeID: n.ID})
			}
			if v := target.Children[1]; v.Type == lang.NodeName {
				add(Relationship{Container: receiver.Name, Cursor: v.Name, Type: DictValue, NodeID: n.ID})
			}
		}
	case "keys":
		if target.Type == lang.NodeName {
			add(Relationship{Container: receiver.Name, Cursor: target.Name, Type: DictKey, NodeID: n.ID})
		}
	case "values":
		if target.Type == lang.NodeName {
			add(Relationship{Container: receiver.Name, Cursor: target.Name, Type: DictValue, NodeID: n.ID})
		}
	}
}

// emitRangeLenEdges covers `for i in range(len(C))`: i gets a key-index
// edge to C.
func emitRangeLenEdges(n, rangeCall, target *lang.Node, add func(Relationship)) {
	if target.Type != lang.NodeName {
		return
	}
	args := firstChildByField(rangeCall, "arguments")
	if args == nil || len(args.Children) == 0 {
		return
	}
	lenCall := args.Children[0]
	if lenCall.Type != lang.NodeCall || callName(lenCall) != "len" {
		return
	}
	lenArgs := firstChildByField(lenCall, "arguments")
	if lenArgs == nil || len(lenArgs.Children) == 0 {
		return
	}
	container := lenArgs.Children[0]
	if container.Type != lang.NodeName {
		return
	}
	add(Relationship{Container: container.Name, Cursor: target.Name, Type: KeyIndex, NodeID: n.ID})
}

// emitEnumerateEdges covers `for i, v in enumerate(C)`: i gets a
// key-index edge, v gets a value-index edge, both to C.
func emitEnumerateEdges(n, call, target *lang.Node, add func(Relationship)) {
	if target.Type != lang.NodeTuple || len(target.Children) != 2 {
		return
	}
	args := firstChildByField(call, "arguments")
	if args == nil || len(args.Children) == 0 {
		return
	}
	container := args.Children[0]
	if container.Type != lang.NodeName {
		return
	}
	if idx := target.Children[0]; idx.Type == lang.NodeName {
		add(Relationship{Container: container.Name, Cursor: idx.Name, Type: KeyIndex, NodeID: n.ID})
	}
	if val := target.Children[1]; val.Type == lang.NodeName {
		add(Relationship{Container: container.Name, Cursor: val.Name, Type: ValueIndex, NodeID: n.ID})
	}
}

// emitZipEdges covers `for a, b in zip(C1, C2)`: each target name gets a
// value-index edge to its positional iterable.
func emitZipEdges(n, call, target *lang.Node, add func(Relationship)) {
	if target.Type != lang.NodeTuple {
		return
	}
	args := firstChildByField(call, "arguments")
	if args == nil {
		return
	}
	for i, t := range target.Children {
		if t.Type != lang.NodeName || i >= len(args.Children) {
			continue
		}
		container := args.Children[i]
		if container.Type == lang.NodeName {
			add(Relationship{Container: container.Name, Cursor: t.Name, Type: ValueIndex, NodeID: n.ID})
		}
	}
}

// emitReversedEdges covers `for v in reversed(C)`: v gets a value-index
// edge to C.
func emitReversedEdges(n, call, target *lang.Node, add func(Relationship)) {
	if target.Type != lang.NodeName {
		return
	}
	args := firstChildByField(call, "arguments")
	if args == nil || len(args.Children) == 0 {
		return
	}
	container := args.Children[0]
	if container.Type != lang.NodeName {
		return
	}
	add(Relationship{Container: container.Name, Cursor: target.Name, Type: ValueIndex, NodeID: n.ID})
}
