// Package inputs builds the special runtime.Value shapes the traced
// subset's tree/graph/linked-list problems need: a level-order array
// description turned into linked node objects, the way a Python harness
// would materialize them before calling the traced entrypoint.
package inputs

import "github.com/viant/pytracer/runtime"

// treeNodeClass is shared by every built tree so instances report a
// consistent class name ("TreeNode") through FormatNicely/serialize.
var treeNodeClass = &runtime.Class{Name: "TreeNode"}

// BuildTree turns a level-order array (nil entries are gaps, matching
// LeetCode-style tree literals) into a binary tree of runtime.Instance
// values, each with "val", "left", "right" fields. Returns runtime.Nil for
// an empty or all-nil input.
func BuildTree(values []runtime.Value) runtime.Value {
	if len(values) == 0 || values[0] == nil || values[0] == runtime.Nil {
		return runtime.Nil
	}

	root := newTreeNode(values[0])
	queue := []*runtime.Instance{root}
	i := 1
	for len(queue) > 0 && i < len(values) {
		cur := queue[0]
		queue = queue[1:]

		if i < len(values) {
			if v := values[i]; v != nil && v != runtime.Nil {
				left := newTreeNode(v)
				cur.Fields.Set(runtime.Str("left"), left)
				queue = append(queue, left)
			}
			i++
		}
		if i < len(values) {
			if v := values[i]; v != nil && v != runtime.Nil {
				right := newTreeNode(v)
				cur.Fields.Set(runtime.Str("right"), right)
				queue = append(queue, right)
			}
			i++
		}
	}
	return root
}

func newTreeNode(val runtime.Value) *runtime.Instance {
	fields := runtime.NewDict()
	fields.Set(runtime.Str("val"), val)
	fields.Set(runtime.Str("left"), runtime.Nil)
	fields.Set(runtime.Str("right"), runtime.Nil)
	return &runtime.Instance{Class: treeNodeClass, Fields: fields}
}
