package inputs_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/viant/pytracer/inputs"
	"github.com/viant/pytracer/runtime"
)

func TestBuildTree_LevelOrderWithGaps(t *testing.T) {
	values := []runtime.Value{runtime.Int(1), runtime.Int(2), runtime.Nil, runtime.Int(3)}
	root := inputs.BuildTree(values).(*runtime.Instance)

	val, _ := root.Fields.Get(runtime.Str("val"))
	require.Equal(t, runtime.Int(1), val)

	left := mustInstance(t, root, "left")
	leftVal, _ := left.Fields.Get(runtime.Str("val"))
	require.Equal(t, runtime.Int(2), leftVal)

	// level order: the nil at index 2 is root's missing right child, so
	// the 3 at index 3 becomes the left child of 2
	leftLeft := mustInstance(t, left, "left")
	leftLeftVal, _ := leftLeft.Fields.Get(runtime.Str("val"))
	require.Equal(t, runtime.Int(3), leftLeftVal)

	right, _ := root.Fields.Get(runtime.Str("right"))
	require.Equal(t, runtime.Nil, right)
}

func TestBuildTree_Empty(t *testing.T) {
	require.Equal(t, runtime.Nil, inputs.BuildTree(nil))
}

func TestBuildGraph_AdjacencyList(t *testing.T) {
	g := inputs.BuildGraph([][]int{{2, 3}, {1}, {1}}).(*runtime.Dict)
	neighbors, ok := g.Get(runtime.Int(1))
	require.True(t, ok)
	list := neighbors.(*runtime.List)
	require.Equal(t, []runtime.Value{runtime.Int(2), runtime.Int(3)}, list.Items)
}

func TestBuildLinkedList_Chain(t *testing.T) {
	head := inputs.BuildLinkedList([]runtime.Value{runtime.Int(1), runtime.Int(2), runtime.Int(3)}).(*runtime.Instance)
	val, _ := head.Fields.Get(runtime.Str("val"))
	require.Equal(t, runtime.Int(1), val)

	next := mustInstance(t, head, "next")
	nextVal, _ := next.Fields.Get(runtime.Str("val"))
	require.Equal(t, runtime.Int(2), nextVal)
}

func TestBuildLinkedList_Empty(t *testing.T) {
	require.Equal(t, runtime.Nil, inputs.BuildLinkedList(nil))
}

func mustInstance(t *testing.T, inst *runtime.Instance, field string) *runtime.Instance {
	t.Helper()
	v, ok := inst.Fields.Get(runtime.Str(field))
	require.True(t, ok)
	child, ok := v.(*runtime.Instance)
	require.True(t, ok)
	return child
}
