package rewrite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/viant/pytracer/lang"
	"github.com/viant/pytracer/rewrite"
)

func parse(t *testing.T, src string) *lang.Node {
	t.Helper()
	root, err := lang.NewParser().Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	return root
}

func TestRewrite_WrapsStatementsWithMarkers(t *testing.T) {
	root := parse(t, "x = 1\ny = 2\n")
	rewrite.New().Rewrite(root, "k1")

	// module body: before(x=1), x=1, after(x=1), before(y=2), y=2, after(y=2)
	require.Len(t, root.Children, 6)
	require.Equal(t, lang.MarkerBeforeStatement, root.Children[0].MarkerKind)
	require.Equal(t, lang.NodeExprStatement, root.Children[1].Type)
	require.Equal(t, lang.NodeAssign, root.Children[1].Children[0].Type)
	require.Equal(t, lang.MarkerAfterStatement, root.Children[2].MarkerKind)
}

func TestRewrite_WrapsRHSExpressionButNotAssignmentTarget(t *testing.T) {
	root := parse(t, "x = 1 + 2\n")
	rewrite.New().Rewrite(root, "k2")

	// [before, expression statement, after]; the statement holds the assignment
	assign := root.Children[1].Children[0]
	require.Equal(t, lang.NodeAssign, assign.Type)

	left := assign.Children[0]
	require.NotEqual(t, lang.NodeMarkerCall, left.Type, "assignment target must not be wrapped")

	right := assign.Children[1]
	require.Equal(t, lang.NodeMarkerCall, right.Type, "assignment RHS must be wrapped")
	require.Equal(t, lang.MarkerAfterExpression, right.MarkerKind)
	require.Equal(t, lang.NodeBinOp, right.Children[0].Type)
}

func TestRewrite_IDsAreStableAcrossRepeatedRewriteUnderSameProblemKey(t *testing.T) {
	src := "x = 1\n"
	rootA := parse(t, src)
	rootB := parse(t, src)

	r := rewrite.New()
	r.Rewrite(rootA, "stable-key")
	r.Rewrite(rootB, "stable-key")

	require.Equal(t, rootA.ID, rootB.ID)
}

func TestRewrite_DoesNotWrapFunctionParameters(t *testing.T) {
	root := parse(t, "def f(a, b):\n    return a\n")
	rewrite.New().Rewrite(root, "k3")

	funcDef := root.Children[1] // [before, def, after]
	require.Equal(t, lang.NodeFunctionDef, funcDef.Type)

	lang.Walk(funcDef, func(n *lang.Node) bool {
		if n.Type == lang.NodeParameter {
			require.NotEqual(t, lang.NodeMarkerCall, n.Parent.Type)
		}
		return true
	})
}
