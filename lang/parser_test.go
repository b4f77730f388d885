package lang_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/viant/pytracer/lang"
)

func TestParse_SimpleAssignment(t *testing.T) {
	src := []byte("x = 1\ny = x + 2\n")
	root, err := lang.NewParser().Parse(context.Background(), src)
	require.NoError(t, err)
	require.Equal(t, lang.NodeModule, root.Type)
	require.Len(t, root.Children, 2)

	first := root.Children[0]
	require.Equal(t, lang.NodeExprStatement, first.Type)
	assign := first.Children[0]
	require.Equal(t, lang.NodeAssign, assign.Type)
}

func TestParse_ForLoop(t *testing.T) {
	src := []byte("for i in range(10):\n    print(i)\n")
	root, err := lang.NewParser().Parse(context.Background(), src)
	require.NoError(t, err)

	forNode := lang.Find(root, func(n *lang.Node) bool { return n.Type == lang.NodeFor })
	require.NotNil(t, forNode)

	call := lang.Find(root, func(n *lang.Node) bool { return n.Type == lang.NodeCall })
	require.NotNil(t, call)
}

func TestParse_FStringProducesJoinedStr(t *testing.T) {
	src := []byte("name = \"x\"\ngreeting = f\"hi {name}\"\n")
	root, err := lang.NewParser().Parse(context.Background(), src)
	require.NoError(t, err)

	joined := lang.Find(root, func(n *lang.Node) bool { return n.Type == lang.NodeJoinedStr })
	require.NotNil(t, joined)

	formatted := lang.Find(joined, func(n *lang.Node) bool { return n.Type == lang.NodeFormattedValue })
	require.NotNil(t, formatted)
}

func TestParse_PlainStringStaysConstant(t *testing.T) {
	src := []byte("s = \"hi\"\n")
	root, err := lang.NewParser().Parse(context.Background(), src)
	require.NoError(t, err)

	joined := lang.Find(root, func(n *lang.Node) bool { return n.Type == lang.NodeJoinedStr })
	require.Nil(t, joined)

	constant := lang.Find(root, func(n *lang.Node) bool { return n.Type == lang.NodeConstant })
	require.NotNil(t, constant)
}

func TestParse_SyntaxError(t *testing.T) {
	src := []byte("def f(:\n")
	_, err := lang.NewParser().Parse(context.Background(), src)
	require.Error(t, err)
}
