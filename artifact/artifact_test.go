package artifact_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/viant/pytracer/artifact"
	"github.com/viant/pytracer/lang"
	"github.com/viant/pytracer/rewrite"
)

func TestFromNode_DropsMarkerWrappers(t *testing.T) {
	root, err := lang.NewParser().Parse(context.Background(), []byte("x = 1 + 2\n"))
	require.NoError(t, err)
	rewrite.New().Rewrite(root, "from-node-test")

	projected := artifact.FromNode(root)

	var sawMarker func(n artifact.SourceNode) bool
	sawMarker = func(n artifact.SourceNode) bool {
		if n.Type == string(lang.NodeMarkerCall) {
			return true
		}
		for _, c := range n.Children {
			if sawMarker(c) {
				return true
			}
		}
		return false
	}
	require.False(t, sawMarker(projected), "FromNode must unwrap every marker node")
}

func TestToNode_RoundTripsFromNode(t *testing.T) {
	root, err := lang.NewParser().Parse(context.Background(), []byte("x = 1\ny = x + 2\n"))
	require.NoError(t, err)

	projected := artifact.FromNode(root)
	rebuilt := artifact.ToNode(projected)

	require.Equal(t, root.ID, rebuilt.ID)
	require.Equal(t, root.Type, rebuilt.Type)
	require.Equal(t, len(root.Children), len(rebuilt.Children))
}
