package validate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/viant/pytracer/artifact"
	"github.com/viant/pytracer/lang"
	"github.com/viant/pytracer/rewrite"
	"github.com/viant/pytracer/validate"
)

func parse(t *testing.T, src string) *lang.Node {
	t.Helper()
	root, err := lang.NewParser().Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	return root
}

func TestValidateTree_NoConflictsOnFreshTree(t *testing.T) {
	root := parse(t, "x = 1\ny = x + 2\n")
	rewrite.New().Rewrite(root, "validate-clean")

	report := validate.ValidateTree(root)
	require.True(t, report.OK)
	require.Empty(t, report.Conflicts)
}

func TestValidateTree_DetectsIDConflict(t *testing.T) {
	root := parse(t, "x = 1\n")
	rewrite.New().Rewrite(root, "validate-conflict")

	// force a conflict: reuse the module's own ID on one of its children
	root.Children[1].ID = root.ID

	report := validate.ValidateTree(root)
	require.False(t, report.OK)
	require.NotEmpty(t, report.Conflicts)
}

func TestValidateTrace_FlagsUnknownNodeID(t *testing.T) {
	root := parse(t, "x = 1\n")
	rewrite.New().Rewrite(root, "validate-trace")

	art := &artifact.Artifact{
		Trace: []artifact.TraceLineEntry{
			{Line: 1, Steps: []artifact.Step{{NodeID: 999999, Event: "after-statement", Line: 1}}},
		},
	}

	report := validate.ValidateTrace(root, art)
	require.False(t, report.OK)
	require.Contains(t, report.UnknownNodeIDs, 999999)
}
