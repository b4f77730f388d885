package relate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/viant/pytracer/lang"
	"github.com/viant/pytracer/relate"
)

func parse(t *testing.T, src string) *lang.Node {
	t.Helper()
	root, err := lang.NewParser().Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	return root
}

func TestAnalyze_SubscriptKeyAccess(t *testing.T) {
	root := parse(t, "arr = [1, 2, 3]\nfor i in range(3):\n    x = arr[i]\n")
	rels := relate.Analyze(root, nil)

	found := false
	for _, r := range rels {
		if r.Container == "arr" && r.Cursor == "i" && r.Type == relate.KeyAccess {
			found = true
		}
	}
	require.True(t, found)
}

func TestAnalyze_MembershipTest(t *testing.T) {
	root := parse(t, "seen = set()\nif x in seen:\n    pass\n")
	rels := relate.Analyze(root, nil)

	found := false
	for _, r := range rels {
		if r.Type == relate.MembershipTest && r.Container == "seen" && r.Cursor == "x" {
			found = true
		}
	}
	require.True(t, found)
}

func TestAnalyze_PlainForLoopEmitsValueIndex(t *testing.T) {
	root := parse(t, "nums = [1, 2, 3]\nfor v in nums:\n    print(v)\n")
	rels := relate.Analyze(root, nil)

	require.Contains(t, rels, relate.Relationship{Container: "nums", Cursor: "v", Type: relate.ValueIndex, NodeID: forNodeID(root)})
}

func TestAnalyze_RangeLenEmitsKeyIndex(t *testing.T) {
	root := parse(t, "nums = [1, 2, 3]\nfor i in range(len(nums)):\n    print(nums[i])\n")
	rels := relate.Analyze(root, nil)

	found := false
	for _, r := range rels {
		if r.Container == "nums" && r.Cursor == "i" && r.Type == relate.KeyIndex {
			found = true
		}
	}
	require.True(t, found)
}

func TestAnalyze_EnumerateEmitsKeyAndValueIndex(t *testing.T) {
	root := parse(t, "nums = [1, 2, 3]\ntarget = 5\nnum_to_index = {}\nfor i, num in enumerate(nums):\n    pass\n")
	rels := relate.Analyze(root, nil)

	require.Contains(t, rels, relate.Relationship{Container: "nums", Cursor: "i", Type: relate.KeyIndex, NodeID: forNodeID(root)})
	require.Contains(t, rels, relate.Relationship{Container: "nums", Cursor: "num", Type: relate.ValueIndex, NodeID: forNodeID(root)})
}

func TestAnalyze_ZipEmitsValueIndexPerIterable(t *testing.T) {
	root := parse(t, "xs = [1]\nys = [2]\nfor a, b in zip(xs, ys):\n    pass\n")
	rels := relate.Analyze(root, nil)

	require.Contains(t, rels, relate.Relationship{Container: "xs", Cursor: "a", Type: relate.ValueIndex, NodeID: forNodeID(root)})
	require.Contains(t, rels, relate.Relationship{Container: "ys", Cursor: "b", Type: relate.ValueIndex, NodeID: forNodeID(root)})
}

func TestAnalyze_ReversedEmitsValueIndex(t *testing.T) {
	root := parse(t, "nums = [1, 2, 3]\nfor v in reversed(nums):\n    print(v)\n")
	rels := relate.Analyze(root, nil)

	require.Contains(t, rels, relate.Relationship{Container: "nums", Cursor: "v", Type: relate.ValueIndex, NodeID: forNodeID(root)})
}

// forNodeID returns the NodeID the single for-statement in root carries,
// so test expectations don't have to hardcode it. Node IDs come from
// rewrite, not parsing, and these trees are never rewritten, so the For
// node's ID, and with it every edge's NodeID here, is 0.
func forNodeID(root *lang.Node) int {
	var id int
	lang.Walk(root, func(n *lang.Node) bool {
		if n.Type == lang.NodeFor {
			id = n.ID
		}
		return true
	})
	return id
}

func TestAnalyze_ManualRelationshipsGetNegativeIDs(t *testing.T) {
	root := parse(t, "x = 1\n")
	rels := relate.Analyze(root, []relate.ManualRelationship{
		{Container: "a", Cursor: "b", Type: relate.KeyAccess},
	})
	require.Len(t, rels, 1)
	require.Negative(t, rels[0].NodeID)
}
