package record_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/viant/pytracer/record"
	"github.com/viant/pytracer/runtime"
)

func TestBuildObjectTable_ListEntryCarriesValue(t *testing.T) {
	env := runtime.NewEnv(nil)
	list := runtime.NewList(runtime.Int(1), runtime.Int(2), runtime.Int(3))
	env.SetLocal("nums", list)

	r := record.New(0)
	r.BeforeStatement(1, env, 1)

	steps := r.Steps()
	require.Len(t, steps, 1)

	entry, ok := steps[0].ObjectTable[list.Identity()]
	require.True(t, ok)
	require.Equal(t, "sequence", entry.Kind)
	require.True(t, entry.IsCollection)
	require.Equal(t, []interface{}{int64(1), int64(2), int64(3)}, entry.Value)
}

func TestBuildObjectTable_NestedListRecordsChildIdentity(t *testing.T) {
	env := runtime.NewEnv(nil)
	inner := runtime.NewList(runtime.Int(1))
	outer := runtime.NewList(inner)
	env.SetLocal("outer", outer)

	r := record.New(0)
	r.BeforeStatement(1, env, 1)

	entry := r.Steps()[0].ObjectTable[outer.Identity()]
	items, ok := entry.Value.([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)
	// a reference-typed child is recorded as its object identity, not a
	// nested copy of its serialized value, so the visualizer can follow it
	// into the same table instead of seeing a second instance.
	require.Equal(t, inner.Identity(), items[0])
}

func TestBuildObjectTable_DictEntryCarriesKeyedValue(t *testing.T) {
	env := runtime.NewEnv(nil)
	d := runtime.NewDict()
	d.Set(runtime.Str("a"), runtime.Int(1))
	env.SetLocal("d", d)

	r := record.New(0)
	r.BeforeStatement(1, env, 1)

	entry := r.Steps()[0].ObjectTable[d.Identity()]
	require.Equal(t, "mapping", entry.Kind)
	body, ok := entry.Value.(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, int64(1), body["a"])
}

func TestBuildObjectTable_PrimitiveChildCarriedInlineInListEntry(t *testing.T) {
	env := runtime.NewEnv(nil)
	list := runtime.NewList(runtime.Int(7))
	env.SetLocal("nums", list)

	r := record.New(0)
	r.BeforeStatement(1, env, 1)

	// primitives reachable only as dict/list/instance children get no
	// object-table row of their own: having no identity, they are
	// serialized inline in their container's row.
	table := r.Steps()[0].ObjectTable
	require.Len(t, table, 1)
	entry := table[list.Identity()]
	require.Equal(t, []interface{}{int64(7)}, entry.Value)
}
