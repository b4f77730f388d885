package serialize_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/viant/pytracer/runtime"
	"github.com/viant/pytracer/serialize"
)

func TestSerializeValue_Primitives(t *testing.T) {
	require.Equal(t, int64(5), serialize.SerializeValue(runtime.Int(5)))
	require.Equal(t, true, serialize.SerializeValue(runtime.Bool(true)))
	require.Equal(t, "hi", serialize.SerializeValue(runtime.Str("hi")))
	require.Nil(t, serialize.SerializeValue(runtime.Nil))
}

func TestSerializeValue_NonFiniteFloats(t *testing.T) {
	require.Equal(t, "Infinity", serialize.SerializeValue(runtime.Float(math.Inf(1))))
	require.Equal(t, "-Infinity", serialize.SerializeValue(runtime.Float(math.Inf(-1))))
	require.Equal(t, "NaN", serialize.SerializeValue(runtime.Float(math.NaN())))
}

func TestSerializeValue_List(t *testing.T) {
	l := runtime.NewList(runtime.Int(1), runtime.Int(2))
	got := serialize.SerializeValue(l)
	require.Equal(t, []serialize.Value{int64(1), int64(2)}, got)
}

func TestSerializeValue_Dict(t *testing.T) {
	d := runtime.NewDict()
	d.Set(runtime.Str("a"), runtime.Int(1))
	got := serialize.SerializeValue(d)
	require.Equal(t, map[string]serialize.Value{"a": int64(1)}, got)
}

func TestFormatNicely_Instance(t *testing.T) {
	cls := &runtime.Class{Name: "Point", Methods: map[string]*runtime.Function{}}
	inst := &runtime.Instance{Class: cls, Fields: runtime.NewDict()}
	got := serialize.FormatNicely(inst)
	require.Regexp(t, `^Point#[0-9a-f]{4}$`, got)
}

func TestFormatNicely_Range(t *testing.T) {
	require.Equal(t, "range(5)", serialize.FormatNicely(runtime.NewRange(0, 5, 1)))
	require.Equal(t, "range(1, 5)", serialize.FormatNicely(runtime.NewRange(1, 5, 1)))
	require.Equal(t, "range(0, 10, 2)", serialize.FormatNicely(runtime.NewRange(0, 10, 2)))
}

func TestDelta_DictChangedKeyOnly(t *testing.T) {
	prev := map[string]serialize.Value{"a": int64(1), "b": int64(2)}
	curr := map[string]serialize.Value{"a": int64(1), "b": int64(3)}
	got := serialize.Delta(prev, curr)
	require.Equal(t, map[string]serialize.Value{"b": int64(3)}, got)
}

func TestDelta_ListExtension(t *testing.T) {
	prev := []serialize.Value{int64(1)}
	curr := []serialize.Value{int64(1), int64(2)}
	got := serialize.Delta(prev, curr)
	require.Equal(t, map[string]serialize.Value{"1": int64(2)}, got)
}
