package record_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/viant/pytracer/record"
	"github.com/viant/pytracer/runtime"
)

func TestRecorder_SkipsCallableValues(t *testing.T) {
	r := record.New(0)
	env := runtime.NewEnv(nil)

	r.AfterExpression(1, runtime.Int(5), env, 1, false)
	r.AfterExpression(2, &runtime.Function{Name: "f"}, env, 1, false)

	steps := r.Steps()
	require.Len(t, steps, 1)
	require.Equal(t, 1, steps[0].NodeID)
}

func TestRecorder_RecordsTestCoercion(t *testing.T) {
	r := record.New(0)
	env := runtime.NewEnv(nil)

	r.AfterExpression(1, runtime.Int(0), env, 1, true)
	r.AfterExpression(2, runtime.Int(5), env, 1, false)

	steps := r.Steps()
	require.Len(t, steps, 2)
	require.NotNil(t, steps[0].Test)
	require.False(t, *steps[0].Test)
	require.Nil(t, steps[1].Test)
}

func TestRecorder_RespectsMaxSteps(t *testing.T) {
	r := record.New(2)
	env := runtime.NewEnv(nil)

	for i := 0; i < 5; i++ {
		r.BeforeStatement(i, env, 1)
	}
	require.Len(t, r.Steps(), 2)
}

func TestRecorder_Reset(t *testing.T) {
	r := record.New(0)
	env := runtime.NewEnv(nil)
	r.BeforeStatement(1, env, 1)
	require.Len(t, r.Steps(), 1)
	r.Reset()
	require.Empty(t, r.Steps())
}

func TestBuildObjectTable_CycleSafe(t *testing.T) {
	env := runtime.NewEnv(nil)
	list := runtime.NewList()
	list.Items = append(list.Items, list) // self-reference
	env.SetLocal("x", list)

	r := record.New(0)
	r.BeforeStatement(1, env, 1)
	require.Len(t, r.Steps(), 1)
	require.Len(t, r.Steps()[0].ObjectTable, 1)
}
