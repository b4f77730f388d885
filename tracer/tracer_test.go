package tracer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/viant/pytracer/tracer"
)

func TestTracer_Run_SimpleAssignment(t *testing.T) {
	tr := tracer.New(tracer.WithMaxSteps(1000))
	src := []byte("x = 1\ny = x + 2\nprint(y)\n")

	art, err := tr.Run(context.Background(), src, "simple-assign", "", nil, nil)
	require.NoError(t, err)
	require.NotNil(t, art)
	require.NotEmpty(t, art.Trace)
	require.Equal(t, "simple-assign", art.Metadata.ProblemKey)
}

func TestTracer_Run_ServerModeSwallowsParseError(t *testing.T) {
	tr := tracer.New(tracer.WithServerMode(true))
	art, err := tr.Run(context.Background(), []byte("def (:\n"), "broken", "", nil, nil)
	require.NoError(t, err)
	require.NotNil(t, art)
}

func TestTracer_Run_StrictModePropagatesParseError(t *testing.T) {
	tr := tracer.New()
	art, err := tr.Run(context.Background(), []byte("def (:\n"), "broken", "", nil, nil)
	require.Error(t, err)
	require.Nil(t, art)
}

func TestTracer_Run_ServerModeClearsTraceOnRuntimeError(t *testing.T) {
	tr := tracer.New(tracer.WithServerMode(true))
	src := []byte("x = 1 / 0\n")

	art, err := tr.Run(context.Background(), src, "div-zero", "", nil, nil)
	require.NoError(t, err)
	require.NotNil(t, art)
	require.Empty(t, art.Trace)
	require.Empty(t, art.Stdout)
	require.NotEmpty(t, art.AST.Children)
}

func TestTracer_Run_StrictModePropagatesRuntimeError(t *testing.T) {
	tr := tracer.New()
	src := []byte("x = 1 / 0\n")

	art, err := tr.Run(context.Background(), src, "div-zero-strict", "", nil, nil)
	require.Error(t, err)
	require.Nil(t, art)
}

func TestTracer_Reset_RestartsNodeIDs(t *testing.T) {
	tr := tracer.New()
	src := []byte("x = 1\n")

	first, err := tr.Run(context.Background(), src, "same-key", "", nil, nil)
	require.NoError(t, err)

	tr.Reset()

	second, err := tr.Run(context.Background(), src, "same-key", "", nil, nil)
	require.NoError(t, err)

	require.Equal(t, first.AST.ID, second.AST.ID)
}
