package runtime_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/viant/pytracer/lang"
	"github.com/viant/pytracer/record"
	"github.com/viant/pytracer/rewrite"
	"github.com/viant/pytracer/runtime"
)

// run parses, rewrites and executes src the same way tracer.Tracer.Run
// does, returning the recorder's steps and whatever the program wrote to
// stdout, for tests that need interpreter-level behavior without the rest
// of the assembly pipeline.
func run(t *testing.T, src string) (*record.Recorder, string, error) {
	t.Helper()
	root, err := lang.NewParser().Parse(context.Background(), []byte(src))
	require.NoError(t, err)

	rewritten := rewrite.New().Rewrite(root, t.Name())

	rec := record.New(0)
	var stdout bytes.Buffer
	interp := runtime.NewInterp(rec, &stdout, 0)

	_, rerr := interp.Run(context.Background(), rewritten, "", nil)
	return rec, stdout.String(), rerr
}

func TestInterp_FStringInterpolatesExpression(t *testing.T) {
	_, stdout, err := run(t, "name = \"world\"\nprint(f\"hi {name}\")\n")
	require.NoError(t, err)
	require.Equal(t, "hi world\n", stdout)
}

func TestInterp_FStringWithMultiplePlaceholders(t *testing.T) {
	_, stdout, err := run(t, "a = 1\nb = 2\nprint(f\"{a}+{b}={a + b}\")\n")
	require.NoError(t, err)
	require.Equal(t, "1+2=3\n", stdout)
}

func TestInterp_PlainStringIsNotInterpolated(t *testing.T) {
	_, stdout, err := run(t, "name = \"world\"\nprint(\"hi {name}\")\n")
	require.NoError(t, err)
	require.Equal(t, "hi {name}\n", stdout)
}

func TestInterp_WhileConditionRecordsTestCoercion(t *testing.T) {
	rec, _, err := run(t, "i = 0\nwhile i < 3:\n    i = i + 1\n")
	require.NoError(t, err)

	var testSteps []bool
	for _, s := range rec.Steps() {
		if s.Test != nil {
			testSteps = append(testSteps, *s.Test)
		}
	}
	// three truthy passes through the loop head, then the falsy exit check.
	require.Equal(t, []bool{true, true, true, false}, testSteps)
}

func TestInterp_IfConditionRecordsTestCoercion(t *testing.T) {
	rec, _, err := run(t, "x = 0\nif x:\n    y = 1\nelse:\n    y = 2\n")
	require.NoError(t, err)

	found := false
	for _, s := range rec.Steps() {
		if s.Test != nil {
			found = true
			require.False(t, *s.Test)
		}
	}
	require.True(t, found)
}

func TestInterp_NonTestExpressionHasNoTestFlag(t *testing.T) {
	rec, _, err := run(t, "x = 1 + 2\n")
	require.NoError(t, err)

	for _, s := range rec.Steps() {
		require.Nil(t, s.Test)
	}
}

func TestInterp_DivisionByZeroRaises(t *testing.T) {
	_, _, err := run(t, "x = 1 / 0\n")
	require.Error(t, err)
}
