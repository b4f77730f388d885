package assemble_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/viant/pytracer/assemble"
	"github.com/viant/pytracer/record"
	"github.com/viant/pytracer/runtime"
)

func TestAssemble_GroupsByLineAndStatementBoundary(t *testing.T) {
	steps := []record.Step{
		{NodeID: 1, Event: record.BeforeStatement, Line: 1, Locals: map[string]runtime.Value{}},
		{NodeID: 1, Event: record.AfterStatement, Line: 1, Locals: map[string]runtime.Value{"x": runtime.Int(1)}},
		{NodeID: 2, Event: record.BeforeStatement, Line: 2, Locals: map[string]runtime.Value{"x": runtime.Int(1)}},
		{NodeID: 2, Event: record.AfterStatement, Line: 2, Locals: map[string]runtime.Value{"x": runtime.Int(1), "y": runtime.Int(2)}},
	}

	entries := assemble.Assemble(nil, steps)
	// two real groups (one per line) plus the synthetic trailing entry
	require.Len(t, entries, 3)
	require.Equal(t, 1, entries[0].Line)
	require.Equal(t, 2, entries[1].Line)
}

func TestAssemble_EmptyInput(t *testing.T) {
	entries := assemble.Assemble(nil, nil)
	require.Empty(t, entries)
}
