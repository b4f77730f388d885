// Package assemble is the Trace Assembler: it turns the flat sequence of
// recorded Steps into line-grouped TraceLineEntry values, each carrying its
// locals as a delta against the previous group (its var_table and
// object_table are the group's full final state), plus the synthetic trailing
// entry spec.md's presentation quirk calls for.
package assemble

import (
	"github.com/sirupsen/logrus"

	"github.com/viant/pytracer/artifact"
	"github.com/viant/pytracer/record"
	"github.com/viant/pytracer/runtime"
	"github.com/viant/pytracer/serialize"
)

// Assemble groups steps by source line (a new group starts whenever the
// line number changes, or whenever a before-statement event fires even on
// the same line as the previous group — a statement boundary is always a
// new group) and returns the compressed trace.
func Assemble(log *logrus.Logger, steps []record.Step) []artifact.TraceLineEntry {
	groups := groupSteps(steps)

	entries := make([]artifact.TraceLineEntry, 0, len(groups))
	var prevLocals map[string]serialize.Value

	for _, g := range groups {
		entry := buildEntry(g, prevLocals)
		entries = append(entries, entry)
		prevLocals = fullLocals(g)
	}

	entries = appendSyntheticTrailing(entries, groups)

	if log != nil {
		log.WithFields(logrus.Fields{
			"step_count":  len(steps),
			"line_groups": len(groups),
		}).Debug("assembled trace")
	}

	return entries
}

// stepGroup is every Step belonging to one TraceLineEntry.
type stepGroup struct {
	line  int
	steps []record.Step
}

func groupSteps(steps []record.Step) []stepGroup {
	var groups []stepGroup
	for _, s := range steps {
		newGroup := len(groups) == 0 ||
			groups[len(groups)-1].line != s.Line ||
			s.Event == record.BeforeStatement
		if newGroup {
			groups = append(groups, stepGroup{line: s.Line})
		}
		cur := &groups[len(groups)-1]
		cur.steps = append(cur.steps, s)
	}
	return groups
}

// fullLocals returns the group's final (last step's) locals, serialized.
func fullLocals(g stepGroup) map[string]serialize.Value {
	if len(g.steps) == 0 {
		return nil
	}
	last := g.steps[len(g.steps)-1]
	return serializeRuntimeLocals(last.Locals)
}

func serializeRuntimeLocals(locals map[string]runtime.Value) map[string]serialize.Value {
	if locals == nil {
		return nil
	}
	out := make(map[string]serialize.Value, len(locals))
	for k, v := range locals {
		out[k] = serialize.SerializeValue(v)
	}
	return out
}

func serializeObjectTable(table map[runtime.ObjectID]record.ObjectEntry) map[string]artifact.ObjectTableEntry {
	if table == nil {
		return nil
	}
	out := make(map[string]artifact.ObjectTableEntry, len(table))
	for id, e := range table {
		out[objectIDKey(id)] = artifact.ObjectTableEntry{
			Kind:         e.Kind,
			ClassName:    e.ClassName,
			IsCollection: e.IsCollection,
			Value:        e.Value,
		}
	}
	return out
}

// varTable maps each live variable name to the identity of its bound
// object: reference-typed values resolve to their object-table key,
// primitives (which have no identity of their own) fall back to their own
// serialized value, matching the Var table's "name -> object identity"
// description for the values that have one.
func varTable(locals map[string]runtime.Value) map[string]serialize.Value {
	if locals == nil {
		return nil
	}
	out := make(map[string]serialize.Value, len(locals))
	for k, v := range locals {
		if id, ok := v.(runtime.Identified); ok {
			out[k] = objectIDKey(id.Identity())
			continue
		}
		out[k] = serialize.SerializeValue(v)
	}
	return out
}

func objectIDKey(id runtime.ObjectID) string {
	const digits = "0123456789"
	n := uint64(id)
	if n == 0 {
		return "0"
	}
	var buf []byte
	for n > 0 {
		buf = append([]byte{digits[n%10]}, buf...)
		n /= 10
	}
	return string(buf)
}

func buildEntry(g stepGroup, prevLocals map[string]serialize.Value) artifact.TraceLineEntry {
	if len(g.steps) == 0 {
		return artifact.TraceLineEntry{Line: g.line}
	}
	last := g.steps[len(g.steps)-1]
	groupLocals := serializeRuntimeLocals(last.Locals)
	groupVarTable := varTable(last.Locals)
	groupObjects := serializeObjectTable(last.ObjectTable)

	entry := artifact.TraceLineEntry{
		Line:        g.line,
		VarTable:    groupVarTable,
		ObjectTable: groupObjects,
	}

	if d := serialize.Delta(anyMap(prevLocals), anyMap(groupLocals)); d != nil {
		if dm, ok := d.(map[string]serialize.Value); ok {
			entry.Locals = dm
		} else {
			entry.Locals = groupLocals
		}
	}

	entry.Steps = make([]artifact.Step, len(g.steps))
	for i, s := range g.steps {
		stepLocals := serializeRuntimeLocals(s.Locals)
		step := artifact.Step{
			NodeID: s.NodeID,
			Event:  string(s.Event),
			Line:   s.Line,
		}
		if s.Value != nil {
			step.Value = serialize.SerializeValue(s.Value)
		}
		step.Test = s.Test
		if !mapsEqual(stepLocals, groupLocals) {
			step.Locals = stepLocals
			step.VarTable = varTable(s.Locals)
			step.ObjectTable = serializeObjectTable(s.ObjectTable)
		}
		entry.Steps[i] = step
	}

	return entry
}

func anyMap(m map[string]serialize.Value) serialize.Value {
	if m == nil {
		return nil
	}
	return m
}

// mapsEqual compares two locals snapshots structurally: SerializeValue
// represents lists/sets/tuples as []Value and dicts as map[string]Value,
// and Go's == panics comparing two values holding either dynamic type, so
// this defers to serialize.DeepEqual rather than a bare ==.
func mapsEqual(a, b map[string]serialize.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		bv, ok := b[k]
		if !ok || !serialize.DeepEqual(v, bv) {
			return false
		}
	}
	return true
}

// appendSyntheticTrailing implements the spec's documented quirk: when the
// last group's final locals differ from the locals its first step recorded
// (the last line changed program state), a trailing entry is appended whose steps slice reuses
// the last real entry's first step verbatim. This is presentation-only —
// it exists so the visualizer always has a final frame to land on — and is
// not re-derived from fresh interpreter state.
func appendSyntheticTrailing(entries []artifact.TraceLineEntry, groups []stepGroup) []artifact.TraceLineEntry {
	if len(entries) == 0 {
		return entries
	}
	last := entries[len(entries)-1]
	if len(last.Steps) == 0 {
		return entries
	}
	lastGroup := groups[len(groups)-1]
	if mapsEqual(serializeRuntimeLocals(lastGroup.steps[0].Locals), fullLocals(lastGroup)) {
		return entries
	}
	trailing := artifact.TraceLineEntry{
		Line:  last.Line,
		Steps: []artifact.Step{last.Steps[0]},
	}
	return append(entries, trailing)
}
