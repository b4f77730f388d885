package record

import (
	"github.com/viant/pytracer/runtime"
	"github.com/viant/pytracer/serialize"
)

// buildObjectTable performs a cycle-safe recursive (depth-first) walk over every reference value
// reachable from locals, keyed by runtime identity — the Go analogue of
// _build_object_table in the source tracer, which walks CPython's object
// graph from frame.f_locals the same way.
func buildObjectTable(locals map[string]runtime.Value) map[runtime.ObjectID]ObjectEntry {
	table := make(map[runtime.ObjectID]ObjectEntry)
	visited := make(map[runtime.ObjectID]bool)

	var visit func(v runtime.Value)
	visit = func(v runtime.Value) {
		id, ok := v.(runtime.Identified)
		if !ok {
			return
		}
		oid := id.Identity()
		if visited[oid] {
			return
		}
		visited[oid] = true

		switch t := v.(type) {
		case *runtime.List:
			table[oid] = ObjectEntry{ID: oid, Kind: "sequence", IsCollection: true, Value: itemList(t.Items)}
			for _, item := range t.Items {
				visit(item)
			}
		case *runtime.Tuple:
			table[oid] = ObjectEntry{ID: oid, Kind: "sequence", IsCollection: true, Value: itemList(t.Items)}
			for _, item := range t.Items {
				visit(item)
			}
		case *runtime.Dict:
			table[oid] = ObjectEntry{ID: oid, Kind: "mapping", IsCollection: true, Value: itemDict(t)}
			for _, e := range t.Entries {
				visit(e.Key)
				visit(e.Val)
			}
		case *runtime.Set:
			items := t.Items()
			table[oid] = ObjectEntry{ID: oid, Kind: "set", IsCollection: true, Value: itemList(items)}
			for _, item := range items {
				visit(item)
			}
		case *runtime.Instance:
			table[oid] = ObjectEntry{ID: oid, Kind: "custom-record", ClassName: t.Class.Name, Value: itemFields(t)}
			for _, e := range t.Fields.Entries {
				visit(e.Val)
			}
		default:
			table[oid] = ObjectEntry{ID: oid, Kind: "primitive", Value: serialize.SerializeValue(v)}
		}
	}

	for _, v := range locals {
		visit(v)
	}
	return table
}

// objectItem is a collection's per-child body entry: a nested reference
// value is recorded as its ObjectID (an alias pointer for the visualizer
// to follow into the same table), a primitive is recorded as its own
// serialized value inline, matching "value" in the Object Table Entry
// description.
func objectItem(v runtime.Value) interface{} {
	if id, ok := v.(runtime.Identified); ok {
		return id.Identity()
	}
	return serialize.SerializeValue(v)
}

func itemList(items []runtime.Value) []interface{} {
	out := make([]interface{}, len(items))
	for i, v := range items {
		out[i] = objectItem(v)
	}
	return out
}

func itemDict(d *runtime.Dict) map[string]interface{} {
	out := make(map[string]interface{}, len(d.Entries))
	for _, e := range d.Entries {
		out[serialize.DictKeyString(e.Key)] = objectItem(e.Val)
	}
	return out
}

func itemFields(t *runtime.Instance) map[string]interface{} {
	out := make(map[string]interface{}, len(t.Fields.Entries))
	for _, e := range t.Fields.Entries {
		out[serialize.DictKeyString(e.Key)] = objectItem(e.Val)
	}
	return out
}

// snapshotLocals makes a shallow copy of env.Locals() so a later mutation
// of the live scope (e.g. the next statement reassigning a variable)
// doesn't retroactively change a Step already recorded — Values
// referenced by the copy are still the live pointers for reference types,
// which is exactly right: identity, not a deep copy, is what the object
// table is keyed on.
func snapshotLocals(locals map[string]runtime.Value) map[string]runtime.Value {
	out := make(map[string]runtime.Value, len(locals))
	for k, v := range locals {
		out[k] = v
	}
	return out
}
