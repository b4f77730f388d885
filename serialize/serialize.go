// Package serialize is the Value Serializer: it turns a runtime.Value into
// JSON-shaped data (bool/int64/float64/string/[]any/map[string]any/nil), the
// human-friendly short form format_object_nicely produces for anything
// without a direct JSON shape, and the structural delta between two
// serialized values.
package serialize

import (
	"fmt"
	"math"
	"sort"

	"github.com/viant/pytracer/runtime"
)

// Value mirrors SerializeValue's output: exactly the set of types
// encoding/json already knows how to marshal, so assemble/artifact never
// need a custom MarshalJSON.
type Value = interface{}

// SerializeValue converts v to its JSON-shaped form. Booleans, ints and
// strings pass through unchanged; floats that are not finite become the
// sentinel strings "Infinity"/"-Infinity"/"NaN" (JSON has no literal for
// them); sequences and sets become arrays; mappings become string-keyed
// objects (Python dict keys are coerced to their str() form, matching
// json.dumps's default key coercion); nil becomes JSON null; anything else
// falls back to FormatNicely.
func SerializeValue(v runtime.Value) Value {
	switch t := v.(type) {
	case nil:
		return nil
	case runtime.NilVal:
		return nil
	case runtime.Bool:
		return bool(t)
	case runtime.Int:
		return int64(t)
	case runtime.Float:
		f := float64(t)
		if math.IsInf(f, 1) {
			return "Infinity"
		}
		if math.IsInf(f, -1) {
			return "-Infinity"
		}
		if math.IsNaN(f) {
			return "NaN"
		}
		return f
	case runtime.Str:
		return string(t)
	case *runtime.List:
		return serializeSeq(t.Items)
	case *runtime.Tuple:
		return serializeSeq(t.Items)
	case *runtime.Set:
		return serializeSeq(sortedSetItems(t))
	case *runtime.Dict:
		return serializeDict(t)
	default:
		return FormatNicely(v)
	}
}

func serializeSeq(items []runtime.Value) []Value {
	out := make([]Value, len(items))
	for i, it := range items {
		out[i] = SerializeValue(it)
	}
	return out
}

func serializeDict(d *runtime.Dict) map[string]Value {
	out := make(map[string]Value, len(d.Entries))
	for _, e := range d.Entries {
		out[DictKeyString(e.Key)] = SerializeValue(e.Val)
	}
	return out
}

// DictKeyString coerces a Python dict key to its str() form, the same
// coercion json.dumps applies to non-string keys. Exported so callers
// outside this package (the object table's structural body) can key a
// mapping the same way a fully serialized dict would.
func DictKeyString(k runtime.Value) string {
	switch t := k.(type) {
	case runtime.Str:
		return string(t)
	case runtime.Int:
		return fmt.Sprintf("%d", int64(t))
	case runtime.Bool:
		return fmt.Sprintf("%v", bool(t))
	case runtime.Float:
		return fmt.Sprintf("%v", float64(t))
	default:
		return FormatNicely(k)
	}
}

// sortedSetItems gives set serialization a deterministic element order
// (spec.md §9's "ordering of set serialization" note): sort by each
// element's own serialized JSON representation's string form.
func sortedSetItems(s *runtime.Set) []runtime.Value {
	items := append([]runtime.Value{}, s.Items()...)
	sort.Slice(items, func(i, j int) bool {
		return fmt.Sprint(SerializeValue(items[i])) < fmt.Sprint(SerializeValue(items[j]))
	})
	return items
}
