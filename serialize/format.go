package serialize

import (
	"encoding/binary"
	"fmt"

	"github.com/minio/highwayhash"
	"github.com/viant/pytracer/runtime"
)

// hashKey is a fixed 32-byte highwayhash key, the same role
// inspector/graph/hash.go's fixed key plays for the teacher's structural
// hashing — it only needs to make the short suffix stable within a
// process, not to resist an adversary.
var hashKey = mustKey("pytracer-object-identity-hash-key-32b!!")

func mustKey(s string) []byte {
	b := make([]byte, 32)
	copy(b, s)
	return b
}

// FormatNicely renders a Value that has no direct JSON shape as a short,
// human-readable string, mirroring format_object_nicely: classes, builtin
// functions, bound/free methods, lazily-materialized enumerations, range
// objects, and user-object instances each get their own recognizable form.
func FormatNicely(v runtime.Value) string {
	switch t := v.(type) {
	case *runtime.Class:
		return fmt.Sprintf("<class '%s'>", t.Name)
	case *runtime.Builtin:
		return fmt.Sprintf("<built-in function %s>", t.Name)
	case *runtime.BoundMethod:
		return fmt.Sprintf("%s.%s()", t.Receiver.Class.Name, t.Func.Name)
	case *runtime.Function:
		return fmt.Sprintf("%s()", t.Name)
	case *runtime.Enumerate:
		return formatMaterializedEnumerate(t)
	case *runtime.Range:
		return formatRange(t)
	case *runtime.Instance:
		return fmt.Sprintf("%s#%s", t.Class.Name, shortHash(t.Identity()))
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatMaterializedEnumerate(e *runtime.Enumerate) string {
	items := e.Materialize()
	out := "["
	for i, it := range items {
		if i > 0 {
			out += ", "
		}
		tup := it.(*runtime.Tuple)
		out += fmt.Sprintf("(%v, %v)", SerializeValue(tup.Items[0]), SerializeValue(tup.Items[1]))
	}
	return out + "]"
}

// formatRange renders range(stop), range(start, stop) or range(start,
// stop, step) depending on which parameters are non-default — start
// defaults to 0, step defaults to 1.
func formatRange(r *runtime.Range) string {
	if r.Start == 0 && r.Step == 1 {
		return fmt.Sprintf("range(%d)", r.Stop)
	}
	if r.Step == 1 {
		return fmt.Sprintf("range(%d, %d)", r.Start, r.Stop)
	}
	return fmt.Sprintf("range(%d, %d, %d)", r.Start, r.Stop, r.Step)
}

// shortHash returns the last 4 hex digits of a highwayhash digest of id,
// pytracer's stable substitute for the trailing hex digits of id(obj) in
// the original formatter — an 8-byte identity has no memory address to
// show, but a stable per-run suffix serves the same "tell two instances of
// the same class apart" purpose.
func shortHash(id runtime.ObjectID) string {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(id))
	sum := highwayhash.Sum64(buf[:], hashKey)
	hex := fmt.Sprintf("%016x", sum)
	return hex[len(hex)-4:]
}
