package runtime

import (
	"fmt"
	"strconv"
	"strings"
)

// displayString implements Python's str()/print() rendering for a Value.
// This is deliberately separate from serialize.FormatNicely: that formatter
// renders values that have already been turned into JSON-shaped trace data
// (and handles object-identity short hashes, class/function naming, …);
// displayString only needs to match what a running program would print to
// stdout.
func displayString(v Value) string {
	switch t := v.(type) {
	case Bool:
		if t {
			return "True"
		}
		return "False"
	case NilVal:
		return "None"
	case Int:
		return strconv.FormatInt(int64(t), 10)
	case Float:
		return formatFloat(float64(t))
	case Str:
		return string(t)
	case *List:
		return "[" + joinRepr(t.Items) + "]"
	case *Tuple:
		if len(t.Items) == 1 {
			return "(" + reprString(t.Items[0]) + ",)"
		}
		return "(" + joinRepr(t.Items) + ")"
	case *Dict:
		parts := make([]string, len(t.Entries))
		for i, e := range t.Entries {
			parts[i] = reprString(e.Key) + ": " + reprString(e.Val)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *Set:
		return "{" + joinRepr(t.Items()) + "}"
	case *Range:
		return fmt.Sprintf("range(%d, %d, %d)", t.Start, t.Stop, t.Step)
	case *Function:
		return fmt.Sprintf("<function %s>", t.Name)
	case *Builtin:
		return fmt.Sprintf("<built-in function %s>", t.Name)
	case *BoundMethod:
		return fmt.Sprintf("<bound method %s.%s>", t.Receiver.Class.Name, t.Func.Name)
	case *Class:
		return fmt.Sprintf("<class '%s'>", t.Name)
	case *Instance:
		return fmt.Sprintf("<%s object>", t.Class.Name)
	}
	return fmt.Sprintf("%v", v)
}

func reprString(v Value) string {
	if s, ok := v.(Str); ok {
		return "'" + string(s) + "'"
	}
	return displayString(v)
}

func joinRepr(items []Value) string {
	parts := make([]string, len(items))
	for i, v := range items {
		parts[i] = reprString(v)
	}
	return strings.Join(parts, ", ")
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
