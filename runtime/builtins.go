package runtime

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// builtins is the traced subset's builtin namespace. print writes to
// i.Stdout rather than os.Stdout so a strict-mode caller and a server-mode
// caller can each capture it independently per run.
var builtins map[string]*Builtin

func init() {
	builtins = map[string]*Builtin{
		"print":     {Name: "print", Call: biPrint},
		"len":       {Name: "len", Call: biLen},
		"range":     {Name: "range", Call: biRange},
		"enumerate": {Name: "enumerate", Call: biEnumerate},
		"str":       {Name: "str", Call: biStr},
		"int":       {Name: "int", Call: biInt},
		"float":     {Name: "float", Call: biFloat},
		"bool":      {Name: "bool", Call: biBool},
		"list":      {Name: "list", Call: biList},
		"dict":      {Name: "dict", Call: biDict},
		"set":       {Name: "set", Call: biSet},
		"tuple":     {Name: "tuple", Call: biTuple},
		"sum":       {Name: "sum", Call: biSum},
		"min":       {Name: "min", Call: biMin},
		"max":       {Name: "max", Call: biMax},
		"abs":       {Name: "abs", Call: biAbs},
		"sorted":    {Name: "sorted", Call: biSorted},
		"reversed":  {Name: "reversed", Call: biReversed},
		"zip":       {Name: "zip", Call: biZip},
	}
}

func biPrint(i *Interp, args []Value) (Value, error) {
	parts := make([]string, len(args))
	for idx, a := range args {
		parts[idx] = displayString(a)
	}
	fmt.Fprintln(i.Stdout, strings.Join(parts, " "))
	return Nil, nil
}

func biLen(_ *Interp, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("len() takes exactly one argument")
	}
	switch v := args[0].(type) {
	case *List:
		return Int(len(v.Items)), nil
	case *Tuple:
		return Int(len(v.Items)), nil
	case Str:
		return Int(len(v)), nil
	case *Dict:
		return Int(len(v.Entries)), nil
	case *Set:
		return Int(len(v.Items())), nil
	}
	return nil, fmt.Errorf("object of this type has no len()")
}

func biRange(_ *Interp, args []Value) (Value, error) {
	var start, stop, step int64 = 0, 0, 1
	switch len(args) {
	case 1:
		stop = int64(mustInt(args[0]))
	case 2:
		start = int64(mustInt(args[0]))
		stop = int64(mustInt(args[1]))
	case 3:
		start = int64(mustInt(args[0]))
		stop = int64(mustInt(args[1]))
		step = int64(mustInt(args[2]))
	default:
		return nil, fmt.Errorf("range expected 1 to 3 arguments, got %d", len(args))
	}
	return NewRange(start, stop, step), nil
}

func biEnumerate(_ *Interp, args []Value) (Value, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("enumerate() missing iterable")
	}
	start := int64(0)
	if len(args) > 1 {
		start = int64(mustInt(args[1]))
	}
	return &Enumerate{Seq: args[0], Start: start}, nil
}

func biStr(_ *Interp, args []Value) (Value, error) {
	if len(args) == 0 {
		return Str(""), nil
	}
	return Str(displayString(args[0])), nil
}

func biInt(_ *Interp, args []Value) (Value, error) {
	if len(args) == 0 {
		return Int(0), nil
	}
	switch v := args[0].(type) {
	case Int:
		return v, nil
	case Float:
		return Int(v), nil
	case Str:
		n, err := strconv.ParseInt(strings.TrimSpace(string(v)), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid literal for int(): %q", v)
		}
		return Int(n), nil
	case Bool:
		if v {
			return Int(1), nil
		}
		return Int(0), nil
	}
	return nil, fmt.Errorf("int() argument must be a string or a number")
}

func biFloat(_ *Interp, args []Value) (Value, error) {
	if len(args) == 0 {
		return Float(0), nil
	}
	if f, ok := asFloat(args[0]); ok {
		return Float(f), nil
	}
	if s, ok := args[0].(Str); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
		if err != nil {
			return nil, fmt.Errorf("could not convert string to float: %q", s)
		}
		return Float(f), nil
	}
	return nil, fmt.Errorf("float() argument must be a string or a number")
}

func biBool(_ *Interp, args []Value) (Value, error) {
	if len(args) == 0 {
		return Bool(false), nil
	}
	return Bool(Truthy(args[0])), nil
}

func biList(_ *Interp, args []Value) (Value, error) {
	if len(args) == 0 {
		return NewList(), nil
	}
	return NewList(iterate(args[0])...), nil
}

func biTuple(_ *Interp, args []Value) (Value, error) {
	if len(args) == 0 {
		return NewTuple(), nil
	}
	return NewTuple(iterate(args[0])...), nil
}

func biDict(_ *Interp, args []Value) (Value, error) {
	d := NewDict()
	if len(args) == 1 {
		for _, pair := range iterate(args[0]) {
			if t, ok := pair.(*Tuple); ok && len(t.Items) == 2 {
				d.Set(t.Items[0], t.Items[1])
			}
		}
	}
	return d, nil
}

func biSet(_ *Interp, args []Value) (Value, error) {
	s := NewSet()
	if len(args) == 1 {
		for _, v := range iterate(args[0]) {
			s.Add(v)
		}
	}
	return s, nil
}

func biSum(_ *Interp, args []Value) (Value, error) {
	if len(args) == 0 {
		return Int(0), nil
	}
	var total float64
	isFloat := false
	for _, v := range iterate(args[0]) {
		f, ok := asFloat(v)
		if !ok {
			return nil, fmt.Errorf("unsupported operand type for sum()")
		}
		if _, ok := v.(Float); ok {
			isFloat = true
		}
		total += f
	}
	if len(args) > 1 {
		if f, ok := asFloat(args[1]); ok {
			total += f
		}
	}
	if isFloat {
		return Float(total), nil
	}
	return Int(int64(total)), nil
}

func biMin(_ *Interp, args []Value) (Value, error) { return extremum(args, true) }
func biMax(_ *Interp, args []Value) (Value, error) { return extremum(args, false) }

func extremum(args []Value, wantMin bool) (Value, error) {
	var items []Value
	if len(args) == 1 {
		items = iterate(args[0])
	} else {
		items = args
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("arg is an empty sequence")
	}
	best := items[0]
	for _, v := range items[1:] {
		bf, _ := asFloat(best)
		vf, _ := asFloat(v)
		if (wantMin && vf < bf) || (!wantMin && vf > bf) {
			best = v
		}
	}
	return best, nil
}

func biAbs(_ *Interp, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("abs() takes exactly one argument")
	}
	switch v := args[0].(type) {
	case Int:
		if v < 0 {
			return -v, nil
		}
		return v, nil
	case Float:
		if v < 0 {
			return -v, nil
		}
		return v, nil
	}
	return nil, fmt.Errorf("bad operand type for abs()")
}

func biSorted(_ *Interp, args []Value) (Value, error) {
	if len(args) == 0 {
		return NewList(), nil
	}
	items := append([]Value{}, iterate(args[0])...)
	sort.SliceStable(items, func(a, b int) bool {
		return compare("<", items[a], items[b])
	})
	return NewList(items...), nil
}

func biReversed(_ *Interp, args []Value) (Value, error) {
	if len(args) == 0 {
		return NewList(), nil
	}
	items := iterate(args[0])
	out := make([]Value, len(items))
	for i, v := range items {
		out[len(items)-1-i] = v
	}
	return NewList(out...), nil
}

func biZip(_ *Interp, args []Value) (Value, error) {
	if len(args) == 0 {
		return NewList(), nil
	}
	seqs := make([][]Value, len(args))
	minLen := -1
	for idx, a := range args {
		seqs[idx] = iterate(a)
		if minLen == -1 || len(seqs[idx]) < minLen {
			minLen = len(seqs[idx])
		}
	}
	out := make([]Value, 0, minLen)
	for i := 0; i < minLen; i++ {
		row := make([]Value, len(seqs))
		for s := range seqs {
			row[s] = seqs[s][i]
		}
		out = append(out, NewTuple(row...))
	}
	return NewList(out...), nil
}

func mustInt(v Value) int64 {
	switch t := v.(type) {
	case Int:
		return int64(t)
	case Float:
		return int64(t)
	}
	return 0
}

// builtinMethod resolves obj.name for built-in container/string types, the
// method-call counterpart of the free builtins above (append, keys, get,
// upper, split, …). Returns ok=false for anything not in the traced
// subset's supported method surface.
func builtinMethod(obj Value, name string) (Value, bool) {
	switch o := obj.(type) {
	case *List:
		switch name {
		case "append":
			return &Builtin{Name: "append", Call: func(_ *Interp, args []Value) (Value, error) {
				o.Items = append(o.Items, args[0])
				return Nil, nil
			}}, true
		case "pop":
			return &Builtin{Name: "pop", Call: func(i *Interp, args []Value) (Value, error) {
				idx := len(o.Items) - 1
				if len(args) > 0 {
					idx = normalizeIndex(int(mustInt(args[0])), len(o.Items), i)
				}
				v := o.Items[idx]
				o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
				return v, nil
			}}, true
		}
	case *Dict:
		switch name {
		case "get":
			return &Builtin{Name: "get", Call: func(_ *Interp, args []Value) (Value, error) {
				if v, ok := o.Get(args[0]); ok {
					return v, nil
				}
				if len(args) > 1 {
					return args[1], nil
				}
				return Nil, nil
			}}, true
		case "keys":
			return &Builtin{Name: "keys", Call: func(_ *Interp, _ []Value) (Value, error) {
				keys := make([]Value, len(o.Entries))
				for i, e := range o.Entries {
					keys[i] = e.Key
				}
				return NewList(keys...), nil
			}}, true
		case "values":
			return &Builtin{Name: "values", Call: func(_ *Interp, _ []Value) (Value, error) {
				vals := make([]Value, len(o.Entries))
				for i, e := range o.Entries {
					vals[i] = e.Val
				}
				return NewList(vals...), nil
			}}, true
		case "items":
			return &Builtin{Name: "items", Call: func(_ *Interp, _ []Value) (Value, error) {
				pairs := make([]Value, len(o.Entries))
				for i, e := range o.Entries {
					pairs[i] = NewTuple(e.Key, e.Val)
				}
				return NewList(pairs...), nil
			}}, true
		}
	case Str:
		switch name {
		case "upper":
			return &Builtin{Name: "upper", Call: func(_ *Interp, _ []Value) (Value, error) {
				return Str(strings.ToUpper(string(o))), nil
			}}, true
		case "lower":
			return &Builtin{Name: "lower", Call: func(_ *Interp, _ []Value) (Value, error) {
				return Str(strings.ToLower(string(o))), nil
			}}, true
		case "split":
			return &Builtin{Name: "split", Call: func(_ *Interp, args []Value) (Value, error) {
				sep := " "
				if len(args) > 0 {
					sep = string(args[0].(Str))
				}
				parts := strings.Split(string(o), sep)
				items := make([]Value, len(parts))
				for i, p := range parts {
					items[i] = Str(p)
				}
				return NewList(items...), nil
			}}, true
		case "strip":
			return &Builtin{Name: "strip", Call: func(_ *Interp, _ []Value) (Value, error) {
				return Str(strings.TrimSpace(string(o))), nil
			}}, true
		}
	case *Set:
		if name == "add" {
			return &Builtin{Name: "add", Call: func(_ *Interp, args []Value) (Value, error) {
				o.Add(args[0])
				return Nil, nil
			}}, true
		}
	}
	return nil, false
}
