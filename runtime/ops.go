package runtime

import "fmt"

// applyBinOpValues implements the arithmetic/concatenation operators the
// traced subset supports. Division-by-zero raises ZeroDivisionError
// through i.raise, which is the exact error the division-by-zero
// testable-property scenario exercises in server mode.
func applyBinOpValues(op string, left, right Value, i *Interp) Value {
	switch l := left.(type) {
	case Int:
		if r, ok := right.(Int); ok {
			return intBinOp(op, l, r, i)
		}
		if r, ok := right.(Float); ok {
			return floatBinOp(op, Float(l), r, i)
		}
	case Float:
		switch r := right.(type) {
		case Float:
			return floatBinOp(op, l, r, i)
		case Int:
			return floatBinOp(op, l, Float(r), i)
		}
	case Str:
		if r, ok := right.(Str); ok && op == "+" {
			return l + r
		}
	case *List:
		if r, ok := right.(*List); ok && op == "+" {
			return NewList(append(append([]Value{}, l.Items...), r.Items...)...)
		}
	}
	i.raise("TypeError", fmt.Sprintf("unsupported operand type(s) for %s", op))
	return Nil
}

func intBinOp(op string, l, r Int, i *Interp) Value {
	switch op {
	case "+":
		return l + r
	case "-":
		return l - r
	case "*":
		return l * r
	case "/":
		if r == 0 {
			i.raise("ZeroDivisionError", "division by zero")
		}
		return Float(l) / Float(r)
	case "//":
		if r == 0 {
			i.raise("ZeroDivisionError", "integer division or modulo by zero")
		}
		return Int(floorDivInt(int64(l), int64(r)))
	case "%":
		if r == 0 {
			i.raise("ZeroDivisionError", "integer modulo by zero")
		}
		return Int(pyModInt(int64(l), int64(r)))
	case "**":
		return Int(ipow(int64(l), int64(r)))
	}
	i.raise("TypeError", "unknown operator "+op)
	return Nil
}

func floatBinOp(op string, l, r Float, i *Interp) Value {
	switch op {
	case "+":
		return l + r
	case "-":
		return l - r
	case "*":
		return l * r
	case "/":
		if r == 0 {
			i.raise("ZeroDivisionError", "float division by zero")
		}
		return l / r
	}
	i.raise("TypeError", "unknown operator "+op)
	return Nil
}

func floorDivInt(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func pyModInt(a, b int64) int64 {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}

func ipow(base, exp int64) int64 {
	if exp < 0 {
		return 0
	}
	result := int64(1)
	for ; exp > 0; exp-- {
		result *= base
	}
	return result
}

func compare(op string, left, right Value) bool {
	switch op {
	case "==":
		return valuesEqual(left, right)
	case "!=":
		return !valuesEqual(left, right)
	case "in":
		return contains(right, left)
	case "not in":
		return !contains(right, left)
	case "is":
		return sameIdentity(left, right)
	}
	lf, lok := asFloat(left)
	rf, rok := asFloat(right)
	if lok && rok {
		switch op {
		case "<":
			return lf < rf
		case "<=":
			return lf <= rf
		case ">":
			return lf > rf
		case ">=":
			return lf >= rf
		}
	}
	if ls, ok := left.(Str); ok {
		if rs, ok := right.(Str); ok {
			switch op {
			case "<":
				return ls < rs
			case "<=":
				return ls <= rs
			case ">":
				return ls > rs
			case ">=":
				return ls >= rs
			}
		}
	}
	return false
}

func asFloat(v Value) (float64, bool) {
	switch t := v.(type) {
	case Int:
		return float64(t), true
	case Float:
		return float64(t), true
	case Bool:
		if t {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func valuesEqual(a, b Value) bool {
	if af, ok := asFloat(a); ok {
		if bf, ok := asFloat(b); ok {
			return af == bf
		}
	}
	if as, ok := a.(Str); ok {
		if bs, ok := b.(Str); ok {
			return as == bs
		}
	}
	if _, ok := a.(NilVal); ok {
		_, ok2 := b.(NilVal)
		return ok2
	}
	return sameIdentity(a, b)
}

func sameIdentity(a, b Value) bool {
	ai, aok := a.(Identified)
	bi, bok := b.(Identified)
	if aok && bok {
		return ai.Identity() == bi.Identity()
	}
	return a == b
}

func contains(container, item Value) bool {
	switch c := container.(type) {
	case *List:
		for _, v := range c.Items {
			if valuesEqual(v, item) {
				return true
			}
		}
	case *Tuple:
		for _, v := range c.Items {
			if valuesEqual(v, item) {
				return true
			}
		}
	case *Set:
		return c.Contains(item)
	case *Dict:
		_, ok := c.Get(item)
		return ok
	case Str:
		sub, ok := item.(Str)
		return ok && stringContains(string(c), string(sub))
	}
	return false
}

func stringContains(s, sub string) bool {
	if sub == "" {
		return true
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
