package inputs

import "github.com/viant/pytracer/runtime"

var listNodeClass = &runtime.Class{Name: "ListNode"}

// BuildLinkedList turns a flat array into a singly linked list of
// runtime.Instance values, each with "val" and "next" fields. Returns
// runtime.Nil for an empty input.
func BuildLinkedList(values []runtime.Value) runtime.Value {
	if len(values) == 0 {
		return runtime.Nil
	}

	head := newListNode(values[0])
	cur := head
	for _, v := range values[1:] {
		next := newListNode(v)
		cur.Fields.Set(runtime.Str("next"), next)
		cur = next
	}
	return head
}

func newListNode(val runtime.Value) *runtime.Instance {
	fields := runtime.NewDict()
	fields.Set(runtime.Str("val"), val)
	fields.Set(runtime.Str("next"), runtime.Nil)
	return &runtime.Instance{Class: listNodeClass, Fields: fields}
}
