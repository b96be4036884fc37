package util

// Stack is a LIFO list. The zero value is ready to use.
type Stack[T any] struct {
	items []T
}

// Push appends items in order, so the last one is popped first.
func (s *Stack[T]) Push(items ...T) {
	s.items = append(s.items, items...)
}

// Pop removes and returns the top element; ok is false when the stack is empty.
func (s *Stack[T]) Pop() (item T, ok bool) {
	if len(s.items) == 0 {
		return item, false
	}
	idx := len(s.items) - 1
	item = s.items[idx]
	var zero T
	s.items[idx] = zero
	s.items = s.items[:idx]
	return item, true
}

func (s *Stack[T]) Len() int {
	return len(s.items)
}
