package stack

// Stack is an array-backed LIFO stack. It is used instead of call-stack
// recursion so that nesting depth is bounded by configuration rather
// than by the native stack size.
type Stack[T any] struct {
	items []T
}

func (s *Stack[T]) Push(v T) {
	s.items = append(s.items, v)
}

func (s *Stack[T]) Pop() (T, bool) {
	var zero T
	l := len(s.items)
	if l == 0 {
		return zero, false
	}
	v := s.items[l-1]
	s.items[l-1] = zero
	s.items = s.items[:l-1]

	if c := cap(s.items); c > 20 && c > len(s.items)*2 {
		s.realloc()
	}
	return v, true
}

func (s *Stack[T]) Peek() (T, bool) {
	if l := len(s.items); l > 0 {
		return s.items[l-1], true
	}
	var zero T
	return zero, false
}

func (s *Stack[T]) Len() int {
	return len(s.items)
}

func (s *Stack[T]) realloc() {
	s.items = append([]T(nil), s.items...)
}
