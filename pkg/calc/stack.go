package calc

// stack is a LIFO of call-local values. pop and peek report whether a value
// was available instead of reading past the bottom.
type stack[T any] struct {
	items []T
}

func (s *stack[T]) push(v T) {
	s.items = append(s.items, v)
}

func (s *stack[T]) pop() (T, bool) {
	var zero T
	if s.size() == 0 {
		return zero, false
	}
	v := s.items[s.size()-1]
	s.items = s.items[:s.size()-1]
	return v, true
}

func (s *stack[T]) peek() (T, bool) {
	var zero T
	if s.size() == 0 {
		return zero, false
	}
	return s.items[s.size()-1], true
}

func (s *stack[T]) size() int {
	return len(s.items)
}
