package stack

// Stack is a LIFO of T. The zero value is ready to use.
type Stack[T any] struct {
	items []T
}

func (s *Stack[T]) Push(v T) {
	s.items = append(s.items, v)
}

// Pop removes the top n items (1 if n is omitted).
func (s *Stack[T]) Pop(n ...int) {
	nn := 1
	if len(n) > 0 {
		nn = n[0]
	}
	if nn <= 0 {
		return
	}

	if nn > len(s.items) {
		nn = len(s.items)
	}
	var zero T
	for i := len(s.items) - nn; i < len(s.items); i++ {
		s.items[i] = zero
	}
	s.items = s.items[:len(s.items)-nn]

	if c := cap(s.items); c > 20 && c > len(s.items)*2 {
		s.items = append([]T(nil), s.items...)
	}
}

// Top returns the top item. ok is false if the stack is empty.
func (s *Stack[T]) Top() (v T, ok bool) {
	if len(s.items) == 0 {
		return v, false
	}
	return s.items[len(s.items)-1], true
}

// TopRef returns a pointer to the top item, or nil. The pointer is
// invalidated by the next Push or Pop.
func (s *Stack[T]) TopRef() *T {
	if len(s.items) == 0 {
		return nil
	}
	return &s.items[len(s.items)-1]
}

// Walk calls fn on each item from the top down, stopping when fn
// returns false.
func (s *Stack[T]) Walk(fn func(T) bool) {
	for i := len(s.items) - 1; i >= 0; i-- {
		if !fn(s.items[i]) {
			return
		}
	}
}

func (s *Stack[T]) Len() int {
	return len(s.items)
}
