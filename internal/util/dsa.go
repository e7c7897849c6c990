package util

// growable LIFO stack. The most recently pushed value is the next one popped,
// which is what both the slab free pool and the fd pool want for locality.
type Stack[T any] struct {
	data	[]T
}

func CreateStack[T any](size int) Stack[T] {
	return Stack[T] {
		data: make([]T, 0, size),
	}
}

func (s *Stack[T]) Cnt() int {
	return len(s.data)
}

func (s *Stack[T]) Push(val T) {
	s.data = append(s.data, val)
}

// will panic if empty.
func (s *Stack[T]) Pop() T {
	if len(s.data) == 0 { panic("stack underflow") }
	n := len(s.data) - 1
	val := s.data[n]
	s.data = s.data[:n]
	return val
}

// Returns (val, ok) - ok is false if the stack was empty
func (s *Stack[T]) TryPop() (T, bool) {
	var zero T
	if len(s.data) == 0 { return zero, false }
	return s.Pop(), true
}

func (s *Stack[T]) Peek() T {
	if len(s.data) == 0 { panic("stack underflow") }
	return s.data[len(s.data) - 1]
}

// Pushes hi, hi-1, ... lo so that the next pops come out in ascending order.
func (s *Stack[T]) PushRangeDesc(lo int, hi int, conv func(int) T) {
	for i := hi; i >= lo; i-- {
		s.data = append(s.data, conv(i))
	}
}

// Calls fn for every value, top of stack first.
func (s *Stack[T]) Each(fn func(T)) {
	for i := len(s.data) - 1; i >= 0; i-- {
		fn(s.data[i])
	}
}
