package slab

import "fmt"

// A freshly acquired slot whose contents were not written. It may still hold
// the value of whoever owned the slot before (slots are never zeroed on
// release). It has to be turned into a Handle with Write, or with Assume when
// the caller will overwrite the value itself before reading it.
//
// Reading through a handle from Assume before writing it is not detected.
type Dirty[T any] struct {
	h *Handle[T]
}

func (d *Dirty[T]) take() *Handle[T] {
	if d.h == nil {
		panic(fmt.Errorf("%w: dirty slot already consumed", ErrStale))
	}
	h := d.h
	d.h = nil
	return h
}

// Whatever the slot held before this allocation.
func (d *Dirty[T]) Stale() T {
	if d.h == nil {
		panic(fmt.Errorf("%w: dirty slot already consumed", ErrStale))
	}
	return d.h.slot().val
}

func (d *Dirty[T]) Index() int {
	if d.h == nil {
		panic(fmt.Errorf("%w: dirty slot already consumed", ErrStale))
	}
	return d.h.Index()
}

func (d *Dirty[T]) Write(v T) *Handle[T] {
	h := d.take()
	s := h.slot()
	s.val = v
	s.init = true
	return h
}

// Hands out the slot as if it were initialized. The caller owns making that true.
func (d *Dirty[T]) Assume() *Handle[T] {
	h := d.take()
	h.slot().init = true
	return h
}

// Gives the slot back unused. The stale value is not disposed, it was never ours.
func (d *Dirty[T]) Release() {
	d.take().Release()
}
