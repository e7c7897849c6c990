package slab

import "fmt"

// One owner of a slot. Clones share the slot, it goes back to the free pool
// when the last of them is released. Access goes through Borrow/BorrowMut,
// which are checked at runtime across all clones: any number of shared
// borrows, or exactly one exclusive borrow.
//
// A handle records the slot generation it was issued for. Touching it after
// the slot was freed and reused, or after Destroy, panics instead of reading
// somebody else's value.
type Handle[T any] struct {
	a		*Allocator[T]
	idx		uint32
	gen		uint32
	dead	bool // this owner already released
}

func (h *Handle[T]) trySlot() (*slot[T], error) {
	if h.dead {
		return nil, fmt.Errorf("%w: slot %d, handle already released", ErrStale, h.idx)
	}
	return h.a.lookup(h.idx, h.gen)
}

func (h *Handle[T]) slot() *slot[T] {
	s, err := h.trySlot()
	if err != nil { panic(err) }
	return s
}

func (h *Handle[T]) Clone() *Handle[T] {
	s := h.slot()
	s.refs++
	return &Handle[T]{a: h.a, idx: h.idx, gen: h.gen}
}

// Drops this owner. The slot is freed with the last one. Releasing the same
// handle twice is an over-free.
func (h *Handle[T]) Release() {
	if h.dead {
		panic(fmt.Errorf("%w: slot %d, handle released twice", ErrOverFree, h.idx))
	}
	s := h.slot()
	if s.refs == 1 && s.borrow != 0 {
		panic(fmt.Errorf("%w: slot %d released while borrowed", ErrAliasing, h.idx))
	}

	h.dead = true
	s.refs--
	if s.refs > 0 { return }
	h.a.release(h.idx, s)
}

func (h *Handle[T]) TryBorrow() (*Ref[T], error) {
	s, err := h.trySlot()
	if err != nil { return nil, err }
	if s.borrow < 0 {
		return nil, fmt.Errorf("%w: slot %d is mutably borrowed", ErrAliasing, h.idx)
	}
	s.borrow++
	return &Ref[T]{tok: &token[T]{a: h.a, s: s}}, nil
}

func (h *Handle[T]) TryBorrowMut() (*RefMut[T], error) {
	s, err := h.trySlot()
	if err != nil { return nil, err }
	if s.borrow != 0 {
		return nil, fmt.Errorf("%w: slot %d already borrowed (%d)", ErrAliasing, h.idx, s.borrow)
	}
	s.borrow = -1
	return &RefMut[T]{tok: &token[T]{a: h.a, s: s}}, nil
}

func (h *Handle[T]) Borrow() *Ref[T] {
	r, err := h.TryBorrow()
	if err != nil { panic(err) }
	return r
}

func (h *Handle[T]) BorrowMut() *RefMut[T] {
	r, err := h.TryBorrowMut()
	if err != nil { panic(err) }
	return r
}

// Copy of the value under a short shared borrow.
func (h *Handle[T]) Get() T {
	r := h.Borrow()
	v := *r.Get()
	r.Done()
	return v
}

// Overwrites the value under a short exclusive borrow.
func (h *Handle[T]) Set(v T) {
	m := h.BorrowMut()
	m.Set(v)
	m.Done()
}

func (h *Handle[T]) Index() int    { return int(h.idx) }
func (h *Handle[T]) Gen() uint32   { return h.gen }
func (h *Handle[T]) Refs() int     { return int(h.slot().refs) }

// One borrow. Every copy of a Ref or RefMut shares it, so the borrow can
// only be given back once.
type token[T any] struct {
	a	*Allocator[T]
	s	*slot[T] // nil once done
}

func (t *token[T]) live(what string) *slot[T] {
	if t.a.destroyed {
		panic(fmt.Errorf("%w: %s", ErrDestroyed, what))
	}
	if t.s == nil { panic("slab: " + what + " used after Done") }
	return t.s
}

// Shared borrow. Get hands out the slot's own memory so large values are not
// copied, the pointer must not be written through. Value returns a copy.
type Ref[T any] struct {
	tok *token[T]
}

func (r *Ref[T]) Get() *T {
	return &r.tok.live("Ref").val
}

func (r *Ref[T]) Value() T {
	return *r.Get()
}

func (r *Ref[T]) Done() {
	s := r.tok.live("Ref")
	if s.borrow <= 0 { panic("slab: Ref.Done without a shared borrow") }
	s.borrow--
	r.tok.s = nil
}

// Exclusive borrow.
type RefMut[T any] struct {
	tok *token[T]
}

func (r *RefMut[T]) Get() *T {
	return &r.tok.live("RefMut").val
}

func (r *RefMut[T]) Set(v T) {
	*r.Get() = v
}

func (r *RefMut[T]) Done() {
	s := r.tok.live("RefMut")
	if s.borrow != -1 { panic("slab: RefMut.Done without an exclusive borrow") }
	s.borrow = 0
	r.tok.s = nil
}

// Value equality: two handles are equal when the values they point at are,
// whether or not they share a slot.
func Equal[T comparable](a *Handle[T], b *Handle[T]) bool {
	return EqualFunc(a, b, func(x T, y T) bool { return x == y })
}

func EqualFunc[T any](a *Handle[T], b *Handle[T], eq func(T, T) bool) bool {
	ra := a.Borrow()
	defer ra.Done()
	rb := b.Borrow()
	defer rb.Done()
	return eq(*ra.Get(), *rb.Get())
}

// Identity: both handles own the same slot of the same allocator.
func SameSlot[T any](a *Handle[T], b *Handle[T]) bool {
	return a.a == b.a && a.idx == b.idx && a.gen == b.gen
}
