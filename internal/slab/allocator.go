// Package slab is a typed pool allocator: fixed size slots of one type T,
// carved from chunks that double in size as the pool grows. Slots are handed
// out as reference counted handles and go back to a LIFO free pool when their
// last owner lets go. Chunks are only given back all at once, on Destroy.
//
// Nothing here is safe for concurrent use.
package slab

import (
	"fmt"
	"log/slog"
	"reflect"
	c "slabfs/internal"

	"github.com/dustin/go-humanize"
	"github.com/negrel/assert"
)

// Implemented by *T to run cleanup when a slot is freed, and for every slot
// still allocated when the allocator is destroyed. The slot's bytes are left
// as they are afterwards.
type Disposer interface {
	Dispose()
}

type Allocator[T any] struct {
	log			*slog.Logger

	store		chunkStore[T]
	free		freePool

	outstanding	int
	grows		int
	destroyed	bool
}

type Info struct {
	Outstanding	int
	Capacity	int
	Chunks		int
	Grows		int
	SlotSize	uintptr
	Bytes		uint64
	Backing		Backing
}

// Panics if the first chunk cannot be obtained. initial < 1 means
// SLAB_DEFAULT_SLOTS.
func CreateAllocator[T any](initial int) *Allocator[T] {
	cfg := DefaultConfig()
	if initial > 0 {
		cfg.Slots = initial
	}
	a, err := CreateAllocatorCfg[T](cfg)
	if err != nil {
		panic(fmt.Errorf("%w: %w", ErrExhausted, err))
	}
	return a
}

func CreateAllocatorCfg[T any](cfg Config) (*Allocator[T], error) {
	if cfg.Slots < 0 || cfg.Slots > c.SLAB_MAX_SLOTS {
		return nil, fmt.Errorf("%w: slots %d", ErrInvalidArg, cfg.Slots)
	}
	if cfg.Slots == 0 {
		cfg.Slots = c.SLAB_DEFAULT_SLOTS
	}

	typ := reflect.TypeFor[T]()
	switch cfg.Backing {
	case BackingHeap:
	case BackingMmap:
		if !isPlainData(typ) {
			return nil, fmt.Errorf("%w: %s", ErrNotPlainData, typ)
		}
	default:
		return nil, fmt.Errorf("%w: backing %d", ErrInvalidArg, cfg.Backing)
	}

	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	log = log.With("src", "Slab", "type", typ.String())

	a := &Allocator[T] {
		log:	log,
		store: 	chunkStore[T]{base: cfg.Slots, backing: cfg.Backing},
		free: 	createFreePool(cfg.Slots),
	}

	lo, hi, err := a.store.grow(cfg.Slots)
	if err != nil { return nil, err }
	a.free.addRange(lo, hi)

	log.Debug("CreateAllocator", "slots", cfg.Slots, "backing", cfg.Backing,
		"slotsize", slotSize[T](), "bytes", humanize.Bytes(a.store.bytes()))
	return a, nil
}

// Writes v into a free slot, growing if none is left.
func (a *Allocator[T]) Allocate(v T) *Handle[T] {
	idx, s := a.acquire()
	s.val = v
	s.init = true
	return a.handle(idx, s)
}

// Same slot acquisition as Allocate but nothing is written: the slot still
// holds whatever its previous owner left behind. See Dirty.
func (a *Allocator[T]) AllocateDirty() *Dirty[T] {
	idx, s := a.acquire()
	return &Dirty[T]{h: a.handle(idx, s)}
}

func (a *Allocator[T]) Stats() (outstanding int, capacity int) {
	return a.outstanding, a.store.cap
}

func (a *Allocator[T]) Info() Info {
	return Info {
		Outstanding:	a.outstanding,
		Capacity:		a.store.cap,
		Chunks:			a.store.cnt(),
		Grows:			a.grows,
		SlotSize:		slotSize[T](),
		Bytes:			a.store.bytes(),
		Backing:		a.store.backing,
	}
}

// Disposes every value still allocated and releases every chunk. Any handle
// used afterwards panics with ErrDestroyed. Safe to call more than once.
//
// Panics with ErrAliasing, leaving the allocator untouched, while any slot
// is borrowed: its chunk would be unmapped under the borrow.
func (a *Allocator[T]) Destroy() error {
	if a.destroyed { return nil }

	a.store.each(func(idx uint32, s *slot[T]) {
		if s.borrow != 0 {
			panic(fmt.Errorf("%w: slot %d borrowed (%d) during Destroy", ErrAliasing, idx, s.borrow))
		}
	})

	if a.outstanding > 0 {
		a.log.Warn("Destroy with outstanding handles", "outstanding", a.outstanding)
	}

	chunks, bytes := a.store.cnt(), a.store.bytes()
	a.store.each(func(idx uint32, s *slot[T]) {
		if s.refs == 0 { return }
		if s.init {
			dispose(&s.val)
		}
		s.refs, s.borrow, s.init = 0, 0, false
		s.gen++
	})

	a.destroyed = true
	a.outstanding = 0
	a.free.reset()
	err := a.store.releaseAll()

	a.log.Debug("Destroy", "chunks", chunks, "bytes", humanize.Bytes(bytes), "grows", a.grows)
	return err
}

func (a *Allocator[T]) acquire() (uint32, *slot[T]) {
	if a.destroyed {
		panic(fmt.Errorf("%w: allocate", ErrDestroyed))
	}

	idx, ok := a.free.take()
	if !ok {
		a.grow()
		idx, ok = a.free.take()
		if !ok { panic(fmt.Errorf("%w: free pool empty after grow", ErrExhausted)) }
	}

	s := a.store.at(idx)
	if s.refs != 0 {
		panic(fmt.Errorf("%w: slot %d on free pool has %d owners", ErrAliasing, idx, s.refs))
	}
	s.refs, s.borrow, s.init = 1, 0, false
	a.outstanding++

	a.checkInvariants()
	return idx, s
}

// Doubles capacity with one new chunk.
func (a *Allocator[T]) grow() {
	n := a.store.cap
	if a.store.cap + n > c.SLAB_MAX_SLOTS {
		panic(fmt.Errorf("%w: capacity %d at limit", ErrExhausted, a.store.cap))
	}

	lo, hi, err := a.store.grow(n)
	if err != nil {
		panic(fmt.Errorf("%w: %w", ErrExhausted, err))
	}
	a.free.addRange(lo, hi)
	a.grows++

	a.log.Debug("grow", "chunk", a.store.cnt() - 1, "slots", n, "capacity", a.store.cap,
		"bytes", humanize.Bytes(uint64(n) * uint64(slotSize[T]())))
}

// Called once the last owner of a slot is gone.
func (a *Allocator[T]) release(idx uint32, s *slot[T]) {
	if a.outstanding == 0 {
		panic(fmt.Errorf("%w: slot %d released with nothing outstanding", ErrOverFree, idx))
	}

	if s.init {
		dispose(&s.val)
	}
	s.refs, s.borrow, s.init = 0, 0, false
	s.gen++
	a.outstanding--
	a.free.give(idx)

	a.checkInvariants()
}

func (a *Allocator[T]) lookup(idx uint32, gen uint32) (*slot[T], error) {
	if a.destroyed {
		return nil, fmt.Errorf("%w: slot %d", ErrDestroyed, idx)
	}
	s := a.store.at(idx)
	if s.gen != gen || s.refs == 0 {
		return nil, fmt.Errorf("%w: slot %d gen %d, slot is at gen %d", ErrStale, idx, gen, s.gen)
	}
	return s, nil
}

func (a *Allocator[T]) handle(idx uint32, s *slot[T]) *Handle[T] {
	return &Handle[T]{a: a, idx: idx, gen: s.gen}
}

// only checked in builds with the assert tag
func (a *Allocator[T]) checkInvariants() {
	assert.GreaterOrEqual(a.outstanding, 0, "negative outstanding")
	assert.GreaterOrEqual(a.store.cap, a.outstanding, "outstanding exceeds capacity")
	assert.GreaterOrEqual(a.free.cnt(), a.store.cap - a.outstanding, "free pool lost slots")
	assert.GreaterOrEqual(a.store.cap - a.outstanding, a.free.cnt(), "free pool has extra slots")
}

func dispose[T any](v *T) {
	if d, ok := any(v).(Disposer); ok {
		d.Dispose()
	}
}
