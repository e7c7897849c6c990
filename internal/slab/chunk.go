package slab

import (
	"errors"
	"fmt"
	"math/bits"
	c "slabfs/internal"
	"slabfs/internal/util"
	"unsafe"
)

type slot[T any] struct {
	val		T
	gen		uint32 // bumped every time the slot goes back to the free pool
	refs	int32  // owners, 0 means free
	borrow	int32  // >0 shared borrows, -1 exclusive borrow
	init	bool   // val was written by its current owner
}

type chunk[T any] struct {
	slots	[]slot[T]
	raw		[]byte // mmap region under slots, nil for heap chunks
}

// Chunk 0 holds base slots, chunk k>=1 holds base<<(k-1), so capacity after
// chunk k is always base<<k. Chunks never move once created: a *T handed out
// by a borrow survives any later growth.
type chunkStore[T any] struct {
	base	int
	backing	Backing
	chunks	[]chunk[T]
	cap		int
}

func slotSize[T any]() uintptr {
	var s slot[T]
	return unsafe.Sizeof(s)
}

// Creates a chunk of n slots. Returns the index range [lo, hi) it covers.
func (cs *chunkStore[T]) grow(n int) (int, int, error) {
	var ch chunk[T]

	switch cs.backing {
	case BackingHeap:
		ch.slots = make([]slot[T], n)

	case BackingMmap:
		size := util.AlignUp(uint64(n) * uint64(slotSize[T]()), c.OS_PAGE)
		raw, err := mapChunk(int(size))
		if err != nil { return 0, 0, err }
		ch.raw = raw
		ch.slots = unsafe.Slice((*slot[T])(unsafe.Pointer(unsafe.SliceData(raw))), n)

	default:
		return 0, 0, fmt.Errorf("%w: backing %d", ErrInvalidArg, cs.backing)
	}

	lo := cs.cap
	cs.chunks = append(cs.chunks, ch)
	cs.cap += n
	return lo, cs.cap, nil
}

func (cs *chunkStore[T]) at(idx uint32) *slot[T] {
	i := int(idx)
	if i >= cs.cap {
		panic(fmt.Errorf("%w: slot %d out of range (capacity %d)", ErrStale, i, cs.cap))
	}
	if i < cs.base {
		return &cs.chunks[0].slots[i]
	}
	k := bits.Len(uint(i / cs.base))
	start := cs.base << (k - 1)
	return &cs.chunks[k].slots[i - start]
}

func (cs *chunkStore[T]) each(fn func(idx uint32, s *slot[T])) {
	idx := uint32(0)
	for k := range cs.chunks {
		slots := cs.chunks[k].slots
		for i := range slots {
			fn(idx, &slots[i])
			idx++
		}
	}
}

func (cs *chunkStore[T]) cnt() int {
	return len(cs.chunks)
}

// Bytes of backing memory held by all chunks.
func (cs *chunkStore[T]) bytes() uint64 {
	var total uint64
	for _, ch := range cs.chunks {
		if ch.raw != nil {
			total += uint64(len(ch.raw))
		} else {
			total += uint64(len(ch.slots)) * uint64(slotSize[T]())
		}
	}
	return total
}

// Releases every chunk at once. Slots are not touched.
func (cs *chunkStore[T]) releaseAll() error {
	var errs []error
	for i := range cs.chunks {
		ch := &cs.chunks[i]
		if ch.raw != nil {
			if err := unmapChunk(ch.raw); err != nil {
				errs = append(errs, err)
			}
		}
		ch.raw, ch.slots = nil, nil
	}
	cs.chunks = nil
	cs.cap = 0
	return errors.Join(errs...)
}
