package slab

import "slabfs/internal/util"

// LIFO of free slot indices. The most recently released slot is the next one
// handed out.
type freePool struct {
	stack	util.Stack[uint32]
}

func createFreePool(size int) freePool {
	return freePool{stack: util.CreateStack[uint32](size)}
}

func (fp *freePool) take() (uint32, bool) {
	return fp.stack.TryPop()
}

func (fp *freePool) give(idx uint32) {
	fp.stack.Push(idx)
}

// Registers fresh slots [lo, hi) so that they come out in ascending order.
func (fp *freePool) addRange(lo int, hi int) {
	fp.stack.PushRangeDesc(lo, hi-1, func(i int) uint32 { return uint32(i) })
}

func (fp *freePool) cnt() int {
	return fp.stack.Cnt()
}

func (fp *freePool) reset() {
	fp.stack = util.CreateStack[uint32](0)
}
