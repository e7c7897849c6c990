package slab

import "errors"

// Everything but ErrInvalidArg and ErrNotPlainData is an invariant violation:
// the allocator panics with an error wrapping one of these, so a recover() can
// still errors.Is it.
var (
	ErrInvalidArg	= errors.New("slab: invalid arg")
	ErrNotPlainData	= errors.New("slab: type holds pointers, cannot live in mmap backing")
	ErrExhausted	= errors.New("slab: cannot obtain chunk")
	ErrOverFree		= errors.New("slab: over-free")
	ErrAliasing		= errors.New("slab: aliasing violation")
	ErrStale		= errors.New("slab: stale handle")
	ErrDestroyed	= errors.New("slab: allocator destroyed")
)
