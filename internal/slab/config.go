package slab

import (
	"log/slog"
	c "slabfs/internal"
)

// Where chunks come from.
type Backing uint8
const (
	// Go heap, make([]slot[T], n). Works for any T.
	BackingHeap Backing = iota
	// Anonymous private mmap, outside the Go heap. Only for plain-data T.
	BackingMmap
)

func (b Backing) String() string {
	switch b {
	case BackingHeap:
		return "heap"
	case BackingMmap:
		return "mmap"
	}
	return "invalid"
}

type Config struct {
	Slots	int // size of the first chunk, 0 means SLAB_DEFAULT_SLOTS
	Backing	Backing
	Log		*slog.Logger // nil means slog.Default()
}

func DefaultConfig() Config {
	return Config {
		Slots: 		c.SLAB_DEFAULT_SLOTS,
		Backing: 	BackingHeap,
	}
}
