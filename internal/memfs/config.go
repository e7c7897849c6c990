package memfs

import (
	"log/slog"
	"runtime"
	c "slabfs/internal"
	"slabfs/internal/slab"
)

type Config struct {
	Inodes			int // first inode chunk
	Blocks			int // first data block chunk
	BlockBacking	slab.Backing
	Log				*slog.Logger
}

func DefaultConfig() Config {
	backing := slab.BackingHeap
	if runtime.GOOS == "linux" {
		backing = slab.BackingMmap
	}
	return Config {
		Inodes:			c.FS_DEFAULT_INODES,
		Blocks:			c.FS_DEFAULT_BLOCKS,
		BlockBacking:	backing,
	}
}
