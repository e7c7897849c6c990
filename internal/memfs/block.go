package memfs

import (
	c "slabfs/internal"
	"slabfs/internal/util"

	"github.com/cespare/xxhash"
)

// Fixed size data block. Plain bytes, so it can live in an mmap backed slab.
//
// Header (0x00 - 0x0F)
//   0x00 8B xxhash64 of the payload
//   0x08 8B reserved
// Payload (0x10 - end)
type Block [c.BLOCK_SIZE]byte

const offChecksum = 0x00

func (b *Block) Checksum() uint64		{ return c.Bin.Uint64(b[offChecksum:]) }
func (b *Block) payload() []byte		{ return b[c.BLOCK_HEADER:] }

func (b *Block) seal() {
	c.Bin.PutUint64(b[offChecksum:], xxhash.Sum64(b.payload()))
}

func (b *Block) verify() bool {
	return b.Checksum() == xxhash.Sum64(b.payload())
}

func (b *Block) Dump() string {
	return util.PrettyPrint(b[:], len(b), c.BLOCK_HEADER)
}

func emptyBlock() Block {
	var b Block
	b.seal()
	return b
}
