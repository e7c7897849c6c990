package memfs

import (
	"fmt"
	"io"
	c "slabfs/internal"
	"slabfs/internal/slab"

	"github.com/negrel/assert"
)

// One per file. Lives in the inode slab, its data in the block slab.
type Inode struct {
	size	int
	blocks	[]*slab.Handle[Block]
}

// Run by the inode slab once the last reference to the file is gone.
func (ino *Inode) Dispose() {
	for _, b := range ino.blocks {
		b.Release()
	}
	ino.blocks = nil
	ino.size = 0
}

func (ino *Inode) Size() int		{ return ino.size }
func (ino *Inode) BlockCnt() int	{ return len(ino.blocks) }

func (ino *Inode) readAt(dst []byte, off int) (int, error) {
	if len(dst) == 0 { return 0, nil }
	if off >= ino.size { return 0, io.EOF }

	end := min(ino.size, off + len(dst))
	n := 0
	for off + n < end {
		pos := off + n
		bi, bo := pos / c.BLOCK_PAYLOAD, pos % c.BLOCK_PAYLOAD
		cnt := min(c.BLOCK_PAYLOAD - bo, end - pos)
		assert.Less(bi, len(ino.blocks), "read past last block")

		r := ino.blocks[bi].Borrow()
		blk := r.Get()
		if !blk.verify() {
			r.Done()
			return n, fmt.Errorf("%w: block %d", ErrChecksum, bi)
		}
		copy(dst[n:], blk.payload()[bo:bo+cnt])
		r.Done()
		n += cnt
	}
	return n, nil
}

// Grows the file as needed. Bytes between the old size and off read back as zero.
// The caller keeps off+len(src) within FS_MAX_FILE_SIZE.
func (ino *Inode) writeAt(blocks *slab.Allocator[Block], src []byte, off int) int {
	if len(src) == 0 { return 0 }
	ino.extend(blocks, off, len(src))

	n := 0
	for n < len(src) {
		pos := off + n
		bi, bo := pos / c.BLOCK_PAYLOAD, pos % c.BLOCK_PAYLOAD
		cnt := min(c.BLOCK_PAYLOAD - bo, len(src) - n)

		m := ino.blocks[bi].BorrowMut()
		blk := m.Get()
		copy(blk.payload()[bo:], src[n:n+cnt])
		blk.seal()
		m.Done()
		n += cnt
	}

	if off + n > ino.size {
		ino.size = off + n
	}
	return n
}

// Allocates every block a write of cnt bytes at off needs before the inode
// is touched. If the block slab panics part way, the blocks taken so far
// are released and the inode is left as it was.
func (ino *Inode) extend(blocks *slab.Allocator[Block], off int, cnt int) {
	need := (off + cnt + c.BLOCK_PAYLOAD - 1) / c.BLOCK_PAYLOAD
	have := len(ino.blocks)
	if need <= have { return }

	fresh := make([]*slab.Handle[Block], 0, need - have)
	defer func() {
		if r := recover(); r != nil {
			for _, h := range fresh {
				h.Release()
			}
			panic(r)
		}
	}()

	for bi := have; bi < need; bi++ {
		lo := bi * c.BLOCK_PAYLOAD
		if off <= lo && lo + c.BLOCK_PAYLOAD <= off + cnt {
			// every payload byte gets overwritten by the write
			fresh = append(fresh, blocks.AllocateDirty().Assume())
		} else {
			fresh = append(fresh, blocks.Allocate(emptyBlock()))
		}
	}
	ino.blocks = append(ino.blocks, fresh...)
}
