package memfs

import (
	"bytes"
	c "slabfs/internal"
	"slabfs/internal/slab"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recoverErr(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()
	f()
	return nil
}

func Test_Inode_BlockCnt(t *testing.T) {
	blocks := slab.CreateAllocator[Block](2)
	defer blocks.Destroy()

	var ino Inode
	cases := []struct {
		off, cnt, blocks int
	}{
		{0, 1, 1},
		{0, c.BLOCK_PAYLOAD, 1},
		{c.BLOCK_PAYLOAD - 1, 2, 2},
		{3 * c.BLOCK_PAYLOAD, c.BLOCK_PAYLOAD, 4},
		{0, 10, 4},
	}
	for _, tc := range cases {
		n := ino.writeAt(blocks, bytes.Repeat([]byte{1}, tc.cnt), tc.off)
		assert.Equal(t, tc.cnt, n)
		assert.Equal(t, tc.blocks, ino.BlockCnt())
		assert.Equal(t, ino.BlockCnt(), (ino.Size() + c.BLOCK_PAYLOAD - 1) / c.BLOCK_PAYLOAD)
	}
	out, _ := blocks.Stats()
	assert.Equal(t, 4, out)

	ino.Dispose()
	out, _ = blocks.Stats()
	assert.Equal(t, 0, out)
}

// A failed allocation must not leave blocks on the inode that size doesn't cover.
func Test_Inode_WriteAllocFails(t *testing.T) {
	blocks := slab.CreateAllocator[Block](2)
	defer blocks.Destroy()

	var ino Inode
	ino.writeAt(blocks, []byte("abc"), 0)
	require.Equal(t, 1, ino.BlockCnt())

	gone := slab.CreateAllocator[Block](2)
	require.NoError(t, gone.Destroy())

	err := recoverErr(func() { ino.writeAt(gone, []byte("x"), 5 * c.BLOCK_PAYLOAD) })
	assert.ErrorIs(t, err, slab.ErrDestroyed)
	assert.Equal(t, 1, ino.BlockCnt())
	assert.Equal(t, 3, ino.Size())

	dst := make([]byte, 3)
	n, err := ino.readAt(dst, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "abc", string(dst))

	ino.Dispose()
}
