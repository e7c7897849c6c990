//go:build linux

package slab

import (
	c "slabfs/internal"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Mmap_Allocator(t *testing.T) {
	a, err := CreateAllocatorCfg[[24]byte](Config{Slots: 3, Backing: BackingMmap})
	require.NoError(t, err)

	info := a.Info()
	assert.Equal(t, BackingMmap, info.Backing)
	assert.Equal(t, uint64(c.OS_PAGE), info.Bytes)

	hs := make([]*Handle[[24]byte], 0, 10)
	for i := range 10 {
		var v [24]byte
		v[0] = byte(i)
		hs = append(hs, a.Allocate(v))
	}
	out, cap := a.Stats()
	assert.Equal(t, 10, out)
	assert.Equal(t, 12, cap)
	assert.Equal(t, 3, a.Info().Chunks)

	for i, h := range hs {
		assert.Equal(t, byte(i), h.Get()[0])
	}

	// freed mmap slots keep their bytes too
	idx := hs[4].Index()
	hs[4].Release()
	d := a.AllocateDirty()
	assert.Equal(t, idx, d.Index())
	assert.Equal(t, byte(4), d.Stale()[0])
	d.Release()

	assert.NoError(t, a.Destroy())
	assert.ErrorIs(t, panicErr(func() { hs[0].Get() }), ErrDestroyed)
}

func Test_Mmap_DestroyWhileBorrowed(t *testing.T) {
	a, err := CreateAllocatorCfg[[24]byte](Config{Slots: 4, Backing: BackingMmap})
	require.NoError(t, err)

	h := a.Allocate([24]byte{7})
	r := h.Borrow()
	assert.ErrorIs(t, panicErr(func() { a.Destroy() }), ErrAliasing)

	// chunk still mapped
	assert.Equal(t, byte(7), r.Value()[0])
	r.Done()

	assert.NoError(t, a.Destroy())
	assert.ErrorIs(t, panicErr(func() { r.Value() }), ErrDestroyed)
}
