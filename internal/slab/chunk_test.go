package slab

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_chunkStore_At(t *testing.T) {
	cs := chunkStore[int]{base: 3, backing: BackingHeap}
	for _, n := range []int{3, 3, 6, 12} {
		_, _, err := cs.grow(n)
		require.NoError(t, err)
	}
	assert.Equal(t, 24, cs.cap)
	assert.Equal(t, 4, cs.cnt())

	cs.each(func(idx uint32, s *slot[int]) { s.val = int(idx) })
	for i := range cs.cap {
		assert.Equal(t, i, cs.at(uint32(i)).val)
	}
	assert.Panics(t, func() { cs.at(24) })

	assert.NoError(t, cs.releaseAll())
	assert.Equal(t, 0, cs.cap)
}

func Test_isPlainData(t *testing.T) {
	type plain struct {
		a	int32
		b	[8]byte
		c	struct{ d float64 }
	}
	type ptrs struct {
		a	int32
		b	*int
	}

	cases := []struct {
		typ		reflect.Type
		plain	bool
	}{
		{reflect.TypeFor[int](), true},
		{reflect.TypeFor[[16]byte](), true},
		{reflect.TypeFor[plain](), true},
		{reflect.TypeFor[[0]string](), true},
		{reflect.TypeFor[string](), false},
		{reflect.TypeFor[[]byte](), false},
		{reflect.TypeFor[ptrs](), false},
		{reflect.TypeFor[[2]ptrs](), false},
		{reflect.TypeFor[map[int]int](), false},
		{reflect.TypeFor[any](), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.plain, isPlainData(tc.typ), tc.typ.String())
	}
}
