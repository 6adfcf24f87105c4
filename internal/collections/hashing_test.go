package collections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMurmur3Family(t *testing.T) {
	f := Murmur3Family{}

	// mmh3.hash("foo", 0) == -156908512, and -156908512 % 1000 == 488 in Python.
	assert.Equal(t, uint(488), f.Index([]byte("foo"), 0, 1000))
	assert.Equal(t, uint(0), f.Index([]byte(""), 0, 1000))
	assert.Equal(t, uint(0), f.Index([]byte("anything"), 7, 1))

	assert.NotEqual(t, f.Index([]byte("foo"), 0, 1<<20), f.Index([]byte("foo"), 1, 1<<20))
}

func TestXXH3Family(t *testing.T) {
	f := XXH3Family{}
	for seed := uint32(0); seed < 16; seed++ {
		idx := f.Index([]byte("foo"), seed, 1000)
		assert.Less(t, idx, uint(1000))
		assert.Equal(t, idx, f.Index([]byte("foo"), seed, 1000))
	}
}

func TestFamilyByName(t *testing.T) {
	f, err := FamilyByName("murmur3")
	require.NoError(t, err)
	assert.Equal(t, "murmur3", f.Name())

	f, err = FamilyByName("")
	require.NoError(t, err)
	assert.Equal(t, "murmur3", f.Name())

	f, err = FamilyByName("xxh3")
	require.NoError(t, err)
	assert.Equal(t, "xxh3", f.Name())

	_, err = FamilyByName("md5")
	require.ErrorIs(t, err, ErrUnknownHashFamily)
}
