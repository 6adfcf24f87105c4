package collections

import (
	"fmt"

	"github.com/twmb/murmur3"
	"github.com/zeebo/xxh3"
)

// HashFamily derives independent-looking bit positions from one hash function
// by varying an integer seed.
type HashFamily interface {
	Name() string
	// Index must return a value in [0, size) and must be deterministic for a
	// given (item, seed, size).
	Index(item []byte, seed uint32, size uint) uint
}

type HashFamilyName string

const (
	HashFamilyMurmur3 HashFamilyName = "murmur3"
	HashFamilyXXH3    HashFamilyName = "xxh3"
)

// Murmur3Family is MurmurHash3 x86_32. The digest is read as a signed 32-bit
// integer and reduced with floored modulo, which yields the same positions as
// Python's mmh3.hash(item, seed) % size.
type Murmur3Family struct{}

func (Murmur3Family) Name() string { return string(HashFamilyMurmur3) }

func (Murmur3Family) Index(item []byte, seed uint32, size uint) uint {
	sum := int64(int32(murmur3.SeedSum32(seed, item)))
	m := int64(size)
	idx := sum % m
	if idx < 0 {
		idx += m
	}
	return uint(idx)
}

type XXH3Family struct{}

func (XXH3Family) Name() string { return string(HashFamilyXXH3) }

func (XXH3Family) Index(item []byte, seed uint32, size uint) uint {
	return uint(xxh3.HashSeed(item, uint64(seed)) % uint64(size))
}

// FamilyByName resolves a configured hash family name.
func FamilyByName(name string) (HashFamily, error) {
	switch HashFamilyName(name) {
	case HashFamilyMurmur3, "":
		return Murmur3Family{}, nil
	case HashFamilyXXH3:
		return XXH3Family{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownHashFamily, name)
	}
}
