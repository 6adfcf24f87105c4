package collections

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/bits-and-blooms/bitset"
)

var (
	ErrInvalidArgument   = errors.New("collections: invalid argument")
	ErrUnknownHashFamily = errors.New("collections: unknown hash family")
)

// BloomFilter is a fixed size bloom filter. Bits are only ever set, never
// cleared. It is not safe for concurrent use.
type BloomFilter struct {
	size      uint
	numHashes int
	bits      *bitset.BitSet
	family    HashFamily
	logger    *slog.Logger

	// Adds that flipped at least one bit.
	inserted int
}

type Option func(*BloomFilter)

func WithHashFamily(family HashFamily) Option {
	return func(b *BloomFilter) {
		if family != nil {
			b.family = family
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(b *BloomFilter) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New returns a filter of size bits probed by numHashes seeded hashes.
func New(size int, numHashes int, opts ...Option) (*BloomFilter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %d", ErrInvalidArgument, size)
	}
	if numHashes <= 0 {
		return nil, fmt.Errorf("%w: numHashes must be positive, got %d", ErrInvalidArgument, numHashes)
	}
	b := &BloomFilter{
		size:      uint(size),
		numHashes: numHashes,
		bits:      bitset.New(uint(size)),
		family:    Murmur3Family{},
		logger:    slog.Default().With("component", "bloomfilter"),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With("hash", b.family.Name())
	return b, nil
}

// Indexes returns the numHashes bit positions for item. Positions may repeat.
func (b *BloomFilter) Indexes(item string) []uint {
	data := []byte(item)
	idxs := make([]uint, b.numHashes)
	for i := range idxs {
		idxs[i] = b.family.Index(data, uint32(i), b.size)
	}
	return idxs
}

func (b *BloomFilter) Add(item string) {
	idxs := b.Indexes(item)
	flipped := false
	for _, idx := range idxs {
		if !b.bits.Test(idx) {
			b.bits.Set(idx)
			flipped = true
		}
	}
	if flipped {
		b.inserted++
	}
	b.logger.Debug("hashed and stored item", "item", item, "indexes", idxs)
}

// Find reports whether item is possibly present. false means definitely absent.
func (b *BloomFilter) Find(item string) bool {
	idxs := b.Indexes(item)
	for _, idx := range idxs {
		if !b.bits.Test(idx) {
			b.logger.Debug("item missing", "item", item, "indexes", idxs, "clear", idx)
			return false
		}
	}
	b.logger.Debug("item possibly present", "item", item, "indexes", idxs)
	return true
}

// AddValue adds the fmt.Sprint form of v.
func (b *BloomFilter) AddValue(v any) {
	b.Add(fmt.Sprint(v))
}

func (b *BloomFilter) FindValue(v any) bool {
	return b.Find(fmt.Sprint(v))
}

// FalsePositiveProbability estimates the false positive rate after
// itemsInserted distinct adds, assuming uniform independent hashing:
//
//	(1 - (1 - 1/size)^(numHashes*itemsInserted))^numHashes
func (b *BloomFilter) FalsePositiveProbability(itemsInserted int) (float64, error) {
	if itemsInserted < 0 {
		return 0, fmt.Errorf("%w: itemsInserted must not be negative, got %d", ErrInvalidArgument, itemsInserted)
	}
	return falsePositiveRate(b.size, b.numHashes, itemsInserted), nil
}

// TrackedFalsePositiveProbability is FalsePositiveProbability over Inserted.
func (b *BloomFilter) TrackedFalsePositiveProbability() float64 {
	return falsePositiveRate(b.size, b.numHashes, b.inserted)
}

func falsePositiveRate(size uint, numHashes int, n int) float64 {
	stillZero := math.Pow(1-1/float64(size), float64(numHashes)*float64(n))
	return math.Pow(1-stillZero, float64(numHashes))
}

// Inserted counts the adds that set at least one new bit. An add whose bits
// were all set already is not counted, so duplicates are ignored, but so is a
// distinct item whose bits all collide with earlier ones. The count therefore
// falls below the true number of distinct items as the filter fills, and
// TrackedFalsePositiveProbability underestimates the rate accordingly.
func (b *BloomFilter) Inserted() int {
	return b.inserted
}

func (b *BloomFilter) Size() int {
	return int(b.size)
}

func (b *BloomFilter) NumHashes() int {
	return b.numHashes
}

func (b *BloomFilter) HashFamily() HashFamily {
	return b.family
}

func (b *BloomFilter) SetBits() int {
	return int(b.bits.Count())
}

func (b *BloomFilter) ZeroBits() int {
	return int(b.size) - b.SetBits()
}

func (b *BloomFilter) FillRatio() float64 {
	return float64(b.SetBits()) / float64(b.size)
}

// SizeInBytes is the memory held by the packed bit array.
func (b *BloomFilter) SizeInBytes() uint64 {
	return uint64((b.size+63)/64) * 8
}
