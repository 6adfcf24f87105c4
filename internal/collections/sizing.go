package collections

import (
	"fmt"

	boom "github.com/tylertreat/BoomFilters"
)

// Advice is a filter shape suggested for an expected load.
type Advice struct {
	Size      int
	NumHashes int
}

// Advise returns the size and hash count that keep the false positive rate at
// targetRate once expectedItems have been added.
func Advise(expectedItems uint, targetRate float64) (Advice, error) {
	if expectedItems == 0 {
		return Advice{}, fmt.Errorf("%w: expectedItems must be positive", ErrInvalidArgument)
	}
	if targetRate <= 0 || targetRate >= 1 {
		return Advice{}, fmt.Errorf("%w: targetRate must be in (0, 1), got %v", ErrInvalidArgument, targetRate)
	}
	return Advice{
		Size:      int(boom.OptimalM(expectedItems, targetRate)),
		NumHashes: int(boom.OptimalK(targetRate)),
	}, nil
}
