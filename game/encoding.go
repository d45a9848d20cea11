package game

import "github.com/pkg/errors"

// ErrRankOutOfRange is returned when a board holds a rank the value table
// cannot address.
var ErrRankOutOfRange = errors.New("rank out of range")

// Index encodes the board as a base-`base` number, one digit per cell,
// cell (0,0) most significant. Every rank must be below base.
func Index(b Board, base int) (int, error) {
	idx := 0
	for _, r := range b.Ranks() {
		if r < 0 || r >= base {
			return -1, errors.Wrapf(ErrRankOutOfRange, "board %s has rank %d, table base is %d", b.Name(), r, base)
		}
		idx = idx*base + r
	}
	return idx, nil
}

// FromIndex is the inverse of Index.
func FromIndex(idx, base int) Board {
	var r [Cells]int
	for i := Cells - 1; i >= 0; i-- {
		r[i] = idx % base
		idx /= base
	}
	return FromRanks(r)
}
