package game

import (
	"fmt"
	"strings"
)

// Board is a 2x2 grid of ranks. Rank 0 is an empty cell, rank r > 0 is the
// tile 2^r. The zero value is the empty board.
type Board [RowNum][ColNum]int

// Decode unpacks a 16-bit encoding, cell (0,0) in the top nibble.
func Decode(v uint16) Board {
	var b Board
	b[0][0] = int(v>>12) & 15
	b[0][1] = int(v>>8) & 15
	b[1][0] = int(v>>4) & 15
	b[1][1] = int(v) & 15
	return b
}

// FromRanks builds a board from ranks in row-major order.
func FromRanks(r [Cells]int) Board {
	return Board{{r[0], r[1]}, {r[2], r[3]}}
}

// Encode packs the board into 16 bits, 4 bits per cell in row-major order.
func (b Board) Encode() uint16 {
	return uint16(b[0][0]&15)<<12 | uint16(b[0][1]&15)<<8 | uint16(b[1][0]&15)<<4 | uint16(b[1][1]&15)
}

// Ranks returns the cells in row-major order.
func (b Board) Ranks() [Cells]int {
	return [Cells]int{b[0][0], b[0][1], b[1][0], b[1][1]}
}

// At returns the rank at (row, col).
func (b Board) At(row, col int) int { return b[row][col] }

// Set puts rank at (row, col).
func (b *Board) Set(row, col, rank int) { b[row][col] = rank & MaxRank }

// MaxRank returns the largest rank on the board.
func (b Board) MaxRank() int {
	var max int
	for _, r := range b.Ranks() {
		if r > max {
			max = r
		}
	}
	return max
}

// Empty counts the empty cells.
func (b Board) Empty() int {
	var n int
	for _, r := range b.Ranks() {
		if r == 0 {
			n++
		}
	}
	return n
}

// Name is the 4 hex digit identifier of the board.
func (b Board) Name() string {
	return fmt.Sprintf("%04x", b.Encode())
}

// Tile returns the displayed value of a rank. Rank 0 shows as 0.
func Tile(rank int) int {
	return (1 << uint(rank)) &^ 1
}

// Move applies d in place and returns the reward, or Illegal when the
// encoding did not change.
func (b *Board) Move(d Direction) int {
	switch d {
	case Up:
		return b.Up()
	case Right:
		return b.Right()
	case Down:
		return b.Down()
	case Left:
		return b.Left()
	default:
		return Illegal
	}
}

// Left slides and merges both rows towards column 0.
func (b *Board) Left() int {
	before := b.Encode()
	score := 0
	for i := range b {
		row := &b[i]
		switch {
		case row[0] == 0:
			row[0] = row[1]
			row[1] = 0
		case row[0] == row[1]:
			row[0]++
			row[1] = 0
			score += Tile(row[0])
		}
	}
	if b.Encode() == before {
		return Illegal
	}
	return score
}

func (b *Board) Right() int {
	b.Mirror()
	score := b.Left()
	b.Mirror()
	return score
}

func (b *Board) Up() int {
	b.Rotate(1)
	score := b.Right()
	b.Rotate(-1)
	return score
}

func (b *Board) Down() int {
	b.Rotate(1)
	score := b.Left()
	b.Rotate(-1)
	return score
}

// Transpose swaps the two off-diagonal cells.
func (b *Board) Transpose() {
	b[0][1], b[1][0] = b[1][0], b[0][1]
}

// Mirror swaps the cells within each row.
func (b *Board) Mirror() {
	b[0][0], b[0][1] = b[0][1], b[0][0]
	b[1][0], b[1][1] = b[1][1], b[1][0]
}

// Flip swaps the two rows.
func (b *Board) Flip() {
	b[0], b[1] = b[1], b[0]
}

// Rotate turns the board clockwise by r quarter turns. Negative r turns
// counter-clockwise.
func (b *Board) Rotate(r int) {
	switch ((r % 4) + 4) % 4 {
	case 1:
		b.Transpose()
		b.Mirror()
	case 2:
		b.Mirror()
		b.Flip()
	case 3:
		b.Transpose()
		b.Flip()
	}
}

// Isomorphic turns b into its i-th symmetric variant: mirrored when i > 4,
// then rotated by i quarter turns. Variants 0 and 4 are both the identity,
// so callers enumerating all eight must deduplicate.
func (b *Board) Isomorphic(i int) {
	iso := ((i % 8) + 8) % 8
	if iso > 4 {
		b.Mirror()
	}
	b.Rotate(iso)
}

// Next puts a new tile on a random empty cell: rank 1 nine times out of ten,
// rank 2 otherwise. A full board is left alone.
func (b *Board) Next(rng Intner) {
	num := b.Empty()
	if num == 0 {
		return
	}
	k := rng.Intn(num)
	pop := 1
	if rng.Intn(10) == 0 {
		pop = 2
	}
	for i, r := range b.Ranks() {
		if r != 0 {
			continue
		}
		if k == 0 {
			b[i/ColNum][i%ColNum] = pop
			return
		}
		k--
	}
}

// String renders the board as a small box of tile values.
func (b Board) String() string {
	var sb strings.Builder
	sb.WriteString("+------+\n")
	for _, row := range b {
		fmt.Fprintf(&sb, "|%3d%3d|\n", Tile(row[0]), Tile(row[1]))
	}
	sb.WriteString("+------+")
	return sb.String()
}
