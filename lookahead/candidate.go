package lookahead

import (
	"fmt"

	"github.com/tdl2048/game"
)

// Candidate is one scored move.
type Candidate struct {
	Dir    game.Direction
	Reward int        // game.Illegal if the move changes nothing
	After  game.Board // afterstate; equal to the before-state when illegal
	Value  float32    // Reward + V(After), or -Inf when illegal
}

func (c Candidate) Legal() bool { return c.Reward != game.Illegal }

func (c Candidate) Format(s fmt.State, r rune) {
	if !c.Legal() {
		fmt.Fprintf(s, "{%v: n/a}", c.Dir)
		return
	}
	fmt.Fprintf(s, "{%v: reward %d, after %s, value %v}", c.Dir, c.Reward, c.After.Name(), c.Value)
}

// Candidates holds one candidate per direction, indexed by opcode.
type Candidates [4]Candidate

// Best returns the direction with the strictly greatest value, scanning in
// opcode order so the lowest opcode wins ties. When nothing is legal it
// returns Up.
func (cs Candidates) Best() game.Direction {
	var values [4]float32
	for i, c := range cs {
		values[i] = c.Value
	}
	return game.Direction(argmax(values[:]))
}

// Terminal reports whether no direction is legal.
func (cs Candidates) Terminal() bool {
	for _, c := range cs {
		if c.Legal() {
			return false
		}
	}
	return true
}
