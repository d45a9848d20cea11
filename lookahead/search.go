// Package lookahead scores the four moves of a before-state by one-ply
// afterstate search.
package lookahead

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"github.com/tdl2048/game"
)

// Valuer is essentially the value table
type Valuer interface {
	Get(b game.Board) (float32, error)
}

// Evaluate applies every direction to a copy of before and scores each legal
// one as reward + V(afterstate). Illegal directions score -Inf.
func Evaluate(before game.Board, v Valuer) (retVal Candidates, err error) {
	for _, d := range game.Directions {
		c := Candidate{Dir: d, After: before, Value: math32.Inf(-1)}
		c.Reward = c.After.Move(d)
		if c.Legal() {
			var est float32
			if est, err = v.Get(c.After); err != nil {
				return retVal, errors.WithMessagef(err, "evaluating %v from %s", d, before.Name())
			}
			c.Value = float32(c.Reward) + est
		}
		retVal[d] = c
	}
	return retVal, nil
}
