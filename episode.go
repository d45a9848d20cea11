package tdl

import "github.com/tdl2048/game"

// Episode is the board history of one game. States alternates before-states
// and afterstates, b0 a0 b1 a1 ... bn, so afterstate i sits at 2i+1.
// Actions[i] and Rewards[i] are the move that turned bi into ai.
type Episode struct {
	States  []game.Board
	Actions []game.Direction
	Rewards []int
}

func newEpisode() *Episode {
	return &Episode{
		States:  make([]game.Board, 0, 100),
		Actions: make([]game.Direction, 0, 50),
		Rewards: make([]int, 0, 50),
	}
}

// Steps is the number of moves applied so far.
func (e *Episode) Steps() int { return len(e.Actions) }

// Score sums the move rewards.
func (e *Episode) Score() (retVal int) {
	for _, r := range e.Rewards {
		retVal += r
	}
	return
}

// Last is the most recent board.
func (e *Episode) Last() game.Board { return e.States[len(e.States)-1] }

// Afterstate returns the i-th afterstate.
func (e *Episode) Afterstate(i int) game.Board { return e.States[2*i+1] }

// PrevAfterstate is the afterstate produced by the previous move, the one
// right before the latest tile insertion.
func (e *Episode) PrevAfterstate() (game.Board, bool) {
	if len(e.States) < 2 {
		return game.Board{}, false
	}
	return e.States[len(e.States)-2], true
}

func (e *Episode) pushBefore(b game.Board) {
	e.States = append(e.States, b)
}

func (e *Episode) pushAfter(b game.Board, d game.Direction, reward int) {
	e.States = append(e.States, b)
	e.Actions = append(e.Actions, d)
	e.Rewards = append(e.Rewards, reward)
}
