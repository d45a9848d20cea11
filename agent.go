package tdl

import (
	"sync"

	"github.com/tdl2048/game"
	"github.com/tdl2048/lookahead"
	"github.com/tdl2048/value"
)

// An Agent is the greedy afterstate player. It owns the value table it plays
// by.
type Agent struct {
	Table *value.Table

	// Statistics
	Episodes  int
	BestScore int
	MaxRank   int
	sync.Mutex

	name string
}

// NewAgent makes an agent around a table.
func NewAgent(name string, t *value.Table) *Agent {
	return &Agent{Table: t, name: name}
}

// Name of the agent
func (a *Agent) Name() string { return a.name }

// Act scores every move from b and returns the greedy choice. When every
// move is illegal the returned direction points at an illegal candidate.
func (a *Agent) Act(b game.Board) (lookahead.Candidates, game.Direction, error) {
	cs, err := lookahead.Evaluate(b, a.Table)
	if err != nil {
		return cs, game.Up, err
	}
	return cs, cs.Best(), nil
}

func (a *Agent) record(res Result) {
	a.Lock()
	a.Episodes++
	if res.Score > a.BestScore {
		a.BestScore = res.Score
	}
	if res.MaxRank > a.MaxRank {
		a.MaxRank = res.MaxRank
	}
	a.Unlock()
}

func (a *Agent) resetStats() {
	a.Lock()
	a.Episodes = 0
	a.BestScore = 0
	a.MaxRank = 0
	a.Unlock()
}
