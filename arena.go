package tdl

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tdl2048/game"
)

// ErrPhase is returned when an Arena method is called in the wrong phase.
var ErrPhase = errors.New("wrong phase")

// Arena drives episodes of one agent against the random tile placement and
// applies the TD updates to the agent's table. An Arena is not safe for
// concurrent use.
type Arena struct {
	r      game.Intner
	agent  *Agent
	conf   Config
	logger logrus.FieldLogger
	obs    Observer

	// state
	phase   Phase
	episode int // episodes started
	history *Episode
}

// MakeArena makes an arena. conf is expected to be valid.
func MakeArena(agent *Agent, conf Config, r game.Intner) Arena {
	logger := conf.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	obs := conf.Observer
	if obs == nil {
		obs = NopObserver{}
	}
	return Arena{
		r:      r,
		agent:  agent,
		conf:   conf,
		logger: logger,
		obs:    obs,
	}
}

// Phase of the controller
func (a *Arena) Phase() Phase { return a.phase }

// Agent that plays in the arena
func (a *Arena) Agent() *Agent { return a.agent }

// History of the current, or last finished, episode
func (a *Arena) History() *Episode { return a.history }

// EpisodeNumber returns the number of episodes started so far
func (a *Arena) EpisodeNumber() int { return a.episode }

// RunEpisode plays one episode to its natural end.
func (a *Arena) RunEpisode() (Result, error) {
	if err := a.Begin(); err != nil {
		return Result{}, err
	}
	for a.phase == Playing {
		if err := a.Step(); err != nil {
			return Result{}, err
		}
	}
	return a.End()
}

// Begin starts an episode on an empty board with one random tile.
func (a *Arena) Begin() error {
	if a.phase != Idle {
		return errors.Wrapf(ErrPhase, "begin called while %v", a.phase)
	}
	a.episode++
	a.history = newEpisode()
	a.obs.EpisodeBegin(a.episode)

	var b game.Board
	b.Next(a.r)
	a.history.pushBefore(b)
	a.phase = Playing
	return nil
}

// Step decides on the latest before-state, applies the forward update to
// the previous afterstate and either makes the move and inserts a tile, or
// moves to Terminal.
func (a *Arena) Step() error {
	if a.phase != Playing {
		return errors.Wrapf(ErrPhase, "step called while %v", a.phase)
	}
	b := a.history.Last()
	cs, x, err := a.agent.Act(b)
	if err != nil {
		return errors.WithMessagef(err, "episode %d step %d", a.episode, a.history.Steps())
	}
	a.obs.Step(StepInfo{
		Episode:    a.episode,
		Before:     b,
		Candidates: cs,
		Chosen:     x,
		History:    a.history,
	})

	c := cs[x]
	terminal := cs.Terminal()
	a.logger.WithFields(logrus.Fields{
		"before":   b.Name(),
		"move":     c,
		"terminal": terminal,
	}).Debug("step")

	if a.conf.Forward {
		if prev, ok := a.history.PrevAfterstate(); ok {
			var target float32
			var reward int
			if !terminal {
				target = c.Value
				reward = c.Reward
			}
			if err = a.update(prev, target, reward); err != nil {
				return err
			}
		}
	}

	if terminal {
		a.phase = Terminal
		return nil
	}
	a.history.pushAfter(c.After, x, c.Reward)
	b = c.After
	b.Next(a.r)
	a.history.pushBefore(b)
	return nil
}

// End closes a finished episode: it runs the backward replay when enabled,
// records statistics and signals the episode boundary.
func (a *Arena) End() (Result, error) {
	if a.phase != Terminal {
		return Result{}, errors.Wrapf(ErrPhase, "end called while %v", a.phase)
	}
	if a.conf.Backward {
		if err := a.replay(a.history); err != nil {
			return Result{}, err
		}
	}

	final := a.history.Last()
	res := Result{
		Episode: a.episode,
		Steps:   a.history.Steps(),
		Score:   a.history.Score(),
		MaxRank: final.MaxRank(),
		Final:   final,
	}
	a.agent.record(res)
	a.phase = Idle

	a.logger.WithFields(logrus.Fields{
		"episode":  res.Episode,
		"steps":    res.Steps,
		"score":    res.Score,
		"max_tile": game.Tile(res.MaxRank),
	}).Info("episode finished")
	a.obs.EpisodeEnd(res)
	return res, nil
}
