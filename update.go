package tdl

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tdl2048/game"
)

// trainIsomorphic adds delta once to every distinct symmetric variant of b
// among the first conf.Isomorphic ones. It returns how many entries changed
// and the new value of b itself.
func (a *Arena) trainIsomorphic(b game.Board, delta float32) (int, float32, error) {
	var trained [8]uint16
	var updated float32
	n := 0
outer:
	for i := 0; i < a.conf.Isomorphic; i++ {
		iso := b
		iso.Isomorphic(i)
		enc := iso.Encode()
		for _, t := range trained[:n] {
			if t == enc {
				continue outer
			}
		}
		trained[n] = enc
		n++
		v, err := a.agent.Table.Add(iso, delta)
		if err != nil {
			return n - 1, updated, err
		}
		if i == 0 {
			updated = v
		}
	}
	return n, updated, nil
}

// update moves V(s) toward target by alpha and shares the correction across
// the symmetric variants of s.
func (a *Arena) update(s game.Board, target float32, reward int) error {
	old, err := a.agent.Table.Get(s)
	if err != nil {
		return errors.WithMessage(err, "TD(0) update")
	}
	delta := a.conf.Alpha * (target - old)
	n, updated, err := a.trainIsomorphic(s, delta)
	if err != nil {
		return errors.WithMessage(err, "TD(0) update")
	}

	a.logger.WithFields(logrus.Fields{
		"state":  s.Name(),
		"old":    old,
		"target": target,
		"delta":  delta,
		"new":    updated,
	}).Debug("TD(0)")
	a.obs.Update(UpdateInfo{
		State:    s,
		Old:      old,
		Target:   target,
		Reward:   reward,
		Delta:    delta,
		New:      updated,
		Variants: n,
	})
	return nil
}

// replay walks the afterstates of a finished episode from last to first.
// The terminal afterstate is pulled toward 0; every earlier one toward the
// reward of the next move plus the freshly updated value of the next
// afterstate.
func (a *Arena) replay(ep *Episode) error {
	var exact float32
	var reward int
	for i := ep.Steps() - 1; i >= 0; i-- {
		s := ep.Afterstate(i)
		if err := a.update(s, exact, reward); err != nil {
			return errors.WithMessagef(err, "backward replay at move %d", i)
		}
		v, err := a.agent.Table.Get(s)
		if err != nil {
			return err
		}
		reward = ep.Rewards[i]
		exact = v + float32(reward)
	}
	return nil
}
