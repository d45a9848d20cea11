package tdl

import (
	"fmt"
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdl2048/game"
	"github.com/tdl2048/value"
)

// scripted is a game.Intner that replays fixed values.
type scripted struct {
	vals []int
	i    int
}

func (s *scripted) Intn(n int) int {
	v := s.vals[s.i%len(s.vals)] % n
	s.i++
	return v
}

// recorder is an Observer that keeps everything it sees.
type recorder struct {
	begins  []int
	steps   []StepInfo
	updates []UpdateInfo
	ends    []Result
}

func (r *recorder) EpisodeBegin(e int)     { r.begins = append(r.begins, e) }
func (r *recorder) Step(info StepInfo)     { r.steps = append(r.steps, info) }
func (r *recorder) Update(info UpdateInfo) { r.updates = append(r.updates, info) }
func (r *recorder) EpisodeEnd(res Result)  { r.ends = append(r.ends, res) }

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}

func testArena(conf Config, r game.Intner) (*Arena, *recorder) {
	rec := &recorder{}
	conf.Logger = quietLogger()
	conf.Observer = rec
	agent := NewAgent("test", value.New(conf.ValueConf))
	a := MakeArena(agent, conf, r)
	return &a, rec
}

func get(t *testing.T, v *value.Table, enc uint16) float32 {
	t.Helper()
	x, err := v.Get(game.Decode(enc))
	require.NoError(t, err)
	return x
}

func TestForwardUpdateAfterOneMove(t *testing.T) {
	// b0 = [1 0 / 0 0]; b1 puts a 2 in the first empty cell of a0
	a, rec := testArena(DefaultConfig(), &scripted{vals: []int{0, 1, 0, 1}})
	table := a.Agent().Table

	require.NoError(t, a.Begin())
	assert.Equal(t, Playing, a.Phase())
	assert.Equal(t, uint16(0x1000), a.History().Last().Encode())

	// Right and Down tie at 0, Right has the lower opcode
	require.NoError(t, a.Step())
	require.Len(t, rec.steps, 1)
	assert.Equal(t, game.Right, rec.steps[0].Chosen)
	assert.Empty(t, rec.updates, "no afterstate to update yet")
	assert.Equal(t, uint16(0x0100), a.History().Afterstate(0).Encode())
	assert.Equal(t, uint16(0x1100), a.History().Last().Encode())

	// from [1 1 / 0 0] Right merges for 4; the previous afterstate moves to
	// alpha * 4 and so does each of its symmetric variants
	require.NoError(t, a.Step())
	require.Len(t, rec.updates, 1)
	u := rec.updates[0]
	assert.Equal(t, uint16(0x0100), u.State.Encode())
	assert.Equal(t, float32(4), u.Target)
	assert.Equal(t, 4, u.Reward)
	assert.Equal(t, 4, u.Variants)

	want := float32(0.01 * 4)
	for _, enc := range []uint16{0x1000, 0x0100, 0x0010, 0x0001} {
		assert.InDelta(t, want, get(t, table, enc), 1e-6, "entry %04x", enc)
	}
	st := table.Stats()
	assert.Equal(t, 4, st.Nonzero)
	assert.InDelta(t, 4*want, st.Sum, 1e-6)
}

func TestTrainIsomorphicDeduplicates(t *testing.T) {
	a, _ := testArena(DefaultConfig(), &scripted{vals: []int{0}})
	table := a.Agent().Table

	// every symmetry maps a uniform board onto itself
	n, v, err := a.trainIsomorphic(game.FromRanks([game.Cells]int{1, 1, 1, 1}), 0.5)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, float32(0.5), v)
	assert.Equal(t, float32(0.5), get(t, table, 0x1111))

	// [1 2 / 3 4] has seven distinct variants among the eight
	n, v, err = a.trainIsomorphic(game.FromRanks([game.Cells]int{1, 2, 3, 4}), 1)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, float32(1), v)
	assert.Equal(t, float32(1), get(t, table, 0x1234))
	assert.Equal(t, float32(0), get(t, table, 0x2143), "plain mirror is not a variant")

	// [1 0 / 0 1] has two
	n, _, err = a.trainIsomorphic(game.FromRanks([game.Cells]int{1, 0, 0, 1}), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, float32(1), get(t, table, 0x1001))
	assert.Equal(t, float32(1), get(t, table, 0x0110))
}

func TestTrainIsomorphicCount(t *testing.T) {
	conf := DefaultConfig()
	conf.Isomorphic = 1
	a, _ := testArena(conf, &scripted{vals: []int{0}})

	n, v, err := a.trainIsomorphic(game.Decode(0x0100), 0.25)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, float32(0.25), v)
	st := a.Agent().Table.Stats()
	assert.Equal(t, 1, st.Nonzero)
	assert.Equal(t, game.Decode(0x0100), st.Best)
}

func TestUpdateReportsStoredValue(t *testing.T) {
	a, rec := testArena(DefaultConfig(), &scripted{vals: []int{0}})
	table := a.Agent().Table
	s := game.Decode(0x1200)
	require.NoError(t, table.Set(s, 2))

	require.NoError(t, a.update(s, 4, 0))
	require.Len(t, rec.updates, 1)
	u := rec.updates[0]
	assert.Equal(t, float32(2), u.Old)
	assert.Equal(t, get(t, table, 0x1200), u.New)
	assert.InDelta(t, 2+a.conf.Alpha*2, u.New, 1e-6)

	// a rank the table cannot hold fails instead of reporting a value
	err := a.update(game.Decode(0x6000), 1, 0)
	assert.Equal(t, game.ErrRankOutOfRange, errors.Cause(err))
	assert.Len(t, rec.updates, 1)
}

func TestTerminalTargetIsZero(t *testing.T) {
	a, rec := testArena(DefaultConfig(), &scripted{vals: []int{0}})
	table := a.Agent().Table

	a0 := game.FromRanks([game.Cells]int{1, 2, 3, 0})
	bT := game.FromRanks([game.Cells]int{1, 2, 3, 4})
	require.NoError(t, table.Set(a0, 1))

	a.episode = 1
	a.history = &Episode{
		States:  []game.Board{game.FromRanks([game.Cells]int{1, 2, 0, 3}), a0, bT},
		Actions: []game.Direction{game.Right},
		Rewards: []int{0},
	}
	a.phase = Playing

	require.NoError(t, a.Step())
	assert.Equal(t, Terminal, a.Phase())
	require.Len(t, rec.updates, 1)
	assert.Equal(t, float32(0), rec.updates[0].Target)
	assert.InDelta(t, 0.99, get(t, table, a0.Encode()), 1e-6)
	assert.Equal(t, 3, len(a.History().States), "no move applied at Terminal")

	res, err := a.End()
	require.NoError(t, err)
	assert.Equal(t, Idle, a.Phase())
	assert.Equal(t, 1, res.Steps)
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, 4, res.MaxRank)
	assert.Equal(t, bT, res.Final)
	assert.Equal(t, []Result{res}, rec.ends)
}

func TestBackwardReplay(t *testing.T) {
	conf := DefaultConfig()
	conf.Forward = false
	conf.Backward = true
	conf.Alpha = 0.5
	conf.Isomorphic = 1
	a, rec := testArena(conf, &scripted{vals: []int{0}})
	table := a.Agent().Table

	a0 := game.Decode(0x0100)
	a1 := game.Decode(0x0201)
	require.NoError(t, table.Set(a1, 1))

	ep := &Episode{
		States:  []game.Board{game.Decode(0x1000), a0, game.Decode(0x1100), a1, game.Decode(0x1231)},
		Actions: []game.Direction{game.Right, game.Right},
		Rewards: []int{0, 4},
	}
	require.NoError(t, a.replay(ep))

	// a1: 1 + 0.5*(0-1) = 0.5, then a0: 0 + 0.5*(4+0.5-0) = 2.25
	assert.InDelta(t, 0.5, get(t, table, 0x0201), 1e-6)
	assert.InDelta(t, 2.25, get(t, table, 0x0100), 1e-6)

	require.Len(t, rec.updates, 2)
	assert.Equal(t, a1, rec.updates[0].State)
	assert.Equal(t, 0, rec.updates[0].Reward)
	assert.Equal(t, a0, rec.updates[1].State)
	assert.Equal(t, float32(4.5), rec.updates[1].Target)
	assert.Equal(t, 4, rec.updates[1].Reward)
}

func TestBackwardModeSkipsOnlineUpdates(t *testing.T) {
	conf := DefaultConfig()
	conf.Forward = false
	conf.Backward = true
	a, rec := testArena(conf, &scripted{vals: []int{3, 1, 2, 7, 0, 4}})

	require.NoError(t, a.Begin())
	for a.Phase() == Playing {
		require.NoError(t, a.Step())
	}
	assert.Empty(t, rec.updates, "backward mode waits for the episode to end")

	res, err := a.End()
	require.NoError(t, err)
	assert.Len(t, rec.updates, res.Steps)
}

func TestRunEpisode(t *testing.T) {
	for _, mode := range []string{"forward", "backward", "none"} {
		t.Run(mode, func(t *testing.T) {
			conf := DefaultConfig()
			conf.Forward = mode == "forward"
			conf.Backward = mode == "backward"
			a, rec := testArena(conf, &scripted{vals: []int{5, 3, 8, 1, 2, 9, 0, 7, 4, 6}})

			for e := 1; e <= 20; e++ {
				res, err := a.RunEpisode()
				require.NoError(t, err)
				assert.Equal(t, e, res.Episode)
				assert.Equal(t, Idle, a.Phase())

				ep := a.History()
				assert.Equal(t, res.Steps, len(ep.Actions))
				assert.Equal(t, 2*res.Steps+1, len(ep.States))
				assert.Equal(t, ep.Score(), res.Score)
				for _, d := range game.Directions {
					final := res.Final
					assert.Equal(t, game.Illegal, final.Move(d), "final board must be terminal")
				}
			}
			assert.Len(t, rec.begins, 20)
			assert.Len(t, rec.ends, 20)
			assert.Equal(t, 20, a.Agent().Episodes)

			if mode == "none" {
				assert.Empty(t, rec.updates)
				assert.Zero(t, a.Agent().Table.Stats().Nonzero)
			}
		})
	}
}

func TestPhaseErrors(t *testing.T) {
	a, _ := testArena(DefaultConfig(), &scripted{vals: []int{0}})

	assert.Equal(t, ErrPhase, errors.Cause(a.Step()))
	_, err := a.End()
	assert.Equal(t, ErrPhase, errors.Cause(err))

	require.NoError(t, a.Begin())
	assert.Equal(t, ErrPhase, errors.Cause(a.Begin()))
	_, err = a.End()
	assert.Equal(t, ErrPhase, errors.Cause(err))
}

func TestStepPropagatesTableErrors(t *testing.T) {
	conf := DefaultConfig()
	conf.ValueConf = value.Config{Base: 2}
	a, _ := testArena(conf, &scripted{vals: []int{0}})

	a.history = &Episode{States: []game.Board{game.FromRanks([game.Cells]int{1, 1, 0, 0})}}
	a.phase = Playing
	err := a.Step()
	require.Error(t, err)
	assert.Equal(t, game.ErrRankOutOfRange, errors.Cause(err))
}

func TestStepLogsChosenMove(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	conf := DefaultConfig()
	conf.Logger = logger
	agent := NewAgent("test", value.New(conf.ValueConf))
	a := MakeArena(agent, conf, &scripted{vals: []int{0, 1, 0, 1}})

	res, err := a.RunEpisode()
	require.NoError(t, err)

	var steps []*logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Message == "step" {
			steps = append(steps, e)
		}
	}
	require.Len(t, steps, res.Steps+1)
	for _, e := range steps[:res.Steps] {
		assert.Equal(t, false, e.Data["terminal"])
		assert.Contains(t, fmt.Sprint(e.Data["move"]), "reward")
	}
	last := steps[res.Steps]
	assert.Equal(t, true, last.Data["terminal"])
	assert.Equal(t, res.Final.Name(), last.Data["before"])
	assert.Equal(t, "{Up: n/a}", fmt.Sprint(last.Data["move"]))
}
