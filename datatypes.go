package tdl

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/tdl2048/game"
	"github.com/tdl2048/lookahead"
	"github.com/tdl2048/value"
)

// Config for the TD structure.
// It holds the learning parameters and the value table configuration
// as well as objects that facilitate the interactions with the end-user (eg: Observer).
type Config struct {
	Name  string  `json:"name"`
	Alpha float32 `json:"alpha"` // learning rate, fixed for the whole run

	// Forward applies TD(0) online after every move. Backward replays the
	// finished episode from the end instead. At most one may be set.
	Forward  bool `json:"forward"`
	Backward bool `json:"backward"`

	// number of symmetric variants (1 to 8) that share every update
	Isomorphic int `json:"isomorphic"`

	Seed      uint64       `json:"seed"`
	ValueConf value.Config `json:"value_conf"`

	// extensions
	Logger   logrus.FieldLogger `json:"-"`
	Observer Observer           `json:"-"`
}

// DefaultConfig is forward TD(0) with alpha 0.01 and full isomorphism sharing.
func DefaultConfig() Config {
	return Config{
		Name:       "tdl2048",
		Alpha:      0.01,
		Forward:    true,
		Backward:   false,
		Isomorphic: 8,
		Seed:       1,
		ValueConf:  value.DefaultConfig(),
	}
}

// Validate reports every problem with the config at once.
func (c Config) Validate() error {
	var errs error
	if !(c.Alpha > 0 && c.Alpha <= 1) {
		errs = multierror.Append(errs, errors.Errorf("alpha must be in (0, 1], got %v", c.Alpha))
	}
	if c.Isomorphic < 1 || c.Isomorphic > 8 {
		errs = multierror.Append(errs, errors.Errorf("isomorphic must be in [1, 8], got %d", c.Isomorphic))
	}
	if c.Forward && c.Backward {
		errs = multierror.Append(errs, errors.New("forward and backward modes are mutually exclusive"))
	}
	if !c.ValueConf.IsValid() {
		errs = multierror.Append(errs, errors.Errorf("value table base must be in [2, %d], got %d", game.MaxRank+1, c.ValueConf.Base))
	}
	return errs
}

// Phase is the state of the learning controller.
type Phase int

const (
	Idle Phase = iota
	Playing
	Terminal
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "Idle"
	case Playing:
		return "Playing"
	case Terminal:
		return "Terminal"
	}
	return "UNKNOWN PHASE"
}

// Result is what one episode produced.
type Result struct {
	Episode int
	Steps   int // moves applied
	Score   int // sum of move rewards
	MaxRank int
	Final   game.Board // terminal before-state
}

// StepInfo describes one decision, before any update is applied.
type StepInfo struct {
	Episode    int
	Before     game.Board
	Candidates lookahead.Candidates
	Chosen     game.Direction
	History    *Episode // read only
}

// UpdateInfo describes one TD update of a single afterstate.
type UpdateInfo struct {
	State    game.Board
	Old      float32 // estimate before the update
	Target   float32
	Reward   int // reward part of the target
	Delta    float32
	New      float32
	Variants int // distinct symmetric encodings that received Delta
}

// Observer is anything that wants to follow training. EpisodeEnd marks the
// episode boundary; a harness that pauses between episodes does so there.
type Observer interface {
	EpisodeBegin(episode int)
	Step(info StepInfo)
	Update(info UpdateInfo)
	EpisodeEnd(res Result)
}

// NopObserver ignores everything.
type NopObserver struct{}

func (NopObserver) EpisodeBegin(int)  {}
func (NopObserver) Step(StepInfo)     {}
func (NopObserver) Update(UpdateInfo) {}
func (NopObserver) EpisodeEnd(Result) {}
