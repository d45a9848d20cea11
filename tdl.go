// Package tdl learns an afterstate value function for 2x2 2048 by self-play
// and temporal difference learning.
package tdl

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/tdl2048/game"
	"github.com/tdl2048/value"
)

// TD is the top level structure and the entry point of the API.
// It wraps the arena, the agent and the value table the agent learns.
type TD struct {
	// state
	Arena

	// config
	conf Config
	run  uuid.UUID
}

// New TD structure. It takes a configuration for the learning rule and the
// value table. A zero seed seeds from the clock.
func New(conf Config) *TD {
	if err := conf.Validate(); err != nil {
		panic(fmt.Sprintf("Config is not valid. Unable to proceed: %v", err))
	}
	seed := conf.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	run := uuid.New()

	logger := conf.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	name := conf.Name
	if name == "" {
		name = "UNKNOWN RUN"
	}
	conf.Logger = logger.WithFields(logrus.Fields{
		"run":  run.String(),
		"name": name,
	})

	agent := NewAgent(name, value.New(conf.ValueConf))
	return &TD{
		Arena: MakeArena(agent, conf, rand.New(rand.NewSource(seed))),
		conf:  conf,
		run:   run,
	}
}

// Run identifies this training run in logs.
func (t *TD) Run() uuid.UUID { return t.run }

// Config returns the configuration the run was built with.
func (t *TD) Config() Config { return t.conf }

// Table is the learned value table.
func (t *TD) Table() *value.Table { return t.agent.Table }

// Learn plays and learns from the given number of episodes.
func (t *TD) Learn(episodes int) (Summary, error) {
	results := make([]Result, 0, episodes)
	for e := 0; e < episodes; e++ {
		res, err := t.RunEpisode()
		if err != nil {
			return Summarize(results), errors.WithMessage(err, "learn")
		}
		results = append(results, res)
	}
	s := Summarize(results)
	t.logger.WithFields(logrus.Fields{
		"episodes":   s.Episodes,
		"mean_score": s.MeanScore,
		"best_score": s.BestScore,
	}).Info("learning finished")
	return s, nil
}

// Reset forgets everything learned so far: the value table is zeroed, the
// agent statistics are cleared and episode numbering restarts. The random
// stream carries on. Reset is only allowed between episodes.
func (t *TD) Reset() error {
	if t.phase != Idle {
		return errors.Wrapf(ErrPhase, "reset called while %v", t.phase)
	}
	t.agent.Table.Reset()
	t.agent.resetStats()
	t.episode = 0
	t.history = nil
	t.logger.Info("value table reset")
	return nil
}

// Summary aggregates a batch of episode results.
type Summary struct {
	Episodes  int
	MeanScore float64
	StdScore  float64
	BestScore float64
	MeanSteps float64
	MaxTiles  map[int]int // tile value -> episodes that ended with it as the largest tile
}

// Summarize computes a Summary. An empty batch gives a zero summary.
func Summarize(results []Result) Summary {
	s := Summary{Episodes: len(results), MaxTiles: make(map[int]int)}
	if len(results) == 0 {
		return s
	}
	scores := make([]float64, len(results))
	steps := make([]float64, len(results))
	for i, r := range results {
		scores[i] = float64(r.Score)
		steps[i] = float64(r.Steps)
		s.MaxTiles[game.Tile(r.MaxRank)]++
	}
	s.MeanScore, s.StdScore = stat.MeanStdDev(scores, nil)
	s.BestScore = floats.Max(scores)
	s.MeanSteps = stat.Mean(steps, nil)
	return s
}

func (s Summary) String() string {
	tiles := make([]int, 0, len(s.MaxTiles))
	for k := range s.MaxTiles {
		tiles = append(tiles, k)
	}
	sort.Ints(tiles)
	var sb strings.Builder
	fmt.Fprintf(&sb, "episodes %d, score %.2f ± %.2f (best %.0f), steps %.2f", s.Episodes, s.MeanScore, s.StdScore, s.BestScore, s.MeanSteps)
	for _, k := range tiles {
		fmt.Fprintf(&sb, ", %d: %d", k, s.MaxTiles[k])
	}
	return sb.String()
}
