package main

import (
	"bufio"
	"flag"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	tdl "github.com/tdl2048"
	"github.com/tdl2048/game"
)

var (
	envFile    = flag.String("env", ".env", "optional file with TDL_* defaults")
	alpha      = flag.Float64("alpha", 0.01, "learning rate (TDL_ALPHA)")
	isomorphic = flag.Int("isomorphic", 8, "symmetric variants sharing each update, 1 to 8 (TDL_ISOMORPHIC)")
	backward   = flag.Bool("backward", false, "replay each episode backwards instead of online TD(0) (TDL_BACKWARD)")
	seed       = flag.Uint64("seed", 0, "random seed, 0 seeds from the clock (TDL_SEED)")
	episodes   = flag.Int("episodes", 0, "episodes per run, 0 runs until interrupted (TDL_EPISODES)")
	runs       = flag.Int("runs", 1, "independent runs, the table is reset between them (TDL_RUNS)")
	trace      = flag.Bool("trace", true, "print every step of every episode")
	pause      = flag.Bool("pause", true, "wait for enter between episodes")
	verbose    = flag.Bool("v", false, "log every TD update")
)

func main() {
	flag.Parse()
	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		log.Warnf("env file %s: %v", *envFile, err)
	}
	applyEnv()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	conf := tdl.DefaultConfig()
	conf.Alpha = float32(*alpha)
	conf.Isomorphic = *isomorphic
	conf.Forward = !*backward
	conf.Backward = *backward
	conf.Seed = *seed
	conf.Logger = log.StandardLogger()
	if err := conf.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if *runs < 1 || (*runs > 1 && *episodes == 0) {
		log.Fatalf("-runs %d needs a positive -episodes", *runs)
	}

	var observers []tdl.Observer
	if *trace {
		observers = append(observers, tdl.NewTracer(os.Stdout, conf))
	}
	if *pause {
		observers = append(observers, &pauser{in: bufio.NewReader(os.Stdin)})
	}
	conf.Observer = fanout(observers)

	td := tdl.New(conf)
	log.WithField("run", td.Run()).Info("training started")

	for run := 1; run <= *runs; run++ {
		if run > 1 {
			if err := td.Reset(); err != nil {
				log.Fatalf("run %d: %+v", run, err)
			}
		}
		for *episodes == 0 || td.EpisodeNumber() < *episodes {
			if _, err := td.RunEpisode(); err != nil {
				log.Fatalf("run %d episode %d: %+v", run, td.EpisodeNumber(), err)
			}
		}
		a := td.Agent()
		log.WithFields(log.Fields{
			"run":        run,
			"episodes":   a.Episodes,
			"best_score": a.BestScore,
			"max_tile":   game.Tile(a.MaxRank),
			"table":      td.Table().Stats().String(),
		}).Info("training stopped")
	}
}

// applyEnv fills flags that were not given on the command line from TDL_*
// variables.
func applyEnv() {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	for name, key := range map[string]string{
		"alpha":      "TDL_ALPHA",
		"isomorphic": "TDL_ISOMORPHIC",
		"backward":   "TDL_BACKWARD",
		"seed":       "TDL_SEED",
		"episodes":   "TDL_EPISODES",
		"runs":       "TDL_RUNS",
	} {
		v, ok := os.LookupEnv(key)
		if !ok || set[name] {
			continue
		}
		if err := flag.Set(name, v); err != nil {
			log.Fatalf("%s=%q: %v", key, v, err)
		}
	}
}

// pauser blocks on stdin at every episode boundary. Once stdin is exhausted
// it stops pausing.
type pauser struct {
	tdl.NopObserver
	in   *bufio.Reader
	done bool
}

func (p *pauser) EpisodeEnd(tdl.Result) {
	if p.done {
		return
	}
	if _, err := p.in.ReadString('\n'); err != nil {
		log.WithError(err).Warn("cannot read stdin, no longer pausing between episodes")
		p.done = true
	}
}

// multi forwards every event to each observer in order.
type multi []tdl.Observer

func fanout(obs []tdl.Observer) tdl.Observer {
	if len(obs) == 0 {
		return tdl.NopObserver{}
	}
	return multi(obs)
}

func (m multi) EpisodeBegin(e int) {
	for _, o := range m {
		o.EpisodeBegin(e)
	}
}

func (m multi) Step(info tdl.StepInfo) {
	for _, o := range m {
		o.Step(info)
	}
}

func (m multi) Update(info tdl.UpdateInfo) {
	for _, o := range m {
		o.Update(info)
	}
}

func (m multi) EpisodeEnd(res tdl.Result) {
	for _, o := range m {
		o.EpisodeEnd(res)
	}
}
