package main

import (
	"flag"
	"fmt"

	log "github.com/sirupsen/logrus"

	tdl "github.com/tdl2048"
)

var (
	episodes = flag.Int("episodes", 1000, "episodes to learn before the drawn one")
	seed     = flag.Uint64("seed", 1, "random seed")
)

func main() {
	flag.Parse()
	log.SetLevel(log.WarnLevel)

	conf := tdl.DefaultConfig()
	conf.Seed = *seed
	td := tdl.New(conf)
	s, err := td.Learn(*episodes)
	if err != nil {
		log.Fatalf("error when learning: %+v", err)
	}
	log.Warnf("learned: %v", s)

	res, err := td.RunEpisode()
	if err != nil {
		log.Fatalf("error when playing: %+v", err)
	}
	g, err := tdl.EpisodeGraph(td.History())
	if err != nil {
		log.Fatalf("error when drawing: %+v", err)
	}
	fmt.Printf("// episode %d: %d moves, score %d\n", res.Episode, res.Steps, res.Score)
	fmt.Println(g.String())
}
