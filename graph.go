package tdl

import (
	"fmt"
	"strconv"

	"github.com/awalterschulze/gographviz"
	"github.com/pkg/errors"
)

const graphName = "episode"

// EpisodeGraph draws an episode as a directed chain: before-states as boxes,
// afterstates as ellipses, move edges labelled with direction and reward,
// tile edges dashed. The terminal before-state is filled.
func EpisodeGraph(ep *Episode) (*gographviz.Graph, error) {
	g := gographviz.NewGraph()
	if err := g.SetName(graphName); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := g.SetDir(true); err != nil {
		return nil, errors.WithStack(err)
	}

	for i, b := range ep.States {
		attrs := map[string]string{
			"label": strconv.Quote(b.Name()),
			"shape": "box",
		}
		if i%2 == 1 {
			attrs["shape"] = "ellipse"
		}
		if i == len(ep.States)-1 {
			attrs["style"] = "filled"
		}
		if err := g.AddNode(graphName, nodeID(i), attrs); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	for i := 1; i < len(ep.States); i++ {
		attrs := map[string]string{}
		if i%2 == 1 {
			a := i / 2
			attrs["label"] = strconv.Quote(fmt.Sprintf("%s +%d", ep.Actions[a].Symbol(), ep.Rewards[a]))
		} else {
			attrs["style"] = "dashed"
		}
		if err := g.AddEdge(nodeID(i-1), nodeID(i), true, attrs); err != nil {
			return nil, errors.WithStack(err)
		}
	}
	return g, nil
}

func nodeID(i int) string { return "s" + strconv.Itoa(i) }
