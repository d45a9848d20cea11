// This command writes the move table of every board the value table can
// address: one line per legal move with the reward and the afterstate.

package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/tdl2048/game"
	"github.com/tdl2048/value"
)

var (
	base = flag.Int("base", value.DefaultConfig().Base, "ranks below this are enumerated")
	path = flag.String("path", "transitions.txt", "file to write")
)

func main() {
	flag.Parse()
	c, err := run(value.Config{Base: *base}, *path)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	log.WithFields(log.Fields{
		"boards":   c.boards,
		"moves":    c.moves,
		"terminal": c.terminal,
	}).Infof("wrote %s", *path)
}

type counts struct {
	boards, moves, terminal int
}

// run writes the table to path. The file is closed on every return.
func run(conf value.Config, path string) (c counts, err error) {
	if !conf.IsValid() {
		return c, errors.Errorf("invalid base %d", conf.Base)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return c, errors.WithStack(err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.WithStack(cerr)
		}
	}()

	w := bufio.NewWriter(f)
	if c, err = write(w, conf); err != nil {
		return c, err
	}
	return c, errors.Wrap(w.Flush(), "flush")
}

func write(w io.Writer, conf value.Config) (c counts, err error) {
	for idx := 0; idx < conf.Size(); idx++ {
		b := game.FromIndex(idx, conf.Base)
		c.boards++
		legal := 0
		for _, d := range game.Directions {
			after := b
			r := after.Move(d)
			if r == game.Illegal {
				continue
			}
			legal++
			if _, err = fmt.Fprintf(w, "%s %s %d %s\n", b.Name(), d.Symbol(), r, after.Name()); err != nil {
				return c, errors.Wrapf(err, "board %s", b.Name())
			}
		}
		c.moves += legal
		if legal == 0 {
			c.terminal++
		}
	}
	return c, nil
}
