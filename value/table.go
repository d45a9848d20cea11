// Package value holds the learned afterstate value function.
package value

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/tdl2048/game"
	"gorgonia.org/tensor"
	"gorgonia.org/vecf32"
)

// Table maps a board to its estimated value. Each cell rank is one
// coordinate of a Base x Base x Base x Base tensor, so the row-major offset
// of a board equals game.Index. A Table is not safe for concurrent use.
type Table struct {
	conf Config
	t    *tensor.Dense
	data []float32
}

// New allocates a zeroed table.
func New(conf Config) *Table {
	if !conf.IsValid() {
		panic(fmt.Sprintf("value: invalid table base %d", conf.Base))
	}
	t := tensor.New(tensor.Of(tensor.Float32), tensor.WithShape(conf.Base, conf.Base, conf.Base, conf.Base))
	return &Table{
		conf: conf,
		t:    t,
		data: t.Data().([]float32),
	}
}

// Config returns the table configuration.
func (v *Table) Config() Config { return v.conf }

// Len is the number of entries.
func (v *Table) Len() int { return v.t.Shape().TotalSize() }

// coords checks b against the table base and returns its ranks as tensor
// coordinates.
func (v *Table) coords(b game.Board) ([]int, error) {
	if _, err := game.Index(b, v.conf.Base); err != nil {
		return nil, errors.WithMessage(err, "value table")
	}
	r := b.Ranks()
	return r[:], nil
}

// Get returns the estimate for b.
func (v *Table) Get(b game.Board) (float32, error) {
	at, err := v.coords(b)
	if err != nil {
		return 0, err
	}
	x, err := v.t.At(at...)
	if err != nil {
		return 0, errors.Wrapf(err, "value table get %s", b.Name())
	}
	return x.(float32), nil
}

// Set overwrites the estimate for b.
func (v *Table) Set(b game.Board, val float32) error {
	at, err := v.coords(b)
	if err != nil {
		return err
	}
	return errors.Wrapf(v.t.SetAt(val, at...), "value table set %s", b.Name())
}

// Add adds delta to the estimate for b and returns the new value.
func (v *Table) Add(b game.Board, delta float32) (float32, error) {
	old, err := v.Get(b)
	if err != nil {
		return 0, err
	}
	val := old + delta
	if err = v.Set(b, val); err != nil {
		return 0, err
	}
	return val, nil
}

// Reset zeroes every entry.
func (v *Table) Reset() {
	v.t.Zero()
}

// Stats summarises the table contents.
type Stats struct {
	Sum     float32
	Nonzero int
	Best    game.Board
	Worst   game.Board
}

func (s Stats) String() string {
	return fmt.Sprintf("sum %v, nonzero %d, best %s, worst %s", s.Sum, s.Nonzero, s.Best.Name(), s.Worst.Name())
}

// Stats reports the sum of all entries and the boards holding the largest
// and smallest estimates.
func (v *Table) Stats() Stats {
	var nz int
	for _, x := range v.data {
		if x != 0 {
			nz++
		}
	}
	return Stats{
		Sum:     vecf32.Sum(v.data),
		Nonzero: nz,
		Best:    game.FromIndex(vecf32.Argmax(v.data), v.conf.Base),
		Worst:   game.FromIndex(vecf32.Argmin(v.data), v.conf.Base),
	}
}
