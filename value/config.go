package value

import "github.com/tdl2048/game"

// Config configures the value table
type Config struct {
	Base int `json:"base"` // exclusive upper bound on addressable ranks; the table holds Base^4 entries
}

// DefaultConfig addresses ranks 0 to 5, which covers every tile a 2x2 game
// can build.
func DefaultConfig() Config {
	return Config{Base: 6}
}

func (conf Config) IsValid() bool {
	return conf.Base >= 2 && conf.Base <= game.MaxRank+1
}

// Size is the number of entries a table with this config holds.
func (conf Config) Size() int {
	n := 1
	for i := 0; i < game.Cells; i++ {
		n *= conf.Base
	}
	return n
}
