package game

// Direction is a move opcode.
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

const (
	// Illegal is returned by Move when the board did not change.
	Illegal = -1

	RowNum = 2
	ColNum = 2

	// Cells is the number of cells on the board.
	Cells = RowNum * ColNum

	// MaxRank is the largest rank a nibble can hold.
	MaxRank = 15
)

// Directions lists every direction in opcode order.
var Directions = [4]Direction{Up, Right, Down, Left}

var dirSymbols = [4]string{"^", ">", "v", "<"}
var dirNames = [4]string{"Up", "Right", "Down", "Left"}

// IsValid reports whether d is one of the four opcodes.
func (d Direction) IsValid() bool { return d >= Up && d <= Left }

func (d Direction) String() string {
	if !d.IsValid() {
		return "Direction(?)"
	}
	return dirNames[d]
}

// Symbol returns the arrow used in traces.
func (d Direction) Symbol() string {
	if !d.IsValid() {
		return "?"
	}
	return dirSymbols[d]
}

// Intner is the random source used for tile insertion.
type Intner interface {
	Intn(n int) int
}
