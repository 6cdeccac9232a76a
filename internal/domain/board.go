package domain

import "strings"

// Cell represents a board cell state.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

// Size is the number of cells on the board.
const Size = 9

// IsMarker reports whether c is a player's marker.
func (c Cell) IsMarker() bool { return c == X || c == O }

func (c Cell) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// Line is a triple of board indices that wins when uniformly marked.
type Line [3]int

// lines are checked in this order; the first complete one decides Evaluate.
var lines = [8]Line{
	// rows
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	// cols
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	// diags
	{0, 4, 8}, {2, 4, 6},
}

// Lines returns the winning lines in evaluation order.
func Lines() [8]Line { return lines }

// OutcomeKind classifies an evaluated board.
type OutcomeKind uint8

const (
	InProgress OutcomeKind = iota
	Draw
	Win
)

func (k OutcomeKind) String() string {
	switch k {
	case Draw:
		return "draw"
	case Win:
		return "win"
	default:
		return "in progress"
	}
}

// Outcome is the result of evaluating a board. Marker is set only for Win.
type Outcome struct {
	Kind   OutcomeKind
	Marker Cell
}

// Terminal reports whether no further moves should be accepted.
func (o Outcome) Terminal() bool { return o.Kind != InProgress }

// Board is a fixed 3x3 board stored row-major. The zero value is empty.
type Board struct {
	cells [Size]Cell
}

// Snapshot returns a copy of the cells.
func (b *Board) Snapshot() [Size]Cell { return b.cells }

// Cell returns the value at index, or false when index is off the board.
func (b *Board) Cell(index int) (Cell, bool) {
	if index < 0 || index >= Size {
		return Empty, false
	}
	return b.cells[index], true
}

// ApplyMove claims the cell at index for marker m. It reports false and leaves
// the board untouched when the index is off the board, the cell is taken, or
// m is not a marker.
func (b *Board) ApplyMove(index int, m Cell) bool {
	if index < 0 || index >= Size || !m.IsMarker() {
		return false
	}
	if b.cells[index] != Empty {
		return false
	}
	b.cells[index] = m
	return true
}

// Evaluate reports whether the board is won, drawn or still open.
func (b *Board) Evaluate() Outcome {
	o, _ := b.evaluate()
	return o
}

// WinningLine returns the line Evaluate used to declare a win.
func (b *Board) WinningLine() (Line, bool) {
	o, i := b.evaluate()
	if o.Kind != Win {
		return Line{}, false
	}
	return lines[i], true
}

func (b *Board) evaluate() (Outcome, int) {
	for i, ln := range lines {
		m := b.cells[ln[0]]
		if m != Empty && b.cells[ln[1]] == m && b.cells[ln[2]] == m {
			return Outcome{Kind: Win, Marker: m}, i
		}
	}
	if b.Full() {
		return Outcome{Kind: Draw}, -1
	}
	return Outcome{Kind: InProgress}, -1
}

// Full reports whether every cell holds a marker.
func (b *Board) Full() bool {
	for _, c := range b.cells {
		if c == Empty {
			return false
		}
	}
	return true
}

// Reset empties every cell.
func (b *Board) Reset() { b.cells = [Size]Cell{} }

func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < 3; r++ {
		if r > 0 {
			sb.WriteString("\n-+-+-\n")
		}
		for c := 0; c < 3; c++ {
			if c > 0 {
				sb.WriteByte('|')
			}
			v := b.cells[r*3+c].String()
			if v == "" {
				v = " "
			}
			sb.WriteString(v)
		}
	}
	return sb.String()
}
