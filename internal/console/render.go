package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/jaminalder/tictactoe/internal/domain"
)

// Renderer repaints the board on a terminal after every transition.
type Renderer struct {
	w   io.Writer
	out *termenv.Output
}

// NewRenderer writes to w. Colours follow what termenv detects for w unless
// a profile is forced through opts.
func NewRenderer(w io.Writer, opts ...termenv.OutputOption) *Renderer {
	return &Renderer{w: w, out: termenv.NewOutput(w, opts...)}
}

// Observe renders moves, resets and the final board. Starting a game alone
// does not repaint since the board may be stale until the round is reset.
func (r *Renderer) Observe(e domain.Event) {
	if e.Kind == domain.EventStarted {
		return
	}
	r.Render(e.Result)
}

// Render prints the board followed by the status line.
func (r *Renderer) Render(res domain.Result) {
	_, _ = io.WriteString(r.w, r.Board(res.Board))
	_, _ = fmt.Fprintf(r.w, "\n%s\n", res.Status.Text())
}

// Board draws the grid. Empty cells show the key that plays them.
func (r *Renderer) Board(cells [domain.Size]domain.Cell) string {
	win := winningCells(cells)

	var sb strings.Builder
	for row := 0; row < 3; row++ {
		if row > 0 {
			sb.WriteString("---+---+---\n")
		}
		for col := 0; col < 3; col++ {
			i := row*3 + col
			if col > 0 {
				sb.WriteByte('|')
			}
			sb.WriteByte(' ')
			sb.WriteString(r.cell(i, cells[i], win[i]))
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (r *Renderer) cell(i int, c domain.Cell, highlight bool) string {
	var s termenv.Style
	switch c {
	case domain.X:
		s = r.out.String(c.String()).Foreground(r.out.Color("1")).Bold()
	case domain.O:
		s = r.out.String(c.String()).Foreground(r.out.Color("4")).Bold()
	default:
		return r.out.String(strconv.Itoa(i + 1)).Faint().String()
	}
	if highlight {
		s = s.Reverse()
	}
	return s.String()
}

// winningCells marks the line that decides the board, if any.
func winningCells(cells [domain.Size]domain.Cell) [domain.Size]bool {
	var b domain.Board
	for i, c := range cells {
		b.ApplyMove(i, c)
	}
	var out [domain.Size]bool
	if ln, ok := b.WinningLine(); ok {
		for _, i := range ln {
			out[i] = true
		}
	}
	return out
}
