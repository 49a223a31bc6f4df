package terminal

import (
	"image/color"
	"math"

	"github.com/nsf/termbox-go"
)

const (
	smallDot = '•'
	largeDot = '●'
	linkDot  = '·'
)

// CellSurface draws onto a back buffer of terminal cells. One cell covers
// cellW x cellH surface units.
type CellSurface struct {
	cellW, cellH float64
	cols, rows   int
	backbuf      []termbox.Cell
	particle     []bool
}

// NewCellSurface creates a surface with the given cell geometry.
func NewCellSurface(cellW, cellH float64) *CellSurface {
	return &CellSurface{cellW: cellW, cellH: cellH}
}

// Size returns the surface size in cells.
func (s *CellSurface) Size() (cols, rows int) {
	return s.cols, s.rows
}

// UnitsFor converts a terminal size in cells to surface units.
func (s *CellSurface) UnitsFor(cols, rows int) (width, height float64) {
	return float64(cols) * s.cellW, float64(rows) * s.cellH
}

// ResizeSurface reallocates the back buffer to cover width x height units.
func (s *CellSurface) ResizeSurface(width, height float64) {
	s.reallocBackBuffer(int(math.Round(width/s.cellW)), int(math.Round(height/s.cellH)))
}

func (s *CellSurface) reallocBackBuffer(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	s.cols, s.rows = w, h
	s.backbuf = make([]termbox.Cell, w*h)
	s.particle = make([]bool, w*h)
	s.Clear()
}

// Cell returns the cell at column x, row y.
func (s *CellSurface) Cell(x, y int) termbox.Cell {
	return s.backbuf[y*s.cols+x]
}

func (s *CellSurface) index(x, y float64) (int, bool) {
	col := int(math.Floor(x / s.cellW))
	row := int(math.Floor(y / s.cellH))
	if col < 0 || col >= s.cols || row < 0 || row >= s.rows {
		return 0, false
	}
	return row*s.cols + col, true
}

func (s *CellSurface) Clear() {
	for i := range s.backbuf {
		s.backbuf[i] = termbox.Cell{Ch: ' ', Fg: termbox.ColorDefault, Bg: termbox.ColorDefault}
		s.particle[i] = false
	}
}

func (s *CellSurface) FillCircle(x, y, radius float64, c color.RGBA, alpha float64) {
	i, ok := s.index(x, y)
	if !ok {
		return
	}
	ch := smallDot
	if radius >= 2 {
		ch = largeDot
	}
	fg := cellColor(c)
	if alpha >= 0.5 {
		fg |= termbox.AttrBold
	}
	s.backbuf[i] = termbox.Cell{Ch: ch, Fg: fg, Bg: termbox.ColorDefault}
	s.particle[i] = true
}

// DrawLine plots the cells between the endpoints, leaving particle cells
// untouched. Invisible links are skipped.
func (s *CellSurface) DrawLine(x1, y1, x2, y2 float64, c color.RGBA, alpha, width float64) {
	if alpha <= 0 || s.cols == 0 || s.rows == 0 {
		return
	}
	c0 := int(math.Floor(x1 / s.cellW))
	r0 := int(math.Floor(y1 / s.cellH))
	c1 := int(math.Floor(x2 / s.cellW))
	r1 := int(math.Floor(y2 / s.cellH))

	dc := abs(c1 - c0)
	dr := -abs(r1 - r0)
	sc, sr := 1, 1
	if c0 > c1 {
		sc = -1
	}
	if r0 > r1 {
		sr = -1
	}
	e := dc + dr
	for {
		s.plotLink(c0, r0)
		if c0 == c1 && r0 == r1 {
			return
		}
		e2 := 2 * e
		if e2 >= dr {
			e += dr
			c0 += sc
		}
		if e2 <= dc {
			e += dc
			r0 += sr
		}
	}
}

func (s *CellSurface) plotLink(col, row int) {
	if col < 0 || col >= s.cols || row < 0 || row >= s.rows {
		return
	}
	i := row*s.cols + col
	if s.particle[i] {
		return
	}
	s.backbuf[i] = termbox.Cell{Ch: linkDot, Fg: termbox.ColorWhite, Bg: termbox.ColorDefault}
}

// Present copies the back buffer to termbox and flushes it.
func (s *CellSurface) Present() {
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	copy(termbox.CellBuffer(), s.backbuf)
	termbox.Flush()
}

// cellColor picks the terminal color closest to a particle's color.
func cellColor(c color.RGBA) termbox.Attribute {
	switch {
	case c.G >= c.R && float64(c.G) >= 0.7*float64(c.B):
		return termbox.ColorCyan
	case c.R > c.G:
		return termbox.ColorMagenta
	default:
		return termbox.ColorBlue
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
