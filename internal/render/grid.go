package render

import (
	"math"

	"github.com/iburimskiy/particle-field/internal/particle"
)

type cellKey struct {
	col, row int
}

// grid buckets particle indices into square cells of the link distance, so
// candidate pairs only come from the 3x3 block around each particle.
// Cells are keyed by coordinate because particles may overshoot the bounds.
type grid struct {
	cellSize float64
	cells    map[cellKey][]int
}

func newGrid(cellSize float64) *grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &grid{
		cellSize: cellSize,
		cells:    make(map[cellKey][]int),
	}
}

func (g *grid) key(x, y float64) cellKey {
	return cellKey{
		col: int(math.Floor(x / g.cellSize)),
		row: int(math.Floor(y / g.cellSize)),
	}
}

func (g *grid) reset(f particle.Field) {
	for k, v := range g.cells {
		g.cells[k] = v[:0]
	}
	for i, p := range f {
		k := g.key(p.X, p.Y)
		g.cells[k] = append(g.cells[k], i)
	}
}

// pairs returns the unordered pairs closer than threshold. Order is unspecified.
func (g *grid) pairs(f particle.Field, threshold float64) []Link {
	g.reset(f)

	var links []Link
	for i, p := range f {
		k := g.key(p.X, p.Y)
		for dc := -1; dc <= 1; dc++ {
			for dr := -1; dr <= 1; dr++ {
				for _, j := range g.cells[cellKey{col: k.col + dc, row: k.row + dr}] {
					if j <= i {
						continue
					}
					if d, ok := within(p, f[j], threshold); ok {
						links = append(links, Link{I: i, J: j, Distance: d})
					}
				}
			}
		}
	}
	return links
}
