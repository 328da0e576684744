package playfield

import (
	"math"

	"blockarena/internal/block"
	"blockarena/internal/geometry"
)

// Grid is the mode-specific landed-square store plus its validity mask.
// Coordinates are always world-space (geometry.WorldPoint), origin top-left
// for Traditional/Bottle and the ring center (R,R) for Ring.
type Grid struct {
	Mode    Mode
	Rows    int
	Cols    int
	cells   []*block.SquareContent // row-major, nil = empty
	mask    []bool                 // row-major validity mask
	origin  geometry.PlayerPoint   // world-space origin passed to playerToWorld
	players int
}

// NewGrid builds an empty grid sized for n players in the given mode.
func NewGrid(mode Mode, n int) *Grid {
	g := &Grid{
		Mode:    mode,
		Rows:    Height(mode),
		Cols:    Width(mode, n),
		players: n,
	}
	g.cells = make([]*block.SquareContent, g.Rows*g.Cols)
	g.mask = make([]bool, g.Rows*g.Cols)

	switch mode {
	case ModeRing:
		g.origin = geometry.PlayerPoint{X: RingRadius, Y: RingRadius}
		g.buildRingMask()
	case ModeBottle:
		g.buildBottleMask(n)
	default:
		g.buildTraditionalMask()
	}
	return g
}

// Origin is the world-space origin to pass to geometry.ToWorld for this grid.
func (g *Grid) Origin() geometry.PlayerPoint { return g.origin }

func (g *Grid) index(p geometry.WorldPoint) (int, bool) {
	x, y := int(p.X), int(p.Y)
	if x < 0 || x >= g.Cols || y < 0 || y >= g.Rows {
		return 0, false
	}
	return y*g.Cols + x, true
}

// Valid reports whether a world cell is a legal landed-coordinate per the
// mode's mask (spec.md §4.3).
func (g *Grid) Valid(p geometry.WorldPoint) bool {
	i, ok := g.index(p)
	if !ok {
		return false
	}
	return g.mask[i]
}

// MovingValid is like Valid but clamps y to the top of the arena first, so a
// freshly spawned block may exist above the visible top (spec.md §4.3).
func (g *Grid) MovingValid(p geometry.WorldPoint) bool {
	y := p.Y
	switch g.Mode {
	case ModeRing:
		if y < -RingRadius {
			y = -RingRadius
		}
	default:
		if y < 0 {
			y = 0
		}
	}
	return g.Valid(geometry.WorldPoint{X: p.X, Y: y})
}

// At returns the content occupying a world cell, or nil if empty or out of
// bounds.
func (g *Grid) At(p geometry.WorldPoint) *block.SquareContent {
	i, ok := g.index(p)
	if !ok {
		return nil
	}
	return g.cells[i]
}

// Set writes (or clears, with nil) a world cell's content.
func (g *Grid) Set(p geometry.WorldPoint, c *block.SquareContent) {
	i, ok := g.index(p)
	if !ok {
		return
	}
	g.cells[i] = c
}

func (g *Grid) buildTraditionalMask() {
	for i := range g.mask {
		g.mask[i] = true
	}
}

// buildBottleMask gives each player a 10-column bottle silhouette, adjacent
// bottles sharing one wall column (x mod 10 == 9), valid below row 9 only
// (spec.md §4.3, §3).
func (g *Grid) buildBottleMask(n int) {
	if n < 1 {
		n = 1
	}
	// Per-bottle silhouette, column-indexed 0..9, true = inside the bottle
	// above the shared base. Narrow neck at the top, widening toward the
	// base, classic bottle outline.
	silhouette := [TraditionalHeight][10]bool{}
	for row := 0; row < TraditionalHeight; row++ {
		switch {
		case row < 4:
			for x := 3; x <= 6; x++ {
				silhouette[row][x] = true
			}
		case row < 8:
			for x := 1; x <= 8; x++ {
				silhouette[row][x] = true
			}
		default:
			for x := 0; x <= 9; x++ {
				silhouette[row][x] = true
			}
		}
	}

	for row := 0; row < g.Rows; row++ {
		for x := 0; x < g.Cols; x++ {
			i := row*g.Cols + x
			if row >= BottleSharedBaseRow {
				g.mask[i] = true
				continue
			}
			bottleIdx := x / 10
			localX := x % 10
			if bottleIdx >= n {
				continue
			}
			if localX == 9 {
				// shared wall column: only valid below the base split,
				// already handled above; above it it's a wall, not floor.
				continue
			}
			g.mask[i] = silhouette[row][localX]
		}
	}
}

// buildRingMask marks cells within the annulus between RingInnerRadius and
// RingRadius around the grid center, using a squared Euclidean test with
// rounded outer corners (spec.md §4.3).
func (g *Grid) buildRingMask() {
	cx, cy := float64(RingRadius), float64(RingRadius)
	inner := float64(RingInnerRadius)
	outer := float64(RingRadius)
	for row := 0; row < g.Rows; row++ {
		for x := 0; x < g.Cols; x++ {
			dx := float64(x) - cx
			dy := float64(row) - cy
			d := math.Sqrt(dx*dx + dy*dy)
			if d >= inner && d <= outer {
				g.mask[row*g.Cols+x] = true
			}
		}
	}
}

// RowFull reports whether a grid row (a Traditional row or a bottle's
// shared-base row) is entirely non-empty across every valid cell. Ring
// borders are checked by RingBorderFull instead.
func (g *Grid) RowFull(row int) bool {
	for x := 0; x < g.Cols; x++ {
		i := row*g.Cols + x
		if !g.mask[i] {
			continue
		}
		if g.cells[i] == nil {
			return false
		}
	}
	return true
}

// BottlePersonalSliceFull reports whether player idx's personal-area slice
// (columns idx*10..idx*10+8, rows above the shared base) is entirely
// non-empty at the given row.
func (g *Grid) BottlePersonalSliceFull(row, playerIdx int) bool {
	base := playerIdx * 10
	for x := base; x < base+9 && x < g.Cols; x++ {
		i := row*g.Cols + x
		if !g.mask[i] {
			continue
		}
		if g.cells[i] == nil {
			return false
		}
	}
	return true
}

// ShiftRowsDown shifts rows [0, to) down by one, overwriting row to and
// leaving row 0 blank; used by Traditional/shared-base clears.
func (g *Grid) ShiftRowsDown(to int) {
	for row := to; row > 0; row-- {
		copy(g.cells[row*g.Cols:(row+1)*g.Cols], g.cells[(row-1)*g.Cols:row*g.Cols])
	}
	for x := 0; x < g.Cols; x++ {
		g.cells[x] = nil
	}
}

// ShiftBottlePersonalDown shifts only player idx's personal-area column
// strip down by one above row `to`, used for a personal-area clear.
func (g *Grid) ShiftBottlePersonalDown(to, playerIdx int) {
	base := playerIdx * 10
	end := base + 9
	if end > g.Cols {
		end = g.Cols
	}
	for row := to; row > 0; row-- {
		copy(g.cells[row*g.Cols+base:row*g.Cols+end], g.cells[(row-1)*g.Cols+base:(row-1)*g.Cols+end])
	}
	for x := base; x < end; x++ {
		g.cells[x] = nil
	}
}

// RingBorderCells returns the world points forming the square border at the
// given radius from center, in a stable clockwise order starting at the top
// left, for ring clearing (spec.md §4.6).
func (g *Grid) RingBorderCells(r int) []geometry.WorldPoint {
	cx, cy := RingRadius, RingRadius
	out := make([]geometry.WorldPoint, 0, 8*r)
	for x := -r; x <= r; x++ {
		out = append(out, geometry.WorldPoint{X: int16(cx + x), Y: int16(cy - r)})
	}
	for y := -r + 1; y <= r; y++ {
		out = append(out, geometry.WorldPoint{X: int16(cx + r), Y: int16(cy + y)})
	}
	for x := r - 1; x >= -r; x-- {
		out = append(out, geometry.WorldPoint{X: int16(cx + x), Y: int16(cy + r)})
	}
	for y := r - 1; y >= -r+1; y-- {
		out = append(out, geometry.WorldPoint{X: int16(cx - r), Y: int16(cy + y)})
	}
	return out
}

// RingBorderFull reports whether every cell of the square border at radius r
// is non-empty.
func (g *Grid) RingBorderFull(r int) bool {
	for _, p := range g.RingBorderCells(r) {
		if g.At(p) == nil {
			return false
		}
	}
	return true
}

// CompressRingInward maps every ring at a radius greater than r one step
// inward (border-to-border, preserving corner/edge correspondence), then
// blanks the outermost border. Must be called from the outer ring inward by
// the caller when multiple rings clear in one pass (spec.md §4.6).
func (g *Grid) CompressRingInward(from int) {
	maxR := RingRadius
	for r := from; r < maxR; r++ {
		src := g.RingBorderCells(r + 1)
		dst := g.RingBorderCells(r)
		n := len(dst)
		for i := 0; i < n; i++ {
			si := i * len(src) / n
			g.Set(dst[i], g.At(src[si]))
		}
	}
	for _, p := range g.RingBorderCells(maxR) {
		g.Set(p, nil)
	}
}
