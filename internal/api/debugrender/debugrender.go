// Package debugrender rasterizes a GameSnapshot to a PNG for the admin
// debug endpoint. This is explicitly NOT the production terminal renderer
// (that's an ANSI escape-sequence diff writer out of scope here) — it's a
// separate, simpler operator-facing view for debugging a lobby from a
// browser without a terminal client.
package debugrender

import (
	"image"

	"github.com/fogleman/gg"

	"blockarena/internal/block"
	"blockarena/internal/game"
)

const cellSize = 16

// palette maps a small palette index to an RGB triple. Index 0 means "use
// the default" and renders as a mid-gray rather than pure black so
// default-colored squares stay distinguishable from the background; empty
// cells are not drawn.
var palette = [7][3]float64{
	{0.5, 0.5, 0.5}, // default
	{0.8, 0.1, 0.1}, // red
	{0.1, 0.7, 0.2}, // green
	{0.9, 0.6, 0.1}, // orange
	{0.2, 0.4, 0.9}, // blue
	{0.8, 0.2, 0.8}, // magenta
	{0.1, 0.8, 0.8}, // cyan
}

func colorFor(idx int) (float64, float64, float64) {
	if idx < 0 || idx >= len(palette) {
		idx = 0
	}
	c := palette[idx]
	return c[0], c[1], c[2]
}

// Render rasterizes a snapshot's landed grid, falling blocks, and flash
// overlay into a PNG image.
func Render(snap game.GameSnapshot) image.Image {
	rows, cols := snap.Rows, snap.Cols
	if rows == 0 || cols == 0 {
		rows, cols = 1, 1
	}
	dc := gg.NewContext(cols*cellSize, rows*cellSize)
	dc.SetRGB(0.05, 0.05, 0.05)
	dc.Clear()

	drawCell := func(x, y int, content block.SquareContent) {
		px, py := float64(x*cellSize), float64(y*cellSize)
		switch content.Kind {
		case block.ContentBomb:
			dc.SetRGB(0.9, 0.1, 0.1)
		case block.ContentFallingDrill, block.ContentLandedDrill:
			dc.SetRGB(0.6, 0.6, 0.1)
		default:
			r, g, b := colorFor(content.Normal[0].Color.BG)
			dc.SetRGB(r, g, b)
		}
		dc.DrawRectangle(px+1, py+1, float64(cellSize)-2, float64(cellSize)-2)
		dc.Fill()
	}

	for _, sq := range snap.Landed {
		drawCell(int(sq.Point.X), int(sq.Point.Y), sq.Content)
	}
	for _, sq := range snap.Falling {
		drawCell(int(sq.Point.X), int(sq.Point.Y), sq.Content)
	}

	dc.SetRGB(1, 1, 1)
	for _, fp := range snap.FlashingPoints {
		px, py := float64(int(fp.Point.X)*cellSize), float64(int(fp.Point.Y)*cellSize)
		dc.DrawRectangle(px, py, float64(cellSize), float64(cellSize))
		dc.Fill()
	}

	return dc.Image()
}
