package block

import "blockarena/internal/geometry"

// Color is a terminal foreground/background color pair. Zero means "use the
// terminal's default color" — it is never itself considered "blank" for
// content purposes, only for color rendering.
type Color struct {
	FG, BG int
}

// ShapeKind names one of the seven tetrominoes.
type ShapeKind int

const (
	ShapeL ShapeKind = iota
	ShapeI
	ShapeJ
	ShapeO
	ShapeT
	ShapeZ
	ShapeS
)

// Shape is an immutable tetromino definition: its four relative cells and
// display color.
type Shape struct {
	Kind  ShapeKind
	Cells [4]geometry.PlayerPoint
	Color Color
}

// Tetrominoes lists the seven standard shapes, cells centered near (0,0) so
// rotation pivots sensibly.
var Tetrominoes = []Shape{
	{
		Kind:  ShapeL,
		Cells: [4]geometry.PlayerPoint{{X: 0, Y: -1}, {X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}},
		Color: Color{FG: 0, BG: 3}, // orange
	},
	{
		Kind:  ShapeI,
		Cells: [4]geometry.PlayerPoint{{X: 0, Y: -2}, {X: 0, Y: -1}, {X: 0, Y: 0}, {X: 0, Y: 1}},
		Color: Color{FG: 0, BG: 6}, // cyan
	},
	{
		Kind:  ShapeJ,
		Cells: [4]geometry.PlayerPoint{{X: 0, Y: -1}, {X: 0, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 1}},
		Color: Color{FG: 0, BG: 4}, // blue
	},
	{
		Kind:  ShapeO,
		Cells: [4]geometry.PlayerPoint{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}},
		Color: Color{FG: 0, BG: 11}, // yellow
	},
	{
		Kind:  ShapeT,
		Cells: [4]geometry.PlayerPoint{{X: -1, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}},
		Color: Color{FG: 0, BG: 5}, // magenta
	},
	{
		Kind:  ShapeZ,
		Cells: [4]geometry.PlayerPoint{{X: -1, Y: 0}, {X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}},
		Color: Color{FG: 0, BG: 1}, // red
	},
	{
		Kind:  ShapeS,
		Cells: [4]geometry.PlayerPoint{{X: 1, Y: 0}, {X: 0, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 1}},
		Color: Color{FG: 0, BG: 2}, // green
	},
}
