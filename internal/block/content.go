package block

import "blockarena/internal/geometry"

// ContentKind discriminates the SquareContent tagged union.
type ContentKind int

const (
	ContentNormal ContentKind = iota
	ContentBomb
	ContentFallingDrill
	ContentLandedDrill
)

// Char is one of the two half-width terminal cells a square renders as.
type Char struct {
	Text  string
	Color Color
}

// SquareContent is the closed tagged union of everything that can occupy one
// grid cell: a normal landed piece, a ticking bomb, a still-falling drill
// bit, or a drill that has already bored into the landed grid.
//
// Only one of the fields below is meaningful at a time, selected by Kind.
// Normal cells are never both present and empty-text; the factory and
// landing code are responsible for that invariant.
type SquareContent struct {
	Kind ContentKind

	Normal [2]Char

	BombTimer int  // 0-15; reaches 0 to explode.
	BombID    int  // assigned the first time the bomb starts ticking.
	HasBombID bool

	DrillAnim int // 0-11, animation frame for a still-falling drill.

	// LandedDrillDirs holds one pre-rendered two-character string per
	// possible viewer down-direction, indexed by dirIndex (see DirIndex).
	LandedDrillDirs [4]string
}

// DirIndex maps a unit down-direction to a stable 0-3 index used to select
// among LandedDrillDirs, independent of which package defines the direction
// constants.
func DirIndex(dx, dy int32) int {
	switch {
	case dx == 0 && dy == 1:
		return 0 // down
	case dx == 0 && dy == -1:
		return 1 // up
	case dx == -1 && dy == 0:
		return 2 // left
	default:
		return 3 // right (dx == 1 && dy == 0)
	}
}

// NewNormal builds a Normal square from a shape's color, the form landing
// code uses for every non-special tetromino/pentomino cell.
func NewNormal(bg Color) SquareContent {
	return SquareContent{
		Kind: ContentNormal,
		Normal: [2]Char{
			{Text: "[", Color: bg},
			{Text: "]", Color: bg},
		},
	}
}

// NewBomb builds a ticking bomb with no bomb id assigned yet; the id is
// attached while the bomb is falling (see game.Game.AssignPendingBombIDs),
// and game.Game.TickBombsByID only ticks bombs that carry one.
func NewBomb(timer int) SquareContent {
	return SquareContent{Kind: ContentBomb, BombTimer: timer}
}

// NewFallingDrill builds a still-falling drill segment at animation frame 0.
func NewFallingDrill() SquareContent {
	return SquareContent{Kind: ContentFallingDrill}
}

// Land converts falling content into what should be written to the landed
// grid. A FallingDrill freezes into a LandedDrill with its four
// viewer-direction strings fixed from the falling driller's down vector;
// everything else copies unchanged.
func (c SquareContent) Land(downDir geometry.PlayerPoint) SquareContent {
	if c.Kind != ContentFallingDrill {
		return c
	}
	landed := SquareContent{Kind: ContentLandedDrill}
	// Direction glyphs: the drill bores in downDir, so its landed mark
	// reads as an arrow along that axis for a viewer facing "down";
	// viewers facing other ways see it rotated.
	glyphs := [4]string{"||", "||", "==", "=="}
	idx := DirIndex(downDir.X, downDir.Y)
	for i := range landed.LandedDrillDirs {
		landed.LandedDrillDirs[i] = glyphs[(idx+i)%4]
	}
	return landed
}
