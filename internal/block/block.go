package block

import "blockarena/internal/geometry"

// RotateMode describes how a block is allowed to rotate, chosen once at
// creation time by testing the shape's symmetry under 90 and 180 degree
// turns.
type RotateMode int

const (
	RotateNone RotateMode = iota
	RotateCCWThenBack
	// RotateCWThenBack is handled identically to RotateCCWThenBack wherever
	// RotateMode is switched on, but DetectRotateMode never returns it —
	// every 180-degree-symmetric shape in this engine starts CCW. It exists
	// for a future shape (or a future mode) that wants to start CW.
	RotateCWThenBack
	RotateFull
)

// FallingBlock is an unlanded piece owned by exactly one player.
type FallingBlock struct {
	Content       SquareContent
	Cells         []geometry.PlayerPoint // relative to Center; non-empty, no duplicates
	Center        geometry.PlayerPoint
	RotateMode    RotateMode
	HasBeenInHold bool

	// nextCCW tracks which way a CCWThenBack/CWThenBack block should spin
	// on its next rotation; toggled after every attempted rotation.
	nextCCW bool
}

// WorldCells returns the block's cells mapped into world space.
func (b *FallingBlock) WorldCells(downDir geometry.PlayerPoint, ringRadius int32, origin geometry.PlayerPoint) []geometry.WorldPoint {
	out := make([]geometry.WorldPoint, len(b.Cells))
	for i, c := range b.Cells {
		p := geometry.PlayerPoint{X: b.Center.X + c.X, Y: b.Center.Y + c.Y}
		out[i] = geometry.ToWorld(p, downDir, ringRadius, origin)
	}
	return out
}

// rotateCells90 rotates a cell set 90 degrees: (x,y) -> (-y,x).
func rotateCells90(cells []geometry.PlayerPoint) []geometry.PlayerPoint {
	out := make([]geometry.PlayerPoint, len(cells))
	for i, c := range cells {
		out[i] = geometry.PlayerPoint{X: -c.Y, Y: c.X}
	}
	return out
}

// rotateCells180 rotates a cell set 180 degrees: (x,y) -> (-x,-y).
func rotateCells180(cells []geometry.PlayerPoint) []geometry.PlayerPoint {
	out := make([]geometry.PlayerPoint, len(cells))
	for i, c := range cells {
		out[i] = geometry.PlayerPoint{X: -c.X, Y: -c.Y}
	}
	return out
}

// sameSet reports whether two cell sets are equal after normalising by
// translating each to have the same minimum corner, used to test rotational
// symmetry regardless of how the shape happens to be centered.
func sameSet(a, b []geometry.PlayerPoint) bool {
	if len(a) != len(b) {
		return false
	}
	key := func(cells []geometry.PlayerPoint) map[geometry.PlayerPoint]bool {
		minX, minY := cells[0].X, cells[0].Y
		for _, c := range cells {
			if c.X < minX {
				minX = c.X
			}
			if c.Y < minY {
				minY = c.Y
			}
		}
		m := make(map[geometry.PlayerPoint]bool, len(cells))
		for _, c := range cells {
			m[geometry.PlayerPoint{X: c.X - minX, Y: c.Y - minY}] = true
		}
		return m
	}
	am, bm := key(a), key(b)
	if len(am) != len(bm) {
		return false
	}
	for p := range am {
		if !bm[p] {
			return false
		}
	}
	return true
}

// DetectRotateMode chooses the rotate mode for a freshly created block's
// cell set. Drill blocks never rotate regardless of their shape. Only
// RotateCCWThenBack is ever returned for a 180-degree-symmetric shape; a
// CW-starting variant is never produced, though RotateCWThenBack remains a
// valid RotateMode elsewhere.
func DetectRotateMode(cells []geometry.PlayerPoint, isDrill bool) RotateMode {
	if isDrill {
		return RotateNone
	}
	r90 := rotateCells90(cells)
	if sameSet(cells, r90) {
		return RotateNone
	}
	r180 := rotateCells180(cells)
	if sameSet(cells, r180) {
		return RotateCCWThenBack
	}
	return RotateFull
}

// NextRotation returns the candidate cell set for a rotation attempt, and
// whether this rotation direction is currently permitted at all. userWantsCW
// only matters in RotateFull mode.
func (b *FallingBlock) NextRotation(userWantsCW bool) ([]geometry.PlayerPoint, bool) {
	switch b.RotateMode {
	case RotateNone:
		return nil, false
	case RotateFull:
		if userWantsCW {
			return rotateCells90(b.Cells), true
		}
		return rotateCells270(b.Cells), true
	case RotateCCWThenBack, RotateCWThenBack:
		// Alternate direction every call regardless of prior success;
		// spec §4.4: "alternate each call".
		cw := b.RotateMode == RotateCWThenBack
		if b.nextCCW {
			cw = !cw
		}
		if cw {
			return rotateCells90(b.Cells), true
		}
		return rotateCells270(b.Cells), true
	}
	return nil, false
}

// CommitRotation advances the alternation state after an attempted
// rotation; called whether or not the rotation was actually placeable, since
// spec §4.4 alternates "each call" rather than each success.
func (b *FallingBlock) CommitRotation() {
	if b.RotateMode == RotateCCWThenBack || b.RotateMode == RotateCWThenBack {
		b.nextCCW = !b.nextCCW
	}
}

func rotateCells270(cells []geometry.PlayerPoint) []geometry.PlayerPoint {
	return rotateCells90(rotateCells180(cells))
}

// BlockOrTimerKind discriminates the BlockOrTimer tagged union.
type BlockOrTimerKind int

const (
	StateBlock BlockOrTimerKind = iota
	StateTimerPending
	StateTimer
)

// BlockOrTimer is exactly one of: a falling Block, a pending transition to a
// please-wait timer, or a please-wait Timer counting 30 down to 1.
type BlockOrTimer struct {
	Kind     BlockOrTimerKind
	Block    *FallingBlock
	TimerVal int // 1..30 when Kind == StateTimer
}
