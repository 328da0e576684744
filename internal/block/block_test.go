package block

import (
	"math/rand"
	"testing"

	"blockarena/internal/geometry"
)

func TestDetectRotateModeSquareDoesNotRotate(t *testing.T) {
	o := Tetrominoes[ShapeO]
	cells := append([]geometry.PlayerPoint(nil), o.Cells[:]...)
	if got := DetectRotateMode(cells, false); got != RotateNone {
		t.Errorf("O tetromino: got rotate mode %v, want RotateNone", got)
	}
}

func TestDetectRotateModeIShapeIsTwoState(t *testing.T) {
	i := Tetrominoes[ShapeI]
	cells := append([]geometry.PlayerPoint(nil), i.Cells[:]...)
	got := DetectRotateMode(cells, false)
	if got != RotateCCWThenBack && got != RotateCWThenBack {
		t.Errorf("I tetromino: got rotate mode %v, want a two-state mode", got)
	}
}

func TestDetectRotateModeLShapeIsFull(t *testing.T) {
	l := Tetrominoes[ShapeL]
	cells := append([]geometry.PlayerPoint(nil), l.Cells[:]...)
	if got := DetectRotateMode(cells, false); got != RotateFull {
		t.Errorf("L tetromino: got rotate mode %v, want RotateFull", got)
	}
}

func TestDetectRotateModeDrillNeverRotates(t *testing.T) {
	l := Tetrominoes[ShapeL]
	cells := append([]geometry.PlayerPoint(nil), l.Cells[:]...)
	if got := DetectRotateMode(cells, true); got != RotateNone {
		t.Errorf("drill: got rotate mode %v, want RotateNone", got)
	}
}

func TestNextRotationNoneReturnsFalse(t *testing.T) {
	fb := &FallingBlock{RotateMode: RotateNone}
	_, ok := fb.NextRotation(true)
	if ok {
		t.Errorf("RotateNone block should never be rotatable")
	}
}

func TestNextRotationFullAlternatesByUserChoice(t *testing.T) {
	l := Tetrominoes[ShapeL]
	fb := &FallingBlock{Cells: append([]geometry.PlayerPoint(nil), l.Cells[:]...), RotateMode: RotateFull}
	cw, ok := fb.NextRotation(true)
	if !ok || len(cw) != len(fb.Cells) {
		t.Fatalf("expected a CW rotation candidate")
	}
	ccw, ok := fb.NextRotation(false)
	if !ok || len(ccw) != len(fb.Cells) {
		t.Fatalf("expected a CCW rotation candidate")
	}
	if sameSet(cw, ccw) {
		t.Errorf("CW and CCW rotation candidates should differ for an asymmetric L piece")
	}
}

func TestCommitRotationAlternatesTwoStateDirection(t *testing.T) {
	i := Tetrominoes[ShapeI]
	fb := &FallingBlock{Cells: append([]geometry.PlayerPoint(nil), i.Cells[:]...), RotateMode: RotateCCWThenBack}

	first, _ := fb.NextRotation(false)
	fb.CommitRotation()
	second, _ := fb.NextRotation(false)
	fb.CommitRotation()
	third, _ := fb.NextRotation(false)

	if !sameSet(first, third) {
		t.Errorf("expected alternation to return to the original rotation candidate after two commits")
	}
	_ = second
}

func TestSquareContentLandFreezesDrillDirection(t *testing.T) {
	falling := NewFallingDrill()
	landed := falling.Land(geometry.DirDown)
	if landed.Kind != ContentLandedDrill {
		t.Fatalf("Land: got kind %v, want ContentLandedDrill", landed.Kind)
	}
	for _, s := range landed.LandedDrillDirs {
		if s == "" {
			t.Errorf("LandedDrillDirs should be fully populated, got %+v", landed.LandedDrillDirs)
		}
	}
}

func TestSquareContentLandPassesThroughNonDrill(t *testing.T) {
	normal := NewNormal(Color{FG: 0, BG: 3})
	got := normal.Land(geometry.DirDown)
	if got != normal {
		t.Errorf("Land on non-drill content should be a no-op: got %+v, want %+v", got, normal)
	}
}

func TestDirIndexAllFourDirections(t *testing.T) {
	cases := []struct {
		dx, dy int32
		want   int
	}{
		{0, 1, 0},
		{0, -1, 1},
		{-1, 0, 2},
		{1, 0, 3},
	}
	for _, c := range cases {
		if got := DirIndex(c.dx, c.dy); got != c.want {
			t.Errorf("DirIndex(%d,%d) = %d, want %d", c.dx, c.dy, got, c.want)
		}
	}
}

func TestFactoryNewProducesNonEmptyBlocks(t *testing.T) {
	f := NewFactory(rand.New(rand.NewSource(1)))
	for score := 0; score <= 500000; score += 50000 {
		b := f.New(score)
		if b == nil || len(b.Cells) == 0 {
			t.Fatalf("score %d: factory produced a block with no cells", score)
		}
	}
}

func TestFactoryDeterministicWithSeededRNG(t *testing.T) {
	f1 := NewFactory(rand.New(rand.NewSource(42)))
	f2 := NewFactory(rand.New(rand.NewSource(42)))
	for i := 0; i < 20; i++ {
		b1 := f1.New(0)
		b2 := f2.New(0)
		if b1.Content.Kind != b2.Content.Kind || len(b1.Cells) != len(b2.Cells) {
			t.Fatalf("iteration %d: same-seeded factories diverged", i)
		}
	}
}
