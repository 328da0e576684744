package geometry

import "testing"

func TestAdd(t *testing.T) {
	got := PlayerPoint{X: 1, Y: 2}.Add(PlayerPoint{X: 3, Y: -1})
	want := PlayerPoint{X: 4, Y: 1}
	if got != want {
		t.Errorf("Add: got %+v, want %+v", got, want)
	}
}

func TestOpposite(t *testing.T) {
	cases := []struct{ in, want PlayerPoint }{
		{DirDown, DirUp},
		{DirUp, DirDown},
		{DirLeft, DirRight},
		{DirRight, DirLeft},
	}
	for _, c := range cases {
		if got := Opposite(c.in); got != c.want {
			t.Errorf("Opposite(%+v) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestToWorldIdentityForNonRing(t *testing.T) {
	p := PlayerPoint{X: 5, Y: 7}
	got := ToWorld(p, DirDown, 0, PlayerPoint{})
	want := WorldPoint{X: 5, Y: 7}
	if got != want {
		t.Errorf("ToWorld identity: got %+v, want %+v", got, want)
	}
}

func TestToWorldRingDownDirIsIdentityShape(t *testing.T) {
	origin := PlayerPoint{X: 18, Y: 18}
	p := PlayerPoint{X: 3, Y: 4}
	got := ToWorld(p, DirDown, 18, origin)
	want := WorldPoint{X: int16(origin.X + p.X), Y: int16(origin.Y + p.Y)}
	if got != want {
		t.Errorf("ToWorld ring DirDown: got %+v, want %+v", got, want)
	}
}

func TestToWorldRingRotatesByDownDirection(t *testing.T) {
	origin := PlayerPoint{X: 18, Y: 18}
	p := PlayerPoint{X: 2, Y: 0}

	down := ToWorld(p, DirDown, 18, origin)
	right := ToWorld(p, DirRight, 18, origin)
	up := ToWorld(p, DirUp, 18, origin)
	left := ToWorld(p, DirLeft, 18, origin)

	if down == right || down == up || down == left {
		t.Errorf("expected rotated world points to differ: down=%+v right=%+v up=%+v left=%+v", down, right, up, left)
	}
	// Rotating by 180 degrees (down vs up facing) should be a point reflection around origin.
	if up.X-int16(origin.X) != -(down.X - int16(origin.X)) {
		t.Errorf("expected up/down rotation to be a reflection: up=%+v down=%+v origin=%+v", up, down, origin)
	}
}

func TestToWorldRingWrapsNegativeYUntouched(t *testing.T) {
	origin := PlayerPoint{X: 18, Y: 18}
	p := PlayerPoint{X: 0, Y: -5}
	got := ToWorld(p, DirDown, 18, origin)
	want := WorldPoint{X: int16(origin.X), Y: int16(origin.Y - 5)}
	if got != want {
		t.Errorf("ToWorld ring negative y: got %+v, want %+v", got, want)
	}
}
