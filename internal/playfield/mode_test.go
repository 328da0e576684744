package playfield

import "testing"

func TestMaxPlayersCapsRingAtFourAndOthersAtSix(t *testing.T) {
	if got := ModeRing.MaxPlayers(); got != 4 {
		t.Errorf("got ModeRing.MaxPlayers() = %d, want 4", got)
	}
	for _, m := range []Mode{ModeTraditional, ModeBottle} {
		if got := m.MaxPlayers(); got != 6 {
			t.Errorf("got %v.MaxPlayers() = %d, want 6", m, got)
		}
	}
}

func TestWidthTraditionalGrowsBySevenPerExtraPlayer(t *testing.T) {
	if got := Width(ModeTraditional, 1); got != 10 {
		t.Errorf("got Width(Traditional, 1) = %d, want 10", got)
	}
	if got := Width(ModeTraditional, 2); got != 14 {
		t.Errorf("got Width(Traditional, 2) = %d, want 14", got)
	}
	if got := Width(ModeTraditional, 3); got != 21 {
		t.Errorf("got Width(Traditional, 3) = %d, want 21", got)
	}
}

func TestWidthBottleGrowsByTenMinusOnePerPlayer(t *testing.T) {
	if got := Width(ModeBottle, 1); got != 9 {
		t.Errorf("got Width(Bottle, 1) = %d, want 9", got)
	}
	if got := Width(ModeBottle, 2); got != 19 {
		t.Errorf("got Width(Bottle, 2) = %d, want 19", got)
	}
	if got := Width(ModeBottle, 0); got != 9 {
		t.Errorf("expected Width(Bottle, 0) to clamp to 1 player's width, got %d", got)
	}
}

func TestWidthRingIsFixedRegardlessOfPlayerCount(t *testing.T) {
	want := 2*RingRadius + 1
	if got := Width(ModeRing, 1); got != want {
		t.Errorf("got Width(Ring, 1) = %d, want %d", got, want)
	}
	if got := Width(ModeRing, 4); got != want {
		t.Errorf("got Width(Ring, 4) = %d, want %d", got, want)
	}
}

func TestHeightPerMode(t *testing.T) {
	if got := Height(ModeTraditional); got != TraditionalHeight {
		t.Errorf("got Height(Traditional) = %d, want %d", got, TraditionalHeight)
	}
	if got := Height(ModeBottle); got != BottleHeight {
		t.Errorf("got Height(Bottle) = %d, want %d", got, BottleHeight)
	}
	if got := Height(ModeRing); got != 2*RingRadius+1 {
		t.Errorf("got Height(Ring) = %d, want %d", got, 2*RingRadius+1)
	}
}

func TestBottleSharedBaseRowIsRowNine(t *testing.T) {
	if BottleSharedBaseRow != 9 {
		t.Errorf("got BottleSharedBaseRow = %d, want 9", BottleSharedBaseRow)
	}
}
