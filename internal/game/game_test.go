package game

import (
	"math/rand"
	"testing"

	"blockarena/internal/block"
	"blockarena/internal/geometry"
	"blockarena/internal/playfield"
)

func newTestFactory(seed int64) *block.Factory {
	return block.NewFactory(rand.New(rand.NewSource(seed)))
}

func TestAddPlayerRespectsMaxPlayers(t *testing.T) {
	g := NewGame(playfield.ModeRing, newTestFactory(1))
	for i := 0; i < playfield.ModeRing.MaxPlayers(); i++ {
		if !g.AddPlayer(uint64(i+1), "p", block.Color{}) {
			t.Fatalf("expected seat %d to be added", i)
		}
	}
	if g.AddPlayer(999, "overflow", block.Color{}) {
		t.Errorf("expected AddPlayer to fail once the mode's player cap is reached")
	}
	if len(g.Players) != playfield.ModeRing.MaxPlayers() {
		t.Errorf("got %d players, want %d", len(g.Players), playfield.ModeRing.MaxPlayers())
	}
}

func TestRemovePlayerDropsSeat(t *testing.T) {
	g := NewGame(playfield.ModeTraditional, newTestFactory(1))
	g.AddPlayer(1, "a", block.Color{})
	g.AddPlayer(2, "b", block.Color{})
	g.RemovePlayer(1)
	if len(g.Players) != 1 || g.Players[0].ClientID != 2 {
		t.Fatalf("expected only client 2 to remain, got %+v", g.Players)
	}
}

func TestScoreForBaseFormula(t *testing.T) {
	g := NewGame(playfield.ModeTraditional, newTestFactory(1))
	g.AddPlayer(1, "solo", block.Color{})
	cases := []struct{ k, want int }{
		{0, 0},
		{1, 10},
		{2, 30},
		{4, 100},
	}
	for _, c := range cases {
		if got := g.scoreFor(c.k, true); got != c.want {
			t.Errorf("scoreFor(%d, true) with 1 player = %d, want %d", c.k, got, c.want)
		}
	}
}

func TestScoreForMultiplayerCompensation(t *testing.T) {
	g := NewGame(playfield.ModeTraditional, newTestFactory(1))
	g.AddPlayer(1, "a", block.Color{})
	g.AddPlayer(2, "b", block.Color{})
	g.AddPlayer(3, "c", block.Color{})

	base := g.scoreFor(1, false)
	compensated := g.scoreFor(1, true)
	want := base * (1 << uint(len(g.Players)-1))
	if compensated != want {
		t.Errorf("3-player compensated scoreFor(1) = %d, want %d", compensated, want)
	}
	if compensated == base {
		t.Errorf("expected compensation to scale the score for >1 players")
	}
}

func TestStartPendingPleaseWaitCountersPromotesPending(t *testing.T) {
	g := NewGame(playfield.ModeTraditional, newTestFactory(1))
	g.AddPlayer(1, "a", block.Color{})
	g.AddPlayer(2, "b", block.Color{})

	g.Players[0].SetTimerPending()

	started := g.StartPendingPleaseWaitCounters()
	if len(started) != 1 || started[0] != 1 {
		t.Fatalf("expected client 1 to start counting, got %+v", started)
	}
	if g.Players[0].BlockOrTimer.Kind != block.StateTimer || g.Players[0].BlockOrTimer.TimerVal != 30 {
		t.Errorf("expected client 1 to be at Timer(30), got %+v", g.Players[0].BlockOrTimer)
	}
}

func TestStartPendingPleaseWaitCountersReportsGameOver(t *testing.T) {
	g := NewGame(playfield.ModeTraditional, newTestFactory(1))
	g.AddPlayer(1, "a", block.Color{})
	g.AddPlayer(2, "b", block.Color{})

	g.Players[0].SetTimer(5)
	g.Players[1].SetTimer(5)

	if got := g.StartPendingPleaseWaitCounters(); got != nil {
		t.Errorf("expected nil (game over) when every player is already counting down, got %+v", got)
	}
}

func TestTickPleaseWaitCountsDownThenRespawns(t *testing.T) {
	g := NewGame(playfield.ModeTraditional, newTestFactory(1))
	g.AddPlayer(1, "a", block.Color{})
	g.Players[0].SetTimer(2)

	if !g.TickPleaseWait(1) {
		t.Fatalf("expected the timer to still be counting after the first tick")
	}
	if g.TickPleaseWait(1) {
		t.Fatalf("expected the timer to finish on the second tick")
	}
	if !g.Players[0].HasBlock() {
		t.Errorf("expected a fresh block to be spawned once the please-wait timer finishes")
	}
}

func TestClearTraditionalRowsAwardsScoreAndShiftsDown(t *testing.T) {
	g := NewGame(playfield.ModeTraditional, newTestFactory(1))
	g.AddPlayer(1, "a", block.Color{})

	row := 19
	for x := 0; x < g.Grid.Cols; x++ {
		c := block.NewNormal(block.Color{})
		g.Grid.Set(geometry.WorldPoint{X: int16(x), Y: int16(row)}, &c)
	}
	marker := block.NewNormal(block.Color{FG: 0, BG: 9})
	g.Grid.Set(geometry.WorldPoint{X: 0, Y: int16(row - 1)}, &marker)

	gained := g.ClearFullRows()
	if gained != g.scoreFor(1, true) {
		t.Errorf("got score gain %d, want %d", gained, g.scoreFor(1, true))
	}
	if g.Score != gained {
		t.Errorf("expected g.Score to accumulate the gain, got %d", g.Score)
	}
	if g.Grid.At(geometry.WorldPoint{X: 0, Y: int16(row)}) == nil {
		t.Errorf("expected the row above the cleared row to have shifted down into it")
	}
}

func TestTickBombsByIDExplodesAtZero(t *testing.T) {
	g := NewGame(playfield.ModeTraditional, newTestFactory(1))
	g.AddPlayer(1, "a", block.Color{})

	bomb := block.NewBomb(1)
	bomb.BombID = 7
	bomb.HasBombID = true
	p := geometry.WorldPoint{X: 5, Y: 5}
	g.Grid.Set(p, &bomb)

	exploded := g.TickBombsByID(7)
	if len(exploded) != 1 || exploded[0] != p {
		t.Fatalf("expected bomb at %+v to explode, got %+v", p, exploded)
	}
}

func TestExplodeClearsNearbyLandedCells(t *testing.T) {
	g := NewGame(playfield.ModeTraditional, newTestFactory(1))
	g.AddPlayer(1, "a", block.Color{})

	centre := geometry.WorldPoint{X: 5, Y: 5}
	near := geometry.WorldPoint{X: 6, Y: 5}
	far := geometry.WorldPoint{X: 9, Y: 9}

	for _, p := range []geometry.WorldPoint{near, far} {
		c := block.NewNormal(block.Color{})
		g.Grid.Set(p, &c)
	}

	g.Explode([]geometry.WorldPoint{centre})

	if g.Grid.At(near) != nil {
		t.Errorf("expected cell near the blast centre to be cleared")
	}
	if g.Grid.At(far) == nil {
		t.Errorf("expected cell far from the blast centre to be untouched")
	}
}

func TestFlipViewRequiresSinglePlayerRing(t *testing.T) {
	g := NewGame(playfield.ModeRing, newTestFactory(1))
	g.AddPlayer(1, "a", block.Color{})
	g.AddPlayer(2, "b", block.Color{})
	if g.FlipView(1) {
		t.Errorf("expected FlipView to refuse a multiplayer Ring game")
	}
}

func TestFlipViewTogglesDownDirectionWhenClear(t *testing.T) {
	g := NewGame(playfield.ModeRing, newTestFactory(1))
	g.AddPlayer(1, "a", block.Color{})
	before := g.Players[0].DownDirection
	if !g.FlipView(1) {
		t.Fatalf("expected FlipView to succeed against an empty grid")
	}
	if g.Players[0].DownDirection != geometry.Opposite(before) {
		t.Errorf("expected down direction to invert, got %+v want %+v", g.Players[0].DownDirection, geometry.Opposite(before))
	}
}

func TestKeyPressUnknownClientIsNoop(t *testing.T) {
	g := NewGame(playfield.ModeTraditional, newTestFactory(1))
	g.AddPlayer(1, "a", block.Color{})
	g.KeyPress(999, KeyLeft) // must not panic
}

func TestPredictLandingPlaceMatchesKStepsOfMoveDownTraditional(t *testing.T) {
	g := NewGame(playfield.ModeTraditional, newTestFactory(1))
	g.AddPlayer(1, "a", block.Color{})
	p := g.Players[0]

	predicted := g.PredictLandingPlace(1)
	if len(predicted) == 0 {
		t.Fatalf("expected a non-empty prediction with clear area below in Traditional mode")
	}

	for g.MoveBlock(1, p.DownDirection) {
	}
	actual := p.CurrentBlock().WorldCells(p.DownDirection, g.ringRadiusOrZero(), g.Grid.Origin())

	if len(actual) != len(predicted) {
		t.Fatalf("got %d actual cells, want %d predicted cells", len(actual), len(predicted))
	}
	for i := range actual {
		if actual[i] != predicted[i] {
			t.Errorf("cell %d: got %+v, want %+v", i, actual[i], predicted[i])
		}
	}
}

func TestPredictLandingPlaceUnknownClientReturnsNil(t *testing.T) {
	g := NewGame(playfield.ModeTraditional, newTestFactory(1))
	g.AddPlayer(1, "a", block.Color{})
	if got := g.PredictLandingPlace(999); got != nil {
		t.Errorf("expected nil for an unknown client, got %+v", got)
	}
}

func TestPredictLandingPlaceWaitingPlayerReturnsNil(t *testing.T) {
	g := NewGame(playfield.ModeTraditional, newTestFactory(1))
	g.AddPlayer(1, "a", block.Color{})
	g.Players[0].SetTimer(5)
	if got := g.PredictLandingPlace(1); got != nil {
		t.Errorf("expected nil while the player has no current block, got %+v", got)
	}
}

func TestAssignPendingBombIDsCoversEveryFallingBomb(t *testing.T) {
	g := NewGame(playfield.ModeTraditional, newTestFactory(1))
	g.AddPlayer(1, "a", block.Color{})

	g.Players[0].SetBlock(&block.FallingBlock{
		Content: block.NewBomb(5),
		Cells:   []geometry.PlayerPoint{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}},
	})

	ids := g.AssignPendingBombIDs()
	if len(ids) != 1 {
		t.Fatalf("expected exactly 1 newly assigned bomb id, got %+v", ids)
	}
	if !g.Players[0].CurrentBlock().Content.HasBombID {
		t.Errorf("expected the falling bomb's shared content to carry the assigned id")
	}

	if again := g.AssignPendingBombIDs(); len(again) != 0 {
		t.Errorf("expected a second scan to find nothing new since the id already stuck, got %+v", again)
	}
}

func TestHoldSwapViaKeyPress(t *testing.T) {
	g := NewGame(playfield.ModeTraditional, newTestFactory(1))
	g.AddPlayer(1, "a", block.Color{})
	p := g.Players[0]
	firstBlock := p.CurrentBlock()
	if firstBlock == nil {
		t.Fatalf("expected a spawned block")
	}

	g.KeyPress(1, KeyHold)
	if p.BlockInHold != firstBlock {
		t.Fatalf("expected the first block to move into hold")
	}
	if !firstBlock.HasBeenInHold {
		t.Errorf("expected the held block to be marked HasBeenInHold")
	}

	swappedIn := p.CurrentBlock()
	g.KeyPress(1, KeyHold) // the swapped-in block has never been in hold, so this swaps again
	if p.BlockInHold != swappedIn {
		t.Errorf("expected the previously-swapped-in block to move into hold")
	}
	if p.CurrentBlock() != firstBlock {
		t.Errorf("expected the original held block to come back out")
	}
}
