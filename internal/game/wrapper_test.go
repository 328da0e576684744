package game

import (
	"math/rand"
	"testing"
	"time"

	"blockarena/internal/block"
	"blockarena/internal/geometry"
	"blockarena/internal/playfield"
)

func newTestWrapper() *GameWrapper {
	factory := block.NewFactory(rand.New(rand.NewSource(1)))
	return NewGameWrapper(playfield.ModeTraditional, factory)
}

func TestWithLockMutatesGameAndMarksChanged(t *testing.T) {
	w := newTestWrapper()
	defer w.Stop()

	ch := w.Subscribe()
	w.WithLock(func(g *Game) {
		g.AddPlayer(1, "a", block.Color{})
	})

	select {
	case <-ch:
	default:
		t.Errorf("expected the subscribed channel to be closed after WithLock mutated state")
	}

	snap := w.Snapshot()
	if len(snap.Players) != 1 {
		t.Errorf("got %d players in snapshot, want 1", len(snap.Players))
	}
}

func TestSubscribeReturnsFreshChannelAfterEachChange(t *testing.T) {
	w := newTestWrapper()
	defer w.Stop()

	first := w.Subscribe()
	w.WithLock(func(g *Game) { g.AddPlayer(1, "a", block.Color{}) })
	second := w.Subscribe()

	if first == second {
		t.Errorf("expected a new channel after markChanged")
	}
	select {
	case <-second:
		t.Errorf("expected the freshly issued channel to still be open")
	default:
	}
}

func TestStopIsSafeToCallMoreThanOnce(t *testing.T) {
	w := newTestWrapper()
	w.Stop()
	w.Stop()
}

func TestTickBombAndExplodeExplodesAndFlashes(t *testing.T) {
	w := newTestWrapper()
	defer w.Stop()

	centre := geometry.WorldPoint{X: 5, Y: 5}
	near := geometry.WorldPoint{X: 6, Y: 5}

	w.WithLock(func(g *Game) {
		g.AddPlayer(1, "a", block.Color{})
		bomb := block.NewBomb(1)
		bomb.BombID = 3
		bomb.HasBombID = true
		g.Grid.Set(centre, &bomb)
		nearCell := block.NewNormal(block.Color{})
		g.Grid.Set(near, &nearCell)
	})

	if !w.TickBombAndExplode(3) {
		t.Fatalf("expected the bomb's timer to reach zero and explode on this tick")
	}

	snap := w.Snapshot()
	for _, sq := range snap.Landed {
		if sq.Point == near {
			t.Errorf("expected the cell adjacent to the blast to be cleared")
		}
	}
}

func TestTickBombAndExplodeIsNoopBeforeTimerExpires(t *testing.T) {
	w := newTestWrapper()
	defer w.Stop()

	w.WithLock(func(g *Game) {
		g.AddPlayer(1, "a", block.Color{})
		bomb := block.NewBomb(5)
		bomb.BombID = 9
		bomb.HasBombID = true
		g.Grid.Set(geometry.WorldPoint{X: 1, Y: 1}, &bomb)
	})

	if w.TickBombAndExplode(9) {
		t.Errorf("expected a bomb with a timer still above zero not to explode yet")
	}
}

func TestDriversAssignAndExplodeAFallingBombWithoutManualWiring(t *testing.T) {
	w := newTestWrapper()
	defer w.Stop()

	w.WithLock(func(g *Game) {
		g.AddPlayer(1, "a", block.Color{})
		g.Players[0].SetBlock(&block.FallingBlock{
			Content: block.NewBomb(1),
			Cells:   []geometry.PlayerPoint{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}},
		})
	})

	deadline := time.After(5 * time.Second)
	for {
		assigned := false
		w.WithLock(func(g *Game) {
			if b := g.Players[0].CurrentBlock(); b != nil {
				assigned = b.Content.HasBombID
			}
		})
		if assigned {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("expected the bomb-scan driver to assign an id within 5s without any manual AssignPendingBombIDs/StartBombDriver call")
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func TestFlashTogglesFlashingPointsAcrossPhases(t *testing.T) {
	w := newTestWrapper()
	defer w.Stop()

	p := geometry.WorldPoint{X: 2, Y: 2}
	done := make(chan struct{})
	go func() {
		w.Flash([]geometry.WorldPoint{p}, block.Color{FG: 0, BG: 15})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Flash took too long to complete its four phases")
	}

	snap := w.Snapshot()
	for _, fp := range snap.FlashingPoints {
		if fp.Point == p {
			t.Errorf("expected no flashing points left once Flash has returned")
		}
	}
}
