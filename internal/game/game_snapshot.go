package game

import (
	"time"

	"blockarena/internal/block"
	"blockarena/internal/geometry"
)

// ResourceLimits lists bounds on how far lobbies and games may grow
// (SPEC_FULL.md §5). Nothing in the engine or the lobby registry reads
// DefaultLimits, so these values are not enforced.
type ResourceLimits struct {
	MaxLobbies          int
	MaxGamesPerMode      int
	MaxFlashingPoints    int
	MaxEventLogEntries   int
}

// DefaultLimits are the production defaults.
var DefaultLimits = ResourceLimits{
	MaxLobbies:        10000,
	MaxGamesPerMode:    1,
	MaxFlashingPoints:  2000,
	MaxEventLogEntries: 500,
}

// PlayerSnapshot is an immutable, render-ready copy of one player.
type PlayerSnapshot struct {
	ClientID      uint64
	Name          string
	Color         block.Color
	DownDirection geometry.PlayerPoint
	FastDown      bool
	LinesCleared  int
	TimerState    string // "block", "pending", or "timer"
	TimerValue    int
	HasHold       bool
}

// SquareSnapshot is one rendered world cell.
type SquareSnapshot struct {
	Point   geometry.WorldPoint
	Content block.SquareContent
}

// GameSnapshot is a complete immutable copy of a game's state, safe to hand
// to a renderer or the spectator websocket feed without holding any lock.
type GameSnapshot struct {
	Timestamp time.Time
	Score     int
	Rows      int
	Cols      int

	Players []PlayerSnapshot
	Landed  []SquareSnapshot
	Falling []SquareSnapshot

	// FlashingPoints is a flat list rather than a map so the snapshot
	// marshals to JSON directly (geometry.WorldPoint isn't a valid JSON map
	// key type).
	FlashingPoints []FlashPointSnapshot
}

// FlashPointSnapshot is one cell currently lit by the flash overlay.
type FlashPointSnapshot struct {
	Point geometry.WorldPoint
	Color block.Color
}

func newSnapshot(g *Game) GameSnapshot {
	snap := GameSnapshot{
		Timestamp:      time.Now(),
		Score:          g.Score,
		FlashingPoints: make([]FlashPointSnapshot, 0, len(g.FlashingPoints)),
	}
	if g.Grid != nil {
		snap.Rows, snap.Cols = g.Grid.Rows, g.Grid.Cols
		for y := 0; y < g.Grid.Rows; y++ {
			for x := 0; x < g.Grid.Cols; x++ {
				wp := geometry.WorldPoint{X: int16(x), Y: int16(y)}
				if c := g.Grid.At(wp); c != nil {
					snap.Landed = append(snap.Landed, SquareSnapshot{Point: wp, Content: *c})
				}
			}
		}
	}
	for p, c := range g.FlashingPoints {
		snap.FlashingPoints = append(snap.FlashingPoints, FlashPointSnapshot{Point: p, Color: c})
	}

	ringR := g.ringRadiusOrZero()
	var origin geometry.PlayerPoint
	if g.Grid != nil {
		origin = g.Grid.Origin()
	}
	for _, p := range g.Players {
		ps := PlayerSnapshot{
			ClientID:      p.ClientID,
			Name:          p.Name,
			Color:         p.Color,
			DownDirection: p.DownDirection,
			FastDown:      p.FastDown,
			LinesCleared:  p.LinesCleared,
			HasHold:       p.BlockInHold != nil,
		}
		switch p.BlockOrTimer.Kind {
		case block.StateBlock:
			ps.TimerState = "block"
			b := p.BlockOrTimer.Block
			for _, c := range b.Cells {
				wp := geometry.ToWorld(geometry.PlayerPoint{X: b.Center.X + c.X, Y: b.Center.Y + c.Y}, p.DownDirection, ringR, origin)
				snap.Falling = append(snap.Falling, SquareSnapshot{Point: wp, Content: b.Content})
			}
		case block.StateTimerPending:
			ps.TimerState = "pending"
		case block.StateTimer:
			ps.TimerState = "timer"
			ps.TimerValue = p.BlockOrTimer.TimerVal
		}
		snap.Players = append(snap.Players, ps)
	}
	return snap
}
