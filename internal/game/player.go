package game

import (
	"blockarena/internal/block"
	"blockarena/internal/geometry"
	"blockarena/internal/playfield"
)

// Player is one client's seat in a Game: its identity, its current falling
// piece or please-wait timer, and its hold/next queue.
type Player struct {
	ClientID uint64 `json:"clientId"`
	Name     string `json:"name"`
	Color    block.Color `json:"color"`

	SpawnPoint geometry.PlayerPoint `json:"-"`

	BlockOrTimer block.BlockOrTimer `json:"-"`

	NextBlockQueue []*block.FallingBlock `json:"-"` // len >= 1 at all times
	BlockInHold    *block.FallingBlock   `json:"-"`

	FastDown bool `json:"fastDown"`

	// DownDirection is (0,1) except in Ring mode, where it points radially
	// outward from this player's seat and can be inverted by flipView.
	DownDirection geometry.PlayerPoint `json:"-"`

	Mode playfield.Mode `json:"-"`

	LinesCleared int `json:"linesCleared"`
}

// HasBlock reports whether the player currently has a falling block (as
// opposed to a pending or counting-down please-wait timer).
func (p *Player) HasBlock() bool {
	return p.BlockOrTimer.Kind == block.StateBlock
}

// CurrentBlock returns the player's falling block, or nil if they don't have
// one right now.
func (p *Player) CurrentBlock() *block.FallingBlock {
	if p.BlockOrTimer.Kind != block.StateBlock {
		return nil
	}
	return p.BlockOrTimer.Block
}

// refillNextQueue draws a new block from the factory if the next queue has
// run dry, maintaining the len >= 1 invariant.
func (p *Player) refillNextQueue(draw func() *block.FallingBlock) {
	if len(p.NextBlockQueue) == 0 {
		p.NextBlockQueue = append(p.NextBlockQueue, draw())
	}
}

// popNext takes the head of the next queue, spawns it at the player's spawn
// point, and refills the queue so it never runs empty.
func (p *Player) popNext(draw func() *block.FallingBlock) *block.FallingBlock {
	p.refillNextQueue(draw)
	next := p.NextBlockQueue[0]
	p.NextBlockQueue = p.NextBlockQueue[1:]
	next.Center = p.SpawnPoint
	p.refillNextQueue(draw)
	return next
}

// SetBlock installs a freshly spawned block as the player's current state.
func (p *Player) SetBlock(b *block.FallingBlock) {
	p.BlockOrTimer = block.BlockOrTimer{Kind: block.StateBlock, Block: b}
}

// SetTimerPending transitions the player into TimerPending, used when a
// block is destroyed with no room to land or to spawn a replacement.
func (p *Player) SetTimerPending() {
	p.BlockOrTimer = block.BlockOrTimer{Kind: block.StateTimerPending}
}

// SetTimer starts (or overwrites) the player's please-wait countdown.
func (p *Player) SetTimer(n int) {
	p.BlockOrTimer = block.BlockOrTimer{Kind: block.StateTimer, TimerVal: n}
}

// TickTimer decrements a running please-wait timer by one and reports
// whether it is still counting (false once it has reached 0 and the caller
// should clear the playing area and spawn a new block).
func (p *Player) TickTimer() bool {
	if p.BlockOrTimer.Kind != block.StateTimer {
		return false
	}
	p.BlockOrTimer.TimerVal--
	return p.BlockOrTimer.TimerVal > 0
}

// HoldSwap implements the hold/swap key (spec.md §4.8). No-op if the current
// slot isn't a fresh Block.
func (p *Player) HoldSwap(draw func() *block.FallingBlock) {
	cur := p.CurrentBlock()
	if cur == nil || cur.HasBeenInHold {
		return
	}
	cur.HasBeenInHold = true

	var swapIn *block.FallingBlock
	if p.BlockInHold != nil {
		swapIn = p.BlockInHold
		swapIn.Center = p.SpawnPoint
	} else {
		swapIn = p.popNext(draw)
	}
	p.BlockInHold = cur
	p.SetBlock(swapIn)
}
