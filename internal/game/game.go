package game

import (
	"math"

	"blockarena/internal/block"
	"blockarena/internal/geometry"
	"blockarena/internal/playfield"
)

// Game owns one lobby's worth of playing players for a single mode: their
// falling blocks, the landed grid, and the flash overlay. Every public
// method here assumes the caller already holds the owning GameWrapper's
// mutex (see wrapper.go) — Game itself is not safe for concurrent use.
type Game struct {
	Mode    playfield.Mode
	Grid    *playfield.Grid
	Players []*Player

	FlashingPoints map[geometry.WorldPoint]block.Color

	Score         int
	BombIDCounter int

	factory *block.Factory
}

// NewGame creates an empty game for the given mode with no players yet. The
// grid is (re)built every time the player count changes, since Traditional
// and Bottle width depends on N.
func NewGame(mode playfield.Mode, factory *block.Factory) *Game {
	return &Game{
		Mode:           mode,
		Grid:           playfield.NewGrid(mode, 0),
		factory:        factory,
		FlashingPoints: make(map[geometry.WorldPoint]block.Color),
	}
}

func (g *Game) rebuildGrid() {
	old := g.Grid
	newGrid := playfield.NewGrid(g.Mode, len(g.Players))
	if old != nil {
		for y := 0; y < old.Rows && y < newGrid.Rows; y++ {
			for x := 0; x < old.Cols && x < newGrid.Cols; x++ {
				p := geometry.WorldPoint{X: int16(x), Y: int16(y)}
				if c := old.At(p); c != nil {
					newGrid.Set(p, c)
				}
			}
		}
	}
	g.Grid = newGrid
}

func (g *Game) spawnPointFor(idx, n int) geometry.PlayerPoint {
	switch g.Mode {
	case playfield.ModeRing:
		return geometry.PlayerPoint{X: 0, Y: -playfield.RingRadius + 2}
	case playfield.ModeBottle:
		return geometry.PlayerPoint{X: int32(idx*10 + 4), Y: -2}
	default:
		if n <= 1 {
			return geometry.PlayerPoint{X: 4, Y: -2}
		}
		return geometry.PlayerPoint{X: int32(idx*7 + 3), Y: -2}
	}
}

// downDirectionFor assigns each Ring seat one of the four cardinal
// directions, radially outward from the ring center; all other modes use
// (0,1) (spec.md §3 Player row).
func (g *Game) downDirectionFor(idx int) geometry.PlayerPoint {
	if g.Mode != playfield.ModeRing {
		return geometry.DirDown
	}
	seats := []geometry.PlayerPoint{geometry.DirDown, geometry.DirRight, geometry.DirUp, geometry.DirLeft}
	return seats[idx%len(seats)]
}

// AddPlayer seats a new player if the mode isn't already full. Reports
// whether the player was added.
func (g *Game) AddPlayer(clientID uint64, name string, color block.Color) bool {
	if len(g.Players) >= g.Mode.MaxPlayers() {
		return false
	}
	idx := len(g.Players)
	p := &Player{
		ClientID:      clientID,
		Name:          name,
		Color:         color,
		Mode:          g.Mode,
		DownDirection: g.downDirectionFor(idx),
	}
	g.Players = append(g.Players, p)
	g.rebuildGrid()
	p.SpawnPoint = g.spawnPointFor(idx, len(g.Players))
	p.refillNextQueue(func() *block.FallingBlock { return g.factory.New(g.Score) })
	p.SetBlock(g.drawFor(p))
	return true
}

func (g *Game) drawFor(p *Player) *block.FallingBlock {
	b := p.popNext(func() *block.FallingBlock { return g.factory.New(g.Score) })
	return b
}

// RemovePlayer removes a client from the game, if present.
func (g *Game) RemovePlayer(clientID uint64) {
	for i, p := range g.Players {
		if p.ClientID == clientID {
			g.Players = append(g.Players[:i], g.Players[i+1:]...)
			g.rebuildGrid()
			return
		}
	}
}

func (g *Game) findPlayer(clientID uint64) *Player {
	for _, p := range g.Players {
		if p.ClientID == clientID {
			return p
		}
	}
	return nil
}

func (g *Game) playerIndex(p *Player) int {
	for i, q := range g.Players {
		if q == p {
			return i
		}
	}
	return -1
}

// CanPlace implements spec.md §4.4: map candidate cells to world space,
// check moving-validity, and check for occupancy by another square,
// optionally recording drilled-through cells. ownerIdx identifies which
// player's own falling block must be excluded from the occupancy check.
func (g *Game) CanPlace(ownerIdx int, cells []geometry.PlayerPoint, downDir geometry.PlayerPoint, enableDrilling bool) (drilled []geometry.WorldPoint, ok bool) {
	origin := g.Grid.Origin()
	ringR := int32(0)
	if g.Mode == playfield.ModeRing {
		ringR = playfield.RingRadius
	}

	for _, c := range cells {
		wp := geometry.ToWorld(c, downDir, ringR, origin)
		if !g.Grid.MovingValid(wp) {
			return nil, false
		}

		if occ := g.Grid.At(wp); occ != nil {
			if enableDrilling && occ.Kind != block.ContentFallingDrill && occ.Kind != block.ContentLandedDrill {
				drilled = append(drilled, wp)
				continue
			}
			return nil, false
		}

		if _, hit := g.fallingOccupant(wp, ownerIdx); hit {
			if enableDrilling {
				drilled = append(drilled, wp)
				continue
			}
			return nil, false
		}
	}
	return drilled, true
}

// fallingOccupant reports whether another player's falling block (not
// ownerIdx's own) currently occupies the given world cell.
func (g *Game) fallingOccupant(wp geometry.WorldPoint, ownerIdx int) (int, bool) {
	for i, p := range g.Players {
		if i == ownerIdx {
			continue
		}
		b := p.CurrentBlock()
		if b == nil {
			continue
		}
		for _, wc := range b.WorldCells(p.DownDirection, g.ringRadiusOrZero(), g.Grid.Origin()) {
			if wc == wp {
				return i, true
			}
		}
	}
	return 0, false
}

func (g *Game) ringRadiusOrZero() int32 {
	if g.Mode == playfield.ModeRing {
		return playfield.RingRadius
	}
	return 0
}

// applyDrilled removes recorded drilled-through cells via the unified sweep.
func (g *Game) applyDrilled(points []geometry.WorldPoint) {
	if len(points) == 0 {
		return
	}
	set := make(map[geometry.WorldPoint]bool, len(points))
	for _, p := range points {
		set[p] = true
	}
	g.FilterAndMutateAllSquares(func(wp geometry.WorldPoint, _ *block.SquareContent, _ int, hasOwner bool) bool {
		return !set[wp]
	})
}

// MoveBlock attempts to move clientID's current block by delta; no-op on
// collision or invalid destination.
func (g *Game) MoveBlock(clientID uint64, delta geometry.PlayerPoint) bool {
	p := g.findPlayer(clientID)
	if p == nil {
		return false
	}
	b := p.CurrentBlock()
	if b == nil {
		return false
	}
	ownerIdx := g.playerIndex(p)
	candidate := make([]geometry.PlayerPoint, len(b.Cells))
	newCenter := b.Center.Add(delta)
	for i, c := range b.Cells {
		candidate[i] = geometry.PlayerPoint{X: newCenter.X + c.X, Y: newCenter.Y + c.Y}
	}
	isDrill := b.Content.Kind == block.ContentFallingDrill
	drilled, ok := g.CanPlace(ownerIdx, candidate, p.DownDirection, isDrill)
	if !ok {
		return false
	}
	g.applyDrilled(drilled)
	b.Center = newCenter
	return true
}

// RotateBlock attempts to rotate clientID's current block; userWantsCW only
// matters in RotateFull mode.
func (g *Game) RotateBlock(clientID uint64, userWantsCW bool) bool {
	p := g.findPlayer(clientID)
	if p == nil {
		return false
	}
	b := p.CurrentBlock()
	if b == nil {
		return false
	}
	newCells, allowed := b.NextRotation(userWantsCW)
	defer b.CommitRotation()
	if !allowed {
		return false
	}

	ownerIdx := g.playerIndex(p)
	candidate := make([]geometry.PlayerPoint, len(newCells))
	for i, c := range newCells {
		candidate[i] = geometry.PlayerPoint{X: b.Center.X + c.X, Y: b.Center.Y + c.Y}
	}
	drilled, ok := g.CanPlace(ownerIdx, candidate, p.DownDirection, false)
	if !ok {
		return false
	}
	b.Cells = newCells
	g.applyDrilled(drilled)
	return true
}

// PredictLandingPlace implements spec.md §4.5's landing-prediction trace:
// simulate up to 40 successive (0,+1) moves for clientID's current block,
// respecting CanPlace with drilling enabled, without mutating any player or
// grid state. Returns the last reachable set of world cells, or nil if the
// block never stops within 40 steps — only possible in Ring mode, where the
// down direction can loop around the annulus forever.
func (g *Game) PredictLandingPlace(clientID uint64) []geometry.WorldPoint {
	p := g.findPlayer(clientID)
	if p == nil {
		return nil
	}
	b := p.CurrentBlock()
	if b == nil {
		return nil
	}
	ownerIdx := g.playerIndex(p)
	origin := g.Grid.Origin()
	ringR := g.ringRadiusOrZero()

	worldCellsAt := func(center geometry.PlayerPoint) []geometry.WorldPoint {
		cells := make([]geometry.WorldPoint, len(b.Cells))
		for i, c := range b.Cells {
			cells[i] = geometry.ToWorld(geometry.PlayerPoint{X: center.X + c.X, Y: center.Y + c.Y}, p.DownDirection, ringR, origin)
		}
		return cells
	}

	center := b.Center
	landing := worldCellsAt(center)
	for step := 0; step < 40; step++ {
		next := center.Add(geometry.DirDown)
		candidate := make([]geometry.PlayerPoint, len(b.Cells))
		for i, c := range b.Cells {
			candidate[i] = geometry.PlayerPoint{X: next.X + c.X, Y: next.Y + c.Y}
		}
		if _, ok := g.CanPlace(ownerIdx, candidate, p.DownDirection, true); !ok {
			return landing
		}
		center = next
		landing = worldCellsAt(center)
	}
	return nil
}

// MoveBlocksDown implements spec.md §4.5 gravity for every player whose
// FastDown matches fast. It returns the list of client ids whose block
// landed (for event logging) and performs spawning/TimerPending transitions.
func (g *Game) MoveBlocksDown(fast bool) (landed []uint64) {
	var drills, nonDrills []*Player
	for _, p := range g.Players {
		if p.FastDown != fast {
			continue
		}
		b := p.CurrentBlock()
		if b == nil {
			continue
		}
		if b.Content.Kind == block.ContentFallingDrill {
			drills = append(drills, p)
		} else {
			nonDrills = append(nonDrills, p)
		}
	}

	moved := map[*Player]bool{}
	for {
		progress := false
		for _, p := range nonDrills {
			if moved[p] {
				continue
			}
			if g.tryStepDown(p) {
				moved[p] = true
				progress = true
			}
		}
		for _, p := range drills {
			if moved[p] {
				continue
			}
			if g.tryStepDown(p) {
				moved[p] = true
				progress = true
			}
		}
		if !progress {
			break
		}
	}

	all := append(append([]*Player{}, nonDrills...), drills...)
	for _, p := range all {
		if moved[p] {
			continue
		}
		if fast {
			p.FastDown = false
			continue
		}
		if g.landOrDestroy(p) {
			landed = append(landed, p.ClientID)
		}
	}
	return landed
}

func (g *Game) tryStepDown(p *Player) bool {
	b := p.CurrentBlock()
	if b == nil {
		return false
	}
	ownerIdx := g.playerIndex(p)
	candidate := make([]geometry.PlayerPoint, len(b.Cells))
	newCenter := b.Center.Add(geometry.DirDown)
	for i, c := range b.Cells {
		candidate[i] = geometry.PlayerPoint{X: newCenter.X + c.X, Y: newCenter.Y + c.Y}
	}
	isDrill := b.Content.Kind == block.ContentFallingDrill
	drilled, ok := g.CanPlace(ownerIdx, candidate, p.DownDirection, isDrill)
	if !ok {
		return false
	}
	g.applyDrilled(drilled)
	b.Center = newCenter
	return true
}

// landOrDestroy lands a block whose every cell is at valid landed
// coordinates, or destroys it (TimerPending) otherwise. Returns true if it
// landed.
func (g *Game) landOrDestroy(p *Player) bool {
	b := p.CurrentBlock()
	if b == nil {
		return false
	}
	origin := g.Grid.Origin()
	worldCells := b.WorldCells(p.DownDirection, g.ringRadiusOrZero(), origin)

	for _, wc := range worldCells {
		if !g.Grid.Valid(wc) {
			p.SetTimerPending()
			return false
		}
	}

	landedContent := b.Content.Land(p.DownDirection)
	for _, wc := range worldCells {
		c := landedContent
		g.Grid.Set(wc, &c)
	}
	next := g.drawFor(p)
	if g.spawnOverlaps(next, p) {
		p.SetTimerPending()
	} else {
		p.SetBlock(next)
	}
	return true
}

func (g *Game) spawnOverlaps(b *block.FallingBlock, p *Player) bool {
	origin := g.Grid.Origin()
	for _, c := range b.Cells {
		wc := geometry.ToWorld(geometry.PlayerPoint{X: b.Center.X + c.X, Y: b.Center.Y + c.Y}, p.DownDirection, g.ringRadiusOrZero(), origin)
		if g.Grid.At(wc) != nil {
			return true
		}
	}
	return false
}

// FilterAndMutateAllSquares implements the unified sweep of spec.md §4.7: it
// visits every landed cell and every falling block's cells exactly once,
// calling predicate(point, content, ownerIdx, hasOwner) and deleting the
// square if predicate returns false. If a falling block becomes empty, its
// owner immediately gets a new block.
func (g *Game) FilterAndMutateAllSquares(predicate func(geometry.WorldPoint, *block.SquareContent, int, bool) bool) {
	for y := 0; y < g.Grid.Rows; y++ {
		for x := 0; x < g.Grid.Cols; x++ {
			wp := geometry.WorldPoint{X: int16(x), Y: int16(y)}
			c := g.Grid.At(wp)
			if c == nil {
				continue
			}
			if !predicate(wp, c, -1, false) {
				g.Grid.Set(wp, nil)
			}
		}
	}

	origin := g.Grid.Origin()
	ringR := g.ringRadiusOrZero()
	for idx, p := range g.Players {
		b := p.CurrentBlock()
		if b == nil {
			continue
		}
		kept := b.Cells[:0:0]
		for _, c := range b.Cells {
			wp := geometry.ToWorld(geometry.PlayerPoint{X: b.Center.X + c.X, Y: b.Center.Y + c.Y}, p.DownDirection, ringR, origin)
			if predicate(wp, &b.Content, idx, true) {
				kept = append(kept, c)
			}
		}
		b.Cells = kept
		if len(b.Cells) == 0 {
			p.SetBlock(g.drawFor(p))
		}
	}
}

// ClearFullRows implements spec.md §4.6 per mode, repeating until
// idempotent for Ring mode's cascading compression. It adds the computed
// score to g.Score.
func (g *Game) ClearFullRows() int {
	switch g.Mode {
	case playfield.ModeRing:
		return g.clearRingRows()
	case playfield.ModeBottle:
		return g.clearBottleRows()
	default:
		return g.clearTraditionalRows()
	}
}

func (g *Game) scoreFor(k int, compensated bool) int {
	base := 5 * k * (k + 1)
	if compensated && len(g.Players) > 1 {
		base *= 1 << uint(len(g.Players)-1)
	}
	return base
}

func (g *Game) clearTraditionalRows() int {
	var full []int
	for row := 0; row < g.Grid.Rows; row++ {
		if g.Grid.RowFull(row) {
			full = append(full, row)
		}
	}
	for _, row := range full {
		g.Grid.ShiftRowsDown(row)
	}
	gained := g.scoreFor(len(full), true)
	g.Score += gained
	g.dropOverlapsWithFallingBlocks()
	return gained
}

func (g *Game) clearBottleRows() int {
	total := 0
	for idx := range g.Players {
		var full []int
		for row := 0; row < playfield.BottleSharedBaseRow; row++ {
			if g.Grid.BottlePersonalSliceFull(row, idx) {
				full = append(full, row)
			}
		}
		for _, row := range full {
			g.Grid.ShiftBottlePersonalDown(row, idx)
		}
		total += g.scoreFor(len(full), false)
	}

	var sharedFull []int
	for row := playfield.BottleSharedBaseRow; row < g.Grid.Rows; row++ {
		if g.Grid.RowFull(row) {
			sharedFull = append(sharedFull, row)
		}
	}
	for _, row := range sharedFull {
		g.Grid.ShiftRowsDown(row)
	}
	total += g.scoreFor(len(sharedFull), true)

	g.Score += total
	g.dropOverlapsWithFallingBlocks()
	return total
}

func (g *Game) clearRingRows() int {
	total := 0
	for {
		cleared := 0
		for r := playfield.RingRadius; r >= 4; r-- {
			if g.Grid.RingBorderFull(r) {
				g.Grid.CompressRingInward(r)
				cleared++
			}
		}
		if cleared == 0 {
			break
		}
		total += g.scoreFor(cleared, true)
	}
	g.Score += total
	g.dropOverlapsWithFallingBlocks()
	return total
}

// dropOverlapsWithFallingBlocks implements the spec.md §4.6 closing rule:
// after clearing, any landed square now coinciding with a moving block's
// cell is removed.
func (g *Game) dropOverlapsWithFallingBlocks() {
	origin := g.Grid.Origin()
	ringR := g.ringRadiusOrZero()
	for _, p := range g.Players {
		b := p.CurrentBlock()
		if b == nil {
			continue
		}
		for _, c := range b.Cells {
			wp := geometry.ToWorld(geometry.PlayerPoint{X: b.Center.X + c.X, Y: b.Center.Y + c.Y}, p.DownDirection, ringR, origin)
			g.Grid.Set(wp, nil)
		}
	}
}

// TickBombsByID implements spec.md §4.9: decrement every square tagged with
// id, once per owning falling block, and return exploding centres.
func (g *Game) TickBombsByID(id int) []geometry.WorldPoint {
	var exploded []geometry.WorldPoint
	decrementedFalling := map[*block.FallingBlock]bool{}

	g.FilterAndMutateAllSquares(func(wp geometry.WorldPoint, c *block.SquareContent, ownerIdx int, hasOwner bool) bool {
		if c.Kind != block.ContentBomb || !c.HasBombID || c.BombID != id || c.BombTimer <= 0 {
			return true
		}
		if hasOwner {
			b := g.Players[ownerIdx].CurrentBlock()
			if b != nil {
				if decrementedFalling[b] {
					if c.BombTimer == 0 {
						exploded = append(exploded, wp)
					}
					return true
				}
				decrementedFalling[b] = true
			}
		}
		c.BombTimer--
		if c.BombTimer == 0 {
			exploded = append(exploded, wp)
		}
		return true
	})
	return exploded
}

// AssignPendingBombIDs scans every falling bomb block lacking an id and
// assigns one, returning the newly assigned ids so the caller can start a
// per-id driver for each (spec.md §4.9, §5). A falling block's Content is
// one shared value across all its cells, so the id assigned here propagates
// into every world cell landOrDestroy later copies it into — bombs are
// never scanned after landing, only while still falling, matching
// start_ticking_new_bombs in the original implementation.
func (g *Game) AssignPendingBombIDs() []int {
	var ids []int
	for _, p := range g.Players {
		b := p.CurrentBlock()
		if b == nil || b.Content.Kind != block.ContentBomb || b.Content.HasBombID {
			continue
		}
		b.Content.BombID = g.BombIDCounter
		b.Content.HasBombID = true
		ids = append(ids, g.BombIDCounter)
		g.BombIDCounter++
	}
	return ids
}

// Explode implements spec.md §4.9: delete every landed cell within
// Euclidean radius 3.5 of each centre, chaining into any unexploded bombs
// among them. Returns every deleted point, chained explosions included, for
// the caller to pass to the flash animation.
func (g *Game) Explode(centres []geometry.WorldPoint) []geometry.WorldPoint {
	var allFlashed []geometry.WorldPoint
	seen := map[geometry.WorldPoint]bool{}
	queue := append([]geometry.WorldPoint{}, centres...)

	for len(queue) > 0 {
		centre := queue[0]
		queue = queue[1:]

		var flashed []geometry.WorldPoint
		var chainBombs []geometry.WorldPoint
		for y := 0; y < g.Grid.Rows; y++ {
			for x := 0; x < g.Grid.Cols; x++ {
				wp := geometry.WorldPoint{X: int16(x), Y: int16(y)}
				if seen[wp] {
					continue
				}
				dx := float64(int(wp.X) - int(centre.X))
				dy := float64(int(wp.Y) - int(centre.Y))
				if math.Sqrt(dx*dx+dy*dy) > 3.5 {
					continue
				}
				c := g.Grid.At(wp)
				if c == nil {
					continue
				}
				if c.Kind == block.ContentBomb && c.BombTimer > 0 {
					chainBombs = append(chainBombs, wp)
				}
				flashed = append(flashed, wp)
				seen[wp] = true
			}
		}
		for _, wp := range flashed {
			g.Grid.Set(wp, nil)
		}
		allFlashed = append(allFlashed, flashed...)
		queue = append(queue, chainBombs...)
	}
	return allFlashed
}

// FlipView implements spec.md §4.11: in single-player Ring mode, invert the
// player's down direction iff the 180-rotated current block doesn't overlap
// any landed square.
func (g *Game) FlipView(clientID uint64) bool {
	if g.Mode != playfield.ModeRing || len(g.Players) != 1 {
		return false
	}
	p := g.Players[0]
	b := p.CurrentBlock()
	if b == nil || p.ClientID != clientID {
		return false
	}
	flipped := geometry.Opposite(p.DownDirection)
	origin := g.Grid.Origin()
	for _, c := range b.Cells {
		wp := geometry.ToWorld(geometry.PlayerPoint{X: b.Center.X + c.X, Y: b.Center.Y + c.Y}, flipped, playfield.RingRadius, origin)
		if g.Grid.At(wp) != nil {
			return false
		}
	}
	p.DownDirection = flipped
	return true
}

// StartPendingPleaseWaitCounters implements spec.md §4.12: promotes every
// TimerPending player to Timer(30) and returns their client ids, or nil if
// every player is already counting down (game over).
func (g *Game) StartPendingPleaseWaitCounters() []uint64 {
	allCounting := true
	for _, p := range g.Players {
		if p.BlockOrTimer.Kind != block.StateTimer {
			allCounting = false
			break
		}
	}
	if allCounting {
		return nil
	}

	var started []uint64
	for _, p := range g.Players {
		if p.BlockOrTimer.Kind == block.StateTimerPending {
			p.SetTimer(30)
			started = append(started, p.ClientID)
		}
	}
	return started
}

// TickPleaseWait decrements clientID's please-wait timer. At Timer(1) the
// next call clears that player's playing-area strip and spawns a new block;
// it returns false to signal the timer has finished.
func (g *Game) TickPleaseWait(clientID uint64) bool {
	p := g.findPlayer(clientID)
	if p == nil || p.BlockOrTimer.Kind != block.StateTimer {
		return false
	}
	if p.TickTimer() {
		return true
	}
	g.clearPlayerArea(p)
	p.SetBlock(g.drawFor(p))
	return false
}

// clearPlayerArea blanks a player's playing-area strip: their column strip
// in Traditional/Bottle, or their half-plane in Ring.
func (g *Game) clearPlayerArea(p *Player) {
	idx := g.playerIndex(p)
	switch g.Mode {
	case playfield.ModeRing:
		for y := 0; y < g.Grid.Rows; y++ {
			for x := 0; x < g.Grid.Cols; x++ {
				wp := geometry.WorldPoint{X: int16(x), Y: int16(y)}
				dx := float64(int(wp.X) - playfield.RingRadius)
				dy := float64(int(wp.Y) - playfield.RingRadius)
				if dx*float64(p.DownDirection.X) > 0 || dy*float64(p.DownDirection.Y) > 0 {
					g.Grid.Set(wp, nil)
				}
			}
		}
	default:
		width := 7
		if g.Mode == playfield.ModeBottle {
			width = 10
		}
		base := idx * width
		for y := 0; y < g.Grid.Rows; y++ {
			for x := base; x < base+width && x < g.Grid.Cols; x++ {
				g.Grid.Set(geometry.WorldPoint{X: int16(x), Y: int16(y)}, nil)
			}
		}
	}
}

// KeyPress dispatches one parsed key (spec.md §6) for clientID. Unknown
// clients and keys are silently ignored.
func (g *Game) KeyPress(clientID uint64, key Key) {
	p := g.findPlayer(clientID)
	if p == nil {
		return
	}
	switch key {
	case KeyDown:
		p.FastDown = true
	case KeyLeft:
		g.MoveBlock(clientID, geometry.DirLeft)
	case KeyRight:
		g.MoveBlock(clientID, geometry.DirRight)
	case KeyRotate:
		g.RotateBlock(clientID, true)
	case KeyFlip:
		g.FlipView(clientID)
	case KeyHold:
		p.HoldSwap(func() *block.FallingBlock { return g.factory.New(g.Score) })
	}
}

// Key is the small parsed-input enum the engine consumes (spec.md §6).
type Key int

const (
	KeyNone Key = iota
	KeyDown
	KeyLeft
	KeyRight
	KeyRotate
	KeyFlip
	KeyHold
)
