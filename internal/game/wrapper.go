package game

import (
	"context"
	"sync"
	"time"
	"weak"

	"blockarena/internal/block"
	"blockarena/internal/geometry"
	"blockarena/internal/playfield"
)

// Timing constants for the driver tasks (spec.md §5).
const (
	GravityNormalInterval = 400 * time.Millisecond
	GravityFastInterval   = 25 * time.Millisecond
	DrillAnimInterval     = 100 * time.Millisecond
	BombTickInterval      = time.Second
	PleaseWaitInterval    = time.Second
	FlashPhaseInterval    = 100 * time.Millisecond
)

// GameWrapper is the concurrency-facing handle around a Game: a mutex
// guarding all synchronous state, an async flash lock serialising flash
// animations against gravity, and a change-notification channel for
// write-loop tasks to wait on (spec.md §5).
//
// The wrapper owns the driver goroutines for its lifetime. They carry only
// a weak reference back to the wrapper, so when the owning Lobby drops its
// last strong reference the drivers notice at their next tick and exit on
// their own — nobody needs to cancel them explicitly.
type GameWrapper struct {
	mu   sync.Mutex
	game *Game

	flashMu sync.Mutex

	changed   chan struct{}
	changedMu sync.Mutex

	cancel context.CancelFunc

	startedAt        time.Time
	gameOverReported bool

	// OnGameOver, if set, is called once with the finished game's HighScore
	// fields when StartPendingPleaseWaitCounters reports every player is
	// stuck counting down (spec.md §4.12, §6).
	OnGameOver func(score int, durationSec float64, playerNames []string)
}

// NewGameWrapper creates a wrapper around a fresh Game and starts its
// driver tasks.
func NewGameWrapper(mode playfield.Mode, factory *block.Factory) *GameWrapper {
	ctx, cancel := context.WithCancel(context.Background())
	w := &GameWrapper{
		game:      NewGame(mode, factory),
		changed:   make(chan struct{}),
		cancel:    cancel,
		startedAt: time.Now(),
	}
	w.startDrivers(ctx)
	return w
}

// Stop cancels the wrapper's driver goroutines. It does not need to be
// called for correctness — weak references mean a dropped wrapper already
// stops driving itself — but it lets a lobby shut a game down immediately.
func (w *GameWrapper) Stop() {
	w.cancel()
}

// Subscribe returns the current change-notification channel. It is closed
// the next time any state mutates; callers should re-subscribe after each
// wake to get the next one (the watch-channel pattern).
func (w *GameWrapper) Subscribe() <-chan struct{} {
	w.changedMu.Lock()
	defer w.changedMu.Unlock()
	return w.changed
}

// markChanged closes the current channel (waking every subscriber) and
// installs a fresh one. Must be called with w.mu held.
func (w *GameWrapper) markChanged() {
	w.changedMu.Lock()
	close(w.changed)
	w.changed = make(chan struct{})
	w.changedMu.Unlock()
}

// WithLock runs fn with the game mutex held and marks the wrapper changed
// afterward. Used by the TCP key-press handler and by driver tasks.
func (w *GameWrapper) WithLock(fn func(g *Game)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(w.game)
	w.markChanged()
}

// Snapshot returns an immutable copy of the game state suitable for
// rendering or the spectator JSON feed, taken under the game mutex.
func (w *GameWrapper) Snapshot() GameSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return newSnapshot(w.game)
}

func (w *GameWrapper) startDrivers(ctx context.Context) {
	weakSelf := weak.Make(w)
	go driveTicker(ctx, weakSelf, GravityNormalInterval, func(w *GameWrapper) {
		w.flashMu.Lock()
		defer w.flashMu.Unlock()
		w.WithLock(func(g *Game) {
			landed := g.MoveBlocksDown(false)
			if len(landed) > 0 {
				g.ClearFullRows()
			}
		})
	})
	go driveTicker(ctx, weakSelf, GravityFastInterval, func(w *GameWrapper) {
		w.flashMu.Lock()
		defer w.flashMu.Unlock()
		w.WithLock(func(g *Game) {
			landed := g.MoveBlocksDown(true)
			if len(landed) > 0 {
				g.ClearFullRows()
			}
		})
	})
	go driveTicker(ctx, weakSelf, DrillAnimInterval, func(w *GameWrapper) {
		w.WithLock(func(g *Game) {
			g.FilterAndMutateAllSquares(func(_ geometry.WorldPoint, c *block.SquareContent, _ int, _ bool) bool {
				if c.Kind == block.ContentFallingDrill {
					c.DrillAnim = (c.DrillAnim + 1) % 12
				}
				return true
			})
		})
	})
	go driveTicker(ctx, weakSelf, BombTickInterval, func(w *GameWrapper) {
		var ids []int
		w.WithLock(func(g *Game) {
			ids = g.AssignPendingBombIDs()
		})
		for _, id := range ids {
			w.StartBombDriver(ctx, id)
		}
	})
	go drivePleaseWait(ctx, weakSelf)
}

// driveTicker runs fn every interval for as long as the weak reference to
// the wrapper still resolves; it exits silently once the wrapper is gone.
func driveTicker(ctx context.Context, ref weak.Pointer[GameWrapper], interval time.Duration, fn func(*GameWrapper)) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w := ref.Value()
			if w == nil {
				return
			}
			fn(w)
		}
	}
}

// drivePleaseWait ticks every counting-down player's timer once per second
// and starts pending counters once a second for newly-blocked players.
func drivePleaseWait(ctx context.Context, ref weak.Pointer[GameWrapper]) {
	t := time.NewTicker(PleaseWaitInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w := ref.Value()
			if w == nil {
				return
			}
			var over bool
			var score int
			var names []string
			w.WithLock(func(g *Game) {
				if !w.gameOverReported && g.StartPendingPleaseWaitCounters() == nil && len(g.Players) > 0 {
					over = true
					w.gameOverReported = true
					score = g.Score
					for _, p := range g.Players {
						names = append(names, p.Name)
					}
				}
				for _, p := range g.Players {
					if p.BlockOrTimer.Kind == block.StateTimer {
						g.TickPleaseWait(p.ClientID)
					}
				}
			})
			if over && w.OnGameOver != nil {
				w.OnGameOver(score, time.Since(w.startedAt).Seconds(), names)
			}
		}
	}
}

// Flash runs the four-phase flash animation over points, holding the flash
// lock so gravity cannot run concurrently (spec.md §4.10, §5). It holds a
// strong reference to the wrapper for its entire duration, unlike the
// periodic drivers, so an in-flight flash always completes even if the game
// is otherwise dropped mid-animation.
func (w *GameWrapper) Flash(points []geometry.WorldPoint, color block.Color) {
	w.flashMu.Lock()
	defer w.flashMu.Unlock()

	for phase := 0; phase < 4; phase++ {
		on := phase%2 == 0
		w.WithLock(func(g *Game) {
			for _, p := range points {
				if on {
					g.FlashingPoints[p] = color
				} else {
					delete(g.FlashingPoints, p)
				}
			}
		})
		time.Sleep(FlashPhaseInterval)
	}
}

// TickBombAndExplode ticks a single bomb id, and if it is due, explodes and
// flashes it; intended to be called from a per-bomb-id driver goroutine
// started when a bomb is first assigned an id. It returns true once the bomb
// has exploded, or when no square carries the id any more.
func (w *GameWrapper) TickBombAndExplode(id int) (done bool) {
	var exploded []geometry.WorldPoint
	alive := false
	w.WithLock(func(g *Game) {
		exploded = g.TickBombsByID(id)
		g.FilterAndMutateAllSquares(func(_ geometry.WorldPoint, c *block.SquareContent, _ int, _ bool) bool {
			if c.Kind == block.ContentBomb && c.HasBombID && c.BombID == id {
				alive = true
			}
			return true
		})
	})
	if len(exploded) == 0 {
		return !alive
	}

	var flashed []geometry.WorldPoint
	w.WithLock(func(g *Game) {
		flashed = g.Explode(exploded)
	})
	w.Flash(flashed, block.Color{FG: 0, BG: 15})
	return true
}

// StartBombDriver launches a per-bomb-id ticking goroutine (spec.md §4.9,
// §5); it owns only a weak reference and exits as soon as its id stops
// matching any live bomb, or the game is gone.
func (w *GameWrapper) StartBombDriver(ctx context.Context, id int) {
	ref := weak.Make(w)
	go func() {
		t := time.NewTicker(BombTickInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				ww := ref.Value()
				if ww == nil {
					return
				}
				if ww.TickBombAndExplode(id) {
					return
				}
			}
		}
	}()
}
