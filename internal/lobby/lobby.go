// Package lobby implements the process-wide lobby registry: groups of up to
// six clients sharing a room, each able to start one game per mode.
package lobby

import (
	"math/rand"
	"sync"

	"blockarena/internal/block"
	"blockarena/internal/game"
	"blockarena/internal/playfield"
)

// MaxClientsPerLobby is the hard seat cap for a lobby, independent of any
// individual game mode's player cap.
const MaxClientsPerLobby = 6

// palette is the fixed 6-color set colors are greedily assigned from.
var palette = []block.Color{
	{FG: 0, BG: 1}, {FG: 0, BG: 2}, {FG: 0, BG: 3},
	{FG: 0, BG: 4}, {FG: 0, BG: 5}, {FG: 0, BG: 6},
}

// ClientInfo is one seated client's identity within a Lobby.
type ClientInfo struct {
	ClientID uint64
	Name     string
	Color    block.Color
}

// Lobby is a room of up to six clients, each able to join at most one Game
// per mode. The Lobby holds the only strong reference to its games; once
// every client in a lobby disconnects, the lobby is garbage and its games'
// driver tasks notice the next time their weak reference fails to resolve.
type Lobby struct {
	mu      sync.Mutex
	ID      string
	Clients []ClientInfo

	games   map[playfield.Mode]*game.GameWrapper
	factory *block.Factory

	// onGameOver, if set, is attached to every game created in this lobby so
	// a finished run gets persisted (SPEC_FULL.md §7).
	onGameOver func(score int, durationSec float64, playerNames []string)
}

// New creates an empty lobby with the given id.
func New(id string, factory *block.Factory) *Lobby {
	return &Lobby{
		ID:      id,
		games:   make(map[playfield.Mode]*game.GameWrapper),
		factory: factory,
	}
}

// IsFull reports whether the lobby has its maximum six clients.
func (l *Lobby) IsFull() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Clients) == MaxClientsPerLobby
}

// AddClient seats a new client, assigning it the first unused palette
// color. Panics if the lobby is already full — callers must check IsFull
// first, matching the teacher's assert-based precondition style.
func (l *Lobby) AddClient(clientID uint64, name string) ClientInfo {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.Clients) >= MaxClientsPerLobby {
		panic("lobby: AddClient called on a full lobby")
	}

	used := make(map[block.Color]bool, len(l.Clients))
	for _, c := range l.Clients {
		used[c.Color] = true
	}
	var color block.Color
	for _, c := range palette {
		if !used[c] {
			color = c
			break
		}
	}

	info := ClientInfo{ClientID: clientID, Name: name, Color: color}
	l.Clients = append(l.Clients, info)
	return info
}

// RemoveClient drops a client from the lobby and from every game it had
// joined.
func (l *Lobby) RemoveClient(clientID uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, w := range l.games {
		w.WithLock(func(g *game.Game) {
			g.RemovePlayer(clientID)
		})
	}

	for i, c := range l.Clients {
		if c.ClientID == clientID {
			l.Clients = append(l.Clients[:i], l.Clients[i+1:]...)
			break
		}
	}
}

// JoinGame seats clientID into the lobby's game for mode, creating the game
// (and starting its driver tasks) on first use.
func (l *Lobby) JoinGame(clientID uint64, mode playfield.Mode) (*game.GameWrapper, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var info *ClientInfo
	for i := range l.Clients {
		if l.Clients[i].ClientID == clientID {
			info = &l.Clients[i]
			break
		}
	}
	if info == nil {
		return nil, false
	}

	w, exists := l.games[mode]
	if !exists {
		w = game.NewGameWrapper(mode, l.factory)
		w.OnGameOver = l.onGameOver
		l.games[mode] = w
	}

	ok := false
	w.WithLock(func(g *game.Game) {
		ok = g.AddPlayer(info.ClientID, info.Name, info.Color)
	})
	return w, ok
}

// GameFor returns the lobby's existing game for mode, if one has been
// started.
func (l *Lobby) GameFor(mode playfield.Mode) (*game.GameWrapper, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	w, ok := l.games[mode]
	return w, ok
}

// idAlphabet omits visually confusable digits/letters (spec.md §6).
var idAlphabet = []rune{'D', 'H', 'J', 'K', 'L', 'M', 'N', 'P', 'R', 'T', 'W', 'X', 'Y', '3', '7', '9'}

// LooksLikeLobbyID reports whether a string has the right shape to be a
// lobby id, without checking that a lobby with that id actually exists.
func LooksLikeLobbyID(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, ch := range s {
		found := false
		for _, a := range idAlphabet {
			if ch == a {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Registry is the process-wide, mutex-guarded map from lobby id to Lobby.
type Registry struct {
	mu      sync.Mutex
	lobbies map[string]*Lobby
	factory *block.Factory
	rng     *rand.Rand

	// onGameOver is attached to every lobby this registry creates; set it
	// with SetOnGameOver before any clients join.
	onGameOver func(score int, durationSec float64, playerNames []string)
}

// NewRegistry creates an empty registry. rng drives lobby-id generation;
// pass a seeded *rand.Rand for deterministic tests.
func NewRegistry(factory *block.Factory, rng *rand.Rand) *Registry {
	return &Registry{lobbies: make(map[string]*Lobby), factory: factory, rng: rng}
}

// SetOnGameOver installs the callback every subsequently created lobby's
// games will invoke once all their players are stuck in the "please wait"
// countdown (spec.md §4.12). Typically wired to a highscore.Store.
func (r *Registry) SetOnGameOver(fn func(score int, durationSec float64, playerNames []string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onGameOver = fn
}

// Create allocates a new lobby with a freshly generated unused id.
func (r *Registry) Create() *Lobby {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.generateUnusedIDLocked()
	l := New(id, r.factory)
	l.onGameOver = r.onGameOver
	r.lobbies[id] = l
	return l
}

func (r *Registry) generateUnusedIDLocked() string {
	for {
		buf := make([]rune, 6)
		for i := range buf {
			buf[i] = idAlphabet[r.rng.Intn(len(idAlphabet))]
		}
		id := string(buf)
		if _, exists := r.lobbies[id]; !exists {
			return id
		}
	}
}

// Get looks up a lobby by id.
func (r *Registry) Get(id string) (*Lobby, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lobbies[id]
	return l, ok
}

// Forget removes a lobby from the registry once it has no clients left,
// the Go equivalent of the weak-valued map the teacher's original used:
// here it's an explicit call from the code path that just emptied a lobby,
// since Go has no ambient weak-map collection.
func (r *Registry) Forget(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.lobbies[id]; ok && len(l.Clients) == 0 {
		delete(r.lobbies, id)
	}
}

// Count returns the number of live lobbies.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lobbies)
}
