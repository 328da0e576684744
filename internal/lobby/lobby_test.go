package lobby

import (
	"math/rand"
	"testing"

	"blockarena/internal/block"
	"blockarena/internal/playfield"
)

func newTestRegistry() *Registry {
	factory := block.NewFactory(rand.New(rand.NewSource(1)))
	return NewRegistry(factory, rand.New(rand.NewSource(2)))
}

func TestRegistryCreateGeneratesValidID(t *testing.T) {
	r := newTestRegistry()
	l := r.Create()
	if !LooksLikeLobbyID(l.ID) {
		t.Errorf("generated lobby id %q doesn't look like a lobby id", l.ID)
	}
	if _, ok := r.Get(l.ID); !ok {
		t.Errorf("expected Get to find the just-created lobby")
	}
	if r.Count() != 1 {
		t.Errorf("got lobby count %d, want 1", r.Count())
	}
}

func TestAddClientAssignsDistinctColors(t *testing.T) {
	l := New("ABCDEF", block.NewFactory(rand.New(rand.NewSource(1))))
	a := l.AddClient(1, "alice")
	b := l.AddClient(2, "bob")
	if a.Color == b.Color {
		t.Errorf("expected distinct colors for two clients, both got %+v", a.Color)
	}
}

func TestLobbyBecomesFullAtMaxClients(t *testing.T) {
	l := New("ABCDEF", block.NewFactory(rand.New(rand.NewSource(1))))
	for i := 0; i < MaxClientsPerLobby; i++ {
		if l.IsFull() {
			t.Fatalf("lobby reported full too early at seat %d", i)
		}
		l.AddClient(uint64(i+1), "p")
	}
	if !l.IsFull() {
		t.Errorf("expected lobby to report full after %d clients", MaxClientsPerLobby)
	}
}

func TestAddClientPanicsWhenFull(t *testing.T) {
	l := New("ABCDEF", block.NewFactory(rand.New(rand.NewSource(1))))
	for i := 0; i < MaxClientsPerLobby; i++ {
		l.AddClient(uint64(i+1), "p")
	}
	defer func() {
		if recover() == nil {
			t.Errorf("expected AddClient on a full lobby to panic")
		}
	}()
	l.AddClient(999, "overflow")
}

func TestJoinGameRequiresSeatedClient(t *testing.T) {
	l := New("ABCDEF", block.NewFactory(rand.New(rand.NewSource(1))))
	if _, ok := l.JoinGame(1, playfield.ModeTraditional); ok {
		t.Errorf("expected JoinGame to fail for a client never added to the lobby")
	}
	l.AddClient(1, "alice")
	w, ok := l.JoinGame(1, playfield.ModeTraditional)
	if !ok || w == nil {
		t.Fatalf("expected JoinGame to succeed for a seated client")
	}
	w.Stop()
}

func TestRemoveClientLeavesGamesAndLobby(t *testing.T) {
	l := New("ABCDEF", block.NewFactory(rand.New(rand.NewSource(1))))
	l.AddClient(1, "alice")
	w, _ := l.JoinGame(1, playfield.ModeTraditional)
	defer w.Stop()

	l.RemoveClient(1)
	if len(l.Clients) != 0 {
		t.Errorf("expected client to be removed from the lobby's client list")
	}
}

func TestForgetOnlyRemovesEmptyLobbies(t *testing.T) {
	r := newTestRegistry()
	l := r.Create()
	l.AddClient(1, "alice")

	r.Forget(l.ID)
	if _, ok := r.Get(l.ID); !ok {
		t.Errorf("expected a non-empty lobby to survive Forget")
	}

	l.RemoveClient(1)
	r.Forget(l.ID)
	if _, ok := r.Get(l.ID); ok {
		t.Errorf("expected an empty lobby to be removed by Forget")
	}
}

func TestSetOnGameOverPropagatesToNewLobbies(t *testing.T) {
	r := newTestRegistry()
	called := false
	r.SetOnGameOver(func(score int, durationSec float64, playerNames []string) {
		called = true
	})
	l := r.Create()
	l.AddClient(1, "alice")
	w, _ := l.JoinGame(1, playfield.ModeTraditional)
	defer w.Stop()

	if w.OnGameOver == nil {
		t.Fatalf("expected the freshly created game's OnGameOver to be wired from the registry")
	}
	w.OnGameOver(0, 0, nil)
	if !called {
		t.Errorf("expected the registry's callback to have been invoked")
	}
}
