package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"blockarena/internal/lobby"
	"blockarena/internal/playfield"
)

var spectateUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // read-only spectator feed; no session state to protect
	},
}

// parseMode maps a URL path segment to a playfield.Mode.
func parseMode(s string) (playfield.Mode, bool) {
	switch s {
	case "traditional":
		return playfield.ModeTraditional, true
	case "bottle":
		return playfield.ModeBottle, true
	case "ring":
		return playfield.ModeRing, true
	default:
		return 0, false
	}
}

// newSpectateHandler builds the read-only spectator websocket feed: one
// JSON-encoded GameSnapshot pushed every time GameWrapper.markChanged fires
// (SPEC_FULL.md §4.14).
func newSpectateHandler(registry *lobby.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		modeStr := chi.URLParam(r, "mode")

		mode, ok := parseMode(modeStr)
		if !ok {
			http.Error(w, "unknown mode", http.StatusNotFound)
			return
		}
		l, ok := registry.Get(id)
		if !ok {
			http.Error(w, "unknown lobby", http.StatusNotFound)
			return
		}
		wrapper, ok := l.GameFor(mode)
		if !ok {
			http.Error(w, "game not started", http.StatusNotFound)
			return
		}

		conn, err := spectateUpgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("⚠️ spectate upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		UpdateWSConnections(1)
		defer UpdateWSConnections(-1)

		changed := wrapper.Subscribe()
		for {
			snap := wrapper.Snapshot()
			data, err := json.Marshal(snap)
			if err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
			IncrementWSMessages()

			<-changed
			changed = wrapper.Subscribe()
		}
	}
}

