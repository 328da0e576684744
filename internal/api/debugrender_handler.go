package api

import (
	"image/png"
	"net/http"

	"github.com/go-chi/chi/v5"

	"blockarena/internal/api/debugrender"
	"blockarena/internal/lobby"
)

// newDebugRenderHandler serves a PNG raster of a lobby's game state for a
// given mode (SPEC_FULL.md §4.13). Intended for operator debugging, not for
// players — there is no real-time diffing or terminal escape sequences
// here, just a full redraw per request.
func newDebugRenderHandler(registry *lobby.Registry) http.HandlerFunc {
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

		img := debugrender.Render(wrapper.Snapshot())
		w.Header().Set("Content-Type", "image/png")
		if err := png.Encode(w, img); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}
