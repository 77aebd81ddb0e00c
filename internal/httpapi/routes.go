package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/parlorgames/parlor-backend/internal/hub"
	"github.com/parlorgames/parlor-backend/internal/store"
	"github.com/parlorgames/parlor-backend/internal/ws"
)

// SetupRoutes wires the public surface: room management, the websocket
// upgrade, and the peripheral score/history API.
func SetupRoutes(h *hub.Hub, st *store.Store, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Post("/rooms", CreateRoom(h, log))
	r.Get("/ws", ws.Handler(h, log))
	r.Get("/healthz", Healthz)

	r.Get("/scores/hangman", HangmanScores(st))
	r.Get("/scores/speed", SpeedHistory(st))
	r.Post("/words/init", InitWords(st))

	return r
}
