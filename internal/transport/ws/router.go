package ws

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/imposteur-game/lobby-server/internal/server"
)

// NewRouter builds the HTTP router: the websocket endpoint plus a
// health check
func NewRouter(handler *Handler, logger *slog.Logger) http.Handler {
	r := mux.NewRouter()

	r.Use(server.Recovery(logger))
	r.Use(server.Logging(logger))

	r.Handle("/ws", handler)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	return r
}
