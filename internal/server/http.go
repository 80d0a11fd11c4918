package server

import (
	_ "embed"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	. "NitroRally/internal/game"
)

//go:generate go run ./cmd/webbuild

//go:embed web/index.html
var htmlIndex []byte

// client.js is the bundle cmd/webbuild writes. Regenerate after
// touching web/src.
//
//go:embed web/client.js
var jsClient []byte

func startServer(h *Hub, log zerolog.Logger, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(htmlIndex)
	})
	mux.HandleFunc("/client.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		_, _ = w.Write(jsClient)
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		h.Mu.Lock()
		races := len(h.Races)
		h.Mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"races":  races,
		})
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWS(h, log, w, r)
	})

	log.Info().Str("addr", addr).Msg("listening")
	return http.ListenAndServe(addr, mux)
}
