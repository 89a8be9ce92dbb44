package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ytcommentsync/internal/httputil"
)

// NewRouter builds the read-only status router.
func NewRouter(store *StatusStore) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, store.Snapshot())
	})

	return r
}

// NewServer wraps the router in an HTTP server listening on addr.
func NewServer(addr string, store *StatusStore) *http.Server {
	return &http.Server{
		Addr:    addr,
		Handler: NewRouter(store),
	}
}
