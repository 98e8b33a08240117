package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lichsu-edu/meono/internal/session"
)

type ctxKey int

const ctxKeyGame ctxKey = iota

// hostPINHeader carries the host PIN on mutating requests for protected games.
const hostPINHeader = "X-Host-Pin"

func gameMiddleware(games *session.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "gameID")
			if id == "" {
				writeError(w, http.StatusNotFound, "game not found")
				return
			}

			game, err := games.Get(id)
			if err != nil {
				writeError(w, http.StatusNotFound, "game not found")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyGame, game)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func gameFrom(r *http.Request) *session.Session {
	return r.Context().Value(ctxKeyGame).(*session.Session)
}

func hostPIN(r *http.Request) string {
	return r.Header.Get(hostPINHeader)
}
