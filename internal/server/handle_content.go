package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lichsu-edu/meono/internal/content"
)

func handleListDecks(store *content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		decks, err := store.Decks(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if decks == nil {
			decks = []content.Deck{}
		}
		writeJSON(w, http.StatusOK, decks)
	}
}

func handleQuestion(store *content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := store.Question(r.Context(), chi.URLParam(r, "questionID"))
		if errors.Is(err, content.ErrNotFound) {
			writeError(w, http.StatusNotFound, "question not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

func handleBackupQuestion(store *content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := strconv.Atoi(chi.URLParam(r, "n"))
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "n must be a positive integer")
			return
		}

		q, err := store.BackupQuestion(r.Context(), chi.URLParam(r, "deck"), n)
		if errors.Is(err, content.ErrNotFound) {
			writeError(w, http.StatusNotFound, "backup question not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}
