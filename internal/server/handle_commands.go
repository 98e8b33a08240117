package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/lichsu-edu/meono/internal/content"
	"github.com/lichsu-edu/meono/internal/meono"
	"github.com/lichsu-edu/meono/internal/session"
)

// CommandResponse is returned for an accepted command.
type CommandResponse struct {
	Event meono.Event     `json:"event"`
	State meono.GameState `json:"state"`
	// Backup is the question to read out when the command started a
	// backup round.
	Backup *meono.Question `json:"backup,omitempty"`
}

// UndoResponse is returned after the last command was rolled back.
type UndoResponse struct {
	State meono.GameState `json:"state"`
}

func handleCommand(logger *slog.Logger, store *content.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		game := gameFrom(r)

		var cmd meono.Command
		if err := readJSON(w, r, &cmd); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		state, ev, err := game.Apply(hostPIN(r), cmd)
		if errors.Is(err, session.ErrForbidden) {
			writeGameError(w, err, nil)
			return
		}
		if err != nil {
			logger.Debug("command rejected", "game_id", game.ID, "kind", cmd.Kind, "error", err)
			writeGameError(w, err, &state)
			return
		}

		resp := CommandResponse{Event: ev, State: state}
		if ev.Kind == meono.EventBackupStarted {
			q, err := store.BackupQuestion(r.Context(), game.Deck, backupRound(state))
			if err != nil {
				// The host can still read a question from the printed deck.
				logger.Warn("loading backup question", "game_id", game.ID, "deck", game.Deck, "error", err)
			} else {
				resp.Backup = &q
			}
		}
		if ev.Kind == meono.EventTurnEnded {
			logger.Info("turn ended",
				"game_id", game.ID,
				"team", ev.Team,
				"result", ev.Result,
				"points", ev.Points,
				"score", ev.Score,
				"ended", ev.Ended,
			)
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// backupRound numbers the backup question about to be asked, counting the
// earlier turns that reached one.
func backupRound(s meono.GameState) int {
	n := 1
	for _, rec := range s.History {
		if rec.Backup {
			n++
		}
	}
	return n
}

func handleUndo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		game := gameFrom(r)

		state, err := game.Undo(hostPIN(r))
		if errors.Is(err, session.ErrForbidden) {
			writeGameError(w, err, nil)
			return
		}
		if err != nil {
			writeGameError(w, err, &state)
			return
		}

		writeJSON(w, http.StatusOK, UndoResponse{State: state})
	}
}
