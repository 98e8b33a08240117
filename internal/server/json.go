package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lichsu-edu/meono/internal/meono"
	"github.com/lichsu-edu/meono/internal/session"
)

// maxBodyBytes caps request bodies; a create request carries at most a
// roster and a rules override.
const maxBodyBytes = 64 << 10

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeGameError reports a rejected command together with the unchanged
// state so the table can redraw without a second request.
func writeGameError(w http.ResponseWriter, err error, state *meono.GameState) {
	writeJSON(w, statusFor(err), ErrorResponse{
		Error: err.Error(),
		Code:  errorCode(err),
		State: state,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, session.ErrNotFound), errors.Is(err, meono.ErrQuestionNotFound):
		return http.StatusNotFound
	case errors.Is(err, meono.ErrInvalidConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNothingToUndo),
		errors.Is(err, meono.ErrNoActiveTurn),
		errors.Is(err, meono.ErrInvalidState),
		errors.Is(err, meono.ErrQuestionAlreadyUsed),
		errors.Is(err, meono.ErrDrawLimitExceeded):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, session.ErrForbidden):
		return "forbidden"
	case errors.Is(err, session.ErrNothingToUndo):
		return "nothing_to_undo"
	}
	return meono.Code(err)
}

func mustJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
