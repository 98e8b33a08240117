package server

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/lichsu-edu/meono/internal/content"
	"github.com/lichsu-edu/meono/internal/meono"
	"github.com/lichsu-edu/meono/internal/session"
)

// CreateGameRequest sets up a new table.
type CreateGameRequest struct {
	Deck  string   `json:"deck,omitempty"`
	Teams []string `json:"teams"`
	// Seed fixes the draw sequence. A random seed is chosen when omitted.
	Seed    *uint64        `json:"seed,omitempty"`
	HostPIN string         `json:"hostPin,omitempty"`
	Rules   *RulesOverride `json:"rules,omitempty"`
}

// RulesOverride replaces individual rule defaults for one game.
type RulesOverride struct {
	PointOdds        []int `json:"pointOdds,omitempty"`
	PointValues      []int `json:"pointValues,omitempty"`
	BackupThreshold  *int  `json:"backupThreshold,omitempty"`
	ExplosionPenalty *int  `json:"explosionPenalty,omitempty"`
	PrizeThreshold   *int  `json:"prizeThreshold,omitempty"`
	MaxTurns         *int  `json:"maxTurns,omitempty"`
}

func (o *RulesOverride) apply(r meono.Rules) meono.Rules {
	if o == nil {
		return r
	}
	if o.PointOdds != nil {
		r.Odds = make([]meono.DrawOdds, len(o.PointOdds))
		for i, p := range o.PointOdds {
			r.Odds[i] = meono.DrawOdds{Point: p, Explosion: 100 - p}
		}
	}
	if o.PointValues != nil {
		r.PointValues = o.PointValues
	}
	if o.BackupThreshold != nil {
		r.BackupThreshold = *o.BackupThreshold
	}
	if o.ExplosionPenalty != nil {
		r.ExplosionPenalty = *o.ExplosionPenalty
	}
	if o.PrizeThreshold != nil {
		r.PrizeThreshold = *o.PrizeThreshold
	}
	if o.MaxTurns != nil {
		r.MaxTurns = *o.MaxTurns
	}
	return r
}

// GameResponse describes a hosted game.
type GameResponse struct {
	ID        string          `json:"id"`
	Deck      string          `json:"deck"`
	Seed      uint64          `json:"seed"`
	Protected bool            `json:"protected"`
	CreatedAt string          `json:"createdAt"`
	Rules     meono.Rules     `json:"rules"`
	State     meono.GameState `json:"state"`
}

func newGameResponse(g *session.Session, state meono.GameState) GameResponse {
	return GameResponse{
		ID:        g.ID,
		Deck:      g.Deck,
		Seed:      g.Seed,
		Protected: g.Protected(),
		CreatedAt: g.CreatedAt.UTC().Format(time.RFC3339),
		Rules:     g.Rules(),
		State:     state,
	}
}

func handleCreateGame(logger *slog.Logger, deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateGameRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		deck := req.Deck
		if deck == "" {
			deck = deps.DefaultDeck
		}
		bank, err := deps.Content.Bank(r.Context(), deck)
		if errors.Is(err, content.ErrNotFound) {
			writeError(w, http.StatusNotFound, "deck not found")
			return
		}
		if err != nil {
			logger.Error("loading question bank", "deck", deck, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		seed := rand.Uint64()
		if req.Seed != nil {
			seed = *req.Seed
		}

		game, err := deps.Games.Create(session.Options{
			Deck:      deck,
			Names:     req.Teams,
			Bank:      bank,
			Rules:     req.Rules.apply(deps.Rules),
			Seed:      seed,
			HostPIN:   req.HostPIN,
			UndoDepth: deps.UndoDepth,
		})
		if errors.Is(err, meono.ErrInvalidConfiguration) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: meono.Code(err)})
			return
		}
		if err != nil {
			logger.Error("creating game", "deck", deck, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		logger.Info("game created", "game_id", game.ID, "deck", deck, "seed", seed, "questions", len(bank))
		writeJSON(w, http.StatusCreated, newGameResponse(game, game.Snapshot()))
	}
}

func handleGetGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		game := gameFrom(r)
		writeJSON(w, http.StatusOK, newGameResponse(game, game.Snapshot()))
	}
}

func handleDeleteGame(logger *slog.Logger, games *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		game := gameFrom(r)
		if err := game.Authorize(hostPIN(r)); err != nil {
			writeGameError(w, err, nil)
			return
		}
		if err := games.Remove(game.ID); err != nil {
			writeGameError(w, err, nil)
			return
		}

		logger.Info("game removed", "game_id", game.ID)
		w.WriteHeader(http.StatusNoContent)
	}
}
