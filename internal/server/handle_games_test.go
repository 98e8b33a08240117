package server

import (
	"net/http"
	"testing"
)

func TestCreateGame(t *testing.T) {
	r := testRouter(t, testDeps(t))

	seed := uint64(42)
	w := doJSON(t, r, http.MethodPost, "/api/games", CreateGameRequest{Teams: roster, Seed: &seed}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := decode[GameResponse](t, w)
	if resp.ID == "" {
		t.Error("expected game id")
	}
	if resp.Deck != "lich-su" {
		t.Errorf("deck = %q, want lich-su", resp.Deck)
	}
	if resp.Seed != 42 {
		t.Errorf("seed = %d, want 42", resp.Seed)
	}
	if resp.Protected {
		t.Error("game without pin should not be protected")
	}
	if len(resp.State.Bank) != 8 {
		t.Errorf("bank size = %d, want 8", len(resp.State.Bank))
	}
	if resp.State.CurrentTeam != "A" {
		t.Errorf("current team = %q, want A", resp.State.CurrentTeam)
	}
	if resp.State.Teams[1].Name != "Trưng Trắc" {
		t.Errorf("team B = %q", resp.State.Teams[1].Name)
	}
	if resp.Rules.BackupThreshold != 16 {
		t.Errorf("backup threshold = %d, want 16", resp.Rules.BackupThreshold)
	}
}

func TestCreateGameRulesOverride(t *testing.T) {
	r := testRouter(t, testDeps(t))

	w := doJSON(t, r, http.MethodPost, "/api/games", CreateGameRequest{
		Teams: roster,
		Rules: &RulesOverride{PrizeThreshold: intp(20), MaxTurns: intp(8)},
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := decode[GameResponse](t, w)
	if resp.Rules.PrizeThreshold != 20 || resp.Rules.MaxTurns != 8 {
		t.Errorf("rules = %+v", resp.Rules)
	}
	if resp.Rules.ExplosionPenalty != 3 {
		t.Errorf("explosion penalty = %d, want default 3", resp.Rules.ExplosionPenalty)
	}
}

func TestCreateGameErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{"three teams", CreateGameRequest{Teams: roster[:3]}, http.StatusBadRequest, "invalid_configuration"},
		{"blank team name", CreateGameRequest{Teams: []string{"A", " ", "C", "D"}}, http.StatusBadRequest, "invalid_configuration"},
		{"unknown deck", CreateGameRequest{Deck: "dia-ly", Teams: roster}, http.StatusNotFound, ""},
		{"bad odds", CreateGameRequest{Teams: roster, Rules: &RulesOverride{PointOdds: []int{10, 20, 30, 40, 50}}}, http.StatusBadRequest, "invalid_configuration"},
		{"unknown field", map[string]any{"teams": roster, "bombs": 3}, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := testDeps(t)
			r := testRouter(t, deps)

			w := doJSON(t, r, http.MethodPost, "/api/games", tt.body, nil)
			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			resp := decode[ErrorResponse](t, w)
			if resp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
			if deps.Games.Len() != 0 {
				t.Errorf("registry holds %d games after a failed create", deps.Games.Len())
			}
		})
	}
}

func TestGetGame(t *testing.T) {
	r := testRouter(t, testDeps(t))
	id := createGame(t, r, CreateGameRequest{})

	w := doJSON(t, r, http.MethodGet, "/api/games/"+id, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := decode[GameResponse](t, w).ID; got != id {
		t.Errorf("id = %q, want %q", got, id)
	}

	w = doJSON(t, r, http.MethodGet, "/api/games/nope", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestDeleteGame(t *testing.T) {
	deps := testDeps(t)
	r := testRouter(t, deps)
	id := createGame(t, r, CreateGameRequest{})

	w := doJSON(t, r, http.MethodDelete, "/api/games/"+id, nil, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", w.Code, w.Body.String())
	}
	if deps.Games.Len() != 0 {
		t.Errorf("registry len = %d, want 0", deps.Games.Len())
	}

	w = doJSON(t, r, http.MethodGet, "/api/games/"+id, nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestHostPIN(t *testing.T) {
	r := testRouter(t, testDeps(t))
	id := createGame(t, r, CreateGameRequest{HostPIN: "2468"})

	start := map[string]string{"kind": "start_turn", "team": "A"}

	w := doJSON(t, r, http.MethodPost, "/api/games/"+id+"/commands", start, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("no pin: expected 403, got %d", w.Code)
	}
	if code := decode[ErrorResponse](t, w).Code; code != "forbidden" {
		t.Errorf("code = %q, want forbidden", code)
	}

	wrong := http.Header{hostPINHeader: {"1111"}}
	w = doJSON(t, r, http.MethodPost, "/api/games/"+id+"/commands", start, wrong)
	if w.Code != http.StatusForbidden {
		t.Fatalf("wrong pin: expected 403, got %d", w.Code)
	}

	right := http.Header{hostPINHeader: {"2468"}}
	w = doJSON(t, r, http.MethodPost, "/api/games/"+id+"/commands", start, right)
	if w.Code != http.StatusOK {
		t.Fatalf("right pin: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Reading stays open to displays.
	w = doJSON(t, r, http.MethodGet, "/api/games/"+id, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}
	if !decode[GameResponse](t, w).Protected {
		t.Error("expected protected game")
	}

	w = doJSON(t, r, http.MethodDelete, "/api/games/"+id, nil, wrong)
	if w.Code != http.StatusForbidden {
		t.Fatalf("delete wrong pin: expected 403, got %d", w.Code)
	}
	w = doJSON(t, r, http.MethodDelete, "/api/games/"+id, nil, right)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", w.Code)
	}
}
