package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/lichsu-edu/meono/internal/content"
	"github.com/lichsu-edu/meono/internal/database"
	"github.com/lichsu-edu/meono/internal/meono"
	"github.com/lichsu-edu/meono/internal/migrations"
	"github.com/lichsu-edu/meono/internal/session"
)

func testDeps(t *testing.T) Deps {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Run(ctx, discardLogger(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return Deps{
		Games:       session.NewRegistry(),
		Content:     content.NewStore(db),
		Broker:      NewBroker(),
		Rules:       meono.DefaultRules(),
		DefaultDeck: "lich-su",
		UndoDepth:   10,
	}
}

func testRouter(t *testing.T, deps Deps) *chi.Mux {
	t.Helper()
	r := chi.NewRouter()
	addRoutes(r, discardLogger(), deps)
	return r
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decode %T: %v (body %q)", v, err, w.Body.String())
	}
	return v
}

var roster = []string{"Hùng Vương", "Trưng Trắc", "Lý Bí", "Ngô Quyền"}

// createGame sets up a table and returns its id.
func createGame(t *testing.T, h http.Handler, req CreateGameRequest) string {
	t.Helper()
	if req.Teams == nil {
		req.Teams = roster
	}
	w := doJSON(t, h, http.MethodPost, "/api/games", req, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create game: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	return decode[GameResponse](t, w).ID
}

func command(t *testing.T, h http.Handler, id string, cmd meono.Command) *httptest.ResponseRecorder {
	t.Helper()
	return doJSON(t, h, http.MethodPost, "/api/games/"+id+"/commands", cmd, nil)
}

func mustCommand(t *testing.T, h http.Handler, id string, cmd meono.Command) CommandResponse {
	t.Helper()
	w := command(t, h, id, cmd)
	if w.Code != http.StatusOK {
		t.Fatalf("%s: expected 200, got %d: %s", cmd.Kind, w.Code, w.Body.String())
	}
	return decode[CommandResponse](t, w)
}

func intp(n int) *int { return &n }

// fixedOdds makes every draw a point card except where the row is zero.
func fixedOdds(points ...int) *RulesOverride {
	return &RulesOverride{PointOdds: points, PointValues: []int{4}}
}
