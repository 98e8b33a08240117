package content_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/lichsu-edu/meono/internal/content"
	"github.com/lichsu-edu/meono/internal/database"
	"github.com/lichsu-edu/meono/internal/meono"
	"github.com/lichsu-edu/meono/internal/migrations"
)

func setupStore(t *testing.T) *content.Store {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Run(ctx, slog.Default(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return content.NewStore(db)
}

func TestDecks(t *testing.T) {
	s := setupStore(t)

	decks, err := s.Decks(context.Background())
	if err != nil {
		t.Fatalf("decks: %v", err)
	}
	if len(decks) != 1 {
		t.Fatalf("expected 1 deck, got %d", len(decks))
	}
	d := decks[0]
	if d.ID != "lich-su" || d.BankSize != 8 || d.BackupSize != 4 {
		t.Errorf("deck = %+v", d)
	}
}

func TestBank(t *testing.T) {
	s := setupStore(t)

	bank, err := s.Bank(context.Background(), "lich-su")
	if err != nil {
		t.Fatalf("bank: %v", err)
	}
	if len(bank) != 8 {
		t.Fatalf("expected 8 questions, got %d", len(bank))
	}
	if bank[0].ID != "ls-bach-dang" || bank[0].Kind != meono.KindMultipleChoice {
		t.Errorf("first question = %+v", bank[0])
	}

	var payload struct {
		Prompt  string   `json:"prompt"`
		Options []string `json:"options"`
		Answer  int      `json:"answer"`
	}
	if err := json.Unmarshal(bank[0].Payload, &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload.Options[payload.Answer] != "Ngô Quyền" {
		t.Errorf("answer = %q, want Ngô Quyền", payload.Options[payload.Answer])
	}

	// The bank feeds straight into a new game.
	e, err := meono.NewEngine(meono.DefaultRules(), meono.NewSeededRNG(1))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	g, err := e.NewGame([]string{"A", "B", "C", "D"}, bank)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	if g.Bank[7].Letter != "H" {
		t.Errorf("last letter = %q, want H", g.Bank[7].Letter)
	}
}

func TestBankUnknownDeck(t *testing.T) {
	s := setupStore(t)

	if _, err := s.Bank(context.Background(), "nope"); !errors.Is(err, content.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestQuestion(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	q, err := s.Question(ctx, "ls-trieu-dai")
	if err != nil {
		t.Fatalf("question: %v", err)
	}
	if q.Kind != meono.KindMatching {
		t.Errorf("kind = %s, want matching", q.Kind)
	}

	if _, err := s.Question(ctx, "missing"); !errors.Is(err, content.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestBackupQuestionWraps(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	tests := []struct {
		n    int
		want string
	}{
		{1, "ls-du-phong-thang-long"},
		{2, "ls-du-phong-binh-ngo"},
		{4, "ls-du-phong-hai-ba"},
		{5, "ls-du-phong-thang-long"},
	}
	for _, tt := range tests {
		q, err := s.BackupQuestion(ctx, "lich-su", tt.n)
		if err != nil {
			t.Fatalf("backup %d: %v", tt.n, err)
		}
		if q.ID != tt.want {
			t.Errorf("backup %d = %q, want %q", tt.n, q.ID, tt.want)
		}
	}

	if _, err := s.BackupQuestion(ctx, "lich-su", 0); !errors.Is(err, content.ErrNotFound) {
		t.Errorf("n=0: err = %v, want ErrNotFound", err)
	}
	if _, err := s.BackupQuestion(ctx, "nope", 1); !errors.Is(err, content.ErrNotFound) {
		t.Errorf("unknown deck: err = %v, want ErrNotFound", err)
	}
}
