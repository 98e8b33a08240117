// Package content serves question decks from the libSQL content database.
// It is the lookup side of the game: the engine only sees question ids and
// used flags, while the payloads shown to players live here.
package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lichsu-edu/meono/internal/meono"
)

var ErrNotFound = errors.New("not found")

type Deck struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	BankSize   int    `json:"bankSize"`
	BackupSize int    `json:"backupSize"`
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Decks(ctx context.Context) ([]Deck, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.name,
			COALESCE(SUM(CASE WHEN q.pool = 'bank' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN q.pool = 'backup' THEN 1 ELSE 0 END), 0)
		FROM decks d
		LEFT JOIN questions q ON q.deck_id = d.id
		GROUP BY d.id, d.name
		ORDER BY d.id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing decks: %w", err)
	}
	defer rows.Close()

	var decks []Deck
	for rows.Next() {
		var d Deck
		if err := rows.Scan(&d.ID, &d.Name, &d.BankSize, &d.BackupSize); err != nil {
			return nil, fmt.Errorf("scanning deck: %w", err)
		}
		decks = append(decks, d)
	}
	return decks, rows.Err()
}

// Bank returns the ordered question bank of a deck for a new game.
func (s *Store) Bank(ctx context.Context, deckID string) ([]meono.Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, json(data) FROM questions
		WHERE deck_id = ? AND pool = 'bank'
		ORDER BY position
	`, deckID)
	if err != nil {
		return nil, fmt.Errorf("loading bank %q: %w", deckID, err)
	}
	defer rows.Close()

	var bank []meono.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		bank = append(bank, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bank) == 0 {
		return nil, fmt.Errorf("deck %q: %w", deckID, ErrNotFound)
	}
	return bank, nil
}

// Question resolves one question payload for display.
func (s *Store) Question(ctx context.Context, id string) (meono.Question, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, kind, json(data) FROM questions WHERE id = ?
	`, id)
	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return meono.Question{}, fmt.Errorf("question %q: %w", id, ErrNotFound)
	}
	return q, err
}

// BackupQuestion returns the n-th (1-based) backup question of a deck,
// wrapping around when a game needs more backups than the deck holds.
func (s *Store) BackupQuestion(ctx context.Context, deckID string, n int) (meono.Question, error) {
	if n < 1 {
		return meono.Question{}, fmt.Errorf("backup %d: %w", n, ErrNotFound)
	}

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM questions WHERE deck_id = ? AND pool = 'backup'
	`, deckID).Scan(&count)
	if err != nil {
		return meono.Question{}, fmt.Errorf("counting backups: %w", err)
	}
	if count == 0 {
		return meono.Question{}, fmt.Errorf("deck %q backups: %w", deckID, ErrNotFound)
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, kind, json(data) FROM questions
		WHERE deck_id = ? AND pool = 'backup'
		ORDER BY position
		LIMIT 1 OFFSET ?
	`, deckID, (n-1)%count)
	return scanQuestion(row)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuestion(sc scanner) (meono.Question, error) {
	var (
		q    meono.Question
		kind string
		data string
	)
	if err := sc.Scan(&q.ID, &kind, &data); err != nil {
		return meono.Question{}, err
	}
	q.Kind = meono.QuestionKind(kind)
	if !json.Valid([]byte(data)) {
		return meono.Question{}, fmt.Errorf("question %q has malformed payload", q.ID)
	}
	q.Payload = json.RawMessage(data)
	return q, nil
}
