// Package meono implements the Mèo Nổ push-your-luck card game as a pure
// state machine. It has zero external dependencies and performs no I/O:
// every operation takes a GameState and returns a successor, leaving the
// input untouched.
package meono

import (
	"encoding/json"
	"maps"
	"slices"
)

type TeamID string

const (
	TeamA TeamID = "A"
	TeamB TeamID = "B"
	TeamC TeamID = "C"
	TeamD TeamID = "D"
)

// Slots lists the fixed team slots in round-robin order.
var Slots = [4]TeamID{TeamA, TeamB, TeamC, TeamD}

func (t TeamID) slot() int {
	for i, id := range Slots {
		if id == t {
			return i
		}
	}
	return -1
}

// Next returns the team that plays after t.
func (t TeamID) Next() TeamID {
	return Slots[(t.slot()+1)%len(Slots)]
}

type Team struct {
	ID           TeamID `json:"id"`
	Name         string `json:"name"`
	Score        int    `json:"score"`
	PrizeClaimed bool   `json:"prizeClaimed"`
}

type QuestionKind string

const (
	KindMatching       QuestionKind = "matching"
	KindMultipleChoice QuestionKind = "multiple_choice"
	KindSequencing     QuestionKind = "sequencing"
	KindImageMatching  QuestionKind = "image_matching"
)

// Question is a bank entry. The engine only looks at ID and Used; Payload
// is carried for the presentation layer.
type Question struct {
	ID      string          `json:"id"`
	Letter  string          `json:"letter"`
	Kind    QuestionKind    `json:"kind"`
	Used    bool            `json:"used"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type CardKind string

const (
	CardPoint     CardKind = "point"
	CardExplosion CardKind = "explosion"
)

type Card struct {
	Kind  CardKind `json:"kind"`
	Value int      `json:"value,omitempty"`
}

// Phase is the lifecycle position of the active turn. A game with no
// active turn is idle.
type Phase string

const (
	PhaseSelecting Phase = "selecting"
	PhaseAnswering Phase = "answering"
	PhaseDrawing   Phase = "drawing"
	PhaseBackup    Phase = "backup"
)

type Turn struct {
	Team       TeamID `json:"team"`
	Phase      Phase  `json:"phase"`
	QuestionID string `json:"questionId,omitempty"`
	Points     int    `json:"points"`
	Draws      int    `json:"draws"`
	Cards      []Card `json:"cards"`
	// Penalty is the explosion modifier deducted when this turn started.
	Penalty int `json:"penalty,omitempty"`
}

type Result string

const (
	ResultStopped       Result = "stopped"
	ResultExploded      Result = "exploded"
	ResultBackupSuccess Result = "backup_success"
	ResultBackupFailed  Result = "backup_failed"
)

// TurnRecord is a resolved turn archived in GameState.History.
type TurnRecord struct {
	Number     int    `json:"number"`
	Team       TeamID `json:"team"`
	QuestionID string `json:"questionId"`
	Result     Result `json:"result"`
	Points     int    `json:"points"`
	Draws      int    `json:"draws"`
	Cards      []Card `json:"cards"`
	Backup     bool   `json:"backup"`
	PenaltyIn  int    `json:"penaltyIn,omitempty"`
	PenaltyTo  TeamID `json:"penaltyTo,omitempty"`
	PenaltyOut int    `json:"penaltyOut,omitempty"`
}

type GameState struct {
	Teams       [4]Team    `json:"teams"`
	Bank        []Question `json:"bank"`
	CurrentTeam TeamID     `json:"currentTeam"`
	Turn        *Turn      `json:"turn"`
	// Penalties holds explosion modifiers scheduled against a team and
	// consumed when that team's next turn starts.
	Penalties  map[TeamID]int `json:"penalties"`
	PrizeCount int            `json:"prizeCount"`
	History    []TurnRecord   `json:"history"`
	Ended      bool           `json:"ended"`
	Winner     TeamID         `json:"winner,omitempty"`
}

// Team returns the team in the given slot.
func (s GameState) Team(id TeamID) (Team, bool) {
	i := id.slot()
	if i < 0 {
		return Team{}, false
	}
	return s.Teams[i], true
}

// Remaining counts unused bank entries.
func (s GameState) Remaining() int {
	n := 0
	for _, q := range s.Bank {
		if !q.Used {
			n++
		}
	}
	return n
}

func (s GameState) questionIndex(id string) int {
	return slices.IndexFunc(s.Bank, func(q Question) bool { return q.ID == id })
}

// clone copies everything an operation may write to. Archived records and
// payloads are never mutated, so they are shared.
func (s GameState) clone() GameState {
	c := s
	c.Bank = slices.Clone(s.Bank)
	c.History = slices.Clone(s.History)
	c.Penalties = maps.Clone(s.Penalties)
	if c.Penalties == nil {
		c.Penalties = make(map[TeamID]int)
	}
	if s.Turn != nil {
		t := *s.Turn
		t.Cards = slices.Clone(s.Turn.Cards)
		c.Turn = &t
	}
	return c
}
