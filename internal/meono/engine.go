package meono

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
)

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

type pcgRNG struct{ r *rand.Rand }

func (p pcgRNG) Intn(n int) int { return p.r.IntN(n) }

// NewSeededRNG returns a reproducible RNG. It is not safe for concurrent use.
func NewSeededRNG(seed uint64) RNG {
	return pcgRNG{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

type Engine struct {
	rules Rules
	rng   RNG
}

func NewEngine(rules Rules, rng RNG) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: no random source", ErrInvalidConfiguration)
	}
	rules.Odds = slices.Clone(rules.Odds)
	rules.PointValues = slices.Clone(rules.PointValues)
	return &Engine{rules: rules, rng: rng}, nil
}

func (e *Engine) Rules() Rules { return e.rules }

// NewGame builds the initial state from four team names and an ordered
// question bank. Entries without a letter get A, B, C... by position.
func (e *Engine) NewGame(names []string, bank []Question) (GameState, error) {
	if len(names) != len(Slots) {
		return GameState{}, fmt.Errorf("%w: roster has %d teams, want %d", ErrInvalidConfiguration, len(names), len(Slots))
	}
	if len(bank) == 0 {
		return GameState{}, fmt.Errorf("%w: empty question bank", ErrInvalidConfiguration)
	}

	var s GameState
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return GameState{}, fmt.Errorf("%w: team %s has no name", ErrInvalidConfiguration, Slots[i])
		}
		s.Teams[i] = Team{ID: Slots[i], Name: name}
	}

	seen := make(map[string]bool, len(bank))
	s.Bank = make([]Question, len(bank))
	for i, q := range bank {
		if q.ID == "" {
			return GameState{}, fmt.Errorf("%w: question %d has no id", ErrInvalidConfiguration, i+1)
		}
		if seen[q.ID] {
			return GameState{}, fmt.Errorf("%w: duplicate question id %q", ErrInvalidConfiguration, q.ID)
		}
		seen[q.ID] = true
		q.Used = false
		if q.Letter == "" {
			q.Letter = letterFor(i)
		}
		s.Bank[i] = q
	}

	s.CurrentTeam = TeamA
	s.Penalties = make(map[TeamID]int)
	return s, nil
}

// letterFor returns spreadsheet-style letters: A..Z, AA, AB...
func letterFor(i int) string {
	var b []byte
	for i++; i > 0; i = (i - 1) / 26 {
		b = append([]byte{byte('A' + (i-1)%26)}, b...)
	}
	return string(b)
}

// StartTurn activates team, which must be next in round-robin order. Any
// explosion modifier scheduled against the team is deducted first.
func (e *Engine) StartTurn(s GameState, team TeamID) (GameState, Event, error) {
	if s.Ended {
		return s, Event{}, ErrGameOver
	}
	if s.Turn != nil {
		return s, Event{}, fmt.Errorf("%w: team %s is still playing", ErrInvalidState, s.Turn.Team)
	}
	if team != s.CurrentTeam {
		return s, Event{}, fmt.Errorf("%w: team %s is not next, want %s", ErrInvalidState, team, s.CurrentTeam)
	}

	next := s.clone()
	t := &next.Teams[team.slot()]
	applied := 0
	if p := next.Penalties[team]; p > 0 {
		applied = min(p, t.Score)
		t.Score -= applied
		delete(next.Penalties, team)
	}
	next.Turn = &Turn{Team: team, Phase: PhaseSelecting, Penalty: applied}

	return next, Event{Kind: EventTurnStarted, Team: team, Penalty: applied, Score: t.Score}, nil
}

func (e *Engine) SelectQuestion(s GameState, team TeamID, questionID string) (GameState, Event, error) {
	if err := expectPhase(s, PhaseSelecting); err != nil {
		return s, Event{}, err
	}
	if s.Turn.Team != team {
		return s, Event{}, fmt.Errorf("%w: team %s is playing, not %s", ErrInvalidState, s.Turn.Team, team)
	}
	i := s.questionIndex(questionID)
	if i < 0 {
		return s, Event{}, fmt.Errorf("%w: %q", ErrQuestionNotFound, questionID)
	}
	if s.Bank[i].Used {
		return s, Event{}, fmt.Errorf("%w: %q", ErrQuestionAlreadyUsed, questionID)
	}

	next := s.clone()
	next.Bank[i].Used = true
	next.Turn.QuestionID = questionID
	next.Turn.Phase = PhaseAnswering

	return next, Event{Kind: EventQuestionSelected, Team: team, QuestionID: questionID}, nil
}

// AnswerQuestion records whether the selected question was answered
// correctly. A wrong answer ends the turn with nothing scored.
func (e *Engine) AnswerQuestion(s GameState, correct bool) (GameState, Event, error) {
	if err := expectPhase(s, PhaseAnswering); err != nil {
		return s, Event{}, err
	}

	next := s.clone()
	if !correct {
		return next, e.commit(&next, ResultStopped, 0, false), nil
	}
	next.Turn.Phase = PhaseDrawing
	return next, Event{Kind: EventAnswerCorrect, Team: next.Turn.Team, QuestionID: next.Turn.QuestionID}, nil
}

// Draw samples one card against the odds row for the upcoming draw.
func (e *Engine) Draw(s GameState) (GameState, Event, error) {
	if err := expectPhase(s, PhaseDrawing); err != nil {
		return s, Event{}, err
	}
	if s.Turn.Draws >= len(e.rules.Odds) {
		return s, Event{}, fmt.Errorf("%w: %d draws taken", ErrDrawLimitExceeded, s.Turn.Draws)
	}

	odds := e.rules.Odds[s.Turn.Draws]
	card := Card{Kind: CardExplosion}
	if e.rng.Intn(100) < odds.Point {
		card = Card{Kind: CardPoint, Value: e.rules.PointValues[e.rng.Intn(len(e.rules.PointValues))]}
	}

	next := s.clone()
	t := next.Turn
	t.Draws++
	t.Cards = append(t.Cards, card)

	switch {
	case card.Kind == CardPoint:
		t.Points += card.Value
		return next, Event{Kind: EventCardDrawn, Team: t.Team, Card: &card, Points: t.Points}, nil
	case t.Points >= e.rules.BackupThreshold:
		t.Phase = PhaseBackup
		return next, Event{Kind: EventBackupStarted, Team: t.Team, Card: &card, Points: t.Points}, nil
	default:
		ev := e.commit(&next, ResultExploded, 0, true)
		ev.Card = &card
		return next, ev, nil
	}
}

// Stop banks the turn's points.
func (e *Engine) Stop(s GameState) (GameState, Event, error) {
	if err := expectPhase(s, PhaseDrawing); err != nil {
		return s, Event{}, err
	}
	next := s.clone()
	return next, e.commit(&next, ResultStopped, next.Turn.Points, false), nil
}

// AnswerBackup resolves the last-chance question after a late explosion.
func (e *Engine) AnswerBackup(s GameState, correct bool) (GameState, Event, error) {
	if err := expectPhase(s, PhaseBackup); err != nil {
		return s, Event{}, err
	}
	next := s.clone()
	if correct {
		return next, e.commit(&next, ResultBackupSuccess, next.Turn.Points, false), nil
	}
	return next, e.commit(&next, ResultBackupFailed, 0, true), nil
}

func expectPhase(s GameState, want Phase) error {
	if s.Ended {
		return ErrGameOver
	}
	if s.Turn == nil {
		return ErrNoActiveTurn
	}
	if s.Turn.Phase != want {
		return fmt.Errorf("%w: turn is %s, want %s", ErrInvalidState, s.Turn.Phase, want)
	}
	return nil
}

// commit resolves the active turn on s, which must already be a clone.
func (e *Engine) commit(s *GameState, result Result, award int, penalize bool) Event {
	t := s.Turn
	team := &s.Teams[t.Team.slot()]
	team.Score += award

	rec := TurnRecord{
		Number:     len(s.History) + 1,
		Team:       t.Team,
		QuestionID: t.QuestionID,
		Result:     result,
		Points:     award,
		Draws:      t.Draws,
		Cards:      t.Cards,
		Backup:     t.Phase == PhaseBackup,
		PenaltyIn:  t.Penalty,
	}
	nextTeam := t.Team.Next()
	if penalize && e.rules.ExplosionPenalty > 0 {
		s.Penalties[nextTeam] = e.rules.ExplosionPenalty
		rec.PenaltyTo = nextTeam
		rec.PenaltyOut = e.rules.ExplosionPenalty
	}
	s.History = append(s.History, rec)

	e.checkPrizes(s)
	s.CurrentTeam = nextTeam
	s.Turn = nil
	e.checkEnd(s)

	return Event{
		Kind:       EventTurnEnded,
		Team:       rec.Team,
		QuestionID: rec.QuestionID,
		Result:     result,
		Points:     award,
		Score:      team.Score,
		Ended:      s.Ended,
	}
}

func (e *Engine) checkPrizes(s *GameState) {
	for i := range s.Teams {
		t := &s.Teams[i]
		if !t.PrizeClaimed && t.Score >= e.rules.PrizeThreshold {
			t.PrizeClaimed = true
			s.PrizeCount++
		}
	}
}

func (e *Engine) checkEnd(s *GameState) {
	exhausted := s.Remaining() == 0
	capped := e.rules.MaxTurns > 0 && len(s.History) >= e.rules.MaxTurns
	if !exhausted && !capped {
		return
	}
	s.Ended = true
	// No turn follows, so modifiers still pending are settled now and
	// count toward the final standings.
	for id, p := range s.Penalties {
		t := &s.Teams[id.slot()]
		t.Score -= min(p, t.Score)
		delete(s.Penalties, id)
	}
	best := 0
	for i, t := range s.Teams {
		if t.Score > s.Teams[best].Score {
			best = i
		}
	}
	s.Winner = s.Teams[best].ID
}
