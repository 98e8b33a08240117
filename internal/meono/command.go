package meono

import "fmt"

type EventKind string

const (
	EventTurnStarted      EventKind = "turn_started"
	EventQuestionSelected EventKind = "question_selected"
	EventAnswerCorrect    EventKind = "answer_correct"
	EventCardDrawn        EventKind = "card_drawn"
	EventBackupStarted    EventKind = "backup_started"
	EventTurnEnded        EventKind = "turn_ended"
)

// Event is the log entry produced by a successful command.
type Event struct {
	Kind       EventKind `json:"kind"`
	Team       TeamID    `json:"team"`
	QuestionID string    `json:"questionId,omitempty"`
	Card       *Card     `json:"card,omitempty"`
	Result     Result    `json:"result,omitempty"`
	// Points is the running turn total, or the amount committed when the
	// turn ends.
	Points  int  `json:"points"`
	Score   int  `json:"score"`
	Penalty int  `json:"penalty,omitempty"`
	Ended   bool `json:"ended,omitempty"`
}

type CommandKind string

const (
	CmdStartTurn      CommandKind = "start_turn"
	CmdSelectQuestion CommandKind = "select_question"
	CmdAnswer         CommandKind = "answer"
	CmdDraw           CommandKind = "draw"
	CmdStop           CommandKind = "stop"
	CmdBackupAnswer   CommandKind = "backup_answer"
)

type Command struct {
	Kind       CommandKind `json:"kind"`
	Team       TeamID      `json:"team,omitempty"`
	QuestionID string      `json:"questionId,omitempty"`
	Correct    bool        `json:"correct,omitempty"`
}

// Apply dispatches cmd to the matching operation.
func (e *Engine) Apply(s GameState, cmd Command) (GameState, Event, error) {
	switch cmd.Kind {
	case CmdStartTurn:
		return e.StartTurn(s, cmd.Team)
	case CmdSelectQuestion:
		return e.SelectQuestion(s, cmd.Team, cmd.QuestionID)
	case CmdAnswer:
		return e.AnswerQuestion(s, cmd.Correct)
	case CmdDraw:
		return e.Draw(s)
	case CmdStop:
		return e.Stop(s)
	case CmdBackupAnswer:
		return e.AnswerBackup(s, cmd.Correct)
	default:
		return s, Event{}, fmt.Errorf("%w: unknown command %q", ErrInvalidState, cmd.Kind)
	}
}
