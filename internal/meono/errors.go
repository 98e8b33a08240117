package meono

import (
	"errors"
	"fmt"
)

var (
	ErrNoActiveTurn         = errors.New("no active turn")
	ErrInvalidState         = errors.New("invalid state for command")
	ErrQuestionAlreadyUsed  = errors.New("question already used")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrDrawLimitExceeded    = errors.New("draw limit exceeded")
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// ErrGameOver is returned for any command issued after the game ended.
var ErrGameOver = fmt.Errorf("%w: game is over", ErrInvalidState)

// Code maps an engine error to a stable machine-readable code. Unknown
// errors map to "".
func Code(err error) string {
	switch {
	case errors.Is(err, ErrGameOver):
		return "game_over"
	case errors.Is(err, ErrNoActiveTurn):
		return "no_active_turn"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrQuestionAlreadyUsed):
		return "question_already_used"
	case errors.Is(err, ErrQuestionNotFound):
		return "question_not_found"
	case errors.Is(err, ErrDrawLimitExceeded):
		return "draw_limit_exceeded"
	case errors.Is(err, ErrInvalidConfiguration):
		return "invalid_configuration"
	default:
		return ""
	}
}
