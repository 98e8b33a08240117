package meono_test

import (
	"errors"
	"testing"

	"github.com/lichsu-edu/meono/internal/meono"
)

func TestDefaultRulesValid(t *testing.T) {
	if err := meono.DefaultRules().Validate(); err != nil {
		t.Fatalf("default rules: %v", err)
	}
}

func TestRulesValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *meono.Rules)
	}{
		{"short table", func(r *meono.Rules) { r.Odds = r.Odds[:4] }},
		{"row does not sum to 100", func(r *meono.Rules) { r.Odds[2] = meono.DrawOdds{Point: 50, Explosion: 40} }},
		{"negative odds", func(r *meono.Rules) { r.Odds[0] = meono.DrawOdds{Point: 110, Explosion: -10} }},
		{"risk decreases", func(r *meono.Rules) {
			r.Odds[3] = meono.DrawOdds{Point: 60, Explosion: 40}
		}},
		{"no point values", func(r *meono.Rules) { r.PointValues = nil }},
		{"zero point value", func(r *meono.Rules) { r.PointValues = []int{0, 1} }},
		{"zero backup threshold", func(r *meono.Rules) { r.BackupThreshold = 0 }},
		{"negative penalty", func(r *meono.Rules) { r.ExplosionPenalty = -1 }},
		{"zero prize threshold", func(r *meono.Rules) { r.PrizeThreshold = 0 }},
		{"negative max turns", func(r *meono.Rules) { r.MaxTurns = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := meono.DefaultRules()
			tt.modify(&r)
			if err := r.Validate(); !errors.Is(err, meono.ErrInvalidConfiguration) {
				t.Errorf("err = %v, want ErrInvalidConfiguration", err)
			}
			if _, err := meono.NewEngine(r, &scriptedRNG{values: []int{0}}); !errors.Is(err, meono.ErrInvalidConfiguration) {
				t.Errorf("NewEngine err = %v, want ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestFlatOddsAllowed(t *testing.T) {
	r := meono.DefaultRules()
	for i := range r.Odds {
		r.Odds[i] = meono.DrawOdds{Point: 50, Explosion: 50}
	}
	if err := r.Validate(); err != nil {
		t.Errorf("flat table: %v", err)
	}
}

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{meono.ErrGameOver, "game_over"},
		{meono.ErrNoActiveTurn, "no_active_turn"},
		{meono.ErrInvalidState, "invalid_state"},
		{meono.ErrQuestionAlreadyUsed, "question_already_used"},
		{meono.ErrQuestionNotFound, "question_not_found"},
		{meono.ErrDrawLimitExceeded, "draw_limit_exceeded"},
		{meono.ErrInvalidConfiguration, "invalid_configuration"},
		{errors.New("boom"), ""},
	}
	for _, tt := range tests {
		if got := meono.Code(tt.err); got != tt.want {
			t.Errorf("Code(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
