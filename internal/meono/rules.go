package meono

import "fmt"

// MaxDraws is the number of draws a team may take in one turn.
const MaxDraws = 5

// DrawOdds is one row of the explosion-rate table, in percent.
type DrawOdds struct {
	Point     int `json:"point"`
	Explosion int `json:"explosion"`
}

// Rules captures the tunable parts of a game.
type Rules struct {
	// Odds is the explosion-rate table indexed by draw number (first draw
	// at index 0). It must hold exactly MaxDraws rows.
	Odds []DrawOdds `json:"odds"`

	// PointValues are the values a point card is sampled from, uniformly.
	PointValues []int `json:"pointValues"`

	// BackupThreshold is the turn total at or above which an explosion
	// offers a backup question instead of ending the turn.
	BackupThreshold int `json:"backupThreshold"`

	// ExplosionPenalty is deducted from the next team when a turn explodes
	// or fails its backup question. Zero disables it.
	ExplosionPenalty int `json:"explosionPenalty"`

	// PrizeThreshold is the cumulative score that claims a team's prize.
	PrizeThreshold int `json:"prizeThreshold"`

	// MaxTurns ends the game after that many resolved turns. Zero means
	// the game runs until the bank is exhausted.
	MaxTurns int `json:"maxTurns"`
}

func DefaultRules() Rules {
	return Rules{
		Odds: []DrawOdds{
			{Point: 85, Explosion: 15},
			{Point: 70, Explosion: 30},
			{Point: 55, Explosion: 45},
			{Point: 40, Explosion: 60},
			{Point: 25, Explosion: 75},
		},
		PointValues:      []int{1, 2, 3, 4, 5},
		BackupThreshold:  16,
		ExplosionPenalty: 3,
		PrizeThreshold:   30,
	}
}

// Validate reports ErrInvalidConfiguration for a malformed rule set.
func (r Rules) Validate() error {
	if len(r.Odds) != MaxDraws {
		return fmt.Errorf("%w: explosion table has %d rows, want %d", ErrInvalidConfiguration, len(r.Odds), MaxDraws)
	}
	for i, o := range r.Odds {
		if o.Point < 0 || o.Explosion < 0 || o.Point+o.Explosion != 100 {
			return fmt.Errorf("%w: draw %d odds %d/%d must be non-negative and sum to 100", ErrInvalidConfiguration, i+1, o.Point, o.Explosion)
		}
		if i > 0 && o.Point > r.Odds[i-1].Point {
			return fmt.Errorf("%w: draw %d point odds rise from %d to %d", ErrInvalidConfiguration, i+1, r.Odds[i-1].Point, o.Point)
		}
	}
	if len(r.PointValues) == 0 {
		return fmt.Errorf("%w: no point card values", ErrInvalidConfiguration)
	}
	for _, v := range r.PointValues {
		if v <= 0 {
			return fmt.Errorf("%w: point card value %d must be positive", ErrInvalidConfiguration, v)
		}
	}
	if r.BackupThreshold <= 0 {
		return fmt.Errorf("%w: backup threshold must be positive", ErrInvalidConfiguration)
	}
	if r.ExplosionPenalty < 0 {
		return fmt.Errorf("%w: explosion penalty must not be negative", ErrInvalidConfiguration)
	}
	if r.PrizeThreshold <= 0 {
		return fmt.Errorf("%w: prize threshold must be positive", ErrInvalidConfiguration)
	}
	if r.MaxTurns < 0 {
		return fmt.Errorf("%w: max turns must not be negative", ErrInvalidConfiguration)
	}
	return nil
}
