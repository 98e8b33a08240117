package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/lichsu-edu/meono/internal/meono"
)

type Config struct {
	HTTPAddr    string        `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath      string        `env:"DB_PATH" envDefault:"data/content.db"`
	LogLevel    slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir      string        `env:"SPA_DIR" envDefault:"../web/dist"`
	SessionTTL  time.Duration `env:"SESSION_TTL" envDefault:"6h"`
	SweepEvery  time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`
	UndoDepth   int           `env:"UNDO_DEPTH" envDefault:"50"`
	DefaultDeck string        `env:"DEFAULT_DECK" envDefault:"lich-su"`
	Game        Game          `envPrefix:"GAME_"`
}

// Game holds the rule defaults applied to new games.
type Game struct {
	PointOdds        []int `env:"POINT_ODDS" envDefault:"85,70,55,40,25" envSeparator:","`
	PointValues      []int `env:"POINT_VALUES" envDefault:"1,2,3,4,5" envSeparator:","`
	BackupThreshold  int   `env:"BACKUP_THRESHOLD" envDefault:"16"`
	ExplosionPenalty int   `env:"EXPLOSION_PENALTY" envDefault:"3"`
	PrizeThreshold   int   `env:"PRIZE_THRESHOLD" envDefault:"30"`
	MaxTurns         int   `env:"MAX_TURNS" envDefault:"0"`
}

// Rules converts the defaults into engine rules. Each point odd p becomes
// the row {p, 100-p}.
func (g Game) Rules() meono.Rules {
	odds := make([]meono.DrawOdds, len(g.PointOdds))
	for i, p := range g.PointOdds {
		odds[i] = meono.DrawOdds{Point: p, Explosion: 100 - p}
	}
	return meono.Rules{
		Odds:             odds,
		PointValues:      g.PointValues,
		BackupThreshold:  g.BackupThreshold,
		ExplosionPenalty: g.ExplosionPenalty,
		PrizeThreshold:   g.PrizeThreshold,
		MaxTurns:         g.MaxTurns,
	}
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Game.Rules().Validate(); err != nil {
		return nil, fmt.Errorf("game rules: %w", err)
	}
	return &cfg, nil
}
