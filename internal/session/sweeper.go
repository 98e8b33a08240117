package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Sweeper periodically drops idle sessions from a Registry.
type Sweeper struct {
	sched gocron.Scheduler
}

func StartSweeper(logger *slog.Logger, reg *Registry, every, ttl time.Duration) (*Sweeper, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("creating scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() {
			removed := reg.Sweep(ttl)
			if len(removed) > 0 {
				logger.Info("swept idle games", "count", len(removed), "remaining", reg.Len())
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		sched.Shutdown()
		return nil, fmt.Errorf("scheduling sweep: %w", err)
	}

	sched.Start()
	return &Sweeper{sched: sched}, nil
}

func (s *Sweeper) Shutdown() error {
	return s.sched.Shutdown()
}
