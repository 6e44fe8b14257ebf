package analysis

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Janitor sweeps terminal sessions out of the in-memory table on a cron
// schedule. It is opt-in: the default deployment keeps every session for
// the process lifetime, and only enables the janitor when memory pressure
// matters more than replayable results.
type Janitor struct {
	cron    *cron.Cron
	manager *Manager
	ttl     time.Duration
	logger  zerolog.Logger
}

// NewJanitor creates a janitor sweeping sessions older than ttl on the
// given cron schedule (standard five-field spec).
func NewJanitor(manager *Manager, schedule string, ttl time.Duration, logger zerolog.Logger) (*Janitor, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("janitor ttl must be positive")
	}

	j := &Janitor{
		cron:    cron.New(),
		manager: manager,
		ttl:     ttl,
		logger:  logger.With().Str("component", "analysis-janitor").Logger(),
	}

	if _, err := j.cron.AddFunc(schedule, j.sweep); err != nil {
		return nil, fmt.Errorf("invalid janitor schedule %q: %w", schedule, err)
	}
	return j, nil
}

// Start begins the sweep schedule.
func (j *Janitor) Start() {
	j.cron.Start()
	j.logger.Info().Dur("ttl", j.ttl).Msg("Session janitor started")
}

// Stop halts the schedule and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info().Msg("Session janitor stopped")
}

func (j *Janitor) sweep() {
	if removed := j.manager.Sweep(j.ttl); removed > 0 {
		j.logger.Info().Int("removed", removed).Msg("Swept expired analysis sessions")
	}
}
