package sweeper

import (
	"context"
	"time"

	"github.com/nextinvision/recruitment-os-sub001/internal/automation"

	log "github.com/sirupsen/logrus"
)

// Runner is the subset of the automation runner the sweeper drives.
type Runner interface {
	EvaluateAllForEntityType(ctx context.Context, entity automation.EntityType) (int, error)
}

// Sweeper periodically evaluates all enabled rules against all open records
// of every entity type. The engine itself never schedules anything; this is
// the host-side caller that decides when sweeps run.
type Sweeper struct {
	runner   Runner
	interval time.Duration
	entities []automation.EntityType
}

// New constructs a sweeper covering all entity types.
func New(runner Runner, interval time.Duration) *Sweeper {
	return &Sweeper{
		runner:   runner,
		interval: interval,
		entities: automation.EntityTypes,
	}
}

// Start launches the sweep loop in a background goroutine.
func (s *Sweeper) Start(ctx context.Context) {
	if s == nil || s.runner == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	go s.run(ctx)
	log.Infof("sweeper started (interval=%s)", s.interval)
}

func (s *Sweeper) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		s.RunOnce(ctx)

		timer := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C
			}
			return
		case <-timer.C:
		}
	}
}

// RunOnce sweeps every entity type sequentially and returns the total match
// count. A failing entity sweep is logged and does not stop the others.
func (s *Sweeper) RunOnce(ctx context.Context) int {
	start := time.Now()
	total := 0
	for _, entity := range s.entities {
		if ctx.Err() != nil {
			return total
		}
		matched, errSweep := s.runner.EvaluateAllForEntityType(ctx, entity)
		if errSweep != nil {
			log.WithError(errSweep).Warnf("sweeper: %s sweep failed", entity)
			continue
		}
		total += matched
	}
	log.Infof("sweeper: pass complete (matched=%d took=%s)", total, time.Since(start).Round(time.Millisecond))
	return total
}
