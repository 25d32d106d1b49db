package sweeper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nextinvision/recruitment-os-sub001/internal/automation"
)

type fakeRunner struct {
	matches map[automation.EntityType]int
	fails   map[automation.EntityType]error
	swept   []automation.EntityType
}

func (f *fakeRunner) EvaluateAllForEntityType(_ context.Context, entity automation.EntityType) (int, error) {
	f.swept = append(f.swept, entity)
	if errSweep := f.fails[entity]; errSweep != nil {
		return 0, errSweep
	}
	return f.matches[entity], nil
}

func TestRunOnceSweepsEveryEntityType(t *testing.T) {
	runner := &fakeRunner{matches: map[automation.EntityType]int{
		automation.EntityLead:   2,
		automation.EntityClient: 1,
	}}
	s := New(runner, time.Minute)

	total := s.RunOnce(context.Background())
	if total != 3 {
		t.Fatalf("expected total 3, got %d", total)
	}
	if len(runner.swept) != len(automation.EntityTypes) {
		t.Fatalf("expected %d entity sweeps, got %d", len(automation.EntityTypes), len(runner.swept))
	}
}

func TestRunOnceContinuesPastFailingEntity(t *testing.T) {
	runner := &fakeRunner{
		matches: map[automation.EntityType]int{automation.EntityPayment: 4},
		fails:   map[automation.EntityType]error{automation.EntityLead: errors.New("leads unavailable")},
	}
	s := New(runner, time.Minute)

	total := s.RunOnce(context.Background())
	if total != 4 {
		t.Fatalf("expected later entities to still count, got %d", total)
	}
	if len(runner.swept) != len(automation.EntityTypes) {
		t.Fatalf("expected all entities attempted, got %d", len(runner.swept))
	}
}

func TestRunOnceStopsOnCancelledContext(t *testing.T) {
	runner := &fakeRunner{}
	s := New(runner, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if total := s.RunOnce(ctx); total != 0 {
		t.Fatalf("expected no matches on cancelled context, got %d", total)
	}
	if len(runner.swept) != 0 {
		t.Fatalf("expected no sweeps on cancelled context, got %d", len(runner.swept))
	}
}

func TestStartOnNilSweeperIsSafe(t *testing.T) {
	var s *Sweeper
	s.Start(context.Background())
}
