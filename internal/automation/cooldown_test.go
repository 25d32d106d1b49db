package automation

import (
	"context"
	"testing"
	"time"
)

func TestMemoryGuardSuppressesWithinWindow(t *testing.T) {
	clock := testNow
	g := NewMemoryGuard(10 * time.Minute)
	g.now = func() time.Time { return clock }

	ctx := context.Background()
	if !g.Allow(ctx, 1, EntityLead, 100) {
		t.Fatal("expected first firing to be allowed")
	}
	if g.Allow(ctx, 1, EntityLead, 100) {
		t.Fatal("expected repeat firing inside window to be suppressed")
	}

	// Different rule or record: independent windows.
	if !g.Allow(ctx, 2, EntityLead, 100) {
		t.Fatal("expected a different rule to be allowed")
	}
	if !g.Allow(ctx, 1, EntityLead, 101) {
		t.Fatal("expected a different record to be allowed")
	}
	if !g.Allow(ctx, 1, EntityClient, 100) {
		t.Fatal("expected a different entity type to be allowed")
	}
}

func TestMemoryGuardReopensAfterWindow(t *testing.T) {
	clock := testNow
	g := NewMemoryGuard(10 * time.Minute)
	g.now = func() time.Time { return clock }

	ctx := context.Background()
	if !g.Allow(ctx, 1, EntityLead, 100) {
		t.Fatal("expected first firing to be allowed")
	}

	clock = clock.Add(9 * time.Minute)
	if g.Allow(ctx, 1, EntityLead, 100) {
		t.Fatal("expected firing at 9 minutes to be suppressed")
	}

	clock = clock.Add(2 * time.Minute)
	if !g.Allow(ctx, 1, EntityLead, 100) {
		t.Fatal("expected firing after the window to be allowed again")
	}
}

func TestMemoryGuardPrunesExpiredEntries(t *testing.T) {
	clock := testNow
	g := NewMemoryGuard(time.Minute)
	g.now = func() time.Time { return clock }

	ctx := context.Background()
	for id := uint64(1); id <= 50; id++ {
		g.Allow(ctx, id, EntityLead, id)
	}

	clock = clock.Add(2 * time.Minute)
	g.Allow(ctx, 99, EntityLead, 99)

	g.mu.Lock()
	size := len(g.fired)
	g.mu.Unlock()
	if size != 1 {
		t.Fatalf("expected expired entries pruned, got %d live entries", size)
	}
}
