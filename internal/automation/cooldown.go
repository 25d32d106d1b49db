package automation

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryGuard is an in-process cooldown guard: once a rule fires for a
// record, further firings for the same (rule, record) pair are suppressed
// until the window elapses. Suitable for single-host deployments.
type MemoryGuard struct {
	window time.Duration
	now    func() time.Time

	mu    sync.Mutex
	fired map[string]time.Time
}

// NewMemoryGuard constructs a memory guard with the given cooldown window.
func NewMemoryGuard(window time.Duration) *MemoryGuard {
	return &MemoryGuard{
		window: window,
		now:    time.Now,
		fired:  make(map[string]time.Time),
	}
}

// Allow reports whether the (rule, record) pair is outside its cooldown
// window, and starts a new window when it is.
func (g *MemoryGuard) Allow(_ context.Context, ruleID uint64, entity EntityType, recordID uint64) bool {
	key := cooldownKey(ruleID, entity, recordID)
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	if at, ok := g.fired[key]; ok && now.Sub(at) < g.window {
		return false
	}

	// Opportunistic prune keeps the map bounded across long sweeps.
	for k, at := range g.fired {
		if now.Sub(at) >= g.window {
			delete(g.fired, k)
		}
	}

	g.fired[key] = now
	return true
}

func cooldownKey(ruleID uint64, entity EntityType, recordID uint64) string {
	return fmt.Sprintf("automation:cooldown:%d:%s:%d", ruleID, entity, recordID)
}
