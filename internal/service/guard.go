package service

import (
	"context"
	"sync"
)

// ExportedTopicGuard is an exported alias so _test packages can test the guard.
type ExportedTopicGuard = topicGuard

// ─────────────────────────────────────────────────────────────
// topicGuard — one editing session per topic
// ─────────────────────────────────────────────────────────────

// topicGuard ensures only one session holds a given topic at a time, so two
// bridges never reconcile the same topic against each other.
type topicGuard struct {
	mu   sync.Mutex
	open map[string]struct{}
	wg   sync.WaitGroup
}

// TryLock attempts to mark topicID as open. Returns false if it already is.
func (g *topicGuard) TryLock(topicID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.open == nil {
		g.open = make(map[string]struct{})
	}
	if _, ok := g.open[topicID]; ok {
		return false
	}
	g.open[topicID] = struct{}{}
	g.wg.Add(1)
	return true
}

// Unlock releases the topic. Must be called after TryLock returns true.
func (g *topicGuard) Unlock(topicID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.open, topicID)
	g.wg.Done()
}

// IsOpen reports whether a session currently holds topicID.
func (g *topicGuard) IsOpen(topicID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.open[topicID]
	return ok
}

// WaitAll blocks until every open session is closed or ctx is cancelled.
func (g *topicGuard) WaitAll(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
