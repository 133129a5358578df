package review

import (
	"sync"
	"time"
)

// deliveryGuard is a short-lived keyed lock that prevents duplicate
// conversations when the platform redelivers the same pull request event.
// A key is one pull request at one head commit. The guard is in-process;
// multi-instance deployments need an external lock instead.
type deliveryGuard struct {
	mu   sync.Mutex
	ttl  time.Duration
	seen map[string]time.Time
	now  func() time.Time
}

func newDeliveryGuard(ttl time.Duration) *deliveryGuard {
	return &deliveryGuard{
		ttl:  ttl,
		seen: make(map[string]time.Time),
		now:  time.Now,
	}
}

// tryAcquire claims the key for one review cycle. It reports false when the
// key was claimed within the TTL, meaning a cycle for the same delivery is
// running or recently finished.
func (g *deliveryGuard) tryAcquire(key string) bool {
	if g.ttl <= 0 {
		return true
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for k, claimed := range g.seen {
		if now.Sub(claimed) > g.ttl {
			delete(g.seen, k)
		}
	}

	if claimed, ok := g.seen[key]; ok && now.Sub(claimed) <= g.ttl {
		return false
	}
	g.seen[key] = now
	return true
}

// release frees the key early so a redelivery can start a fresh cycle.
// Called only when a cycle fails before its conversation is created.
func (g *deliveryGuard) release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.seen, key)
}
