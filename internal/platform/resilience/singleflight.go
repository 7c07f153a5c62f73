package resilience

import "sync"

// SingleFlight deduplicates concurrent calls for the same key. All
// waiters receive the value and error of the one executing call.
type SingleFlight struct {
	mu      sync.Mutex
	flights map[string]*flight
}

type flight struct {
	wg  sync.WaitGroup
	val any
	err error
}

// Do runs fn once per key at a time. The bool result reports whether
// the caller shared another call's result instead of running its own.
func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	g.mu.Lock()
	if g.flights == nil {
		g.flights = make(map[string]*flight)
	}

	if f, ok := g.flights[key]; ok {
		g.mu.Unlock()
		f.wg.Wait()
		return f.val, f.err, true
	}

	f := &flight{}
	f.wg.Add(1)
	g.flights[key] = f
	g.mu.Unlock()

	f.val, f.err = fn()
	f.wg.Done()

	g.mu.Lock()
	delete(g.flights, key)
	g.mu.Unlock()

	return f.val, f.err, false
}
