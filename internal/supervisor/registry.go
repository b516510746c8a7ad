package supervisor

import "sync"

// registry is the concurrency-safe map from project ID to process record:
// the single source of truth shared by callers, monitor loops, and stream
// pumps. No component reaches into the map directly; all access goes
// through the method set, which runs the caller's closure under the lock.
//
// Critical sections must stay short: no blocking I/O inside a closure.
// Spawns, kills, pipe writes, and sleeps happen outside, with the results
// merged back in under the lock.
type registry struct {
	mu    sync.Mutex
	procs map[string]*record
}

func newRegistry() *registry {
	return &registry{
		procs: make(map[string]*record),
	}
}

// with runs fn on the record for id under the lock.
// Returns false without calling fn if the record does not exist.
func (g *registry) with(id string, fn func(*record)) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.procs[id]
	if !ok {
		return false
	}
	fn(r)
	return true
}

// upsert runs fn on the record for id under the lock, creating a stopped
// record first if none exists. The registry is the only component permitted
// to insert records.
func (g *registry) upsert(id string, fn func(*record)) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.procs[id]
	if !ok {
		r = newRecord(id)
		g.procs[id] = r
	}
	fn(r)
}

// each runs fn on every record under the lock, in unspecified order.
func (g *registry) each(fn func(*record)) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, r := range g.procs {
		fn(r)
	}
}

// ids returns the known project IDs.
func (g *registry) ids() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]string, 0, len(g.procs))
	for id := range g.procs {
		out = append(out, id)
	}
	return out
}

// logs returns the log buffer for id, or nil if the record does not exist.
// The buffer has its own lock, so handing it out is safe.
func (g *registry) logs(id string) *LogBuffer {
	g.mu.Lock()
	defer g.mu.Unlock()

	if r, ok := g.procs[id]; ok {
		return r.logs
	}
	return nil
}
