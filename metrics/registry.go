package metrics

import "sync"

// Registry hands out named metrics, creating them on first use. It is safe
// for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	counters   map[string]*Counter
	histograms map[string]*Histogram
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		counters:   make(map[string]*Counter),
		histograms: make(map[string]*Histogram),
	}
}

func getOrCreate[M any](mu *sync.RWMutex, m map[string]*M, name string, create func(string) *M) *M {
	mu.RLock()
	v, ok := m[name]
	mu.RUnlock()
	if ok {
		return v
	}
	mu.Lock()
	defer mu.Unlock()
	if v, ok := m[name]; ok {
		return v
	}
	v = create(name)
	m[name] = v
	return v
}

// Counter returns the counter registered under name.
func (r *Registry) Counter(name string) *Counter {
	return getOrCreate(&r.mu, r.counters, name, NewCounter)
}

// Histogram returns the histogram registered under name.
func (r *Registry) Histogram(name string) *Histogram {
	return getOrCreate(&r.mu, r.histograms, name, NewHistogram)
}

// Snapshot returns every counter value, plus "<name>/count" and
// "<name>/sum" for every histogram.
func (r *Registry) Snapshot() map[string]int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]int64, len(r.counters)+2*len(r.histograms))
	for name, c := range r.counters {
		out[name] = c.Value()
	}
	for name, h := range r.histograms {
		out[name+"/count"] = h.Count()
		out[name+"/sum"] = h.Sum()
	}
	return out
}
