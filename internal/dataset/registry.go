package dataset

import "sync"

// Registry is a map of Datasets keyed by name, guarded by a single RWMutex.
// Dataset itself serializes its own ProcessEvent calls; the Registry lock
// covers only Add/Get/Remove/Names.
type Registry struct {
	mu       sync.RWMutex
	datasets map[string]*Dataset
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{datasets: make(map[string]*Dataset)}
}

// Add registers ds under its own name, replacing any prior dataset of the
// same name.
func (r *Registry) Add(ds *Dataset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.datasets[ds.Name()] = ds
}

// Get returns the dataset registered under name, if any.
func (r *Registry) Get(name string) (*Dataset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ds, ok := r.datasets[name]
	return ds, ok
}

// Remove unregisters the dataset under name, if any.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.datasets, name)
}

// Names returns every registered dataset name, in no particular order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.datasets))
	for name := range r.datasets {
		out = append(out, name)
	}
	return out
}
