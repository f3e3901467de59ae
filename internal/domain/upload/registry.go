package upload

import (
	"sync"
	"time"
)

// Registry tracks tasks by id so they can be polled and canceled later.
type Registry struct {
	mu    sync.RWMutex
	tasks map[string]*Task
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tasks: make(map[string]*Task)}
}

// Add stores t under id.
func (r *Registry) Add(id string, t *Task) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[id] = t
}

// Get returns the task stored under id.
func (r *Registry) Get(id string) (*Task, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[id]
	return t, ok
}

// Active returns the number of running tasks.
func (r *Registry) Active() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, t := range r.tasks {
		if t.Snapshot().State == StateRunning {
			n++
		}
	}
	return n
}

// Sweep drops finished tasks started before cutoff and returns how many were removed.
func (r *Registry) Sweep(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, t := range r.tasks {
		if t.Snapshot().State != StateRunning && t.StartedAt().Before(cutoff) {
			delete(r.tasks, id)
			removed++
		}
	}
	return removed
}
