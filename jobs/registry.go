// Package jobs schedules payload-building work: it re-attempts a builder on
// an interval until a deadline or cancellation, threading the read cache and
// the best payload forward between attempts, and tracks running jobs by ID.
package jobs

import (
	"sync"

	"github.com/mantlenetworkio/op-payload-builder/bldrtypes"
)

// RegisteredJob is the registry's view of a build job.
type RegisteredJob interface {
	ID() bldrtypes.BuildJobID
	Close()
}

// Registry tracks build jobs by ID, so jobs can be inspected and cancelled.
type Registry struct {
	mu   sync.RWMutex
	jobs map[bldrtypes.BuildJobID]RegisteredJob
}

func NewRegistry() *Registry {
	return &Registry{jobs: make(map[bldrtypes.BuildJobID]RegisteredJob)}
}

func (r *Registry) Register(job RegisteredJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[job.ID()]; ok {
		return bldrtypes.ErrConflictingJob
	}
	r.jobs[job.ID()] = job
	return nil
}

// Get returns nil if the job isn't known.
func (r *Registry) Get(id bldrtypes.BuildJobID) RegisteredJob {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.jobs[id]
}

// CloseJob closes and unregisters the job with the given ID.
func (r *Registry) CloseJob(id bldrtypes.BuildJobID) error {
	job := r.Get(id)
	if job == nil {
		return bldrtypes.ErrUnknownJob
	}
	job.Close()
	r.Unregister(id)
	return nil
}

func (r *Registry) Unregister(id bldrtypes.BuildJobID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, id)
}

// Clear closes and unregisters all jobs.
func (r *Registry) Clear() {
	r.mu.Lock()
	jobs := make([]RegisteredJob, 0, len(r.jobs))
	for _, job := range r.jobs {
		jobs = append(jobs, job)
	}
	r.jobs = make(map[bldrtypes.BuildJobID]RegisteredJob)
	r.mu.Unlock()
	// Close outside the lock; Close may call back into Unregister.
	for _, job := range jobs {
		job.Close()
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}
