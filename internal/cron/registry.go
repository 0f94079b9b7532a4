package cron

import "context"

// Job is a unit of scheduled work the worker drives on its interval.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry holds the worker's jobs in registration order, one per name.
type Registry struct {
	jobs  []Job
	names map[string]struct{}
}

// NewRegistry builds a registry preloaded with jobs. Nil entries and
// duplicate names are skipped.
func NewRegistry(jobs ...Job) *Registry {
	r := &Registry{names: make(map[string]struct{})}
	for _, job := range jobs {
		r.Register(job)
	}
	return r
}

// Register adds job unless one with the same name is already present.
func (r *Registry) Register(job Job) {
	if job == nil {
		return
	}
	if _, dup := r.names[job.Name()]; dup {
		return
	}
	r.names[job.Name()] = struct{}{}
	r.jobs = append(r.jobs, job)
}

// Jobs returns a copy of the registered jobs.
func (r *Registry) Jobs() []Job {
	out := make([]Job, len(r.jobs))
	copy(out, r.jobs)
	return out
}
