package cron

import (
	"context"
	"fmt"
)

// Job is a unit of periodic maintenance. Names label metrics and logs, so
// they must be unique within a registry.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type Registry struct {
	jobs  []Job
	names map[string]struct{}
}

// NewRegistry registers jobs in order, skipping nils.
func NewRegistry(jobs ...Job) (*Registry, error) {
	r := &Registry{names: map[string]struct{}{}}
	for _, job := range jobs {
		if err := r.Register(job); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(job Job) error {
	if job == nil {
		return nil
	}
	if r.names == nil {
		r.names = map[string]struct{}{}
	}
	name := job.Name()
	if _, dup := r.names[name]; dup {
		return fmt.Errorf("cron job %q registered twice", name)
	}
	r.names[name] = struct{}{}
	r.jobs = append(r.jobs, job)
	return nil
}

// Jobs returns a copy in registration order.
func (r *Registry) Jobs() []Job {
	return append([]Job(nil), r.jobs...)
}
