// Package sched runs the briefing on a cron schedule for daemon mode.
package sched

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Job is the unit of work the scheduler fires. Errors are logged, never
// fatal; the next tick retries from scratch.
type Job func() error

// Scheduler fires a job on a standard 5-field cron spec.
type Scheduler struct {
	cron *cron.Cron
	job  Job
}

// New creates a scheduler for the given cron spec, e.g. "0 7 * * *" for a
// daily 07:00 run.
func New(spec string, job Job) (*Scheduler, error) {
	c := cron.New()
	s := &Scheduler{cron: c, job: job}

	if _, err := c.AddFunc(spec, s.fire); err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	return s, nil
}

// Start begins firing on schedule. It returns immediately; ticks run on the
// cron's own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) fire() {
	if err := s.job(); err != nil {
		log.Printf("Scheduled run failed: %v", err)
	}
}
