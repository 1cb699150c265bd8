package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job is a registered background task. next computes the run after now.
type Job struct {
	Name string
	Fn   func(ctx context.Context) error
	next func(now time.Time) time.Time
}

// Scheduler runs registered jobs until stopped.
type Scheduler struct {
	jobs   []Job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		jobs:   make([]Job, 0),
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddDailyJob schedules fn once per day at the given UTC wall-clock hour.
func (s *Scheduler) AddDailyJob(name string, hourUTC int, fn func(ctx context.Context) error) {
	s.add(Job{
		Name: name,
		Fn:   fn,
		next: func(now time.Time) time.Time { return nextDailyRun(now, hourUTC) },
	})
}

func (s *Scheduler) add(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, job)
	slog.Info("Cron job registered", "name", job.Name)
}

// Start begins running all registered jobs.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.runJob(job)
	}

	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop gracefully stops all jobs.
func (s *Scheduler) Stop() {
	slog.Info("Stopping cron scheduler...")
	s.cancel()
	s.wg.Wait()
	slog.Info("Cron scheduler stopped")
}

func (s *Scheduler) runJob(job Job) {
	defer s.wg.Done()

	timer := time.NewTimer(time.Until(job.next(time.Now().UTC())))
	defer timer.Stop()

	for {
		select {
		case <-s.ctx.Done():
			slog.Info("Cron job stopping", "name", job.Name)
			return
		case <-timer.C:
			s.executeJob(job)
			timer.Reset(time.Until(job.next(time.Now().UTC())))
		}
	}
}

func (s *Scheduler) executeJob(job Job) {
	start := time.Now()
	slog.Debug("Cron job starting", "name", job.Name)

	if err := job.Fn(s.ctx); err != nil {
		slog.Error("Cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
	} else {
		slog.Debug("Cron job completed", "name", job.Name, "duration", time.Since(start))
	}
}

// RunOnce runs all jobs once regardless of their schedule (useful for
// testing and manual backfills).
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		if err := job.Fn(ctx); err != nil {
			slog.Error("Cron job failed", "name", job.Name, "error", err)
		}
	}
}

// nextDailyRun returns the first instant at hourUTC strictly after now.
func nextDailyRun(now time.Time, hourUTC int) time.Time {
	now = now.UTC()
	run := time.Date(now.Year(), now.Month(), now.Day(), hourUTC, 0, 0, 0, time.UTC)
	if !run.After(now) {
		run = run.AddDate(0, 0, 1)
	}
	return run
}
