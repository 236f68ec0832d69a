// Package scheduler runs the sync jobs on cron schedules inside one process.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// JobFunc is one scheduled job run
type JobFunc func(ctx context.Context) error

// Scheduler serializes every registered job: two jobs never touch the store
// at the same time, and a job still running when its next tick fires is skipped.
type Scheduler struct {
	cron    *cron.Cron
	logger  *slog.Logger
	timeout time.Duration

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	entries map[string]cron.EntryID
}

// New creates a scheduler; timeout bounds each run
func New(logger *slog.Logger, timeout time.Duration) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger))),
		logger:  logger,
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
		entries: make(map[string]cron.EntryID),
	}
}

// Add registers job under name on a standard five-field cron spec
func (s *Scheduler) Add(name, spec string, job JobFunc) error {
	if _, exists := s.entries[name]; exists {
		return fmt.Errorf("job %s is already scheduled", name)
	}

	id, err := s.cron.AddFunc(spec, func() { s.RunNow(name, job) })
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	s.entries[name] = id
	return nil
}

// RunNow runs job synchronously, waiting for any other job to finish first
func (s *Scheduler) RunNow(name string, job JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ctx.Err(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	start := time.Now()
	s.logger.Info("job started", "job", name)
	err := job(ctx)
	if err != nil {
		s.logger.Error("job failed", "job", name, "duration", time.Since(start).String(), "error", err)
		return err
	}
	s.logger.Info("job finished", "job", name, "duration", time.Since(start).String())
	return nil
}

// Next returns the next activation of name, or zero when unknown
func (s *Scheduler) Next(name string) time.Time {
	id, ok := s.entries[name]
	if !ok {
		return time.Time{}
	}
	entry := s.cron.Entry(id)
	if entry.Next.IsZero() && entry.Schedule != nil {
		return entry.Schedule.Next(time.Now())
	}
	return entry.Next
}

// Start begins firing scheduled jobs
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them to return, including runs
// started with RunNow outside the cron. Later RunNow calls return the
// cancellation error without running.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()

	s.mu.Lock()
	defer s.mu.Unlock()
}
