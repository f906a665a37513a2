package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// RunFunc performs one tracking run.
type RunFunc func(ctx context.Context) error

// Scheduler repeats a run on a fixed interval. A tick that arrives while the
// previous run is still going is skipped, so runs never overlap.
type Scheduler struct {
	cron    *cron.Cron
	run     RunFunc
	log     *slog.Logger
	entryID cron.EntryID
	ctx     context.Context
}

// NewScheduler registers run every interval.
func NewScheduler(
	ctx context.Context,
	run RunFunc,
	interval time.Duration,
	log *slog.Logger,
) (*Scheduler, error) {
	cronLog := cron.PrintfLogger(slog.NewLogLogger(log.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(
		cron.Recover(cronLog),
		cron.SkipIfStillRunning(cronLog),
	))

	s := &Scheduler{
		cron: c,
		run:  run,
		log:  log,
		ctx:  ctx,
	}

	id, err := c.AddFunc("@every "+interval.String(), s.tick)
	if err != nil {
		return nil, err
	}
	s.entryID = id

	return s, nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
}

// Stop stops the scheduler. The returned context is done once a run in
// progress has finished.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// Next returns when the next run is due, or the zero time before Start.
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entryID).Next
}

func (s *Scheduler) tick() {
	if s.ctx.Err() != nil {
		return
	}
	s.log.Info("scheduled run starting")
	if err := s.run(s.ctx); err != nil {
		s.log.Error("scheduled run failed", "error", err)
	}
}
