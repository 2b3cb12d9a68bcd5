// Package scheduler runs periodic background jobs on robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	applogger "StockTerm/pkg/logger"
)

// Job is a unit of periodic work.
type Job interface {
	Run(ctx context.Context) error
	Name() string
}

// FuncJob adapts a plain function to Job.
type FuncJob struct {
	JobName string
	Fn      func(ctx context.Context) error
}

func (f FuncJob) Run(ctx context.Context) error { return f.Fn(ctx) }
func (f FuncJob) Name() string                  { return f.JobName }

// Scheduler manages background jobs. Jobs receive a context that is
// cancelled when the scheduler stops.
type Scheduler struct {
	cron   *cron.Cron
	log    *applogger.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func New(log *applogger.Logger) *Scheduler {
	if log == nil {
		log = applogger.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		log:    log.With(applogger.String("component", "scheduler")),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Every formats d as a cron "@every" spec.
func Every(d time.Duration) string {
	return fmt.Sprintf("@every %s", d)
}

// AddJob registers job with a cron schedule, e.g. "@every 60s" or "0 */5 * * * *".
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() { s.run(job) })
	if err != nil {
		return fmt.Errorf("schedule %s: %w", job.Name(), err)
	}
	s.log.Info("job registered",
		applogger.String("schedule", schedule),
		applogger.String("job", job.Name()))
	return nil
}

func (s *Scheduler) run(job Job) {
	start := time.Now()
	if err := job.Run(s.ctx); err != nil {
		s.log.Error("job failed",
			applogger.String("job", job.Name()),
			applogger.Error(err))
		return
	}
	s.log.Debug("job completed",
		applogger.String("job", job.Name()),
		applogger.Duration("duration_ms", time.Since(start)))
}

// RunNow executes a job immediately, outside its schedule.
func (s *Scheduler) RunNow(job Job) {
	s.run(job)
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}
