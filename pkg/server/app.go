package server

import (
	"context"
	"fmt"
	"io"
	"time"

	xhttp "StockTerm/pkg/http"
	applogger "StockTerm/pkg/logger"
	"StockTerm/pkg/scheduler"
)

// ScheduledJob is a background job and the cron spec it runs on.
// RunAtStart executes it once before the HTTP server accepts traffic.
type ScheduledJob struct {
	Spec       string
	Job        scheduler.Job
	RunAtStart bool
}

// Worker is background work started by Run. The context passed to Start is
// cancelled once the HTTP server has drained.
type Worker interface {
	Start(ctx context.Context)
}

type namedWorker struct {
	name string
	w    Worker
}

type namedCloser struct {
	name string
	c    io.Closer
}

// App encapsulates the application lifecycle: background jobs, the HTTP
// server and the infrastructure clients that must be closed on exit.
type App struct {
	log     *applogger.Logger
	server  *xhttp.Server
	sched   *scheduler.Scheduler
	jobs    []ScheduledJob
	workers []namedWorker
	closers []namedCloser

	stopWork context.CancelFunc
}

// New creates an App. The scheduler is created here so callers only supply jobs.
func New(log *applogger.Logger, srv *xhttp.Server, jobs ...ScheduledJob) *App {
	if log == nil {
		log = applogger.Nop()
	}
	return &App{
		log:    log,
		server: srv,
		sched:  scheduler.New(log),
		jobs:   jobs,
	}
}

// OnClose registers c to be closed during shutdown, in reverse order of registration.
func (a *App) OnClose(name string, c io.Closer) {
	if c != nil {
		a.closers = append(a.closers, namedCloser{name: name, c: c})
	}
}

// AddWorker registers w to be started by Run.
func (a *App) AddWorker(name string, w Worker) {
	if w != nil {
		a.workers = append(a.workers, namedWorker{name: name, w: w})
	}
}

// Run starts workers, jobs and the HTTP server and blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	for _, j := range a.jobs {
		if err := a.sched.AddJob(j.Spec, j.Job); err != nil {
			return err
		}
	}

	// Detached from ctx so workers keep serving requests the server is still draining.
	workCtx, stopWork := context.WithCancel(context.WithoutCancel(ctx))
	a.stopWork = stopWork
	for _, nw := range a.workers {
		nw.w.Start(workCtx)
		a.log.Debug("worker started", applogger.String("worker", nw.name))
	}
	for _, j := range a.jobs {
		if j.RunAtStart {
			a.sched.RunNow(j.Job)
		}
	}
	a.sched.Start()

	if err := a.server.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		a.sched.Stop()
		a.stopWork()
		a.closeAll()
		return fmt.Errorf("start http: %w", err)
	}

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown stops intake first, then jobs and workers, then infrastructure.
func (a *App) shutdown() error {
	start := time.Now()

	var firstErr error
	if err := a.server.Stop(context.Background()); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		firstErr = err
	}
	a.sched.Stop()
	a.stopWork()
	a.closeAll()

	a.log.Info("shutdown complete", applogger.Duration("duration_ms", time.Since(start)))
	return firstErr
}

func (a *App) closeAll() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		nc := a.closers[i]
		if err := nc.c.Close(); err != nil {
			a.log.Warn("close error", applogger.String("resource", nc.name), applogger.Error(err))
		}
	}
	a.closers = nil
}
