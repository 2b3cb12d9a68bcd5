package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	applogger "StockTerm/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countJob struct {
	n   atomic.Int32
	err error
}

func (j *countJob) Run(ctx context.Context) error {
	j.n.Add(1)
	return j.err
}

func (j *countJob) Name() string { return "count" }

func TestEvery(t *testing.T) {
	assert.Equal(t, "@every 1m0s", Every(time.Minute))
	assert.Equal(t, "@every 500ms", Every(500*time.Millisecond))
}

func TestAddJobRejectsBadSpec(t *testing.T) {
	s := New(applogger.Nop())
	assert.Error(t, s.AddJob("not a schedule", &countJob{}))
}

func TestRunNowSwallowsErrors(t *testing.T) {
	s := New(nil)
	job := &countJob{err: errors.New("boom")}
	s.RunNow(job)
	assert.Equal(t, int32(1), job.n.Load())
}

func TestScheduledJobRuns(t *testing.T) {
	s := New(applogger.Nop())
	job := &countJob{}
	require.NoError(t, s.AddJob("@every 1s", job))
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return job.n.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
