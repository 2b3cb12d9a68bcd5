package middleware

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"StockTerm/internal/domain/models"
	domrepo "StockTerm/internal/domain/repository"
	applogger "StockTerm/pkg/logger"
)

// EventPipeline sits between the portfolio use case and the event publisher.
// It validates holding events, forwards them, and keeps the ones the broker
// rejected in a bounded buffer that a background loop retries with backoff.
type EventPipeline struct {
	next    domrepo.EventPublisher
	metrics domrepo.Metrics
	log     *applogger.Logger

	bufSize    int
	minBackoff time.Duration
	maxBackoff time.Duration
	bufCh      chan models.HoldingEvent

	mu      sync.Mutex
	started bool
	closed  bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

type PipelineOption func(*EventPipeline)

// WithBufferSize sets how many failed events are kept for retry.
func WithBufferSize(n int) PipelineOption {
	return func(p *EventPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// WithBackoff sets the retry delay bounds. The delay doubles after each failure.
func WithBackoff(min, max time.Duration) PipelineOption {
	return func(p *EventPipeline) {
		if min > 0 && max >= min {
			p.minBackoff = min
			p.maxBackoff = max
		}
	}
}

func WithPipelineLogger(l *applogger.Logger) PipelineOption {
	return func(p *EventPipeline) {
		if l != nil {
			p.log = l
		}
	}
}

func NewEventPipeline(next domrepo.EventPublisher, metrics domrepo.Metrics, opts ...PipelineOption) *EventPipeline {
	p := &EventPipeline{
		next:       next,
		metrics:    metrics,
		log:        applogger.Nop(),
		bufSize:    256,
		minBackoff: 50 * time.Millisecond,
		maxBackoff: 5 * time.Second,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.bufCh = make(chan models.HoldingEvent, p.bufSize)
	p.log = p.log.With(applogger.String("component", "event_pipeline"))
	return p
}

// Start launches the retry loop. Calling it twice, or after Close, is a no-op.
func (p *EventPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started || p.closed {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go p.retryLoop(ctx)
}

func (p *EventPipeline) retryLoop(ctx context.Context) {
	defer close(p.doneCh)
	backoff := p.minBackoff
	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case ev := <-p.bufCh:
			if err := p.next.PublishHoldingEvent(ctx, ev); err == nil {
				p.metrics.RecordPublished(ev.Type)
				backoff = p.minBackoff
				continue
			}
			p.metrics.RecordError("pipeline_flush")
			p.enqueue(ev)
			select {
			case <-time.After(backoff):
			case <-p.stopCh:
				return
			case <-ctx.Done():
				return
			}
			if backoff *= 2; backoff > p.maxBackoff {
				backoff = p.maxBackoff
			}
		}
	}
}

// PublishHoldingEvent validates ev and forwards it. On a downstream failure
// the event is buffered for retry and the error is still returned.
func (p *EventPipeline) PublishHoldingEvent(ctx context.Context, ev models.HoldingEvent) error {
	start := time.Now()
	if err := validateEvent(ev); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if err := p.next.PublishHoldingEvent(ctx, ev); err != nil {
		p.metrics.RecordError("pipeline_publish")
		p.enqueue(ev)
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_publish", time.Since(start).Seconds())
	return nil
}

// Buffered reports how many events are waiting for retry.
func (p *EventPipeline) Buffered() int { return len(p.bufCh) }

func (p *EventPipeline) enqueue(ev models.HoldingEvent) {
	select {
	case p.bufCh <- ev:
	default:
		p.metrics.RecordError("pipeline_buffer_full")
		p.log.Warn("retry buffer full, event dropped",
			applogger.String("type", ev.Type),
			applogger.String("symbol", ev.Symbol))
	}
}

// Close stops the retry loop and closes the downstream publisher. Events
// still buffered are logged and lost. Later calls return nil.
func (p *EventPipeline) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	started := p.started
	p.mu.Unlock()
	if started {
		close(p.stopCh)
		<-p.doneCh
	}
	if n := len(p.bufCh); n > 0 {
		p.log.Warn("closing with unsent events", applogger.Int("count", n))
	}
	return p.next.Close()
}

var errInvalidEvent = errors.New("invalid holding event")

func validateEvent(ev models.HoldingEvent) error {
	switch {
	case ev.Symbol == "":
		return fmt.Errorf("%w: symbol empty", errInvalidEvent)
	case ev.Type == "":
		return fmt.Errorf("%w: type empty", errInvalidEvent)
	case ev.At <= 0:
		return fmt.Errorf("%w: timestamp invalid", errInvalidEvent)
	case ev.Lot != nil && (ev.Lot.Shares <= 0 || ev.Lot.Price < 0):
		return fmt.Errorf("%w: lot out of range", errInvalidEvent)
	}
	return nil
}
