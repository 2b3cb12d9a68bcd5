package search

import (
	"context"
	"errors"
	"sync"
	"time"

	"StockTerm/internal/domain/models"
	"StockTerm/internal/domain/repository"
	applogger "StockTerm/pkg/logger"
)

// DefaultDebounce is the idle time after the last keystroke before a remote lookup fires.
const DefaultDebounce = 500 * time.Millisecond

// Phase is the observable state of a search session.
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseLocalHit    Phase = "local_hit"
	PhaseLocalMiss   Phase = "local_miss"
	PhaseWaiting     Phase = "waiting"
	PhaseRemoteQuery Phase = "remote_query"
	PhaseRemoteHit   Phase = "remote_hit"
	PhaseRemoteMiss  Phase = "remote_miss"
)

// Update is emitted after every state change. Keystroke increases with each
// call to Type so receivers can tell updates for older input apart.
type Update struct {
	Keystroke  uint64                   `json:"keystroke"`
	Query      string                   `json:"query"`
	Phase      Phase                    `json:"phase"`
	Candidates []models.ScoredCandidate `json:"results"`
}

// Timer is the part of *time.Timer a session needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. time.AfterFunc satisfies it through StdAfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

// StdAfterFunc wraps time.AfterFunc.
func StdAfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

type lookupRequest struct {
	seq   uint64
	query string
}

// Session is one search box: local results on every keystroke, and a single
// debounced remote lookup when the catalog has nothing. Remote responses are
// applied only when their request is the latest issued and the query that
// produced it is still the current one.
//
// onUpdate runs with the session lock held and must not call back into the session.
type Session struct {
	matcher   *Matcher
	lookup    repository.SymbolLookup
	onUpdate  func(Update)
	delay     time.Duration
	afterFunc AfterFunc
	log       *applogger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	keystrokes uint64
	query      string
	phase      Phase
	results    []models.ScoredCandidate
	timer      Timer
	issued     uint64
	inFlight   bool
	pending    *lookupRequest
	closed     bool
}

type SessionOption func(*Session)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithAfterFunc replaces the timer source, mainly for tests.
func WithAfterFunc(f AfterFunc) SessionOption {
	return func(s *Session) {
		if f != nil {
			s.afterFunc = f
		}
	}
}

// WithSessionLogger sets the logger used for lookup failures.
func WithSessionLogger(l *applogger.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// NewSession starts an idle session. lookup may be nil, in which case local misses stay misses.
func NewSession(ctx context.Context, m *Matcher, lookup repository.SymbolLookup, onUpdate func(Update), opts ...SessionOption) *Session {
	s := &Session{
		matcher:   m,
		lookup:    lookup,
		onUpdate:  onUpdate,
		delay:     DefaultDebounce,
		afterFunc: StdAfterFunc,
		log:       applogger.Nop(),
		phase:     PhaseIdle,
		results:   []models.ScoredCandidate{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	return s
}

// Type handles a keystroke: any pending timer is cancelled, local results are
// published immediately, and a lookup is scheduled on a qualifying local miss.
// An in-flight lookup is left running.
func (s *Session) Type(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.keystrokes++
	s.stopTimerLocked()
	s.pending = nil
	s.query = raw

	res := s.matcher.Match(raw)
	s.results = res.Candidates
	switch res.State {
	case StateEmpty:
		s.phase = PhaseIdle
	case StateLocalHit:
		s.phase = PhaseLocalHit
	case StateRemoteAdvised:
		if s.lookup == nil {
			s.phase = PhaseLocalMiss
			break
		}
		s.phase = PhaseWaiting
		ks := s.keystrokes
		s.timer = s.afterFunc(s.delay, func() { s.fire(raw, ks) })
	default:
		s.phase = PhaseLocalMiss
	}
	s.emitLocked()
}

// fire runs when the debounce timer expires.
func (s *Session) fire(query string, keystroke uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Stop can lose the race with an expiring timer; the keystroke check covers it.
	if s.closed || keystroke != s.keystrokes {
		return
	}
	s.timer = nil
	s.issued++
	req := lookupRequest{seq: s.issued, query: query}
	s.phase = PhaseRemoteQuery
	s.emitLocked()

	if s.inFlight {
		// One lookup at a time: queue behind the running one.
		s.pending = &req
		return
	}
	s.inFlight = true
	go s.run(req)
}

func (s *Session) run(req lookupRequest) {
	for {
		entry, err := s.lookup.Search(s.ctx, req.query)
		next := s.deliver(req, entry, err)
		if next == nil {
			return
		}
		req = *next
	}
}

// deliver applies a lookup response and hands back the queued request, if any.
func (s *Session) deliver(req lookupRequest, entry models.CatalogEntry, err error) *lookupRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.pending
	s.pending = nil
	if next == nil || s.closed {
		s.inFlight = false
		next = nil
	}
	if s.closed {
		return nil
	}

	if req.seq != s.issued || req.query != s.query {
		s.log.Debug("search: stale remote response dropped",
			applogger.String("query", req.query),
			applogger.String("current", s.query))
		return next
	}

	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) && !errors.Is(err, context.Canceled) {
			s.log.Warn("search: remote lookup failed",
				applogger.String("query", req.query),
				applogger.Error(err))
		}
		s.phase = PhaseRemoteMiss
		s.emitLocked()
		return next
	}

	s.stopTimerLocked()
	s.results, _ = MergeRemote(s.results, entry)
	s.phase = PhaseRemoteHit
	s.emitLocked()
	return next
}

// Phase reports the current state.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Results returns a copy of the candidates currently shown.
func (s *Session) Results() []models.ScoredCandidate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ScoredCandidate(nil), s.results...)
}

// Close stops timers and cancels any running lookup. Later calls are no-ops.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stopTimerLocked()
	s.pending = nil
	s.cancel()
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) emitLocked() {
	if s.onUpdate == nil {
		return
	}
	s.onUpdate(Update{
		Keystroke:  s.keystrokes,
		Query:      s.query,
		Phase:      s.phase,
		Candidates: append([]models.ScoredCandidate(nil), s.results...),
	})
}
