package search

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"

	"vitrine/internal/interpreter"
	"vitrine/internal/models"
)

const (
	defaultDebounce       = 300 * time.Millisecond
	defaultMinQueryLength = 2
	defaultCacheSize      = 100
)

// State is the snapshot a Session exposes to its consumer.
type State struct {
	Keywords      []string
	Category      *string
	Confidence    float64
	Processing    bool
	AIAvailable   bool
	OriginalQuery string
}

// Config tunes a Session. Zero values pick the defaults above; a Debounce of
// exactly 0 is representable with DebounceSet (the storefront search bar runs
// undebounced and gates on an explicit commit keystroke instead).
type Config struct {
	Debounce       time.Duration
	DebounceSet    bool // distinguishes "unset" from an explicit 0
	MinQueryLength int
	CacheSize      int
	ProductNames   []string // catalog context forwarded to the interpreter
	OnResult       func(models.Interpretation)
}

// Session mediates between keystroke-driven input and the interpretation
// service: it debounces, suppresses stale results, caches AI interpretations
// and degrades gracefully when the backend is unavailable.
//
// A Session is safe for concurrent use but is single-owner state: two search
// boxes get two sessions. Close releases its timer; a request already in
// flight is not aborted, its late result is simply discarded.
type Session struct {
	mu     sync.Mutex
	interp interpreter.Service
	cfg    Config
	cache  *fifoCache

	latest string // staleness marker: the most recently submitted query
	seq    uint64 // submission sequence, guards Processing against clobbering
	timer  *time.Timer
	closed bool
	state  State
}

// NewSession creates a session over the given interpretation service.
func NewSession(svc interpreter.Service, cfg Config) *Session {
	if !cfg.DebounceSet && cfg.Debounce == 0 {
		cfg.Debounce = defaultDebounce
	}
	if cfg.MinQueryLength == 0 {
		cfg.MinQueryLength = defaultMinQueryLength
	}
	if cfg.CacheSize == 0 {
		cfg.CacheSize = defaultCacheSize
	}
	s := &Session{
		interp: svc,
		cfg:    cfg,
		cache:  newFIFOCache(cfg.CacheSize),
	}
	s.state.AIAvailable = svc != nil && svc.Available()
	return s
}

// State returns a snapshot of the exposed fields.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.state
	snap.Keywords = append([]string(nil), s.state.Keywords...)
	return snap
}

// Submit records query as the latest input and drives it through the
// short-query, cache-hit, AI-unavailable or debounced-interpretation path.
// Only the most recently submitted query's outcome ever reaches the state.
func (s *Session) Submit(query string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.latest = query
	s.seq++
	seq := s.seq
	s.state.OriginalQuery = query
	s.cancelTimerLocked()

	if utf8.RuneCountInString(strings.TrimSpace(query)) < s.cfg.MinQueryLength {
		keywords := []string{}
		if query != "" {
			keywords = []string{query}
		}
		notify := s.applyLocked(models.Interpretation{Keywords: keywords, Confidence: 0}, false)
		s.mu.Unlock()
		notify()
		return
	}

	key := normalizeQuery(query)
	if cached, ok := s.cache.Get(key); ok {
		log.Debugf("Interpretation cache hit for %q", key)
		notify := s.applyLocked(cached, true)
		s.mu.Unlock()
		notify()
		return
	}

	if !s.state.AIAvailable {
		notify := s.applyLocked(interpreter.Fallback(query), false)
		s.mu.Unlock()
		notify()
		return
	}

	s.state.Processing = true
	s.timer = time.AfterFunc(s.cfg.Debounce, func() {
		s.interpretLatest(query, seq)
	})
	s.mu.Unlock()
}

// Clear resets the staleness marker and all exposed state and cancels any
// pending debounce. Idempotent. The interpretation cache survives a Clear.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = ""
	s.seq++
	s.cancelTimerLocked()
	s.state = State{AIAvailable: s.state.AIAvailable}
}

// Close cancels pending work and inertizes late resolutions. A closed
// session ignores further Submit calls.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cancelTimerLocked()
}

// interpretLatest runs once the debounce fires. The staleness marker is
// checked twice: before the service call and again after it resolves, since
// the marker may move during the call.
func (s *Session) interpretLatest(query string, seq uint64) {
	s.mu.Lock()
	if s.closed || s.latest != query {
		if s.seq == seq {
			s.state.Processing = false
		}
		s.mu.Unlock()
		return
	}
	names := s.cfg.ProductNames
	s.mu.Unlock()

	res := s.safeInterpret(query, names)

	s.mu.Lock()
	if s.closed || s.latest != query {
		// Superseded mid-flight: discard entirely, no state update, no
		// cache write. Processing belongs to the newer submission now.
		if s.seq == seq {
			s.state.Processing = false
		}
		s.mu.Unlock()
		return
	}
	if res.FromAI() {
		// Fallback results (confidence 0) are never cached.
		s.cache.Put(normalizeQuery(query), res)
	}
	notify := s.applyLocked(res, true)
	s.mu.Unlock()
	notify()
}

// safeInterpret is a defensive second layer: the service already converts
// its own failures to the fallback shape, but a panicking implementation
// must not take the session down with it.
func (s *Session) safeInterpret(query string, names []string) (res models.Interpretation) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Interpretation service panicked for query %q: %v", query, r)
			res = interpreter.Fallback(query)
		}
	}()
	return s.interp.Interpret(context.Background(), query, names)
}

// applyLocked writes an interpretation into the exposed state and returns
// the callback to run after the lock is released. The caller must hold mu.
func (s *Session) applyLocked(res models.Interpretation, fromService bool) func() {
	s.state.Keywords = res.Keywords
	s.state.Category = res.Category
	s.state.Confidence = res.Confidence
	s.state.Processing = false
	if fromService && s.cfg.OnResult != nil {
		cb := s.cfg.OnResult
		return func() { cb(res) }
	}
	return func() {}
}

func (s *Session) cancelTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}
