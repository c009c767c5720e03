package interview

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultSessionTTL is how long an idle session is kept in memory.
const DefaultSessionTTL = 2 * time.Hour

// Session owns the in-memory context of one interview. Only one turn may be
// in flight at a time.
type Session struct {
	ID        uuid.UUID
	Interview Interview

	mu         sync.Mutex
	ctx        Context
	busy       bool
	lastActive time.Time
}

// NewSession creates a session holding c.
func NewSession(id uuid.UUID, iv Interview, c Context) *Session {
	return &Session{
		ID:         id,
		Interview:  iv,
		ctx:        c,
		lastActive: time.Now(),
	}
}

// Context returns a snapshot of the session's current context.
func (s *Session) Context() Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

// Busy reports whether a turn is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// begin marks the session busy and returns the context the turn starts from.
func (s *Session) begin() (Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return Context{}, ErrTurnInProgress
	}
	s.busy = true
	s.lastActive = time.Now()
	return s.ctx, nil
}

// end clears the busy flag, committing next when non-nil.
func (s *Session) end(next *Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if next != nil {
		s.ctx = *next
	}
	s.busy = false
	s.lastActive = time.Now()
}

func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.busy && s.lastActive.Before(cutoff)
}

// Sessions is the in-memory registry of live interview sessions.
type Sessions struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
	logger   *zap.Logger

	sweepTicker *time.Ticker
	sweepStop   chan struct{}
	stopOnce    sync.Once
}

// NewSessions creates a registry. A positive ttl starts a background sweeper
// that evicts idle sessions; call Stop to end it.
func NewSessions(ttl time.Duration, logger *zap.Logger) *Sessions {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Sessions{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		logger:   logger,
	}
	if ttl > 0 {
		interval := ttl / 2
		if interval > 5*time.Minute {
			interval = 5 * time.Minute
		}
		r.sweepTicker = time.NewTicker(interval)
		r.sweepStop = make(chan struct{})
		go r.sweepLoop()
	}
	return r
}

// Get returns the session for id or ErrSessionNotFound.
func (r *Sessions) Get(id uuid.UUID) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// GetOrCreate returns the session for id, creating it with the context
// produced by restore when it does not exist. restore may be nil.
func (r *Sessions) GetOrCreate(id uuid.UUID, iv Interview, restore func() Context) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s
	}
	c := NewContext()
	if restore != nil {
		c = restore()
	}
	s := NewSession(id, iv, c)
	r.sessions[id] = s
	r.logger.Debug("interview session created",
		zap.String("interview_id", id.String()),
		zap.Int("restored_history", len(c.History)))
	return s
}

// Delete drops the session for id.
func (r *Sessions) Delete(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len returns the number of live sessions.
func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep evicts sessions idle since before now-ttl and returns how many it removed.
func (r *Sessions) Sweep(now time.Time) int {
	cutoff := now.Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if s.idleSince(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		r.logger.Info("evicted idle interview sessions", zap.Int("count", removed))
	}
	return removed
}

func (r *Sessions) sweepLoop() {
	for {
		select {
		case now := <-r.sweepTicker.C:
			r.Sweep(now)
		case <-r.sweepStop:
			return
		}
	}
}

// Stop ends the background sweeper.
func (r *Sessions) Stop() {
	r.stopOnce.Do(func() {
		if r.sweepTicker != nil {
			r.sweepTicker.Stop()
		}
		if r.sweepStop != nil {
			close(r.sweepStop)
		}
	})
}

// Replay rebuilds a context from a persisted chat log: history, asked
// questions, profile and phase are derived the same way live turns derive them.
func Replay(entries []HistoryEntry) Context {
	c := NewContext()
	for _, e := range entries {
		c = c.AddToHistoryAt(e.Role, e.Content, e.Timestamp)
		switch e.Role {
		case RoleUser:
			c = c.UpdateUserProfile(ExtractProfile(e.Content))
		case RoleAssistant:
			if q := ExtractQuestion(unformat(e.Content)); q != "" && !c.IsQuestionAlreadyAsked(q) {
				c = c.AddAskedQuestion(q)
			}
		}
		c = AdvancePhase(c)
	}
	return c
}
