package server

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// SessionManager manages all live sessions.
// It handles session creation, lookup, cleanup, and lifecycle callbacks.
type SessionManager struct {
	// Sessions map protected by RWMutex
	sessions map[string]*Session
	mu       sync.RWMutex

	app  App
	opts sessionOptions

	// Limits
	maxSessions int

	// Cleanup
	cleanupInterval time.Duration
	done            chan struct{}
	cleanupDone     chan struct{} // Signals that cleanup goroutine has exited
	shutdownOnce    sync.Once

	// Metrics
	totalCreated atomic.Uint64
	totalClosed  atomic.Uint64
	peakSessions int

	// Logger
	logger *slog.Logger
}

// NewSessionManager creates a SessionManager that builds every session
// with app. The cleanup loop starts immediately.
func NewSessionManager(app App, config *ServerConfig, logger *slog.Logger) *SessionManager {
	if config == nil {
		config = DefaultServerConfig()
	}
	config.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	sm := &SessionManager{
		sessions:    make(map[string]*Session),
		app:         app,
		maxSessions: config.MaxSessions,
		// Sweep a few times per idle timeout.
		cleanupInterval: cleanupInterval(config.SessionConfig.IdleTimeout),
		done:            make(chan struct{}),
		cleanupDone:     make(chan struct{}),
		logger:          logger.With("component", "session_manager"),
	}
	sm.opts = sessionOptions{
		config:       config.SessionConfig,
		middleware:   config.Middleware,
		listObserver: config.ListObserver,
		hooks:        sm.wrapHooks(config.Hooks),
		logger:       logger,
	}

	go sm.cleanupLoop()
	return sm
}

func cleanupInterval(idle time.Duration) time.Duration {
	d := idle / 4
	if d < time.Second {
		d = time.Second
	}
	if d > 30*time.Second {
		d = 30 * time.Second
	}
	return d
}

// wrapHooks removes a closed session from the registry before the user's
// OnSessionEnd hook runs.
func (sm *SessionManager) wrapHooks(h Hooks) Hooks {
	end := h.OnSessionEnd
	h.OnSessionEnd = func(s *Session) {
		sm.mu.Lock()
		if cur, ok := sm.sessions[s.ID]; ok && cur == s {
			delete(sm.sessions, s.ID)
		}
		sm.mu.Unlock()
		sm.totalClosed.Add(1)
		if end != nil {
			end(s)
		}
	}
	return h
}

// Create builds a new session and registers it.
func (sm *SessionManager) Create() (*Session, error) {
	sm.mu.RLock()
	full := sm.maxSessions > 0 && len(sm.sessions) >= sm.maxSessions
	sm.mu.RUnlock()
	if full {
		return nil, ErrMaxSessionsReached
	}

	s, err := newSession(sm.app, sm.opts)
	if err != nil {
		return nil, err
	}

	sm.mu.Lock()
	if sm.maxSessions > 0 && len(sm.sessions) >= sm.maxSessions {
		sm.mu.Unlock()
		s.Close()
		return nil, ErrMaxSessionsReached
	}
	sm.sessions[s.ID] = s
	sm.totalCreated.Add(1)
	if n := len(sm.sessions); n > sm.peakSessions {
		sm.peakSessions = n
	}
	sm.mu.Unlock()

	if sm.opts.hooks.OnSessionStart != nil {
		sm.opts.hooks.OnSessionStart(s)
	}
	s.logger.Debug("session created")
	return s, nil
}

// Get returns a session by ID, or nil if not found.
func (sm *SessionManager) Get(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// Close closes and removes a session.
func (sm *SessionManager) Close(id string) {
	if s := sm.Get(id); s != nil {
		s.Close()
	}
}

// Count returns the number of registered sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// cleanupLoop periodically removes expired sessions.
func (sm *SessionManager) cleanupLoop() {
	defer close(sm.cleanupDone)

	ticker := time.NewTicker(sm.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sm.cleanupExpired(time.Now())
		case <-sm.done:
			return
		}
	}
}

// cleanupExpired closes sessions without a connection that have been idle
// longer than the idle timeout, including pages that never connected.
func (sm *SessionManager) cleanupExpired(now time.Time) int {
	sm.mu.RLock()
	var expired []*Session
	for _, s := range sm.sessions {
		if !s.connected() && now.Sub(s.LastActive()) > sm.opts.config.IdleTimeout {
			expired = append(expired, s)
		}
	}
	sm.mu.RUnlock()

	for _, s := range expired {
		s.Close()
	}
	if len(expired) > 0 {
		sm.logger.Info("cleaned up expired sessions",
			"count", len(expired),
			"remaining", sm.Count())
	}
	return len(expired)
}

// Shutdown closes all sessions. It is safe to call more than once.
func (sm *SessionManager) Shutdown(ctx context.Context) error {
	sm.shutdownOnce.Do(func() {
		close(sm.done)
	})
	select {
	case <-sm.cleanupDone:
	case <-ctx.Done():
		return ctx.Err()
	}

	sm.mu.RLock()
	sessions := make([]*Session, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		sessions = append(sessions, s)
	}
	sm.mu.RUnlock()

	// Close all sessions concurrently
	var wg sync.WaitGroup
	for _, s := range sessions {
		wg.Add(1)
		go func(s *Session) {
			defer wg.Done()
			s.Close()
		}(s)
	}

	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-ctx.Done():
		return ctx.Err()
	}

	sm.logger.Info("session manager shutdown",
		"closed_sessions", len(sessions))
	return nil
}

// ManagerStats contains aggregated session manager statistics.
type ManagerStats struct {
	Active       int
	TotalCreated uint64
	TotalClosed  uint64
	Peak         int
}

// Stats returns aggregated session statistics.
func (sm *SessionManager) Stats() ManagerStats {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return ManagerStats{
		Active:       len(sm.sessions),
		TotalCreated: sm.totalCreated.Load(),
		TotalClosed:  sm.totalClosed.Load(),
		Peak:         sm.peakSessions,
	}
}

// ForEach iterates over all sessions until fn returns false.
// The callback should not perform long-running operations as it holds the read lock.
func (sm *SessionManager) ForEach(fn func(*Session) bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for _, s := range sm.sessions {
		if !fn(s) {
			break
		}
	}
}
