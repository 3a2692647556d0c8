package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/bmorton/folio/internal/portfolio"
	"github.com/bmorton/folio/internal/storage/userdb"
)

// ErrNoActiveSession is returned when an operation targets a user who is
// not logged in.
var ErrNoActiveSession = errors.New("no active session for user")

// liveSession pairs a portfolio with the mutex serializing access to it.
// Portfolio itself does no locking; every caller goes through the registry.
type liveSession struct {
	mu        sync.Mutex
	sessionID string
	portfolio *portfolio.Portfolio
}

type sessionRegistry struct {
	mu       sync.RWMutex
	sessions map[int64]*liveSession
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{sessions: make(map[int64]*liveSession)}
}

func (r *sessionRegistry) get(userID int64) (*liveSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[userID]
	return s, ok
}

func (r *sessionRegistry) put(userID int64, s *liveSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[userID] = s
}

func (r *sessionRegistry) remove(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
}

func (r *sessionRegistry) userIDs() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]int64, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Login opens a session for username, creating the user row on first
// login. The portfolio starts with the configured funds and is then
// hydrated from the stored snapshot. Logging in twice returns the
// already-live session.
func (a *App) Login(ctx context.Context, username string) (int64, error) {
	user, err := a.Users.GetUserByUsername(ctx, username)
	if errors.Is(err, userdb.ErrUserNotFound) {
		user, err = a.Users.CreateUser(ctx, username, "")
	}
	if err != nil {
		return 0, fmt.Errorf("login %s: %w", username, err)
	}

	if _, ok := a.sessions.get(user.ID); ok {
		a.Logger.Debug().
			Int64("user_id", user.ID).
			Str("username", username).
			Msg("Login: session already live")
		return user.ID, nil
	}

	p := portfolio.New(user.ID, a.Config.Portfolio.StartingFunds, a.QuoteService, a.Logger)
	if err := a.SessionService.Restore(ctx, user.ID, p); err != nil {
		return 0, fmt.Errorf("login %s: %w", username, err)
	}

	s := &liveSession{
		sessionID: uuid.NewString(),
		portfolio: p,
	}
	a.sessions.put(user.ID, s)

	a.Logger.Info().
		Int64("user_id", user.ID).
		Str("username", username).
		Str("session_id", s.sessionID).
		Msg("Session opened")
	return user.ID, nil
}

// Logout persists the user's portfolio and drops the live session. The
// session stays live when persistence fails, so nothing is lost.
func (a *App) Logout(ctx context.Context, userID int64) error {
	s, ok := a.sessions.get(userID)
	if !ok {
		return fmt.Errorf("logout user %d: %w", userID, ErrNoActiveSession)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := a.SessionService.Persist(ctx, userID, s.portfolio); err != nil {
		return fmt.Errorf("logout user %d: %w", userID, err)
	}
	a.sessions.remove(userID)

	a.Logger.Info().
		Int64("user_id", userID).
		Str("session_id", s.sessionID).
		Msg("Session closed")
	return nil
}

// LogoutAll persists and drops every live session. Failures are logged,
// not returned, as the remaining sessions still need flushing.
func (a *App) LogoutAll(ctx context.Context) {
	for _, userID := range a.sessions.userIDs() {
		if err := a.Logout(ctx, userID); err != nil {
			a.Logger.Warn().Err(err).Int64("user_id", userID).Msg("Failed to close session")
		}
	}
}

// WithPortfolio runs fn against the user's live portfolio while holding
// its session lock.
func (a *App) WithPortfolio(userID int64, fn func(p *portfolio.Portfolio) error) error {
	s, ok := a.sessions.get(userID)
	if !ok {
		return fmt.Errorf("user %d: %w", userID, ErrNoActiveSession)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.portfolio)
}

// ActiveSessions returns the number of live sessions.
func (a *App) ActiveSessions() int {
	return len(a.sessions.userIDs())
}
