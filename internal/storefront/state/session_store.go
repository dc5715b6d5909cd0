package state

import (
	"context"
	"sync"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
	"github.com/tair/affiliate-reviews/internal/storefront/usecase/command"
	"github.com/tair/affiliate-reviews/pkg/logger"
)

// SessionStore holds the signed-in identity. Session notifications from the
// backend are the only way a sign-out made elsewhere becomes visible.
//
// SignIn and SignOut write the identity directly. Notifications queued before
// such a write are stale, so the store drops them until the backend echoes
// the identity it just wrote.
type SessionStore struct {
	notifier

	signIn  *command.SignInHandler
	signUp  *command.SignUpHandler
	signOut *command.SignOutHandler
	nav     *Navigator

	mu      sync.RWMutex
	user    *domain.User
	ready   bool
	pending int
	errMsg  string

	// awaiting is set after a direct write; expected is the identity the
	// backend has to report before notifications apply again.
	awaiting bool
	expected *domain.User

	unsubscribe func()
}

// NewSessionStore creates a session store and subscribes to session changes
func NewSessionStore(auth domain.Authenticator, nav *Navigator) *SessionStore {
	s := &SessionStore{
		signIn:  command.NewSignInHandler(auth),
		signUp:  command.NewSignUpHandler(auth),
		signOut: command.NewSignOutHandler(auth),
		nav:     nav,
	}
	s.unsubscribe = auth.SubscribeSessionChanges(s.onSessionChange)
	return s
}

func (s *SessionStore) onSessionChange(user *domain.User) {
	s.mu.Lock()
	wasReady := s.ready
	s.ready = true
	if s.awaiting {
		if !sameUser(user, s.expected) {
			s.mu.Unlock()
			if !wasReady {
				s.notify()
			}
			return
		}
		s.awaiting = false
		s.expected = nil
	}
	changed := !sameUser(user, s.user)
	s.user = cloneUser(user)
	s.mu.Unlock()

	if changed || !wasReady {
		s.notify()
	}
}

// expectLocked makes u the identity and holds back notifications until the
// backend reports it too
func (s *SessionStore) expectLocked(u *domain.User) {
	s.user = cloneUser(u)
	s.expected = cloneUser(u)
	s.awaiting = true
}

// User returns the current identity, nil when signed out
func (s *SessionStore) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUser(s.user)
}

// Loading is true until the first session notification and while an auth call runs
func (s *SessionStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.ready || s.pending > 0
}

// Error returns the message of the last failed auth call
func (s *SessionStore) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

// ClearError drops the auth error message
func (s *SessionStore) ClearError() {
	s.mu.Lock()
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()
}

// SignIn signs in and makes the identity visible immediately
func (s *SessionStore) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	s.begin()
	user, err := s.signIn.Handle(ctx, command.SignInCommand{Email: email, Password: password})
	s.end(ctx, "sign in", err, func() { s.expectLocked(user) })
	return user, err
}

// SignUp registers an account. The identity becomes visible once the backend
// reports a session, which may wait on email confirmation.
func (s *SessionStore) SignUp(ctx context.Context, email, password string) (*domain.User, error) {
	s.begin()
	user, err := s.signUp.Handle(ctx, command.SignUpCommand{Email: email, Password: password})
	s.end(ctx, "sign up", err, nil)
	return user, err
}

// SignOut ends the session and returns to the home page
func (s *SessionStore) SignOut(ctx context.Context) error {
	s.begin()
	err := s.signOut.Handle(ctx)
	s.end(ctx, "sign out", err, func() { s.expectLocked(nil) })
	if err != nil {
		return err
	}
	s.nav.GoHome()
	return nil
}

// Close stops listening for session changes
func (s *SessionStore) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

func (s *SessionStore) begin() {
	s.mu.Lock()
	s.pending++
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()
}

// end applies onSuccess under the lock when err is nil
func (s *SessionStore) end(ctx context.Context, op string, err error, onSuccess func()) {
	s.mu.Lock()
	s.pending--
	if err != nil {
		s.errMsg = domain.UserMessage(err, command.MsgUnexpected)
	} else if onSuccess != nil {
		onSuccess()
	}
	s.mu.Unlock()

	if err != nil {
		logger.Warn(ctx).
			Err(err).
			Str("op", op).
			Str("reason", string(domain.ReasonOf(err))).
			Msg("Auth call failed")
	}
	s.notify()
}

func sameUser(a, b *domain.User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID && a.Email == b.Email
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
