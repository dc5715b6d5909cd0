package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
	"github.com/tair/affiliate-reviews/pkg/logger"
)

const sessionStorageKey = "session"

// tokenResponse is what GoTrue returns from the token and signup endpoints
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// signupResponse covers both shapes: a session, or a bare user awaiting email confirmation
type signupResponse struct {
	tokenResponse
	ID    string `json:"id"`
	Email string `json:"email"`
}

// SignIn exchanges email and password for a session
func (b *SupabaseBackend) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	var resp tokenResponse
	err := b.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"password"}},
		body:   map[string]string{"email": email, "password": password},
		bearer: b.cfg.AnonKey,
	}, &resp)
	if err != nil {
		return nil, authError("sign in", domain.ReasonInvalidCredentials, err)
	}

	s, err := sessionFromToken(resp, time.Now())
	if err != nil {
		return nil, domain.NewAuthError(domain.ReasonNetwork, "sign in", "Received an invalid session.", err)
	}
	b.sessions.establish(ctx, s)
	return copyUser(&s.User), nil
}

// SignUp registers a new account. When the project requires email confirmation
// no session is established and the returned identity is not signed in yet.
func (b *SupabaseBackend) SignUp(ctx context.Context, email, password string) (*domain.User, error) {
	var resp signupResponse
	err := b.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/signup",
		body:   map[string]string{"email": email, "password": password},
		bearer: b.cfg.AnonKey,
	}, &resp)
	if err != nil {
		return nil, authError("sign up", domain.ReasonValidation, err)
	}

	if resp.AccessToken == "" {
		user, err := domain.NewUser(resp.ID, resp.Email)
		if err != nil {
			return nil, domain.NewAuthError(domain.ReasonValidation, "sign up", "Sign up did not return an account.", err)
		}
		return user, nil
	}

	s, err := sessionFromToken(resp.tokenResponse, time.Now())
	if err != nil {
		return nil, domain.NewAuthError(domain.ReasonNetwork, "sign up", "Received an invalid session.", err)
	}
	b.sessions.establish(ctx, s)
	return copyUser(&s.User), nil
}

// SignOut revokes the session server side and always clears it locally
func (b *SupabaseBackend) SignOut(ctx context.Context) error {
	token := b.sessions.accessToken()
	if token == "" {
		b.sessions.clear(ctx)
		return nil
	}

	err := b.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/logout",
		bearer: token,
	}, nil)
	b.sessions.clear(ctx)

	var httpErr *HTTPError
	if err != nil && errors.As(err, &httpErr) && httpErr.Status < http.StatusInternalServerError {
		// The token was already invalid; the session is gone either way
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	return nil
}

// SubscribeSessionChanges delivers the current identity, then every transition
func (b *SupabaseBackend) SubscribeSessionChanges(listener domain.SessionListener) func() {
	return b.sessions.hub.subscribe(listener)
}

func (b *SupabaseBackend) refreshToken(ctx context.Context, refreshToken string) (*storedSession, error) {
	var resp tokenResponse
	err := b.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"refresh_token"}},
		body:   map[string]string{"refresh_token": refreshToken},
		bearer: b.cfg.AnonKey,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh session: %w", err)
	}
	return sessionFromToken(resp, time.Now())
}

// authError maps a transport failure to an AuthError. Most 4xx responses carry
// the caller's mistake (clientReason). 422 is always a validation failure,
// while 429 and everything else count as a network problem.
func authError(op string, clientReason domain.Reason, err error) error {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.Status >= http.StatusInternalServerError {
		return domain.NewAuthError(domain.ReasonNetwork, op, "Unable to reach the authentication service.", err)
	}

	msg := httpErr.Message
	switch httpErr.Status {
	case http.StatusTooManyRequests:
		if msg == "" {
			msg = "Too many requests, please try again later."
		}
		return domain.NewAuthError(domain.ReasonNetwork, op, msg, err)
	case http.StatusUnprocessableEntity:
		if msg == "" {
			msg = "The request could not be validated."
		}
		return domain.NewAuthError(domain.ReasonValidation, op, msg, err)
	}
	if msg == "" {
		msg = "Invalid login credentials"
	}
	return domain.NewAuthError(clientReason, op, msg, err)
}

// storedSession is the persisted form of a session
type storedSession struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresAt    time.Time   `json:"expires_at"`
	User         domain.User `json:"user"`
}

// sessionFromToken builds a session, reading expiry and identity from the JWT
// when the response omits them. The signature is not checked here; the backend does that.
func sessionFromToken(resp tokenResponse, now time.Time) (*storedSession, error) {
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("response has no access token")
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(resp.AccessToken, claims); err != nil {
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}

	var expiresAt time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Time
	}
	switch {
	case !expiresAt.IsZero():
	case resp.ExpiresAt > 0:
		expiresAt = time.Unix(resp.ExpiresAt, 0)
	case resp.ExpiresIn > 0:
		expiresAt = now.Add(time.Duration(resp.ExpiresIn) * time.Second)
	default:
		return nil, fmt.Errorf("access token has no expiry")
	}

	id, email := resp.User.ID, resp.User.Email
	if id == "" {
		id, _ = claims.GetSubject()
	}
	if email == "" {
		email, _ = claims["email"].(string)
	}
	user, err := domain.NewUser(id, email)
	if err != nil {
		return nil, err
	}

	return &storedSession{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    expiresAt.UTC(),
		User:         *user,
	}, nil
}

type refreshFunc func(ctx context.Context, refreshToken string) (*storedSession, error)

// sessionManager owns the token lifecycle. Hub updates happen under mu so
// transitions reach listeners in the order they were made.
type sessionManager struct {
	mu      sync.Mutex
	store   domain.KeyValueStore
	hub     *sessionHub
	current *storedSession
	timer   *time.Timer
	margin  time.Duration
	refresh refreshFunc
	now     func() time.Time
	stopped bool
}

func newSessionManager(store domain.KeyValueStore, refresh refreshFunc, margin time.Duration) *sessionManager {
	return &sessionManager{
		store:   store,
		hub:     newSessionHub(),
		margin:  margin,
		refresh: refresh,
		now:     time.Now,
	}
}

func (m *sessionManager) accessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return ""
	}
	return m.current.AccessToken
}

func (m *sessionManager) restore(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	raw, ok, err := m.store.Get(ctx, sessionStorageKey)
	if err != nil || !ok {
		return err
	}

	var s storedSession
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		_ = m.store.Delete(ctx, sessionStorageKey)
		return fmt.Errorf("failed to decode persisted session: %w", err)
	}

	m.mu.Lock()
	m.current = &s
	m.hub.set(&s.User)
	m.scheduleLocked()
	m.mu.Unlock()

	logger.Debug(ctx).Str("user_id", s.User.ID).Msg("Restored persisted session")
	return nil
}

func (m *sessionManager) establish(ctx context.Context, s *storedSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.establishLocked(ctx, s)
}

func (m *sessionManager) establishLocked(ctx context.Context, s *storedSession) {
	m.current = s
	m.persistLocked(ctx)
	m.hub.set(&s.User)
	m.scheduleLocked()
}

func (m *sessionManager) clear(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked(ctx)
}

func (m *sessionManager) clearLocked(ctx context.Context) {
	m.current = nil
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	if m.store != nil {
		if err := m.store.Delete(ctx, sessionStorageKey); err != nil {
			logger.Warn(ctx).Err(err).Msg("Failed to delete persisted session")
		}
	}
	m.hub.set(nil)
}

func (m *sessionManager) stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

func (m *sessionManager) persistLocked(ctx context.Context) {
	if m.store == nil || m.current == nil {
		return
	}
	raw, err := json.Marshal(m.current)
	if err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to encode session")
		return
	}
	if err := m.store.Set(ctx, sessionStorageKey, string(raw)); err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to persist session")
	}
}

// scheduleLocked arms the refresh timer margin before expiry
func (m *sessionManager) scheduleLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	if m.stopped || m.current == nil {
		return
	}
	wait := m.current.ExpiresAt.Sub(m.now()) - m.margin
	if wait < 0 {
		wait = 0
	}
	m.timer = time.AfterFunc(wait, m.onTimer)
}

func (m *sessionManager) onTimer() {
	m.mu.Lock()
	if m.stopped || m.current == nil {
		m.mu.Unlock()
		return
	}
	s := m.current
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	refreshed, err := m.refresh(ctx, s.RefreshToken)

	m.mu.Lock()
	if m.stopped || m.current != s {
		// Signed out or replaced while refreshing
		m.mu.Unlock()
		return
	}
	if err == nil {
		m.establishLocked(ctx, refreshed)
		m.mu.Unlock()
		logger.Debug(ctx).Str("user_id", refreshed.User.ID).Msg("Session refreshed")
		return
	}

	var httpErr *HTTPError
	rejected := errors.As(err, &httpErr) && httpErr.Status < http.StatusInternalServerError
	if !rejected && m.now().Before(s.ExpiresAt) {
		// Transient failure: one more attempt when the token actually expires
		m.timer = time.AfterFunc(s.ExpiresAt.Sub(m.now()), m.onTimer)
		m.mu.Unlock()
		logger.Warn(ctx).Err(err).Msg("Session refresh failed, retrying at expiry")
		return
	}
	m.clearLocked(ctx)
	m.mu.Unlock()

	logger.Info(ctx).Err(err).Str("user_id", s.User.ID).Msg("Session ended")
}
