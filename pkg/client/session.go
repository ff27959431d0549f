package client

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/rs/zerolog"
)

// SessionUser is the authenticated identity held by a Session.
type SessionUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	UserType Role   `json:"userType"`
}

// authState tracks session resolution explicitly so concurrent Initialize
// calls cannot each spend the same refresh token.
type authState int

const (
	stateUnresolved authState = iota
	stateResolved
)

// Session owns the current identity and the access/refresh token pair. All
// methods are safe for concurrent use; Initialize and Refresh are serialized
// so a refresh token is only ever spent once.
type Session struct {
	gw    *Gateway
	creds CredentialStore
	log   zerolog.Logger

	mu      sync.Mutex
	state   authState
	user    *SessionUser
	access  string
	refresh string
}

func NewSession(gw *Gateway, creds CredentialStore, log zerolog.Logger) *Session {
	if creds == nil {
		creds = &MemoryCredentials{}
	}
	return &Session{gw: gw, creds: creds, log: log}
}

// Initialize loads a persisted session and confirms it with the backend:
// validate the access token, and on failure attempt exactly one refresh.
// When both fail the persisted state is cleared and the caller is anonymous.
// Initialize never returns a network error; an unreachable backend resolves
// to the anonymous state like any other validation failure.
//
// Role-gated decisions must wait for Initialize to return (or for Resolved
// to report true) rather than reading the identity immediately.
func (s *Session) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateResolved {
		return
	}
	defer func() { s.state = stateResolved }()

	rawUser, okUser := s.creds.Get(credUserKey)
	access, okAccess := s.creds.Get(credAccessKey)
	refresh, okRefresh := s.creds.Get(credRefreshKey)
	if !okUser || !okAccess || !okRefresh {
		return
	}

	var user SessionUser
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		s.log.Warn().Err(err).Msg("discarding corrupt persisted session")
		s.clearLocked()
		return
	}

	if s.validate(ctx, access) {
		s.user = &user
		s.access = access
		s.refresh = refresh
		return
	}

	s.user = &user
	s.refresh = refresh
	if !s.refreshLocked(ctx) {
		s.log.Debug().Msg("session refresh failed, starting anonymous")
		s.clearLocked()
	}
}

// Resolved reports whether Initialize has completed.
func (s *Session) Resolved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateResolved
}

// CurrentUser returns the authenticated identity, or nil when anonymous.
func (s *Session) CurrentUser() *SessionUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Role returns the caller's role, RoleAnonymous when unauthenticated.
func (s *Session) Role() Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return RoleAnonymous
	}
	return s.user.UserType
}

// AccessToken returns the current access token, empty when anonymous.
func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access
}

type loginWire struct {
	Success      bool         `json:"success"`
	Message      string       `json:"message"`
	User         *SessionUser `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresIn    int64        `json:"expiresIn"`
}

// Login exchanges credentials for a session. On any failure (network,
// non-2xx, malformed response) it returns false and leaves prior state
// untouched.
func (s *Session) Login(ctx context.Context, email, password string) bool {
	var resp loginWire
	err := s.gw.Call(ctx, http.MethodPost, "/auth/login", "",
		map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		s.log.Debug().Err(err).Msg("login failed")
		return false
	}
	if !resp.Success || resp.User == nil || resp.AccessToken == "" || resp.RefreshToken == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = stateResolved
	s.user = resp.User
	s.access = resp.AccessToken
	s.refresh = resp.RefreshToken
	s.persistLocked()
	return true
}

// Logout revokes the refresh token and unconditionally clears identity and
// tokens. A failed revocation never blocks the local clear.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	refresh := s.refresh
	s.mu.Unlock()

	if refresh != "" {
		if err := s.gw.Call(ctx, http.MethodPost, "/auth/logout", "",
			map[string]string{"refreshToken": refresh}, nil); err != nil {
			s.log.Debug().Err(err).Msg("logout revocation failed")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
	s.state = stateResolved
}

// Refresh exchanges the stored refresh token for a rotated pair. On failure
// nothing is mutated; the caller decides whether to clear.
func (s *Session) Refresh(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx)
}

type refreshWire struct {
	Success      bool   `json:"success"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

func (s *Session) refreshLocked(ctx context.Context) bool {
	if s.refresh == "" {
		return false
	}

	var resp refreshWire
	err := s.gw.Call(ctx, http.MethodPost, "/auth/refresh", "",
		map[string]string{"refreshToken": s.refresh}, &resp)
	if err != nil || !resp.Success || resp.AccessToken == "" || resp.RefreshToken == "" {
		return false
	}

	s.access = resp.AccessToken
	s.refresh = resp.RefreshToken
	s.persistLocked()
	return true
}

// validate asks the backend whether the access token is still good. A
// network error counts as a negative result.
func (s *Session) validate(ctx context.Context, access string) bool {
	var resp struct {
		Valid bool `json:"valid"`
	}
	if err := s.gw.Call(ctx, http.MethodGet, "/auth/validate", access, nil, &resp); err != nil {
		return false
	}
	return resp.Valid
}

func (s *Session) persistLocked() {
	if s.user == nil {
		return
	}
	raw, err := json.Marshal(s.user)
	if err != nil {
		return
	}
	if err := s.creds.Set(credUserKey, string(raw)); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist session")
		return
	}
	_ = s.creds.Set(credAccessKey, s.access)
	_ = s.creds.Set(credRefreshKey, s.refresh)
}

func (s *Session) clearLocked() {
	s.user = nil
	s.access = ""
	s.refresh = ""
	if err := s.creds.Clear(); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear persisted session")
	}
}
