package session

import (
	"errors"
	"sync"

	"github.com/badoux/checkmail"
	"github.com/dukahub/storefront/internal/api"
)

var (
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrSessionExpired is stored as the failure reason when restoration
	// finds tokens the backend no longer accepts.
	ErrSessionExpired = errors.New("Session expired")
)

// Service owns the auth session state machine. All mutations go through the
// defined transitions; callers read immutable snapshots.
type Service interface {
	Login(email, password string) (*api.User, error)
	Register(req api.RegisterRequest) (*api.User, error)
	Logout()
	RequestPasswordReset(email string) error
	ResetPassword(uid, token, newPassword, confirmPassword string) error
	Restore()
	ClearError()
	State() State
	Tokens() TokenStore
	Subscribe(fn func(State)) (cancel func())
}

type service struct {
	client api.Client
	tokens TokenStore

	mu       sync.RWMutex
	state    State
	restored bool

	subMu  sync.Mutex
	subs   map[int]func(State)
	nextID int
}

// NewService creates the session store in its initial loading state; the
// host is expected to call Restore once at startup.
func NewService(client api.Client, tokens TokenStore) Service {
	return &service{
		client: client,
		tokens: tokens,
		state:  State{IsLoading: true},
		subs:   make(map[int]func(State)),
	}
}

func (s *service) dispatch(a action) {
	s.mu.Lock()
	s.state = reduce(s.state, a)
	snapshot := s.state
	s.mu.Unlock()

	s.subMu.Lock()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(snapshot)
	}
}

func (s *service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *service) Tokens() TokenStore {
	return s.tokens
}

func (s *service) Subscribe(fn func(State)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// failureMessage prefers the message carried by the backend error, falling
// back to the operation's fixed default.
func failureMessage(err error, fallback string) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func (s *service) Login(email, password string) (*api.User, error) {
	if err := checkmail.ValidateFormat(email); err != nil {
		s.dispatch(action{typ: authFailure, msg: ErrInvalidEmail.Error()})
		return nil, ErrInvalidEmail
	}

	s.dispatch(action{typ: authStart})
	resp, err := s.client.Login(email, password)
	if err != nil {
		s.dispatch(action{typ: authFailure, msg: failureMessage(err, "Login failed")})
		return nil, err
	}

	if err := s.tokens.SetTokens(resp.Access, resp.Refresh); err != nil {
		s.dispatch(action{typ: authFailure, msg: "Login failed"})
		return nil, err
	}
	user := resp.User
	s.dispatch(action{typ: authSuccess, user: &user})
	return &user, nil
}

func (s *service) Register(req api.RegisterRequest) (*api.User, error) {
	if err := checkmail.ValidateFormat(req.Email); err != nil {
		s.dispatch(action{typ: authFailure, msg: ErrInvalidEmail.Error()})
		return nil, ErrInvalidEmail
	}

	s.dispatch(action{typ: authStart})
	resp, err := s.client.Register(req)
	if err != nil {
		s.dispatch(action{typ: authFailure, msg: failureMessage(err, "Registration failed")})
		return nil, err
	}

	if err := s.tokens.SetTokens(resp.Access, resp.Refresh); err != nil {
		s.dispatch(action{typ: authFailure, msg: "Registration failed"})
		return nil, err
	}
	user := resp.User
	s.dispatch(action{typ: authSuccess, user: &user})
	return &user, nil
}

// Logout attempts server-side token invalidation but never depends on it:
// local tokens are cleared and the state reset regardless of the outcome.
func (s *service) Logout() {
	if refresh := s.tokens.RefreshToken(); refresh != "" {
		_ = s.client.Logout(refresh)
	}
	_ = s.tokens.Clear()
	s.dispatch(action{typ: authLogout})
}

func (s *service) RequestPasswordReset(email string) error {
	if err := checkmail.ValidateFormat(email); err != nil {
		s.dispatch(action{typ: authFailure, msg: ErrInvalidEmail.Error()})
		return ErrInvalidEmail
	}

	s.dispatch(action{typ: authStart})
	if err := s.client.RequestPasswordReset(email); err != nil {
		s.dispatch(action{typ: authFailure, msg: failureMessage(err, "Request failed")})
		return err
	}
	s.dispatch(action{typ: clearError})
	return nil
}

func (s *service) ResetPassword(uid, token, newPassword, confirmPassword string) error {
	s.dispatch(action{typ: authStart})
	if err := s.client.ResetPassword(uid, token, newPassword, confirmPassword); err != nil {
		s.dispatch(action{typ: authFailure, msg: failureMessage(err, "Reset failed")})
		return err
	}
	s.dispatch(action{typ: clearError})
	return nil
}

// Restore runs at most once per service lifetime. Without a stored access
// token the session goes straight to logged-out; otherwise the profile is
// fetched, and any failure purges the tokens so no half-authenticated state
// survives.
func (s *service) Restore() {
	s.mu.Lock()
	if s.restored {
		s.mu.Unlock()
		return
	}
	s.restored = true
	s.mu.Unlock()

	if s.tokens.AccessToken() == "" {
		s.dispatch(action{typ: authLogout})
		return
	}

	s.dispatch(action{typ: authStart})
	user, err := s.client.GetProfile()
	if err != nil {
		_ = s.tokens.Clear()
		s.dispatch(action{typ: authFailure, msg: ErrSessionExpired.Error()})
		return
	}
	s.dispatch(action{typ: authSuccess, user: user})
}

func (s *service) ClearError() {
	s.dispatch(action{typ: clearError})
}
