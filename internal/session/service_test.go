package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dukahub/storefront/internal/api"
)

func testUser() *api.User {
	return &api.User{
		ID:       "u-1",
		Email:    "jane@example.com",
		Username: "jane",
		IsActive: true,
	}
}

func TestReduce_Transitions(t *testing.T) {
	user := testUser()

	start := reduce(State{Error: "old failure"}, action{typ: authStart})
	assert.True(t, start.IsLoading)
	assert.Empty(t, start.Error)

	success := reduce(start, action{typ: authSuccess, user: user})
	assert.True(t, success.IsAuthenticated)
	assert.False(t, success.IsLoading)
	assert.Equal(t, user, success.User)
	assert.Empty(t, success.Error)

	failure := reduce(success, action{typ: authFailure, msg: "Login failed"})
	assert.False(t, failure.IsAuthenticated)
	assert.False(t, failure.IsLoading)
	assert.Nil(t, failure.User)
	assert.Equal(t, "Login failed", failure.Error)

	cleared := reduce(failure, action{typ: clearError})
	assert.Empty(t, cleared.Error)

	loggedOut := reduce(success, action{typ: authLogout})
	assert.Equal(t, State{}, loggedOut)
}

func TestLogin_Success(t *testing.T) {
	user := testUser()
	client := &api.MockClient{
		LoginFunc: func(email, password string) (*api.AuthResponse, error) {
			assert.Equal(t, "jane@example.com", email)
			assert.Equal(t, "secret", password)
			return &api.AuthResponse{User: *user, Access: "access-1", Refresh: "refresh-1"}, nil
		},
	}
	tokens := NewMemoryTokenStore()
	service := NewService(client, tokens)

	got, err := service.Login("jane@example.com", "secret")
	assert.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	state := service.State()
	assert.True(t, state.IsAuthenticated)
	assert.False(t, state.IsLoading)
	assert.Empty(t, state.Error)
	assert.Equal(t, "access-1", tokens.AccessToken())
	assert.Equal(t, "refresh-1", tokens.RefreshToken())
}

func TestLogin_BackendError(t *testing.T) {
	client := &api.MockClient{
		LoginFunc: func(email, password string) (*api.AuthResponse, error) {
			return nil, &api.APIError{Status: 401, Message: "Invalid credentials"}
		},
	}
	tokens := NewMemoryTokenStore()
	service := NewService(client, tokens)

	_, err := service.Login("jane@example.com", "wrong")
	assert.Error(t, err)

	state := service.State()
	assert.False(t, state.IsAuthenticated)
	assert.Equal(t, "Invalid credentials", state.Error)
	assert.Empty(t, tokens.AccessToken())
}

func TestLogin_FallbackMessageWithoutBackendDetail(t *testing.T) {
	client := &api.MockClient{
		LoginFunc: func(email, password string) (*api.AuthResponse, error) {
			return nil, errors.New("connection refused")
		},
	}
	service := NewService(client, NewMemoryTokenStore())

	_, err := service.Login("jane@example.com", "secret")
	assert.Error(t, err)
	assert.Equal(t, "Login failed", service.State().Error)
}

func TestLogin_InvalidEmailRejectedLocally(t *testing.T) {
	called := false
	client := &api.MockClient{
		LoginFunc: func(email, password string) (*api.AuthResponse, error) {
			called = true
			return nil, nil
		},
	}
	service := NewService(client, NewMemoryTokenStore())

	_, err := service.Login("not-an-email", "secret")
	assert.ErrorIs(t, err, ErrInvalidEmail)
	assert.False(t, called, "Expected no network call for a malformed email")
	assert.Equal(t, ErrInvalidEmail.Error(), service.State().Error)
}

func TestRegister_Success(t *testing.T) {
	user := testUser()
	client := &api.MockClient{
		RegisterFunc: func(req api.RegisterRequest) (*api.AuthResponse, error) {
			assert.Equal(t, "jane@example.com", req.Email)
			return &api.AuthResponse{User: *user, Access: "access-2", Refresh: "refresh-2"}, nil
		},
	}
	tokens := NewMemoryTokenStore()
	service := NewService(client, tokens)

	got, err := service.Register(api.RegisterRequest{
		Email:           "jane@example.com",
		Username:        "jane",
		Password:        "secret",
		PasswordConfirm: "secret",
	})
	assert.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.True(t, service.State().IsAuthenticated)
	assert.Equal(t, "access-2", tokens.AccessToken())
}

func TestLogout_AlwaysClearsLocally(t *testing.T) {
	client := &api.MockClient{
		LogoutFunc: func(refreshToken string) error {
			assert.Equal(t, "refresh-1", refreshToken)
			return &api.APIError{Status: 500, Message: "server exploded"}
		},
	}
	tokens := NewMemoryTokenStore()
	_ = tokens.SetTokens("access-1", "refresh-1")
	service := NewService(client, tokens)

	service.Logout()

	assert.Equal(t, State{}, service.State())
	assert.Empty(t, tokens.AccessToken())
	assert.Empty(t, tokens.RefreshToken())
}

func TestLogout_SkipsServerCallWithoutRefreshToken(t *testing.T) {
	called := false
	client := &api.MockClient{
		LogoutFunc: func(refreshToken string) error {
			called = true
			return nil
		},
	}
	service := NewService(client, NewMemoryTokenStore())

	service.Logout()
	assert.False(t, called)
	assert.Equal(t, State{}, service.State())
}

func TestRestore_NoTokensGoesStraightToLoggedOut(t *testing.T) {
	client := &api.MockClient{}
	service := NewService(client, NewMemoryTokenStore())

	assert.True(t, service.State().IsLoading)
	service.Restore()

	state := service.State()
	assert.False(t, state.IsLoading)
	assert.False(t, state.IsAuthenticated)
	assert.Empty(t, state.Error)
}

func TestRestore_ValidTokensAuthenticate(t *testing.T) {
	user := testUser()
	client := &api.MockClient{
		GetProfileFunc: func() (*api.User, error) {
			return user, nil
		},
	}
	tokens := NewMemoryTokenStore()
	_ = tokens.SetTokens("access-1", "refresh-1")
	service := NewService(client, tokens)

	service.Restore()

	state := service.State()
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, user, state.User)
}

func TestRestore_RejectedTokensArePurged(t *testing.T) {
	client := &api.MockClient{
		GetProfileFunc: func() (*api.User, error) {
			return nil, &api.APIError{Status: 401, Message: "token expired"}
		},
	}
	tokens := NewMemoryTokenStore()
	_ = tokens.SetTokens("stale-access", "stale-refresh")
	service := NewService(client, tokens)

	service.Restore()

	state := service.State()
	assert.False(t, state.IsAuthenticated)
	assert.Equal(t, "Session expired", state.Error)
	assert.Empty(t, tokens.AccessToken())
	assert.Empty(t, tokens.RefreshToken())
}

func TestRestore_RunsOnlyOnce(t *testing.T) {
	calls := 0
	client := &api.MockClient{
		GetProfileFunc: func() (*api.User, error) {
			calls++
			return testUser(), nil
		},
	}
	tokens := NewMemoryTokenStore()
	_ = tokens.SetTokens("access-1", "refresh-1")
	service := NewService(client, tokens)

	service.Restore()
	service.Restore()

	assert.Equal(t, 1, calls)
	assert.True(t, service.State().IsAuthenticated)
}

func TestRequestPasswordReset_SuccessClearsError(t *testing.T) {
	client := &api.MockClient{
		RequestPasswordResetFunc: func(email string) error { return nil },
	}
	service := NewService(client, NewMemoryTokenStore())
	_, _ = service.Login("jane@example.com", "bad") // leaves an error behind
	assert.NotEmpty(t, service.State().Error)

	err := service.RequestPasswordReset("jane@example.com")
	assert.NoError(t, err)
	assert.Empty(t, service.State().Error)
}

func TestResetPassword_BackendErrorSurfaces(t *testing.T) {
	client := &api.MockClient{
		ResetPasswordFunc: func(uid, token, newPassword, confirmPassword string) error {
			return &api.APIError{Status: 400, Message: "Invalid token"}
		},
	}
	service := NewService(client, NewMemoryTokenStore())

	err := service.ResetPassword("uid-1", "tok-1", "newpass", "newpass")
	assert.Error(t, err)
	assert.Equal(t, "Invalid token", service.State().Error)
}

func TestSubscribe_NotifiesAndCancels(t *testing.T) {
	client := &api.MockClient{}
	service := NewService(client, NewMemoryTokenStore())

	var seen []State
	cancel := service.Subscribe(func(s State) {
		seen = append(seen, s)
	})

	service.ClearError()
	assert.Len(t, seen, 1)

	cancel()
	service.ClearError()
	assert.Len(t, seen, 1)
}
