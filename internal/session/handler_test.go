package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dukahub/storefront/internal/api"
)

func loginHandler(client *api.MockClient) *Handler {
	return NewHandler(NewService(client, NewMemoryTokenStore()))
}

func TestHandleLogin_SetsAuthCookies(t *testing.T) {
	client := &api.MockClient{
		LoginFunc: func(email, password string) (*api.AuthResponse, error) {
			return &api.AuthResponse{
				User:    api.User{ID: "u-1", Email: email, IsStaff: true},
				Access:  "access-1",
				Refresh: "refresh-1",
			}, nil
		},
	}
	handler := loginHandler(client)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"jane@example.com","password":"secret"}`))
	w := httptest.NewRecorder()

	handler.HandleLogin(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	cookies := map[string]*http.Cookie{}
	for _, c := range res.Cookies() {
		cookies[c.Name] = c
	}
	assert.Equal(t, "access-1", cookies["access_token"].Value)
	assert.True(t, cookies["access_token"].HttpOnly)
	assert.Equal(t, "refresh-1", cookies["refresh_token"].Value)
	assert.Contains(t, cookies["user_data"].Value, `"isStaff":true`)

	var response map[string]interface{}
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	assert.Equal(t, "success", response["status"])
}

func TestHandleLogin_BackendStatusPropagates(t *testing.T) {
	client := &api.MockClient{
		LoginFunc: func(email, password string) (*api.AuthResponse, error) {
			return nil, &api.APIError{Status: 401, Message: "Invalid credentials"}
		},
	}
	handler := loginHandler(client)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"jane@example.com","password":"wrong"}`))
	w := httptest.NewRecorder()

	handler.HandleLogin(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	var response map[string]interface{}
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	assert.Equal(t, "error", response["status"])
	assert.Equal(t, "Invalid credentials", response["message"])
}

func TestHandleLogin_MissingFields(t *testing.T) {
	handler := loginHandler(&api.MockClient{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":""}`))
	w := httptest.NewRecorder()

	handler.HandleLogin(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
}

func TestHandleRegister_PasswordMismatch(t *testing.T) {
	handler := loginHandler(&api.MockClient{})

	body := `{"email":"jane@example.com","password":"one","password_confirm":"two"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.HandleRegister(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	var response map[string]interface{}
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	assert.Equal(t, "Passwords do not match", response["message"])
}

func TestHandleLogout_AlwaysSucceedsAndExpiresCookies(t *testing.T) {
	client := &api.MockClient{
		LogoutFunc: func(refreshToken string) error {
			return &api.APIError{Status: 500, Message: "backend down"}
		},
	}
	tokens := NewMemoryTokenStore()
	_ = tokens.SetTokens("access-1", "refresh-1")
	handler := NewHandler(NewService(client, tokens))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	w := httptest.NewRecorder()

	handler.HandleLogout(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	for _, c := range res.Cookies() {
		assert.Empty(t, c.Value, "Expected cookie %s expired", c.Name)
		assert.Equal(t, -1, c.MaxAge)
	}
}

func TestHandleRequestPasswordReset_BackendStatusPropagates(t *testing.T) {
	client := &api.MockClient{
		RequestPasswordResetFunc: func(email string) error {
			return &api.APIError{Status: 404, Message: "No account for this email"}
		},
	}
	handler := loginHandler(client)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/password/reset",
		strings.NewReader(`{"email":"jane@example.com"}`))
	w := httptest.NewRecorder()

	handler.HandleRequestPasswordReset(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	var response map[string]interface{}
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	assert.Equal(t, "No account for this email", response["message"])
}

func TestHandleResetPassword_BackendStatusPropagates(t *testing.T) {
	client := &api.MockClient{
		ResetPasswordFunc: func(uid, token, newPassword, confirmPassword string) error {
			return &api.APIError{Status: 400, Message: "Invalid token"}
		},
	}
	handler := loginHandler(client)

	body := `{"uid":"u-1","token":"tok-1","new_password":"newpass","confirm_password":"newpass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/password/reset/confirm", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.HandleResetPassword(w, req)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	var response map[string]interface{}
	assert.NoError(t, json.NewDecoder(res.Body).Decode(&response))
	assert.Equal(t, "Invalid token", response["message"])
}

func TestHandleResetPassword_NonAPIErrorIs500(t *testing.T) {
	client := &api.MockClient{
		ResetPasswordFunc: func(uid, token, newPassword, confirmPassword string) error {
			return errors.New("connection refused")
		},
	}
	handler := loginHandler(client)

	body := `{"uid":"u-1","token":"tok-1","new_password":"newpass","confirm_password":"newpass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/password/reset/confirm", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.HandleResetPassword(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Result().StatusCode)
}

func TestHandleSession_ReportsSnapshot(t *testing.T) {
	client := &api.MockClient{}
	service := NewService(client, NewMemoryTokenStore())
	service.Restore()
	handler := NewHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	w := httptest.NewRecorder()

	handler.HandleSession(w, req)

	var response map[string]interface{}
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, false, response["is_authenticated"])
	assert.Equal(t, false, response["is_loading"])
}
