package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dukahub/storefront/internal/api"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	})
}

type userDataCookie struct {
	IsStaff     bool `json:"isStaff"`
	IsSuperuser bool `json:"isSuperuser"`
}

// setAuthCookies mirrors the session tokens into cookies for the edge
// gateway: the tokens themselves plus a user_data blob carrying the staff
// flags the gateway needs for admin routes.
func setAuthCookies(w http.ResponseWriter, access, refresh string, user *api.User) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    access,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    refresh,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	data, _ := json.Marshal(userDataCookie{
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "user_data",
		Value:    string(data),
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
}

func clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{"access_token", "refresh_token", "user_data"} {
		http.SetCookie(w, &http.Cookie{
			Name:    name,
			Value:   "",
			Path:    "/",
			Expires: time.Unix(0, 0),
			MaxAge:  -1,
		})
	}
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidEmail) {
			respondError(w, http.StatusBadRequest, ErrInvalidEmail.Error())
			return
		}
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			respondError(w, apiErr.Status, h.service.State().Error)
			return
		}
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	tokens := h.service.Tokens()
	setAuthCookies(w, tokens.AccessToken(), tokens.RefreshToken(), user)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   map[string]interface{}{"user": user},
	})
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Password != req.PasswordConfirm {
		respondError(w, http.StatusBadRequest, "Passwords do not match")
		return
	}

	user, err := h.service.Register(req)
	if err != nil {
		if errors.Is(err, ErrInvalidEmail) {
			respondError(w, http.StatusBadRequest, ErrInvalidEmail.Error())
			return
		}
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			respondError(w, apiErr.Status, h.service.State().Error)
			return
		}
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	tokens := h.service.Tokens()
	setAuthCookies(w, tokens.AccessToken(), tokens.RefreshToken(), user)
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status": "success",
		"data":   map[string]interface{}{"user": user},
	})
}

// HandleLogout always succeeds from the client's point of view; the session
// service has already cleared local state whatever the backend said.
func (h *Handler) HandleLogout(w http.ResponseWriter, _ *http.Request) {
	h.service.Logout()
	clearAuthCookies(w)
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Logout successful",
	})
}

func (h *Handler) HandleRequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.service.RequestPasswordReset(req.Email); err != nil {
		if errors.Is(err, ErrInvalidEmail) {
			respondError(w, http.StatusBadRequest, ErrInvalidEmail.Error())
			return
		}
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			respondError(w, apiErr.Status, h.service.State().Error)
			return
		}
		respondError(w, http.StatusInternalServerError, h.service.State().Error)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (h *Handler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UID             string `json:"uid"`
		Token           string `json:"token"`
		NewPassword     string `json:"new_password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil || req.UID == "" || req.Token == "" || req.NewPassword == "" {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		respondError(w, http.StatusBadRequest, "Passwords do not match")
		return
	}

	if err := h.service.ResetPassword(req.UID, req.Token, req.NewPassword, req.ConfirmPassword); err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			respondError(w, apiErr.Status, h.service.State().Error)
			return
		}
		respondError(w, http.StatusInternalServerError, h.service.State().Error)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Password has been reset successfully",
	})
}

// HandleSession reports the current snapshot so the UI shell can hydrate.
func (h *Handler) HandleSession(w http.ResponseWriter, _ *http.Request) {
	state := h.service.State()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user":             state.User,
		"is_authenticated": state.IsAuthenticated,
		"is_loading":       state.IsLoading,
		"error":            state.Error,
	})
}
