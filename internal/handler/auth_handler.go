package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"go-task-api/internal/middleware"
	"go-task-api/internal/model"
	"go-task-api/internal/service"
	"go-task-api/pkg/apierror"
)

const refreshCookieName = "refresh_token"

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("VALIDATION", "invalid JSON body", "", http.StatusUnprocessableEntity))
		return
	}

	user, err := h.service.Register(r.Context(), payload.Username, payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	pair, err := h.service.IssueSession(user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	writeSuccess(w, http.StatusCreated, "user registered successfully", model.UserOut{
		User:        user.Public(),
		AccessToken: pair.AccessToken,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("VALIDATION", "invalid JSON body", "", http.StatusUnprocessableEntity))
		return
	}

	user, err := h.service.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	pair, err := h.service.IssueSession(user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	writeSuccess(w, http.StatusOK, "user logged in successfully", model.UserOut{
		User:        user.Public(),
		AccessToken: pair.AccessToken,
	})
}

// Refresh rotates the refresh cookie and returns a new access token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		writeError(w, apierror.New("UNAUTHORIZED", "no refresh token provided, please login again", "", http.StatusUnauthorized))
		return
	}

	pair, err := h.service.Refresh(r.Context(), cookie.Value)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	writeSuccess(w, http.StatusOK, "session refreshed successfully", map[string]any{
		"accessToken": pair.AccessToken,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		writeError(w, apierror.New("UNAUTHORIZED", "no refresh token provided, please login again", "", http.StatusUnauthorized))
		return
	}

	if err := h.service.Logout(r.Context(), cookie.Value); err != nil {
		writeError(w, err)
		return
	}

	h.clearRefreshCookie(w)
	writeSuccess(w, http.StatusOK, "user logged out successfully", nil)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	writeSuccess(w, http.StatusOK, "user retrieved successfully", map[string]any{"user": user.Public()})
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    refreshToken,
		Path:     "/",
		Expires:  time.Now().Add(h.service.RefreshTTL()),
		MaxAge:   int(h.service.RefreshTTL().Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
