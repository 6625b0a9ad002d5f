package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go-task-api/internal/model"
	"go-task-api/pkg/apierror"
)

// principalResolver turns a bearer access token into the authenticated user,
// including the lookup that catches principals deleted after issuance.
type principalResolver interface {
	CurrentUser(ctx context.Context, accessToken string) (model.User, error)
}

type contextKey string

const currentUserContextKey contextKey = "current_user"

type AuthMiddleware struct {
	resolver principalResolver
}

func NewAuthMiddleware(resolver principalResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			writeAuthError(w, http.StatusUnauthorized, "missing or invalid authorization header")
			return
		}

		accessToken := strings.TrimSpace(header[7:])
		user, err := m.resolver.CurrentUser(r.Context(), accessToken)
		if err != nil {
			var apiErr *apierror.APIError
			if errors.As(err, &apiErr) {
				writeAuthError(w, apiErr.HTTPStatus, apiErr.Message)
				return
			}
			writeAuthError(w, http.StatusInternalServerError, "failed to resolve current user")
			return
		}

		ctx := context.WithValue(r.Context(), currentUserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func UserFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(currentUserContextKey).(model.User)
	return user, ok
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = jsonEncode(w, model.APIResponse{
		Status:  "error",
		Message: message,
	})
}
