package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-task-api/internal/model"
	"go-task-api/pkg/apierror"
)

type stubResolver struct {
	user model.User
	err  error
}

func (s *stubResolver) CurrentUser(_ context.Context, accessToken string) (model.User, error) {
	if s.err != nil {
		return model.User{}, s.err
	}
	if accessToken != "valid-token" {
		return model.User{}, apierror.New("UNAUTHORIZED", "invalid or expired token", "", http.StatusUnauthorized)
	}
	return s.user, nil
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	alice := model.User{ID: "user-1", Username: "alice", Email: "alice@example.com"}

	newHandler := func(resolver principalResolver, captured *model.User) http.Handler {
		mw := NewAuthMiddleware(resolver)
		return mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			require.True(t, ok)
			*captured = user
			w.WriteHeader(http.StatusOK)
		}))
	}

	t.Run("passes the resolved user through the context", func(t *testing.T) {
		var captured model.User
		handler := newHandler(&stubResolver{user: alice}, &captured)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, alice, captured)
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		var captured model.User
		handler := newHandler(&stubResolver{user: alice}, &captured)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, captured.ID)
	})

	t.Run("rejects a non-bearer scheme", func(t *testing.T) {
		var captured model.User
		handler := newHandler(&stubResolver{user: alice}, &captured)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("propagates the resolver status for a vanished principal", func(t *testing.T) {
		var captured model.User
		resolver := &stubResolver{err: apierror.New("NOT_FOUND", "user not found", "", http.StatusNotFound)}
		handler := newHandler(resolver, &captured)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
