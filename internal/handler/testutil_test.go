package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-task-api/internal/middleware"
	"go-task-api/internal/model"
	"go-task-api/internal/service"
	"go-task-api/internal/token"
)

type memUserStore struct {
	users map[string]model.User
}

func (s *memUserStore) Create(_ context.Context, u model.User) error {
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return model.ErrEmailTaken
		}
	}
	s.users[u.ID] = u
	return nil
}

func (s *memUserStore) FindByID(_ context.Context, id string) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

type memRevocationStore struct {
	revoked map[string]struct{}
}

func (s *memRevocationStore) Revoke(_ context.Context, tokenValue string, _ time.Duration) error {
	s.revoked[tokenValue] = struct{}{}
	return nil
}

func (s *memRevocationStore) IsRevoked(_ context.Context, tokenValue string) (bool, error) {
	_, ok := s.revoked[tokenValue]
	return ok, nil
}

type memTaskStore struct {
	tasks map[string]model.Task
}

func (s *memTaskStore) Create(_ context.Context, t model.Task) error {
	s.tasks[t.ID] = t
	return nil
}

func (s *memTaskStore) ListByOwner(_ context.Context, ownerID string, statusFilter string) ([]model.Task, error) {
	out := make([]model.Task, 0)
	for _, t := range s.tasks {
		if t.UserID != ownerID {
			continue
		}
		if statusFilter != "" && t.Status != statusFilter {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *memTaskStore) FindByID(_ context.Context, taskID string, ownerID string) (model.Task, error) {
	t, ok := s.tasks[taskID]
	if !ok || t.UserID != ownerID {
		return model.Task{}, model.ErrTaskNotFound
	}
	return t, nil
}

func (s *memTaskStore) Update(_ context.Context, t model.Task) error {
	existing, ok := s.tasks[t.ID]
	if !ok || existing.UserID != t.UserID {
		return model.ErrTaskNotFound
	}
	s.tasks[t.ID] = t
	return nil
}

func (s *memTaskStore) Delete(_ context.Context, taskID string, ownerID string) error {
	t, ok := s.tasks[taskID]
	if !ok || t.UserID != ownerID {
		return model.ErrTaskNotFound
	}
	delete(s.tasks, taskID)
	return nil
}

// newTestServer wires real services over in-memory stores behind the real
// route table.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	codec, err := token.NewCodec("test-secret", "HS256", 15*time.Minute, 720*time.Hour)
	require.NoError(t, err)

	authService := service.NewAuthService(
		&memUserStore{users: map[string]model.User{}},
		service.NewPasswordHasher(bcrypt.MinCost),
		codec,
		&memRevocationStore{revoked: map[string]struct{}{}},
	)
	taskService := service.NewTaskService(&memTaskStore{tasks: map[string]model.Task{}})

	authMiddleware := middleware.NewAuthMiddleware(authService)
	authHandler := NewAuthHandler(authService)
	taskHandler := NewTaskHandler(taskService)

	r := chi.NewRouter()
	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", authHandler.Register)
			auth.Post("/login", authHandler.Login)
			auth.Post("/refresh", authHandler.Refresh)
			auth.Post("/logout", authHandler.Logout)
			auth.With(authMiddleware.RequireAuth).Get("/me", authHandler.Me)
		})
		api.Route("/tasks", func(tasks chi.Router) {
			tasks.Use(authMiddleware.RequireAuth)
			tasks.Post("/", taskHandler.Create)
			tasks.Get("/", taskHandler.List)
			tasks.Get("/{task_id}", taskHandler.Get)
			tasks.Put("/{task_id}", taskHandler.Update)
			tasks.Put("/{task_id}/status", taskHandler.UpdateStatus)
			tasks.Delete("/{task_id}", taskHandler.Delete)
		})
	})
	return r
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  *string         `json:"errors"`
}

func doJSON(t *testing.T, srv http.Handler, method string, path string, body any, mutate func(*http.Request)) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if mutate != nil {
		mutate(req)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func refreshCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range rec.Result().Cookies() {
		if c.Name == "refresh_token" {
			return c
		}
	}
	return nil
}

func registerUser(t *testing.T, srv http.Handler, username string, email string, password string) (accessToken string, cookie *http.Cookie) {
	t.Helper()

	rec, env := doJSON(t, srv, http.MethodPost, "/api/v1/auth/register", model.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var out struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.AccessToken)

	return out.AccessToken, refreshCookie(t, rec)
}

func bearer(accessToken string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+accessToken)
	}
}
