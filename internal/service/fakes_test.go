package service

import (
	"context"
	"time"

	"go-task-api/internal/model"
)

type fakeUserStore struct {
	users map[string]model.User // keyed by id
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]model.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, u model.User) error {
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return model.ErrEmailTaken
		}
	}
	s.users[u.ID] = u
	return nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id string) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

type fakeRevocationStore struct {
	entries map[string]time.Duration
}

func newFakeRevocationStore() *fakeRevocationStore {
	return &fakeRevocationStore{entries: map[string]time.Duration{}}
}

func (s *fakeRevocationStore) Revoke(_ context.Context, tokenValue string, ttl time.Duration) error {
	if _, exists := s.entries[tokenValue]; !exists {
		s.entries[tokenValue] = ttl
	}
	return nil
}

func (s *fakeRevocationStore) IsRevoked(_ context.Context, tokenValue string) (bool, error) {
	_, revoked := s.entries[tokenValue]
	return revoked, nil
}

type fakeTaskStore struct {
	tasks map[string]model.Task // keyed by id
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: map[string]model.Task{}}
}

func (s *fakeTaskStore) Create(_ context.Context, t model.Task) error {
	s.tasks[t.ID] = t
	return nil
}

func (s *fakeTaskStore) ListByOwner(_ context.Context, ownerID string, statusFilter string) ([]model.Task, error) {
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

func (s *fakeTaskStore) FindByID(_ context.Context, taskID string, ownerID string) (model.Task, error) {
	t, ok := s.tasks[taskID]
	if !ok || t.UserID != ownerID {
		return model.Task{}, model.ErrTaskNotFound
	}
	return t, nil
}

func (s *fakeTaskStore) Update(_ context.Context, t model.Task) error {
	existing, ok := s.tasks[t.ID]
	if !ok || existing.UserID != t.UserID {
		return model.ErrTaskNotFound
	}
	s.tasks[t.ID] = t
	return nil
}

func (s *fakeTaskStore) Delete(_ context.Context, taskID string, ownerID string) error {
	t, ok := s.tasks[taskID]
	if !ok || t.UserID != ownerID {
		return model.ErrTaskNotFound
	}
	delete(s.tasks, taskID)
	return nil
}
