package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-task-api/internal/model"
)

func TestTaskCreateEndpoint(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	accessToken, _ := registerUser(t, srv, "alice", "alice@example.com", "secret123")

	t.Run("creates a pending task", func(t *testing.T) {
		rec, env := doJSON(t, srv, http.MethodPost, "/api/v1/tasks/", model.CreateTaskRequest{
			Title:    "write report",
			DueDate:  time.Now().Add(time.Hour).Unix(),
			Priority: 1,
		}, bearer(accessToken))

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "success", env.Status)

		var out model.TaskOut
		require.NoError(t, json.Unmarshal(env.Data, &out))
		assert.Equal(t, "pending", out.Task.Status)
		assert.Equal(t, 1, out.Task.Priority)
		assert.NotEmpty(t, out.Task.ID)
	})

	t.Run("past due date is a validation error", func(t *testing.T) {
		rec, env := doJSON(t, srv, http.MethodPost, "/api/v1/tasks/", model.CreateTaskRequest{
			Title:   "late",
			DueDate: time.Now().Add(-time.Second).Unix(),
		}, bearer(accessToken))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "error", env.Status)
	})

	t.Run("requires authentication", func(t *testing.T) {
		rec, _ := doJSON(t, srv, http.MethodPost, "/api/v1/tasks/", model.CreateTaskRequest{
			Title:   "anonymous",
			DueDate: time.Now().Add(time.Hour).Unix(),
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestTaskLifecycleEndpoints(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	accessToken, _ := registerUser(t, srv, "alice", "alice@example.com", "secret123")

	rec, env := doJSON(t, srv, http.MethodPost, "/api/v1/tasks/", model.CreateTaskRequest{
		Title:   "write report",
		DueDate: time.Now().Add(time.Hour).Unix(),
	}, bearer(accessToken))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created model.TaskOut
	require.NoError(t, json.Unmarshal(env.Data, &created))
	taskID := created.Task.ID

	t.Run("get returns the task", func(t *testing.T) {
		rec, env := doJSON(t, srv, http.MethodGet, "/api/v1/tasks/"+taskID, nil, bearer(accessToken))
		require.Equal(t, http.StatusOK, rec.Code)

		var out model.TaskOut
		require.NoError(t, json.Unmarshal(env.Data, &out))
		assert.Equal(t, "write report", out.Task.Title)
	})

	t.Run("non-UUID id is a validation error", func(t *testing.T) {
		rec, _ := doJSON(t, srv, http.MethodGet, "/api/v1/tasks/random-string", nil, bearer(accessToken))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("update patches fields", func(t *testing.T) {
		title := "final report"
		rec, env := doJSON(t, srv, http.MethodPut, "/api/v1/tasks/"+taskID, model.UpdateTaskRequest{
			Title: &title,
		}, bearer(accessToken))
		require.Equal(t, http.StatusOK, rec.Code)

		var out model.TaskOut
		require.NoError(t, json.Unmarshal(env.Data, &out))
		assert.Equal(t, "final report", out.Task.Title)
	})

	t.Run("status transition stamps status_change", func(t *testing.T) {
		rec, env := doJSON(t, srv, http.MethodPut, "/api/v1/tasks/"+taskID+"/status", model.UpdateTaskStatusRequest{
			Status: model.TaskStatusInProgress,
		}, bearer(accessToken))
		require.Equal(t, http.StatusOK, rec.Code)

		var out model.TaskOut
		require.NoError(t, json.Unmarshal(env.Data, &out))
		assert.Equal(t, model.TaskStatusInProgress, out.Task.Status)
		require.NotNil(t, out.Task.StatusChange)
	})

	t.Run("list filters by status", func(t *testing.T) {
		rec, env := doJSON(t, srv, http.MethodGet, "/api/v1/tasks/?status=in_progress", nil, bearer(accessToken))
		require.Equal(t, http.StatusOK, rec.Code)

		var out model.TaskListOut
		require.NoError(t, json.Unmarshal(env.Data, &out))
		require.Len(t, out.Tasks, 1)
		assert.Equal(t, taskID, out.Tasks[0].ID)
	})

	t.Run("delete returns no content", func(t *testing.T) {
		rec, _ := doJSON(t, srv, http.MethodDelete, "/api/v1/tasks/"+taskID, nil, bearer(accessToken))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Zero(t, rec.Body.Len())

		rec, _ = doJSON(t, srv, http.MethodGet, "/api/v1/tasks/"+taskID, nil, bearer(accessToken))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestTaskOwnerIsolationEndpoints(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	aliceToken, _ := registerUser(t, srv, "alice", "alice@example.com", "secret123")
	bobToken, _ := registerUser(t, srv, "bob", "bob@example.com", "secret456")

	rec, env := doJSON(t, srv, http.MethodPost, "/api/v1/tasks/", model.CreateTaskRequest{
		Title:   "private",
		DueDate: time.Now().Add(time.Hour).Unix(),
	}, bearer(aliceToken))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created model.TaskOut
	require.NoError(t, json.Unmarshal(env.Data, &created))
	taskID := created.Task.ID

	t.Run("foreign get is not found", func(t *testing.T) {
		rec, _ := doJSON(t, srv, http.MethodGet, "/api/v1/tasks/"+taskID, nil, bearer(bobToken))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("foreign update is not found", func(t *testing.T) {
		title := "stolen"
		rec, _ := doJSON(t, srv, http.MethodPut, "/api/v1/tasks/"+taskID, model.UpdateTaskRequest{Title: &title}, bearer(bobToken))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("foreign delete is not found", func(t *testing.T) {
		rec, _ := doJSON(t, srv, http.MethodDelete, "/api/v1/tasks/"+taskID, nil, bearer(bobToken))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("foreign list stays empty", func(t *testing.T) {
		rec, env := doJSON(t, srv, http.MethodGet, "/api/v1/tasks/", nil, bearer(bobToken))
		require.Equal(t, http.StatusOK, rec.Code)

		var out model.TaskListOut
		require.NoError(t, json.Unmarshal(env.Data, &out))
		assert.Empty(t, out.Tasks)
	})
}
