package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-task-api/internal/model"
	"go-task-api/pkg/apierror"
)

const (
	maxTitleLength       = 100
	maxDescriptionLength = 500
)

// TaskStore is the slice of the task repository the service needs. Every
// operation is scoped by owner id.
type TaskStore interface {
	Create(ctx context.Context, t model.Task) error
	ListByOwner(ctx context.Context, ownerID string, statusFilter string) ([]model.Task, error)
	FindByID(ctx context.Context, taskID string, ownerID string) (model.Task, error)
	Update(ctx context.Context, t model.Task) error
	Delete(ctx context.Context, taskID string, ownerID string) error
}

type TaskService struct {
	tasks TaskStore
	now   func() time.Time
}

func NewTaskService(tasks TaskStore) *TaskService {
	return &TaskService{tasks: tasks, now: time.Now}
}

func (s *TaskService) Create(ctx context.Context, ownerID string, req model.CreateTaskRequest) (model.Task, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Priority == 0 {
		req.Priority = 1
	}

	if err := s.validateFields(req.Title, req.Description, req.Priority); err != nil {
		return model.Task{}, err
	}
	if req.Title == "" {
		return model.Task{}, apierror.New("VALIDATION", "title is required", "", http.StatusUnprocessableEntity)
	}
	if err := s.validateDueDate(req.DueDate); err != nil {
		return model.Task{}, err
	}

	now := s.now().UTC()
	task := model.Task{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		Title:       req.Title,
		Description: req.Description,
		Status:      model.TaskStatusPending,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (s *TaskService) List(ctx context.Context, ownerID string, statusFilter string) ([]model.Task, error) {
	if statusFilter != "" && !model.ValidTaskStatus(statusFilter) {
		return nil, apierror.New("VALIDATION", "status filter must be pending, in_progress or completed", statusFilter, http.StatusUnprocessableEntity)
	}
	return s.tasks.ListByOwner(ctx, ownerID, statusFilter)
}

func (s *TaskService) Get(ctx context.Context, taskID string, ownerID string) (model.Task, error) {
	if err := validateTaskID(taskID); err != nil {
		return model.Task{}, err
	}
	return s.tasks.FindByID(ctx, taskID, ownerID)
}

func (s *TaskService) Update(ctx context.Context, taskID string, ownerID string, patch model.UpdateTaskRequest) (model.Task, error) {
	if err := validateTaskID(taskID); err != nil {
		return model.Task{}, err
	}

	task, err := s.tasks.FindByID(ctx, taskID, ownerID)
	if err != nil {
		return model.Task{}, err
	}

	if patch.Title != nil {
		task.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.DueDate != nil {
		if err := s.validateDueDate(*patch.DueDate); err != nil {
			return model.Task{}, err
		}
		task.DueDate = *patch.DueDate
	}

	if task.Title == "" {
		return model.Task{}, apierror.New("VALIDATION", "title cannot be empty", "", http.StatusUnprocessableEntity)
	}
	if err := s.validateFields(task.Title, task.Description, task.Priority); err != nil {
		return model.Task{}, err
	}

	task.UpdatedAt = s.now().UTC()
	if err := s.tasks.Update(ctx, task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (s *TaskService) UpdateStatus(ctx context.Context, taskID string, ownerID string, status string) (model.Task, error) {
	if err := validateTaskID(taskID); err != nil {
		return model.Task{}, err
	}
	if !model.ValidTaskStatus(status) {
		return model.Task{}, apierror.New("VALIDATION", "status must be pending, in_progress or completed", status, http.StatusUnprocessableEntity)
	}

	task, err := s.tasks.FindByID(ctx, taskID, ownerID)
	if err != nil {
		return model.Task{}, err
	}

	now := s.now().UTC()
	changed := now.Unix()
	task.Status = status
	task.StatusChange = &changed
	task.UpdatedAt = now

	if err := s.tasks.Update(ctx, task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, taskID string, ownerID string) error {
	if err := validateTaskID(taskID); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, taskID, ownerID)
}

func (s *TaskService) validateDueDate(dueDate int64) error {
	if dueDate <= s.now().UTC().Unix() {
		return apierror.New("VALIDATION", "due date must be in the future", "", http.StatusUnprocessableEntity)
	}
	return nil
}

func (s *TaskService) validateFields(title string, description string, priority int) error {
	if len(title) > maxTitleLength {
		return apierror.New("VALIDATION", "title must be at most 100 characters", "", http.StatusUnprocessableEntity)
	}
	if len(description) > maxDescriptionLength {
		return apierror.New("VALIDATION", "description must be at most 500 characters", "", http.StatusUnprocessableEntity)
	}
	if priority < 1 || priority > 5 {
		return apierror.New("VALIDATION", "priority must be between 1 and 5", "", http.StatusUnprocessableEntity)
	}
	return nil
}

func validateTaskID(taskID string) error {
	if _, err := uuid.Parse(taskID); err != nil {
		return apierror.New("VALIDATION", "task id must be a valid UUID", taskID, http.StatusUnprocessableEntity)
	}
	return nil
}
