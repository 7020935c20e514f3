package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"tasksAPI/internal/logger"
	"tasksAPI/internal/models/task"
	rep "tasksAPI/internal/repository"
	"time"

	"go.uber.org/zap"
)

// CreateTaskInput carries the submitted fields. A nil pointer means the field
// was absent and gets its default.
type CreateTaskInput struct {
	Title       string
	Description *string
	Status      *task.Status
	Date        *task.Date
}

type TaskService struct {
	repo TaskRepository
	now  func() time.Time
}

func NewTaskService(repo TaskRepository) *TaskService {
	return &TaskService{
		repo: repo,
		now:  time.Now,
	}
}

// WithClock replaces the clock used to default task dates.
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	return s.repo.HealthCheck(ctx)
}

func (s *TaskService) CreateTask(ctx context.Context, in CreateTaskInput) (*task.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, NewValidationError("title", "must not be empty")
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, NewValidationError("status", fmt.Sprintf("must be %q or %q", task.StatusPending, task.StatusCompleted))
	}

	newTask := task.New(in.Title, s.now(),
		task.WithDescription(in.Description),
		task.WithStatus(in.Status),
		task.WithDate(in.Date),
	)

	if err := s.repo.Create(ctx, newTask); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	logger.Info("Service: task created", zap.Int64("task_id", newTask.ID))
	return newTask, nil
}

func (s *TaskService) ListTasks(ctx context.Context) ([]*task.Task, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, id int64) (*task.Task, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translate(err, id, "get task")
	}
	return t, nil
}

// UpdateTask applies a partial update. A missing task wins over an empty
// patch, invalid field values are rejected before the store is touched.
func (s *TaskService) UpdateTask(ctx context.Context, id int64, patch task.Patch) (*task.Task, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	if patch.Empty() {
		if _, err := s.repo.GetByID(ctx, id); err != nil {
			return nil, s.translate(err, id, "get task")
		}
		return nil, NewEmptyUpdate(id)
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, s.translate(err, id, "update task")
	}

	logger.Info("Service: task updated", zap.Int64("task_id", id))
	return updated, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translate(err, id, "delete task")
	}

	logger.Info("Service: task deleted", zap.Int64("task_id", id))
	return nil
}

func (s *TaskService) translate(err error, id int64, op string) error {
	if errors.Is(err, rep.ErrNotFound) {
		logger.Info("Service: task not found", zap.Int64("target_id", id))
		return NewNotFound(id, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func validatePatch(patch task.Patch) error {
	if patch.Title.Set && (patch.Title.Null || strings.TrimSpace(patch.Title.Value) == "") {
		return NewValidationError("title", "must not be empty")
	}
	if patch.Status.Set && (patch.Status.Null || !patch.Status.Value.Valid()) {
		return NewValidationError("status", fmt.Sprintf("must be %q or %q", task.StatusPending, task.StatusCompleted))
	}
	if patch.Date.Set && patch.Date.Null {
		return NewValidationError("date", "must not be null")
	}
	return nil
}
