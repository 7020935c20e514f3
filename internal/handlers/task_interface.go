package handlers

import (
	"context"
	"tasksAPI/internal/models/task"
	"tasksAPI/internal/service"
)

type Service interface {
	HealthCheck(context.Context) error
	CreateTask(context.Context, service.CreateTaskInput) (*task.Task, error)
	ListTasks(context.Context) ([]*task.Task, error)
	GetTaskByID(context.Context, int64) (*task.Task, error)
	UpdateTask(context.Context, int64, task.Patch) (*task.Task, error)
	DeleteTask(context.Context, int64) error
}
