package dto

import (
	"tasksAPI/internal/models/task"
	"tasksAPI/internal/service"
)

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Date        *task.Date `json:"date"`
}

func (r CreateTaskRequest) ToInput() service.CreateTaskInput {
	in := service.CreateTaskInput{
		Title:       r.Title,
		Description: r.Description,
	}
	if r.Status != nil {
		status := task.Status(*r.Status)
		in.Status = &status
	}
	if r.Date != nil {
		date := *r.Date
		in.Date = &date
	}
	return in
}

// UpdateTaskRequest keeps field presence, so {"description": null} and {}
// decode to different patches.
type UpdateTaskRequest struct {
	Title       task.Optional[string]      `json:"title"`
	Description task.Optional[string]      `json:"description"`
	Status      task.Optional[task.Status] `json:"status"`
	Date        task.Optional[task.Date]   `json:"date"`
}

func (r UpdateTaskRequest) ToPatch() task.Patch {
	return task.Patch{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Date:        r.Date,
	}
}

type TaskResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	Date        string  `json:"date"`
}

func FromTask(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Date:        t.Date.String(),
	}
}

func FromTaskList(tasks []*task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}
