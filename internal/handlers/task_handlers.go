package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"tasksAPI/internal/handlers/dto"
	"tasksAPI/internal/logger"
	"time"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

const serviceName = "task-tracker"

type TaskHandler struct {
	TaskService Service
}

func NewTaskHandler(taskService Service) *TaskHandler {
	return &TaskHandler{
		TaskService: taskService,
	}
}

func (s *TaskHandler) Root(w http.ResponseWriter, r *http.Request) {
	responseWithFields(w, http.StatusOK, toPayload("message", "Task API is running"))
}

func (s *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: health check")

	if err := s.TaskService.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: health check failed", err)
		responseWithFields(w, http.StatusServiceUnavailable,
			toPayload("status", "unavailable"),
			toPayload("service", serviceName),
			toPayload("error", codeServiceUnavailable),
		)
		return
	}

	responseWithFields(w, http.StatusOK,
		toPayload("status", "ok"),
		toPayload("service", serviceName),
	)
}

func (s *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: unsupported content type",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, codeUnsupportedMedia, "Content-Type must be application/json")
		return
	}

	var request dto.CreateTaskRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&request); err != nil {
		logger.Warn("HTTP: failed to decode JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnprocessableEntity, codeInvalidBody, "invalid request body: "+err.Error())
		return
	}

	created, err := s.TaskService.CreateTask(r.Context(), request.ToInput())
	if err != nil {
		handleServiceError(w, r, err, "create_task")
		return
	}

	logger.Info("HTTP_OUT: task created",
		zap.Int64("task_id", created.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, dto.FromTask(created))
}

func (s *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.TaskService.ListTasks(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "list_tasks")
		return
	}

	responseWithJSON(w, http.StatusOK, dto.FromTaskList(tasks))
}

func (s *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseTaskID(r)
	if err != nil {
		logger.Warn("HTTP: invalid id", zap.Error(err), zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusUnprocessableEntity, codeInvalidBody, err.Error())
		return
	}

	t, err := s.TaskService.GetTaskByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "get_task")
		return
	}

	responseWithJSON(w, http.StatusOK, dto.FromTask(t))
}

func (s *TaskHandler) UpdateTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := parseTaskID(r)
	if err != nil {
		logger.Warn("HTTP: invalid id", zap.Error(err), zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusUnprocessableEntity, codeInvalidBody, err.Error())
		return
	}

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: unsupported content type",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, codeUnsupportedMedia, "Content-Type must be application/json")
		return
	}

	var request dto.UpdateTaskRequest
	// an empty body is an empty patch, the service decides what that means
	err = json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&request)
	if err != nil && !errors.Is(err, io.EOF) {
		logger.Warn("HTTP: failed to decode JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnprocessableEntity, codeInvalidBody, "invalid update payload: "+err.Error())
		return
	}

	updated, err := s.TaskService.UpdateTask(r.Context(), id, request.ToPatch())
	if err != nil {
		handleServiceError(w, r, err, "update_task")
		return
	}

	logger.Info("HTTP_OUT: task updated",
		zap.Int64("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.FromTask(updated))
}

func (s *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseTaskID(r)
	if err != nil {
		logger.Warn("HTTP: invalid id", zap.Error(err), zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusUnprocessableEntity, codeInvalidBody, err.Error())
		return
	}

	if err := s.TaskService.DeleteTask(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "delete_task")
		return
	}

	logger.Info("HTTP_OUT: task deleted",
		zap.Int64("task_id", id),
		zap.Int("http_status", http.StatusNoContent))

	responseNoContent(w)
}
