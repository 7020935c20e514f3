package handlers

import (
	"errors"
	"net/http"
	"tasksAPI/internal/logger"
	"tasksAPI/internal/service"

	"go.uber.org/zap"
)

const (
	codeInvalidBody        = "INVALID_BODY"
	codeUnsupportedMedia   = "UNSUPPORTED_MEDIA_TYPE"
	codeInternalError      = "INTERNAL_ERROR"
	codeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// handleServiceError writes business errors with their mapped status and
// anything else as a 500.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	var businessErr *service.BusinessError
	if errors.As(err, &businessErr) {
		statusCode := mapBusinessErrorToHTTP(businessErr.Code)

		logger.Warn("HTTP: business error",
			zap.String("operation", operation),
			zap.String("error_code", businessErr.Code),
			zap.Int("http_status", statusCode))

		responseWithFields(w, statusCode,
			toPayload("error", businessErr.Code),
			toPayload("message", businessErr.Message),
			toPayload("details", businessErr.Details),
		)
		return
	}

	logger.Error("HTTP: service error", err,
		zap.String("operation", operation),
		zap.String("client_ip", r.RemoteAddr))

	responseWithError(w, http.StatusInternalServerError, codeInternalError, "internal server error")
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidationError:
		return http.StatusUnprocessableEntity
	case service.CodeEmptyUpdate:
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}
