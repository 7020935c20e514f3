package service

import "fmt"

const (
	CodeNotFound        = "NOT_FOUND"
	CodeValidationError = "VALIDATION_ERROR"
	CodeEmptyUpdate     = "EMPTY_UPDATE"
)

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	busErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		busErr.Details[detail.Key] = detail.Payload
	}

	return busErr
}

func NewNotFound(id int64, err error) *BusinessError {
	return &BusinessError{
		Code:    CodeNotFound,
		Message: "Task not found",
		Details: map[string]any{
			"resource": "task",
			"id":       id,
		},
		Err: err,
	}
}

func NewValidationError(field, reason string) *BusinessError {
	return &BusinessError{
		Code:    CodeValidationError,
		Message: fmt.Sprintf("invalid value for field '%s': %s", field, reason),
		Details: map[string]any{
			"field":  field,
			"reason": reason,
		},
	}
}

// UpdatableFields lists the body fields a task update accepts.
var UpdatableFields = []string{"title", "description", "status", "date"}

func NewEmptyUpdate(id int64) *BusinessError {
	return NewBusinessError(CodeEmptyUpdate, "No fields to update",
		ToDetail("id", id),
		ToDetail("allowed_fields", UpdatableFields),
	)
}
