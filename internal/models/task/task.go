package task

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage format of Task.Date.
const DateLayout = "2006-01-02"

type Task struct {
	ID          int64   `json:"id" db:"id"`
	Title       string  `json:"title" db:"title"`
	Description *string `json:"description" db:"description"`
	Status      Status  `json:"status" db:"status"`
	Date        Date    `json:"date" db:"date"`
}

type Status string

const StatusPending Status = "pending"
const StatusCompleted Status = "completed"

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown status %q: expected %q or %q", raw, StatusPending, StatusCompleted)
	}
	return s, nil
}

// ApplyDefaults fills the fields a store is expected to default on insert.
func (t *Task) ApplyDefaults(now time.Time) {
	if t.Status == "" {
		t.Status = StatusPending
	}
	if !t.Date.IsSet() {
		t.Date = DateOf(now)
	}
}

func (t *Task) Clone() *Task {
	c := *t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	return &c
}
