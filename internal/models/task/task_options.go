package task

import "time"

type TaskOption func(*Task)

// New builds a task ready for insertion. Options built from nil pointers are
// skipped, so the defaults from ApplyDefaults stay in place.
func New(title string, now time.Time, options ...TaskOption) *Task {
	t := &Task{Title: title}
	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}
	t.ApplyDefaults(now)
	return t
}

func WithDescription(description *string) TaskOption {
	if description == nil {
		return nil
	}
	return func(task *Task) {
		d := *description
		task.Description = &d
	}
}

func WithStatus(status *Status) TaskOption {
	if status == nil {
		return nil
	}
	return func(task *Task) {
		task.Status = *status
	}
}

func WithDate(date *Date) TaskOption {
	if date == nil {
		return nil
	}
	return func(task *Task) {
		task.Date = *date
	}
}
