package task

import (
	"bytes"
	"encoding/json"
)

var jsonNull = []byte("null")

// Optional records whether a field was present in a payload and whether it
// was an explicit null, separately from its value.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// Patch is a sparse set of field overrides for a stored task.
type Patch struct {
	Title       Optional[string]
	Description Optional[string]
	Status      Optional[Status]
	Date        Optional[Date]
}

func (p Patch) Empty() bool {
	return !p.Title.Set && !p.Description.Set && !p.Status.Set && !p.Date.Set
}

// Apply merges the present fields of p into a copy of t. Absent fields keep
// their stored value; a null description clears it.
func (p Patch) Apply(t *Task) *Task {
	res := t.Clone()

	if p.Title.Set {
		res.Title = p.Title.Value
	}
	if p.Description.Set {
		if p.Description.Null {
			res.Description = nil
		} else {
			d := p.Description.Value
			res.Description = &d
		}
	}
	if p.Status.Set {
		res.Status = p.Status.Value
	}
	if p.Date.Set {
		res.Date = p.Date.Value
	}
	return res
}
