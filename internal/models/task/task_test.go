package task_test

import (
	"encoding/json"
	"tasksAPI/internal/models/task"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func mustDate(t *testing.T, raw string) task.Date {
	t.Helper()
	d, err := task.ParseDate(raw)
	require.NoError(t, err)
	return d
}

func TestParseStatus(t *testing.T) {
	s, err := task.ParseStatus("completed")
	require.NoError(t, err)
	assert.Equal(t, task.StatusCompleted, s)

	_, err = task.ParseStatus("done")
	assert.Error(t, err)

	assert.False(t, task.Status("").Valid())
}

func TestNew_Defaults(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 45, 0, 0, time.UTC)

	created := task.New("Write report", now)

	assert.Equal(t, "Write report", created.Title)
	assert.Nil(t, created.Description)
	assert.Equal(t, task.StatusPending, created.Status)
	assert.Equal(t, "2024-03-15", created.Date.String())
}

func TestNew_WithOptions(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	status := task.StatusCompleted
	date := mustDate(t, "2024-01-02")

	created := task.New("Write report", now,
		task.WithDescription(strPtr("quarterly")),
		task.WithStatus(&status),
		task.WithDate(&date),
	)

	require.NotNil(t, created.Description)
	assert.Equal(t, "quarterly", *created.Description)
	assert.Equal(t, task.StatusCompleted, created.Status)
	assert.Equal(t, "2024-01-02", created.Date.String())
}

func TestNew_KeepsMinimumDate(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	date := mustDate(t, "0001-01-01")

	created := task.New("Archive", now, task.WithDate(&date))

	assert.Equal(t, "0001-01-01", created.Date.String())
	assert.True(t, created.Date.IsSet())

	created.ApplyDefaults(now)
	assert.Equal(t, "0001-01-01", created.Date.String())
}

func TestNew_NilOptionsUseDefaults(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	created := task.New("Write report", now,
		task.WithDescription(nil),
		task.WithStatus(nil),
		task.WithDate(nil),
	)

	assert.Nil(t, created.Description)
	assert.Equal(t, task.StatusPending, created.Status)
	assert.Equal(t, "2024-03-15", created.Date.String())
}

func TestDate_IsSet(t *testing.T) {
	assert.False(t, task.Date{}.IsSet())
	assert.True(t, mustDate(t, "0001-01-01").IsSet())
	assert.True(t, task.DateOf(time.Time{}).IsSet())
}

func TestDate_JSON(t *testing.T) {
	d := mustDate(t, "2023-12-31")

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `"2023-12-31"`, string(data))

	var decoded task.Date
	require.NoError(t, json.Unmarshal([]byte(`"2023-12-31"`), &decoded))
	assert.Equal(t, d, decoded)

	assert.Error(t, json.Unmarshal([]byte(`"31/12/2023"`), &decoded))
	assert.Error(t, json.Unmarshal([]byte(`20231231`), &decoded))
}

func TestDateOf_DropsTimeOfDay(t *testing.T) {
	local := time.FixedZone("UTC+3", 3*60*60)
	d := task.DateOf(time.Date(2024, 5, 1, 23, 30, 0, 0, local))

	assert.Equal(t, "2024-05-01", d.String())
	assert.Equal(t, time.UTC, d.Location())
}

func TestOptional_Unmarshal(t *testing.T) {
	var payload struct {
		Title       task.Optional[string] `json:"title"`
		Description task.Optional[string] `json:"description"`
		Status      task.Optional[string] `json:"status"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"title": "X", "description": null}`), &payload))

	assert.Equal(t, task.Some("X"), payload.Title)
	assert.True(t, payload.Description.Set)
	assert.True(t, payload.Description.Null)
	assert.False(t, payload.Status.Set)
}

func TestPatch_Empty(t *testing.T) {
	assert.True(t, task.Patch{}.Empty())
	assert.False(t, task.Patch{Description: task.Null[string]()}.Empty())
}

func TestPatch_Apply(t *testing.T) {
	stored := &task.Task{
		ID:          7,
		Title:       "Original",
		Description: strPtr("keep me"),
		Status:      task.StatusPending,
		Date:        mustDate(t, "2024-02-01"),
	}

	t.Run("only present fields change", func(t *testing.T) {
		patch := task.Patch{
			Title:  task.Some("X"),
			Status: task.Some(task.StatusCompleted),
		}

		updated := patch.Apply(stored)

		assert.Equal(t, int64(7), updated.ID)
		assert.Equal(t, "X", updated.Title)
		assert.Equal(t, task.StatusCompleted, updated.Status)
		require.NotNil(t, updated.Description)
		assert.Equal(t, "keep me", *updated.Description)
		assert.Equal(t, stored.Date, updated.Date)
	})

	t.Run("null description clears it", func(t *testing.T) {
		updated := task.Patch{Description: task.Null[string]()}.Apply(stored)
		assert.Nil(t, updated.Description)
	})

	t.Run("default-equivalent values are applied", func(t *testing.T) {
		updated := task.Patch{Status: task.Some(task.StatusPending)}.Apply(stored)
		assert.Equal(t, task.StatusPending, updated.Status)
	})

	t.Run("stored task is not mutated", func(t *testing.T) {
		task.Patch{
			Title:       task.Some("changed"),
			Description: task.Some("changed"),
		}.Apply(stored)

		assert.Equal(t, "Original", stored.Title)
		assert.Equal(t, "keep me", *stored.Description)
	})
}
