package sqlite

import (
	"context"
	"errors"
	"fmt"
	"tasksAPI/internal/logger"
	"tasksAPI/internal/models/task"
	repo "tasksAPI/internal/repository"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// taskRow is the persisted shape of a task. Dates are kept as YYYY-MM-DD text.
type taskRow struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"`
	Title       string  `gorm:"not null;index"`
	Description *string
	Status      string `gorm:"size:16;not null;default:pending"`
	Date        string `gorm:"size:10;not null"`
}

func (taskRow) TableName() string {
	return "tasks"
}

type Storage struct {
	db   *gorm.DB
	path string
	now  func() time.Time
}

// New opens the database at path (":memory:" is allowed) and creates the
// tasks table if it does not exist yet.
func New(path string) (*Storage, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Error("Repository: failed to open SQLite", err, zap.String("path", path))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	// single writer; also keeps ":memory:" on one connection
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&taskRow{}); err != nil {
		_ = sqlDB.Close()
		logger.Error("Repository: SQLite schema migration failed", err)
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	logger.Info("Repository: SQLite ready", zap.String("path", path))
	return &Storage{db: db, path: path, now: time.Now}, nil
}

func (s *Storage) Close() {
	sqlDB, err := s.db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("Repository: failed to close SQLite", err)
		return
	}
	logger.Info("Repository: SQLite closed", zap.String("path", s.path))
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		logger.Error("Repository: ping failed", err)
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	taskToCreate.ApplyDefaults(s.now())

	row := toRow(taskToCreate)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		logger.Error("Repository: failed to insert task", err)
		return fmt.Errorf("insert task: %w", err)
	}

	taskToCreate.ID = row.ID
	return nil
}

func (s *Storage) List(ctx context.Context) ([]*task.Task, error) {
	var rows []taskRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		logger.Error("Repository: failed to list tasks", err)
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	tasks := make([]*task.Task, 0, len(rows))
	for _, row := range rows {
		t, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (s *Storage) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	var row taskRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: failed to get task", err, zap.Int64("task_id", id))
		return nil, fmt.Errorf("get task: %w", err)
	}
	return fromRow(row)
}

func (s *Storage) Update(ctx context.Context, id int64, patch task.Patch) (*task.Task, error) {
	var updated *task.Task

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row taskRow
		if err := tx.First(&row, "id = ?", id).Error; err != nil {
			return err
		}

		existing, err := fromRow(row)
		if err != nil {
			return err
		}

		updated = patch.Apply(existing)
		next := toRow(updated)
		return tx.Save(&next).Error
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: failed to update task", err, zap.Int64("task_id", id))
		return nil, fmt.Errorf("update task: %w", err)
	}
	return updated, nil
}

func (s *Storage) Delete(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Delete(&taskRow{}, "id = ?", id)
	if err := result.Error; err != nil {
		logger.Error("Repository: failed to delete task", err, zap.Int64("task_id", id))
		return fmt.Errorf("delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func toRow(t *task.Task) taskRow {
	return taskRow{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Date:        t.Date.String(),
	}
}

func fromRow(row taskRow) (*task.Task, error) {
	date, err := task.ParseDate(row.Date)
	if err != nil {
		return nil, fmt.Errorf("task %d: %w", row.ID, err)
	}
	return &task.Task{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Status:      task.Status(row.Status),
		Date:        date,
	}, nil
}
