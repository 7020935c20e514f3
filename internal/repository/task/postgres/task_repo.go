package postgres

import (
	"context"
	"errors"
	"fmt"
	"tasksAPI/internal/config"
	"tasksAPI/internal/logger"
	"tasksAPI/internal/models/task"
	repo "tasksAPI/internal/repository"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const slowQuery = 100 * time.Millisecond

const selectColumns = `id, title, description, status, date`

type Storage struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, cfg config.DatabaseConfig) (*Storage, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		logger.Error("Repository: failed to parse database config", err)
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.MaxConnections > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConnections)
	}
	if cfg.MinConnections > 0 {
		poolConfig.MinConns = int32(cfg.MinConnections)
	}
	if cfg.IdleTimeout > 0 {
		poolConfig.MaxConnIdleTime = cfg.IdleTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("Repository: failed to create pool", err)
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Error("Repository: ping failed", err)
		return nil, fmt.Errorf("ping: %w", err)
	}

	logger.Info("Repository: connected to PostgreSQL")
	return &Storage{pool: pool}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: PostgreSQL connections closed")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: ping failed", err)
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()

	taskToCreate.ApplyDefaults(start)

	query := `INSERT INTO tasks (title, description, status, date)
				VALUES ($1, $2, $3, $4)
				RETURNING id`

	err := s.pool.QueryRow(ctx, query,
		taskToCreate.Title,
		taskToCreate.Description,
		string(taskToCreate.Status),
		taskToCreate.Date.Time,
	).Scan(&taskToCreate.ID)

	if err != nil {
		logger.Error("Repository: failed to insert task", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("insert task: %w", err)
	}

	warnIfSlow(start, "insert")
	return nil
}

func (s *Storage) List(ctx context.Context) ([]*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + selectColumns + ` FROM tasks ORDER BY id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		logger.Error("Repository: failed to list tasks", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			logger.Error("Repository: failed to scan task", err)
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: row iteration failed", err)
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	warnIfSlow(start, "list")
	return tasks, nil
}

func (s *Storage) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + selectColumns + ` FROM tasks WHERE id = $1`

	t, err := scanTask(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: failed to get task", err, zap.Int64("task_id", id))
		return nil, fmt.Errorf("get task: %w", err)
	}

	warnIfSlow(start, "get")
	return t, nil
}

// Update locks the row, merges the patch into it and writes every column
// back in the same transaction.
func (s *Storage) Update(ctx context.Context, id int64, patch task.Patch) (*task.Task, error) {
	start := time.Now()

	var updated *task.Task
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		existing, err := scanTask(tx.QueryRow(ctx,
			`SELECT `+selectColumns+` FROM tasks WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}

		updated = patch.Apply(existing)

		_, err = tx.Exec(ctx, `UPDATE tasks
				SET title = $1,
					description = $2,
					status = $3,
					date = $4
				WHERE id = $5`,
			updated.Title,
			updated.Description,
			string(updated.Status),
			updated.Date.Time,
			id,
		)
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: failed to update task", err, zap.Int64("task_id", id))
		return nil, fmt.Errorf("update task: %w", err)
	}

	warnIfSlow(start, "update")
	return updated, nil
}

func (s *Storage) Delete(ctx context.Context, id int64) error {
	start := time.Now()

	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: failed to delete task", err, zap.Int64("task_id", id))
		return fmt.Errorf("delete task: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	warnIfSlow(start, "delete")
	return nil
}

func scanTask(row pgx.Row) (*task.Task, error) {
	var (
		t      task.Task
		status string
		date   time.Time
	)

	if err := row.Scan(&t.ID, &t.Title, &t.Description, &status, &date); err != nil {
		return nil, err
	}

	t.Status = task.Status(status)
	t.Date = task.DateOf(date)
	return &t, nil
}

func warnIfSlow(start time.Time, op string) {
	if elapsed := time.Since(start); elapsed > slowQuery {
		logger.Warn("Repository: slow query", zap.String("operation", op), zap.Duration("ms", elapsed))
	}
}
