package inmemory

import (
	"context"
	"sync"
	"tasksAPI/internal/logger"
	"tasksAPI/internal/models/task"
	repo "tasksAPI/internal/repository"
	"time"
)

type TaskStorage struct {
	storage map[int64]*task.Task
	mtx     *sync.RWMutex
	ids     []int64
	nextID  int64
	now     func() time.Time
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[int64]*task.Task),
		mtx:     &sync.RWMutex{},
		ids:     []int64{},
		nextID:  1,
		now:     time.Now,
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	logger.Info("Repository: in-memory storage is always available")
	return nil
}

func (s *TaskStorage) Close() {}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	taskToCreate.ApplyDefaults(s.now())
	taskToCreate.ID = s.nextID
	s.nextID++

	s.storage[taskToCreate.ID] = taskToCreate.Clone()
	s.ids = append(s.ids, taskToCreate.ID)
	return nil
}

func (s *TaskStorage) List(ctx context.Context) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*task.Task, 0, len(s.ids))
	for _, id := range s.ids {
		res = append(res, s.storage[id].Clone())
	}
	return res, nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return taskToGet.Clone(), nil
}

func (s *TaskStorage) Update(ctx context.Context, id int64, patch task.Patch) (*task.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existing, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}

	updated := patch.Apply(existing)
	s.storage[id] = updated
	return updated.Clone(), nil
}

// hard delete, ids keep insertion order
func (s *TaskStorage) Delete(ctx context.Context, id int64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}

	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return nil
}
