package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/tasklist/internal/kv"
	"github.com/adanyl0v/tasklist/internal/models"
)

const DefaultStoreKey = "tasks"

type taskStoreImpl struct {
	logger zerolog.Logger
	kv     kv.Store
	key    string
}

func NewTaskStore(
	logger zerolog.Logger,
	store kv.Store,
	key string,
) TaskStore {
	if key == "" {
		key = DefaultStoreKey
	}
	return &taskStoreImpl{
		logger: logger,
		kv:     store,
		key:    key,
	}
}

func (s *taskStoreImpl) Load(ctx context.Context) ([]models.Task, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("key", s.key).
			Msg("failed to read tasks")
		return []models.Task{}, &PersistenceError{Op: "load", Key: s.key, Err: err}
	}
	if !ok {
		s.logger.Info().
			Str("key", s.key).
			Msg("no stored tasks found")
		return []models.Task{}, nil
	}

	tasks, err := decodeTasks(raw)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("key", s.key).
			Msg("failed to decode tasks")
		return []models.Task{}, &PersistenceError{Op: "load", Key: s.key, Err: err}
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Str("key", s.key).
		Msg("decoded tasks")

	s.logger.Info().
		Int("count", len(tasks)).
		Msg("loaded tasks")
	return tasks, nil
}

func (s *taskStoreImpl) Save(ctx context.Context, tasks []models.Task) error {
	raw, err := encodeTasks(tasks)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to encode tasks")
		return &PersistenceError{Op: "save", Key: s.key, Err: err}
	}

	err = s.kv.Set(ctx, s.key, raw)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("key", s.key).
			Msg("failed to write tasks")
		return &PersistenceError{Op: "save", Key: s.key, Err: err}
	}

	s.logger.Info().
		Int("count", len(tasks)).
		Msg("saved tasks")
	return nil
}

func encodeTasks(tasks []models.Task) (string, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	b, err := json.Marshal(tasks)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeTasks(raw string) ([]models.Task, error) {
	var tasks []models.Task
	err := json.Unmarshal([]byte(raw), &tasks)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedTasks, err)
	}
	if tasks == nil {
		return []models.Task{}, nil
	}

	seen := make(map[string]struct{}, len(tasks))
	for i := range tasks {
		task := &tasks[i]
		switch {
		case task.ID == "":
			return nil, fmt.Errorf("%w: task %d has no id", ErrMalformedTasks, i)
		case strings.TrimSpace(task.Title) == "":
			return nil, fmt.Errorf("%w: task %q has no title", ErrMalformedTasks, task.ID)
		case !models.ValidDueDate(task.DueDate):
			return nil, fmt.Errorf("%w: task %q has no valid due date", ErrMalformedTasks, task.ID)
		case !task.Priority.Valid():
			return nil, fmt.Errorf("%w: task %q has priority %q", ErrMalformedTasks, task.ID, task.Priority)
		case !task.Status.Valid():
			return nil, fmt.Errorf("%w: task %q has status %q", ErrMalformedTasks, task.ID, task.Status)
		}
		if _, ok := seen[task.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate task id %q", ErrMalformedTasks, task.ID)
		}
		seen[task.ID] = struct{}{}
		task.DueDate = models.NormalizeDueDate(task.DueDate)
	}
	return tasks, nil
}
