package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/emberworks/daybook/internal/journal"
)

// Service provides task directory operations.
type Service interface {
	// Add appends a task to the end of a list.
	Add(list journal.ListType, text string) (*Task, error)

	// List returns a list's tasks in priority order.
	List(list journal.ListType) ([]*Task, error)

	// Get resolves a task reference.
	Get(list journal.ListType, id string) (*Task, error)

	// Complete marks a task done.
	Complete(list journal.ListType, id string) (*Task, error)

	// Remove deletes a task from its list.
	Remove(list journal.ListType, id string) error

	// Close closes the service.
	Close() error
}

type service struct {
	path   string
	logger *zap.Logger
	clock  journal.Clock
	ids    journal.IDGenerator

	mu     sync.Mutex
	lists  *Lists
	closed bool
}

// Config configures the task directory.
type Config struct {
	// Dir holds tasks.json; defaults to ~/.config/daybook.
	Dir string
	// Clock and IDs are injectable for tests.
	Clock journal.Clock
	IDs   journal.IDGenerator
}

// NewService creates a file-backed task directory.
func NewService(cfg *Config, logger *zap.Logger) (Service, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	dir := cfg.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".config", "daybook")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create task directory: %w", err)
	}

	s := &service{
		path:   filepath.Join(dir, "tasks.json"),
		logger: logger,
		clock:  cfg.Clock,
		ids:    cfg.IDs,
		lists:  &Lists{},
	}
	if s.clock == nil {
		s.clock = journal.SystemClock{}
	}
	if s.ids == nil {
		s.ids = journal.UUIDGenerator{}
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *service) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read task lists: %w", err)
	}
	if err := json.Unmarshal(data, s.lists); err != nil {
		return fmt.Errorf("task lists corrupted: %w", err)
	}
	return nil
}

// persist writes both lists atomically. Caller holds the lock.
func (s *service) persist() error {
	data, err := json.MarshalIndent(s.lists, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode task lists: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write task lists: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace task lists: %w", err)
	}
	return nil
}

func (s *service) checkOpen() error {
	if s.closed {
		return errors.New("service is closed")
	}
	return nil
}

// Add appends a task to the end of a list.
func (s *service) Add(list journal.ListType, text string) (*Task, error) {
	if err := ValidateList(list); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, ErrEmptyText
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	task := &Task{
		ID:        s.ids.NewID(),
		Text:      text,
		CreatedAt: s.clock.Now(),
	}
	s.lists.setList(list, append(s.lists.list(list), task))
	if err := s.persist(); err != nil {
		return nil, err
	}

	s.logger.Info("added task",
		zap.String("list", string(list)),
		zap.String("task_id", task.ID),
	)
	return task, nil
}

// List returns a list's tasks in priority order.
func (s *service) List(list journal.ListType) ([]*Task, error) {
	if err := ValidateList(list); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	src := s.lists.list(list)
	out := make([]*Task, len(src))
	for i, t := range src {
		copied := *t
		out[i] = &copied
	}
	return out, nil
}

// Get resolves a task reference.
func (s *service) Get(list journal.ListType, id string) (*Task, error) {
	if err := ValidateList(list); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	task := s.lists.find(list, id)
	if task == nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrTaskNotFound, list, id)
	}
	copied := *task
	return &copied, nil
}

// Complete marks a task done. Completing a done task is a no-op.
func (s *service) Complete(list journal.ListType, id string) (*Task, error) {
	if err := ValidateList(list); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	task := s.lists.find(list, id)
	if task == nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrTaskNotFound, list, id)
	}
	if !task.Done {
		task.Done = true
		task.CompletedAt = s.clock.Now()
		if err := s.persist(); err != nil {
			return nil, err
		}
		s.logger.Info("completed task",
			zap.String("list", string(list)),
			zap.String("task_id", id),
		)
	}
	copied := *task
	return &copied, nil
}

// Remove deletes a task from its list.
func (s *service) Remove(list journal.ListType, id string) error {
	if err := ValidateList(list); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}

	src := s.lists.list(list)
	for i, t := range src {
		if t.ID == id {
			s.lists.setList(list, append(src[:i], src[i+1:]...))
			if err := s.persist(); err != nil {
				return err
			}
			s.logger.Info("removed task",
				zap.String("list", string(list)),
				zap.String("task_id", id),
			)
			return nil
		}
	}
	return fmt.Errorf("%w: %s/%s", ErrTaskNotFound, list, id)
}

// Close closes the service.
func (s *service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
