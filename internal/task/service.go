package task

import (
	"context"
	"fmt"
	"time"
)

// Service implements the task operations the CLI exposes on top of a Store.
// It owns the read-modify-write around skill mutation so stores only need
// plain replace semantics.
type Service struct {
	store Store
}

// NewService creates a Service backed by the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Add validates and persists a new task for the given day.
func (s *Service) Add(ctx context.Context, content string, date time.Time) (*Task, error) {
	t, err := New(content, date)
	if err != nil {
		return nil, err
	}
	if err := s.store.InsertTask(ctx, t); err != nil {
		return nil, fmt.Errorf("inserting task: %w", err)
	}
	return t, nil
}

// Delete removes a task. Deleting an absent task succeeds.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

// AddSkills unions the given labels into the task's skill set and persists
// the result. Returns ErrTaskNotFound if the task does not exist.
func (s *Service) AddSkills(ctx context.Context, id string, skills ...string) (*Task, error) {
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading task: %w", err)
	}
	if t == nil {
		return nil, ErrTaskNotFound
	}

	t.AddSkills(skills...)
	updated, err := s.store.UpdateTaskSkills(ctx, id, t.Skills)
	if err != nil {
		return nil, fmt.Errorf("updating skills: %w", err)
	}
	return updated, nil
}

// RemoveSkill removes one label from the task's skill set. Removing a label
// the task does not carry is a no-op.
func (s *Service) RemoveSkill(ctx context.Context, id, skill string) (*Task, error) {
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading task: %w", err)
	}
	if t == nil {
		return nil, ErrTaskNotFound
	}
	if !t.HasSkill(skill) {
		return t, nil
	}

	t.RemoveSkill(skill)
	updated, err := s.store.UpdateTaskSkills(ctx, id, t.Skills)
	if err != nil {
		return nil, fmt.Errorf("updating skills: %w", err)
	}
	return updated, nil
}

// List returns all recorded tasks in chronological order.
func (s *Service) List(ctx context.Context) ([]*Task, error) {
	return s.store.ListTasks(ctx)
}

// OnDay returns the tasks recorded on the given calendar day.
func (s *Service) OnDay(ctx context.Context, day time.Time) ([]*Task, error) {
	return s.store.TasksOnDay(ctx, day)
}

// InRange returns the tasks recorded in [start, end] inclusive.
func (s *Service) InRange(ctx context.Context, start, end time.Time) ([]*Task, error) {
	return s.store.TasksInRange(ctx, start, end)
}
