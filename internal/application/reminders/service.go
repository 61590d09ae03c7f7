// Package reminders implements the tax-deadline use-cases over the flat
// collection store.
package reminders

import (
	"context"
	"sync"
	"time"

	"github.com/fiscalia/fiscalia-api/internal/application"
	domain "github.com/fiscalia/fiscalia-api/internal/domain/reminders"
)

// Service implements CRUD and filtering over the reminder collection. Every
// mutation is a read-modify-write of the whole collection; the mutex
// serializes those cycles so concurrent writers cannot silently drop each
// other's changes.
type Service struct {
	mu    sync.Mutex
	store domain.Store
	clock application.Clock
}

func NewService(store domain.Store, clock application.Clock) *Service {
	if clock == nil {
		clock = application.SystemClock{}
	}
	return &Service{store: store, clock: clock}
}

// List returns the collection with stale entries dropped: a non-recurring
// reminder due before the first day of the current month is excluded, while
// recurring reminders are always kept regardless of date.
func (s *Service) List(ctx context.Context) ([]domain.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return s.filterCurrent(all), nil
}

// ByPriority filters the current listing by priority.
func (s *Service) ByPriority(ctx context.Context, priority string) ([]domain.Reminder, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Reminder, 0, len(list))
	for _, r := range list {
		if r.Priority == priority {
			out = append(out, r)
		}
	}
	return out, nil
}

// ByType filters the current listing by jurisdiction type.
func (s *Service) ByType(ctx context.Context, typ string) ([]domain.Reminder, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Reminder, 0, len(list))
	for _, r := range list {
		if r.Type == typ {
			out = append(out, r)
		}
	}
	return out, nil
}

// Create assigns the next integer id (max existing + 1, or 1 for an empty
// collection) and persists the new reminder.
func (s *Service) Create(ctx context.Context, r domain.Reminder) (*domain.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	next := 1
	for _, existing := range all {
		if existing.ID >= next {
			next = existing.ID + 1
		}
	}
	now := s.clock.Now()
	r.ID = next
	r.Completed = false
	r.CompletedAt = nil
	r.CreatedAt = &now

	all = append(all, r)
	if err := s.store.Replace(ctx, all); err != nil {
		return nil, err
	}
	return &r, nil
}

// Update applies a partial patch to the reminder with the given id.
func (s *Service) Update(ctx context.Context, id int, patch domain.Patch) (*domain.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(all, id)
	if idx < 0 {
		return nil, domain.ErrNotFound
	}

	r := &all[idx]
	if patch.Title != nil {
		r.Title = *patch.Title
	}
	if patch.Description != nil {
		r.Description = *patch.Description
	}
	if patch.DueDate != nil {
		r.DueDate = *patch.DueDate
	}
	if patch.Type != nil {
		r.Type = *patch.Type
	}
	if patch.Priority != nil {
		r.Priority = *patch.Priority
	}
	if patch.Recurring != nil {
		r.Recurring = *patch.Recurring
	}
	if patch.Completed != nil {
		r.Completed = *patch.Completed
	}
	now := s.clock.Now()
	r.UpdatedAt = &now

	if err := s.store.Replace(ctx, all); err != nil {
		return nil, err
	}
	out := *r
	return &out, nil
}

// Delete removes the reminder with the given id.
func (s *Service) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(all, id)
	if idx < 0 {
		return domain.ErrNotFound
	}
	all = append(all[:idx], all[idx+1:]...)
	return s.store.Replace(ctx, all)
}

// MarkCompleted sets the completion flag and timestamp. Shares the
// ErrNotFound contract of the other id-targeted operations.
func (s *Service) MarkCompleted(ctx context.Context, id int) (*domain.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexOf(all, id)
	if idx < 0 {
		return nil, domain.ErrNotFound
	}
	now := s.clock.Now()
	all[idx].Completed = true
	all[idx].CompletedAt = &now

	if err := s.store.Replace(ctx, all); err != nil {
		return nil, err
	}
	out := all[idx]
	return &out, nil
}

func (s *Service) filterCurrent(all []domain.Reminder) []domain.Reminder {
	now := s.clock.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	out := make([]domain.Reminder, 0, len(all))
	for _, r := range all {
		if r.Recurring {
			out = append(out, r)
			continue
		}
		due, ok := r.Due()
		if !ok || !due.Before(monthStart) {
			out = append(out, r)
		}
	}
	return out
}

func indexOf(all []domain.Reminder, id int) int {
	for i, r := range all {
		if r.ID == id {
			return i
		}
	}
	return -1
}
