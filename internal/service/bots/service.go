// Package bots implements bot instance lookup and registration.
package bots

import (
	"context"
	"errors"

	"github.com/ignite/botconsole/internal/domain"
)

// ErrNotFound is returned when no active bot carries the abbreviation.
var ErrNotFound = errors.New("bot not found")

// Repository defines the data access contract for bots.
type Repository interface {
	// GetByAbbreviation returns the active bot with the given abbreviation.
	GetByAbbreviation(ctx context.Context, abbr string) (*domain.Bot, error)

	// List returns all bots, active first.
	List(ctx context.Context) ([]domain.Bot, error)
}

// Service implements bot lookup logic.
type Service struct {
	repo Repository
}

// NewService creates a bot service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetByAbbreviation returns the active bot addressed by abbr.
func (s *Service) GetByAbbreviation(ctx context.Context, abbr string) (*domain.Bot, error) {
	return s.repo.GetByAbbreviation(ctx, abbr)
}

// List returns all registered bots.
func (s *Service) List(ctx context.Context) ([]domain.Bot, error) {
	return s.repo.List(ctx)
}
