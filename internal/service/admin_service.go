package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fylgde141/bookswap-api/internal/domain"
	"github.com/fylgde141/bookswap-api/internal/store"
)

// Stats aggregates marketplace-wide counters for the admin dashboard.
type Stats struct {
	TotalBooks     int64 `json:"total_books"`
	TotalDeals     int64 `json:"total_deals"`
	CompletedDeals int64 `json:"completed_deals"`
}

// AdminService exposes the operations reserved for administrators.
// Both operations verify the acting user's admin flag against the store;
// there is no operation that grants the first admin — that flag is seeded
// out-of-band by an operator.
type AdminService interface {
	// GetStats returns marketplace counters.
	// Returns ErrNotAdmin if the actor is not an administrator.
	GetStats(ctx context.Context, actorID int64) (*Stats, error)

	// Promote grants the admin flag to the target user.
	// Returns ErrNotAdmin if the actor is not an administrator and
	// store.ErrUserNotFound if the target does not exist.
	Promote(ctx context.Context, actorID, targetID int64) error
}

// adminService is the store-backed implementation of AdminService.
type adminService struct {
	users  store.UserStore
	books  store.BookStore
	deals  store.DealStore
	logger *slog.Logger
}

// Ensure adminService implements AdminService interface
var _ AdminService = (*adminService)(nil)

// NewAdminService creates a new AdminService with the given dependencies.
func NewAdminService(
	users store.UserStore,
	books store.BookStore,
	deals store.DealStore,
	logger *slog.Logger,
) (AdminService, error) {
	if users == nil {
		return nil, fmt.Errorf("user store cannot be nil")
	}
	if books == nil {
		return nil, fmt.Errorf("book store cannot be nil")
	}
	if deals == nil {
		return nil, fmt.Errorf("deal store cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &adminService{
		users:  users,
		books:  books,
		deals:  deals,
		logger: logger.With(slog.String("component", "admin_service")),
	}, nil
}

// GetStats implements AdminService.GetStats
func (s *adminService) GetStats(ctx context.Context, actorID int64) (*Stats, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	totalBooks, err := s.books.Count(ctx)
	if err != nil {
		return nil, err
	}

	totalDeals, err := s.deals.Count(ctx)
	if err != nil {
		return nil, err
	}

	completedDeals, err := s.deals.CountByStatus(ctx, domain.DealStatusCompleted)
	if err != nil {
		return nil, err
	}

	return &Stats{
		TotalBooks:     totalBooks,
		TotalDeals:     totalDeals,
		CompletedDeals: completedDeals,
	}, nil
}

// Promote implements AdminService.Promote
func (s *adminService) Promote(ctx context.Context, actorID, targetID int64) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}

	if err := s.users.SetAdmin(ctx, targetID, true); err != nil {
		return err
	}

	s.logger.Info("user promoted to admin",
		slog.Int64("actor_id", actorID),
		slog.Int64("target_id", targetID))
	return nil
}

// requireAdmin loads the acting user and verifies the admin flag.
func (s *adminService) requireAdmin(ctx context.Context, actorID int64) error {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return err
	}

	if !actor.IsAdmin {
		s.logger.Warn("admin operation attempted by non-admin",
			slog.Int64("actor_id", actorID))
		return ErrNotAdmin
	}

	return nil
}
