package store

import (
	"context"

	"github.com/fylgde141/bookswap-api/internal/domain"
)

// ReviewStore defines the interface for review data persistence.
// Reviews are append-only; there is no update or delete.
type ReviewStore interface {
	// Create saves a new review to the store, assigning its ID.
	// Returns ErrInvalidEntity if the author or book does not exist.
	Create(ctx context.Context, review *domain.Review) error

	// ListByBook returns all reviews for the given book.
	// Returns an empty slice if the book has no reviews.
	ListByBook(ctx context.Context, bookID int64) ([]*domain.Review, error)
}
