package store

import (
	"context"
	"database/sql"

	"github.com/fylgde141/bookswap-api/internal/domain"
)

// DealStore defines the interface for deal data persistence.
type DealStore interface {
	// Create saves a new deal to the store, assigning its ID.
	// Returns ErrInvalidEntity if a referenced user or book does not exist.
	Create(ctx context.Context, deal *domain.Deal) error

	// GetByID retrieves a deal by its unique ID.
	// Returns ErrDealNotFound if the deal does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Deal, error)

	// Update overwrites an existing deal's negotiable fields: sender book,
	// gift flag, and status. Returns ErrDealNotFound if the deal does not
	// exist.
	Update(ctx context.Context, deal *domain.Deal) error

	// Delete removes a deal from the store by its ID.
	// Returns ErrDealNotFound if the deal does not exist.
	Delete(ctx context.Context, id int64) error

	// ListByUser returns all deals in which the user participates as sender
	// or recipient.
	ListByUser(ctx context.Context, userID int64) ([]*domain.Deal, error)

	// Count returns the total number of deals in the store.
	Count(ctx context.Context) (int64, error)

	// CountByStatus returns the number of deals with the given status.
	CountByStatus(ctx context.Context, status domain.DealStatus) (int64, error)

	// WithTx returns a new DealStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) DealStore
}
