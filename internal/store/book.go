package store

import (
	"context"
	"database/sql"

	"github.com/fylgde141/bookswap-api/internal/domain"
)

// BookFilter narrows a book listing. Zero-value fields are ignored:
// an empty Title applies no title filter, a nil Available applies no
// availability filter. Both filters compose with AND.
type BookFilter struct {
	// Title is matched as a case-insensitive substring of the book title.
	Title string

	// Available, when set, matches books whose availability equals its value.
	Available *bool
}

// BookStore defines the interface for book data persistence.
type BookStore interface {
	// Create saves a new book to the store, assigning its ID.
	// Returns ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, book *domain.Book) error

	// GetByID retrieves a book by its unique ID.
	// Returns ErrBookNotFound if the book does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Book, error)

	// List returns all books matching the filter, unpaginated.
	List(ctx context.Context, filter BookFilter) ([]*domain.Book, error)

	// Update overwrites an existing book's title, description, and
	// availability. Returns ErrBookNotFound if the book does not exist.
	Update(ctx context.Context, book *domain.Book) error

	// SetAvailability updates only the availability flag of a book.
	// Returns ErrBookNotFound if the book does not exist.
	SetAvailability(ctx context.Context, id int64, available bool) error

	// Delete removes a book from the store by its ID.
	// Returns ErrBookNotFound if the book does not exist.
	Delete(ctx context.Context, id int64) error

	// Count returns the total number of books in the store.
	Count(ctx context.Context) (int64, error)

	// WithTx returns a new BookStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) BookStore
}
