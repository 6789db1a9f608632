package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fylgde141/bookswap-api/internal/domain"
	"github.com/fylgde141/bookswap-api/internal/platform/logger"
	"github.com/fylgde141/bookswap-api/internal/store"
)

// PostgresBookStore implements the store.BookStore interface
// using a PostgreSQL database as the storage backend.
type PostgresBookStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBookStore creates a new PostgreSQL implementation of the
// BookStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
func NewPostgresBookStore(db store.DBTX, logger *slog.Logger) *PostgresBookStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBookStore{
		db:     db,
		logger: logger.With(slog.String("component", "book_store")),
	}
}

// Ensure PostgresBookStore implements store.BookStore interface
var _ store.BookStore = (*PostgresBookStore)(nil)

// Create implements store.BookStore.Create
// Returns store.ErrInvalidEntity if the owner does not exist (foreign key
// violation).
func (s *PostgresBookStore) Create(ctx context.Context, book *domain.Book) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := book.Validate(); err != nil {
		log.Warn("book validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("owner_id", book.OwnerID))
		return err
	}

	query := `
		INSERT INTO books (owner_id, title, description, is_available)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		book.OwnerID,
		book.Title,
		nullString(book.Description),
		book.IsAvailable,
	).Scan(&book.ID)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during book creation",
				slog.String("error", err.Error()),
				slog.Int64("owner_id", book.OwnerID))
			return fmt.Errorf("%w: owner with ID %d not found",
				store.ErrInvalidEntity, book.OwnerID)
		}

		log.Error("failed to create book",
			slog.String("error", err.Error()),
			slog.Int64("owner_id", book.OwnerID))
		return err
	}

	log.Info("book created successfully",
		slog.Int64("book_id", book.ID),
		slog.Int64("owner_id", book.OwnerID))
	return nil
}

// GetByID implements store.BookStore.GetByID
// Returns store.ErrBookNotFound if the book does not exist.
func (s *PostgresBookStore) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, owner_id, title, description, is_available
		FROM books
		WHERE id = $1
	`

	var book domain.Book
	var description sql.NullString

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&book.ID,
		&book.OwnerID,
		&book.Title,
		&description,
		&book.IsAvailable,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("book not found", slog.Int64("book_id", id))
			return nil, store.ErrBookNotFound
		}
		log.Error("failed to get book by ID",
			slog.String("error", err.Error()),
			slog.Int64("book_id", id))
		return nil, err
	}

	book.Description = description.String
	return &book, nil
}

// List implements store.BookStore.List
// Title filters match case-insensitively on any substring; the availability
// filter matches exactly. Filters compose with AND. Results are unpaginated.
func (s *PostgresBookStore) List(ctx context.Context, filter store.BookFilter) ([]*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, owner_id, title, description, is_available
		FROM books
		WHERE ($1 = '' OR title ILIKE '%' || $1 || '%')
		  AND ($2::boolean IS NULL OR is_available = $2)
		ORDER BY id
	`

	var available sql.NullBool
	if filter.Available != nil {
		available = sql.NullBool{Bool: *filter.Available, Valid: true}
	}

	rows, err := s.db.QueryContext(ctx, query, filter.Title, available)
	if err != nil {
		log.Error("failed to query books",
			slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var books []*domain.Book
	for rows.Next() {
		var book domain.Book
		var description sql.NullString

		if err := rows.Scan(
			&book.ID,
			&book.OwnerID,
			&book.Title,
			&description,
			&book.IsAvailable,
		); err != nil {
			log.Error("failed to scan book row",
				slog.String("error", err.Error()))
			return nil, err
		}

		book.Description = description.String
		books = append(books, &book)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	if books == nil {
		books = []*domain.Book{}
	}

	return books, nil
}

// Update implements store.BookStore.Update
// Returns store.ErrBookNotFound if the book does not exist.
func (s *PostgresBookStore) Update(ctx context.Context, book *domain.Book) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := book.Validate(); err != nil {
		log.Warn("book validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("book_id", book.ID))
		return err
	}

	query := `
		UPDATE books
		SET title = $1, description = $2, is_available = $3
		WHERE id = $4
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		book.Title,
		nullString(book.Description),
		book.IsAvailable,
		book.ID,
	)
	if err != nil {
		log.Error("failed to update book",
			slog.String("error", err.Error()),
			slog.Int64("book_id", book.ID))
		return err
	}

	return s.checkAffected(log, result, book.ID, "update")
}

// SetAvailability implements store.BookStore.SetAvailability
// Returns store.ErrBookNotFound if the book does not exist.
func (s *PostgresBookStore) SetAvailability(ctx context.Context, id int64, available bool) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE books
		SET is_available = $1
		WHERE id = $2
	`
	result, err := s.db.ExecContext(ctx, query, available, id)
	if err != nil {
		log.Error("failed to update book availability",
			slog.String("error", err.Error()),
			slog.Int64("book_id", id))
		return err
	}

	return s.checkAffected(log, result, id, "availability update")
}

// Delete implements store.BookStore.Delete
// Returns store.ErrBookNotFound if the book does not exist.
func (s *PostgresBookStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM books
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete book",
			slog.String("error", err.Error()),
			slog.Int64("book_id", id))
		return err
	}

	if err := s.checkAffected(log, result, id, "delete"); err != nil {
		return err
	}

	log.Info("book deleted successfully", slog.Int64("book_id", id))
	return nil
}

// Count implements store.BookStore.Count
func (s *PostgresBookStore) Count(ctx context.Context) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&count)
	if err != nil {
		log.Error("failed to count books", slog.String("error", err.Error()))
		return 0, err
	}

	return count, nil
}

// WithTx implements store.BookStore.WithTx
func (s *PostgresBookStore) WithTx(tx *sql.Tx) store.BookStore {
	return &PostgresBookStore{
		db:     tx,
		logger: s.logger,
	}
}

// checkAffected maps a zero-rows-affected result to store.ErrBookNotFound.
func (s *PostgresBookStore) checkAffected(log *slog.Logger, result sql.Result, id int64, op string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("book_id", id))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("book not found for "+op, slog.Int64("book_id", id))
		return store.ErrBookNotFound
	}

	return nil
}
