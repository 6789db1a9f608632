package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fylgde141/bookswap-api/internal/domain"
	"github.com/fylgde141/bookswap-api/internal/platform/logger"
	"github.com/fylgde141/bookswap-api/internal/store"
)

// PostgresReviewStore implements the store.ReviewStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReviewStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewStore creates a new PostgreSQL implementation of the
// ReviewStore interface.
func NewPostgresReviewStore(db store.DBTX, logger *slog.Logger) *PostgresReviewStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_store")),
	}
}

// Ensure PostgresReviewStore implements store.ReviewStore interface
var _ store.ReviewStore = (*PostgresReviewStore)(nil)

// Create implements store.ReviewStore.Create
// Returns store.ErrInvalidEntity if the author or book does not exist
// (foreign key violation).
func (s *PostgresReviewStore) Create(ctx context.Context, review *domain.Review) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := review.Validate(); err != nil {
		log.Warn("review validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("book_id", review.BookID))
		return err
	}

	query := `
		INSERT INTO reviews (user_id, book_id, review_text)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		review.AuthorID,
		review.BookID,
		review.Text,
	).Scan(&review.ID)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during review creation",
				slog.String("error", err.Error()),
				slog.Int64("user_id", review.AuthorID),
				slog.Int64("book_id", review.BookID))
			return fmt.Errorf("%w: referenced user or book not found",
				store.ErrInvalidEntity)
		}

		log.Error("failed to create review",
			slog.String("error", err.Error()),
			slog.Int64("book_id", review.BookID))
		return err
	}

	log.Info("review created successfully",
		slog.Int64("review_id", review.ID),
		slog.Int64("book_id", review.BookID))
	return nil
}

// ListByBook implements store.ReviewStore.ListByBook
// Returns an empty slice if the book has no reviews.
func (s *PostgresReviewStore) ListByBook(ctx context.Context, bookID int64) ([]*domain.Review, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, book_id, review_text
		FROM reviews
		WHERE book_id = $1
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, bookID)
	if err != nil {
		log.Error("failed to query reviews",
			slog.String("error", err.Error()),
			slog.Int64("book_id", bookID))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var reviews []*domain.Review
	for rows.Next() {
		var review domain.Review

		if err := rows.Scan(
			&review.ID,
			&review.AuthorID,
			&review.BookID,
			&review.Text,
		); err != nil {
			log.Error("failed to scan review row",
				slog.String("error", err.Error()))
			return nil, err
		}

		reviews = append(reviews, &review)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	if reviews == nil {
		reviews = []*domain.Review{}
	}

	return reviews, nil
}
