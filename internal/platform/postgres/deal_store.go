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

// PostgresDealStore implements the store.DealStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDealStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDealStore creates a new PostgreSQL implementation of the
// DealStore interface.
func NewPostgresDealStore(db store.DBTX, logger *slog.Logger) *PostgresDealStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDealStore{
		db:     db,
		logger: logger.With(slog.String("component", "deal_store")),
	}
}

// Ensure PostgresDealStore implements store.DealStore interface
var _ store.DealStore = (*PostgresDealStore)(nil)

// Create implements store.DealStore.Create
// Returns store.ErrInvalidEntity if a referenced user or book does not
// exist (foreign key violation).
func (s *PostgresDealStore) Create(ctx context.Context, deal *domain.Deal) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deal.Validate(); err != nil {
		log.Warn("deal validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("sender_id", deal.SenderID))
		return err
	}

	query := `
		INSERT INTO deals (sender_id, recipient_id, sender_book_id,
			recipient_book_id, gift_flag, status, scheduled_at, place)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		deal.SenderID,
		deal.RecipientID,
		deal.SenderBookID,
		deal.RecipientBookID,
		deal.GiftFlag,
		deal.Status,
		deal.ScheduledAt,
		nullString(deal.Place),
	).Scan(&deal.ID)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during deal creation",
				slog.String("error", err.Error()),
				slog.Int64("sender_id", deal.SenderID),
				slog.Int64("recipient_id", deal.RecipientID))
			return fmt.Errorf("%w: referenced user or book not found",
				store.ErrInvalidEntity)
		}

		log.Error("failed to create deal",
			slog.String("error", err.Error()),
			slog.Int64("sender_id", deal.SenderID))
		return err
	}

	log.Info("deal created successfully",
		slog.Int64("deal_id", deal.ID),
		slog.Int64("sender_id", deal.SenderID),
		slog.Int64("recipient_id", deal.RecipientID))
	return nil
}

// GetByID implements store.DealStore.GetByID
// Returns store.ErrDealNotFound if the deal does not exist.
func (s *PostgresDealStore) GetByID(ctx context.Context, id int64) (*domain.Deal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, sender_id, recipient_id, sender_book_id,
			recipient_book_id, gift_flag, status, scheduled_at, place
		FROM deals
		WHERE id = $1
	`

	deal, err := scanDeal(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("deal not found", slog.Int64("deal_id", id))
			return nil, store.ErrDealNotFound
		}
		log.Error("failed to get deal by ID",
			slog.String("error", err.Error()),
			slog.Int64("deal_id", id))
		return nil, err
	}

	return deal, nil
}

// Update implements store.DealStore.Update
// It overwrites the sender book, gift flag, and status — the fields that
// change during negotiation. Returns store.ErrDealNotFound if the deal does
// not exist.
func (s *PostgresDealStore) Update(ctx context.Context, deal *domain.Deal) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deal.Validate(); err != nil {
		log.Warn("deal validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("deal_id", deal.ID))
		return err
	}

	query := `
		UPDATE deals
		SET sender_book_id = $1, gift_flag = $2, status = $3
		WHERE id = $4
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		deal.SenderBookID,
		deal.GiftFlag,
		deal.Status,
		deal.ID,
	)
	if err != nil {
		log.Error("failed to update deal",
			slog.String("error", err.Error()),
			slog.Int64("deal_id", deal.ID))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("deal_id", deal.ID))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("deal not found for update", slog.Int64("deal_id", deal.ID))
		return store.ErrDealNotFound
	}

	log.Info("deal updated successfully",
		slog.Int64("deal_id", deal.ID),
		slog.String("status", string(deal.Status)))
	return nil
}

// Delete implements store.DealStore.Delete
// Returns store.ErrDealNotFound if the deal does not exist.
func (s *PostgresDealStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM deals
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete deal",
			slog.String("error", err.Error()),
			slog.Int64("deal_id", id))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("deal_id", id))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("deal not found for delete", slog.Int64("deal_id", id))
		return store.ErrDealNotFound
	}

	log.Info("deal deleted successfully", slog.Int64("deal_id", id))
	return nil
}

// ListByUser implements store.DealStore.ListByUser
// Returns an empty slice if the user participates in no deals.
func (s *PostgresDealStore) ListByUser(ctx context.Context, userID int64) ([]*domain.Deal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, sender_id, recipient_id, sender_book_id,
			recipient_book_id, gift_flag, status, scheduled_at, place
		FROM deals
		WHERE sender_id = $1 OR recipient_id = $1
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query deals",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var deals []*domain.Deal
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			log.Error("failed to scan deal row",
				slog.String("error", err.Error()))
			return nil, err
		}
		deals = append(deals, deal)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	if deals == nil {
		deals = []*domain.Deal{}
	}

	return deals, nil
}

// Count implements store.DealStore.Count
func (s *PostgresDealStore) Count(ctx context.Context) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM deals`).Scan(&count)
	if err != nil {
		log.Error("failed to count deals", slog.String("error", err.Error()))
		return 0, err
	}

	return count, nil
}

// CountByStatus implements store.DealStore.CountByStatus
func (s *PostgresDealStore) CountByStatus(ctx context.Context, status domain.DealStatus) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM deals WHERE status = $1`, status).Scan(&count)
	if err != nil {
		log.Error("failed to count deals by status",
			slog.String("error", err.Error()),
			slog.String("status", string(status)))
		return 0, err
	}

	return count, nil
}

// WithTx implements store.DealStore.WithTx
func (s *PostgresDealStore) WithTx(tx *sql.Tx) store.DealStore {
	return &PostgresDealStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanDeal scans a single deal row.
func scanDeal(row rowScanner) (*domain.Deal, error) {
	var deal domain.Deal
	var senderBookID sql.NullInt64
	var place sql.NullString
	var status string

	err := row.Scan(
		&deal.ID,
		&deal.SenderID,
		&deal.RecipientID,
		&senderBookID,
		&deal.RecipientBookID,
		&deal.GiftFlag,
		&status,
		&deal.ScheduledAt,
		&place,
	)
	if err != nil {
		return nil, err
	}

	if senderBookID.Valid {
		deal.SenderBookID = &senderBookID.Int64
	}
	deal.Status = domain.DealStatus(status)
	deal.Place = place.String
	return &deal, nil
}
