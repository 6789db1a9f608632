package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/fylgde141/bookswap-api/internal/domain"
	"github.com/fylgde141/bookswap-api/internal/store"
)

// DealView is a deal as seen by one of its participants. Contact details of
// the two parties are populated only once the deal has been agreed — until
// both sides commit, contacts stay private.
type DealView struct {
	Deal             *domain.Deal
	SenderContact    *string
	RecipientContact *string
}

// DealService is the engine driving a deal through its lifecycle:
// proposal, acceptance, completion, or cancellation. All authorization
// rules specific to deals live here.
type DealService interface {
	// Propose creates a new deal from sender for one of recipient's books.
	// The recipient book reference is taken as given; it is not checked
	// against the recipient's catalog or its availability.
	Propose(ctx context.Context, senderID, recipientID, recipientBookID int64, place string) (*domain.Deal, error)

	// Accept records the recipient's side of the deal and moves it to
	// Agreed. senderBookID may be nil when the deal is a gift.
	// Returns ErrNotDealRecipient if actor is not the deal's recipient.
	Accept(ctx context.Context, actorID, dealID int64, senderBookID *int64, giftFlag bool) (*domain.Deal, error)

	// Complete marks the exchange as carried out and flips the involved
	// books to unavailable. The status change and the availability flips
	// commit in a single transaction.
	// Returns ErrNotDealParticipant if actor is not a participant.
	Complete(ctx context.Context, actorID, dealID int64) (*domain.Deal, error)

	// Cancel permanently removes a deal that has not been agreed yet.
	// Returns ErrNotDealParticipant if actor is not a participant and
	// ErrDealNotCancellable if the deal has left the Created status.
	Cancel(ctx context.Context, actorID, dealID int64) error

	// ListForUser returns the deals in which userID participates.
	// Returns ErrNotSelf unless actorID equals userID.
	ListForUser(ctx context.Context, actorID, userID int64) ([]DealView, error)
}

// dealService is the database-backed implementation of DealService.
type dealService struct {
	db     *sql.DB
	deals  store.DealStore
	books  store.BookStore
	users  store.UserStore
	logger *slog.Logger
}

// Ensure dealService implements DealService interface
var _ DealService = (*dealService)(nil)

// NewDealService creates a new DealService with the given dependencies.
// The *sql.DB handle is used to open transactions spanning the deal and
// book stores.
func NewDealService(
	db *sql.DB,
	deals store.DealStore,
	books store.BookStore,
	users store.UserStore,
	logger *slog.Logger,
) (DealService, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if deals == nil {
		return nil, fmt.Errorf("deal store cannot be nil")
	}
	if books == nil {
		return nil, fmt.Errorf("book store cannot be nil")
	}
	if users == nil {
		return nil, fmt.Errorf("user store cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &dealService{
		db:     db,
		deals:  deals,
		books:  books,
		users:  users,
		logger: logger.With(slog.String("component", "deal_service")),
	}, nil
}

// Propose implements DealService.Propose
func (s *dealService) Propose(
	ctx context.Context,
	senderID, recipientID, recipientBookID int64,
	place string,
) (*domain.Deal, error) {
	deal, err := domain.NewDeal(senderID, recipientID, recipientBookID, place)
	if err != nil {
		return nil, err
	}

	if err := s.deals.Create(ctx, deal); err != nil {
		return nil, err
	}

	s.logger.Info("deal proposed",
		slog.Int64("deal_id", deal.ID),
		slog.Int64("sender_id", senderID),
		slog.Int64("recipient_id", recipientID))
	return deal, nil
}

// Accept implements DealService.Accept
// A repeated accept on an already agreed deal overwrites the recorded
// sender book and gift flag; the status stays Agreed.
func (s *dealService) Accept(
	ctx context.Context,
	actorID, dealID int64,
	senderBookID *int64,
	giftFlag bool,
) (*domain.Deal, error) {
	deal, err := s.deals.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	if !deal.IsRecipient(actorID) {
		s.logger.Warn("accept attempted by non-recipient",
			slog.Int64("deal_id", dealID),
			slog.Int64("actor_id", actorID))
		return nil, ErrNotDealRecipient
	}

	deal.Accept(senderBookID, giftFlag)

	if err := s.deals.Update(ctx, deal); err != nil {
		return nil, err
	}

	s.logger.Info("deal accepted",
		slog.Int64("deal_id", dealID),
		slog.Bool("gift_flag", giftFlag))
	return deal, nil
}

// Complete implements DealService.Complete
// The status transition and the availability flips of the recipient book
// (and the sender book, when one was offered) happen in one transaction:
// either all commit or none do.
func (s *dealService) Complete(ctx context.Context, actorID, dealID int64) (*domain.Deal, error) {
	deal, err := s.deals.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	if !deal.IsParticipant(actorID) {
		s.logger.Warn("complete attempted by non-participant",
			slog.Int64("deal_id", dealID),
			slog.Int64("actor_id", actorID))
		return nil, ErrNotDealParticipant
	}

	deal.Complete()

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txDeals := s.deals.WithTx(tx)
		txBooks := s.books.WithTx(tx)

		if err := txDeals.Update(ctx, deal); err != nil {
			return err
		}

		if err := txBooks.SetAvailability(ctx, deal.RecipientBookID, false); err != nil {
			return err
		}

		if deal.SenderBookID != nil {
			if err := txBooks.SetAvailability(ctx, *deal.SenderBookID, false); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("deal completed",
		slog.Int64("deal_id", dealID),
		slog.Int64("actor_id", actorID))
	return deal, nil
}

// Cancel implements DealService.Cancel
func (s *dealService) Cancel(ctx context.Context, actorID, dealID int64) error {
	deal, err := s.deals.GetByID(ctx, dealID)
	if err != nil {
		return err
	}

	if !deal.IsParticipant(actorID) {
		s.logger.Warn("cancel attempted by non-participant",
			slog.Int64("deal_id", dealID),
			slog.Int64("actor_id", actorID))
		return ErrNotDealParticipant
	}

	if !deal.CanCancel() {
		s.logger.Debug("cancel rejected for non-Created deal",
			slog.Int64("deal_id", dealID),
			slog.String("status", string(deal.Status)))
		return ErrDealNotCancellable
	}

	if err := s.deals.Delete(ctx, dealID); err != nil {
		return err
	}

	s.logger.Info("deal cancelled",
		slog.Int64("deal_id", dealID),
		slog.Int64("actor_id", actorID))
	return nil
}

// ListForUser implements DealService.ListForUser
func (s *dealService) ListForUser(ctx context.Context, actorID, userID int64) ([]DealView, error) {
	if actorID != userID {
		s.logger.Warn("deal listing attempted for another user",
			slog.Int64("actor_id", actorID),
			slog.Int64("requested_user_id", userID))
		return nil, ErrNotSelf
	}

	deals, err := s.deals.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]DealView, 0, len(deals))
	for _, deal := range deals {
		view := DealView{Deal: deal}

		// Contacts are disclosed only after both sides committed.
		if deal.Status == domain.DealStatusAgreed {
			senderContact, err := s.contactOf(ctx, deal.SenderID)
			if err != nil {
				return nil, err
			}
			recipientContact, err := s.contactOf(ctx, deal.RecipientID)
			if err != nil {
				return nil, err
			}
			view.SenderContact = &senderContact
			view.RecipientContact = &recipientContact
		}

		views = append(views, view)
	}

	return views, nil
}

// contactOf resolves a user's preferred contact detail.
func (s *dealService) contactOf(ctx context.Context, userID int64) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Contact(), nil
}
