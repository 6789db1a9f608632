package service

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fylgde141/bookswap-api/internal/domain"
	"github.com/fylgde141/bookswap-api/internal/store"
)

// mockDealStore implements store.DealStore with configurable function fields.
type mockDealStore struct {
	createFn        func(ctx context.Context, deal *domain.Deal) error
	getByIDFn       func(ctx context.Context, id int64) (*domain.Deal, error)
	updateFn        func(ctx context.Context, deal *domain.Deal) error
	deleteFn        func(ctx context.Context, id int64) error
	listByUserFn    func(ctx context.Context, userID int64) ([]*domain.Deal, error)
	countFn         func(ctx context.Context) (int64, error)
	countByStatusFn func(ctx context.Context, status domain.DealStatus) (int64, error)
}

func (m *mockDealStore) Create(ctx context.Context, deal *domain.Deal) error {
	return m.createFn(ctx, deal)
}

func (m *mockDealStore) GetByID(ctx context.Context, id int64) (*domain.Deal, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockDealStore) Update(ctx context.Context, deal *domain.Deal) error {
	return m.updateFn(ctx, deal)
}

func (m *mockDealStore) Delete(ctx context.Context, id int64) error {
	return m.deleteFn(ctx, id)
}

func (m *mockDealStore) ListByUser(ctx context.Context, userID int64) ([]*domain.Deal, error) {
	return m.listByUserFn(ctx, userID)
}

func (m *mockDealStore) Count(ctx context.Context) (int64, error) {
	return m.countFn(ctx)
}

func (m *mockDealStore) CountByStatus(ctx context.Context, status domain.DealStatus) (int64, error) {
	return m.countByStatusFn(ctx, status)
}

func (m *mockDealStore) WithTx(tx *sql.Tx) store.DealStore {
	return m
}

// mockBookStore implements store.BookStore with configurable function fields.
type mockBookStore struct {
	createFn          func(ctx context.Context, book *domain.Book) error
	getByIDFn         func(ctx context.Context, id int64) (*domain.Book, error)
	listFn            func(ctx context.Context, filter store.BookFilter) ([]*domain.Book, error)
	updateFn          func(ctx context.Context, book *domain.Book) error
	setAvailabilityFn func(ctx context.Context, id int64, available bool) error
	deleteFn          func(ctx context.Context, id int64) error
	countFn           func(ctx context.Context) (int64, error)
}

func (m *mockBookStore) Create(ctx context.Context, book *domain.Book) error {
	return m.createFn(ctx, book)
}

func (m *mockBookStore) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockBookStore) List(ctx context.Context, filter store.BookFilter) ([]*domain.Book, error) {
	return m.listFn(ctx, filter)
}

func (m *mockBookStore) Update(ctx context.Context, book *domain.Book) error {
	return m.updateFn(ctx, book)
}

func (m *mockBookStore) SetAvailability(ctx context.Context, id int64, available bool) error {
	return m.setAvailabilityFn(ctx, id, available)
}

func (m *mockBookStore) Delete(ctx context.Context, id int64) error {
	return m.deleteFn(ctx, id)
}

func (m *mockBookStore) Count(ctx context.Context) (int64, error) {
	return m.countFn(ctx)
}

func (m *mockBookStore) WithTx(tx *sql.Tx) store.BookStore {
	return m
}

// mockUserStore implements store.UserStore with configurable function fields.
type mockUserStore struct {
	createFn        func(ctx context.Context, user *domain.User) error
	getByIDFn       func(ctx context.Context, id int64) (*domain.User, error)
	getByUsernameFn func(ctx context.Context, username string) (*domain.User, error)
	setAdminFn      func(ctx context.Context, id int64, isAdmin bool) error
}

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	return m.createFn(ctx, user)
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.getByUsernameFn(ctx, username)
}

func (m *mockUserStore) SetAdmin(ctx context.Context, id int64, isAdmin bool) error {
	return m.setAdminFn(ctx, id, isAdmin)
}

func (m *mockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

func newTestDealService(t *testing.T, db *sql.DB, deals *mockDealStore, books *mockBookStore, users *mockUserStore) DealService {
	t.Helper()
	svc, err := NewDealService(db, deals, books, users, slog.Default())
	require.NoError(t, err)
	return svc
}

func testDeal(id, senderID, recipientID, recipientBookID int64, status domain.DealStatus) *domain.Deal {
	return &domain.Deal{
		ID:              id,
		SenderID:        senderID,
		RecipientID:     recipientID,
		RecipientBookID: recipientBookID,
		Status:          status,
	}
}

func TestDealService_Propose(t *testing.T) {
	t.Parallel()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	t.Run("creates deal in Created status", func(t *testing.T) {
		deals := &mockDealStore{
			createFn: func(ctx context.Context, deal *domain.Deal) error {
				deal.ID = 42
				return nil
			},
		}
		svc := newTestDealService(t, db, deals, &mockBookStore{}, &mockUserStore{})

		deal, err := svc.Propose(context.Background(), 1, 2, 7, "main square")
		require.NoError(t, err)

		assert.Equal(t, int64(42), deal.ID)
		assert.Equal(t, domain.DealStatusCreated, deal.Status)
		assert.Nil(t, deal.SenderBookID)
		assert.Equal(t, "main square", deal.Place)
	})

	t.Run("rejects self-exchange", func(t *testing.T) {
		svc := newTestDealService(t, db, &mockDealStore{}, &mockBookStore{}, &mockUserStore{})

		_, err := svc.Propose(context.Background(), 1, 1, 7, "")
		assert.ErrorIs(t, err, domain.ErrDealSelfExchange)
	})
}

func TestDealService_Accept(t *testing.T) {
	t.Parallel()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	t.Run("recipient accepts with counter-offer", func(t *testing.T) {
		var updated *domain.Deal
		deals := &mockDealStore{
			getByIDFn: func(ctx context.Context, id int64) (*domain.Deal, error) {
				return testDeal(5, 1, 2, 7, domain.DealStatusCreated), nil
			},
			updateFn: func(ctx context.Context, deal *domain.Deal) error {
				updated = deal
				return nil
			},
		}
		svc := newTestDealService(t, db, deals, &mockBookStore{}, &mockUserStore{})

		bookID := int64(11)
		deal, err := svc.Accept(context.Background(), 2, 5, &bookID, false)
		require.NoError(t, err)

		assert.Equal(t, domain.DealStatusAgreed, deal.Status)
		require.NotNil(t, deal.SenderBookID)
		assert.Equal(t, bookID, *deal.SenderBookID)
		require.NotNil(t, updated)
		assert.Equal(t, domain.DealStatusAgreed, updated.Status)
	})

	t.Run("sender cannot accept own proposal", func(t *testing.T) {
		deals := &mockDealStore{
			getByIDFn: func(ctx context.Context, id int64) (*domain.Deal, error) {
				return testDeal(5, 1, 2, 7, domain.DealStatusCreated), nil
			},
		}
		svc := newTestDealService(t, db, deals, &mockBookStore{}, &mockUserStore{})

		_, err := svc.Accept(context.Background(), 1, 5, nil, true)
		assert.ErrorIs(t, err, ErrNotDealRecipient)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("missing deal bubbles up not found", func(t *testing.T) {
		deals := &mockDealStore{
			getByIDFn: func(ctx context.Context, id int64) (*domain.Deal, error) {
				return nil, store.ErrDealNotFound
			},
		}
		svc := newTestDealService(t, db, deals, &mockBookStore{}, &mockUserStore{})

		_, err := svc.Accept(context.Background(), 2, 5, nil, true)
		assert.ErrorIs(t, err, store.ErrDealNotFound)
	})
}

func TestDealService_Complete(t *testing.T) {
	t.Parallel()

	t.Run("flips both books unavailable in one transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectBegin()
		mock.ExpectCommit()

		senderBookID := int64(11)
		deal := testDeal(5, 1, 2, 7, domain.DealStatusAgreed)
		deal.SenderBookID = &senderBookID

		var updatedStatus domain.DealStatus
		deals := &mockDealStore{
			getByIDFn: func(ctx context.Context, id int64) (*domain.Deal, error) {
				return deal, nil
			},
			updateFn: func(ctx context.Context, d *domain.Deal) error {
				updatedStatus = d.Status
				return nil
			},
		}

		unavailable := make(map[int64]bool)
		books := &mockBookStore{
			setAvailabilityFn: func(ctx context.Context, id int64, available bool) error {
				unavailable[id] = !available
				return nil
			},
		}

		svc := newTestDealService(t, db, deals, books, &mockUserStore{})

		result, err := svc.Complete(context.Background(), 1, 5)
		require.NoError(t, err)

		assert.Equal(t, domain.DealStatusCompleted, result.Status)
		assert.Equal(t, domain.DealStatusCompleted, updatedStatus)
		assert.True(t, unavailable[7], "recipient book should be unavailable")
		assert.True(t, unavailable[11], "sender book should be unavailable")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("gift completes without a sender book", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectBegin()
		mock.ExpectCommit()

		deal := testDeal(5, 1, 2, 7, domain.DealStatusAgreed)
		deal.GiftFlag = true

		deals := &mockDealStore{
			getByIDFn: func(ctx context.Context, id int64) (*domain.Deal, error) {
				return deal, nil
			},
			updateFn: func(ctx context.Context, d *domain.Deal) error {
				return nil
			},
		}

		var flipped []int64
		books := &mockBookStore{
			setAvailabilityFn: func(ctx context.Context, id int64, available bool) error {
				flipped = append(flipped, id)
				return nil
			},
		}

		svc := newTestDealService(t, db, deals, books, &mockUserStore{})

		_, err = svc.Complete(context.Background(), 2, 5)
		require.NoError(t, err)

		assert.Equal(t, []int64{7}, flipped)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("store failure rolls everything back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectBegin()
		mock.ExpectRollback()

		deals := &mockDealStore{
			getByIDFn: func(ctx context.Context, id int64) (*domain.Deal, error) {
				return testDeal(5, 1, 2, 7, domain.DealStatusAgreed), nil
			},
			updateFn: func(ctx context.Context, d *domain.Deal) error {
				return nil
			},
		}
		books := &mockBookStore{
			setAvailabilityFn: func(ctx context.Context, id int64, available bool) error {
				return store.ErrBookNotFound
			},
		}

		svc := newTestDealService(t, db, deals, books, &mockUserStore{})

		_, err = svc.Complete(context.Background(), 1, 5)
		assert.ErrorIs(t, err, store.ErrBookNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("outsider cannot complete", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		deals := &mockDealStore{
			getByIDFn: func(ctx context.Context, id int64) (*domain.Deal, error) {
				return testDeal(5, 1, 2, 7, domain.DealStatusAgreed), nil
			},
		}
		svc := newTestDealService(t, db, deals, &mockBookStore{}, &mockUserStore{})

		_, err = svc.Complete(context.Background(), 99, 5)
		assert.ErrorIs(t, err, ErrNotDealParticipant)
	})
}

func TestDealService_Cancel(t *testing.T) {
	t.Parallel()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	tests := []struct {
		name    string
		actorID int64
		status  domain.DealStatus
		wantErr error
	}{
		{
			name:    "sender cancels a created deal",
			actorID: 1,
			status:  domain.DealStatusCreated,
			wantErr: nil,
		},
		{
			name:    "recipient cancels a created deal",
			actorID: 2,
			status:  domain.DealStatusCreated,
			wantErr: nil,
		},
		{
			name:    "agreed deal cannot be cancelled",
			actorID: 1,
			status:  domain.DealStatusAgreed,
			wantErr: ErrDealNotCancellable,
		},
		{
			name:    "completed deal cannot be cancelled",
			actorID: 1,
			status:  domain.DealStatusCompleted,
			wantErr: ErrDealNotCancellable,
		},
		{
			name:    "outsider cannot cancel",
			actorID: 99,
			status:  domain.DealStatusCreated,
			wantErr: ErrNotDealParticipant,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var deleted bool
			deals := &mockDealStore{
				getByIDFn: func(ctx context.Context, id int64) (*domain.Deal, error) {
					return testDeal(5, 1, 2, 7, tt.status), nil
				},
				deleteFn: func(ctx context.Context, id int64) error {
					deleted = true
					return nil
				},
			}
			svc := newTestDealService(t, db, deals, &mockBookStore{}, &mockUserStore{})

			err := svc.Cancel(context.Background(), tt.actorID, 5)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, deleted)
				return
			}
			require.NoError(t, err)
			assert.True(t, deleted)
		})
	}
}

func TestDealService_ListForUser(t *testing.T) {
	t.Parallel()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	users := &mockUserStore{
		getByIDFn: func(ctx context.Context, id int64) (*domain.User, error) {
			switch id {
			case 1:
				return &domain.User{ID: 1, Username: "alice", Email: "alice@example.com"}, nil
			case 2:
				return &domain.User{ID: 2, Username: "bob", Phone: "+7900"}, nil
			default:
				return nil, store.ErrUserNotFound
			}
		},
	}

	t.Run("contacts revealed only for agreed deals", func(t *testing.T) {
		deals := &mockDealStore{
			listByUserFn: func(ctx context.Context, userID int64) ([]*domain.Deal, error) {
				return []*domain.Deal{
					testDeal(5, 1, 2, 7, domain.DealStatusCreated),
					testDeal(6, 1, 2, 8, domain.DealStatusAgreed),
				}, nil
			},
		}
		svc := newTestDealService(t, db, deals, &mockBookStore{}, users)

		views, err := svc.ListForUser(context.Background(), 1, 1)
		require.NoError(t, err)
		require.Len(t, views, 2)

		assert.Nil(t, views[0].SenderContact)
		assert.Nil(t, views[0].RecipientContact)

		require.NotNil(t, views[1].SenderContact)
		require.NotNil(t, views[1].RecipientContact)
		assert.Equal(t, "alice@example.com", *views[1].SenderContact)
		assert.Equal(t, "+7900", *views[1].RecipientContact)
	})

	t.Run("cannot list another user's deals", func(t *testing.T) {
		svc := newTestDealService(t, db, &mockDealStore{}, &mockBookStore{}, users)

		_, err := svc.ListForUser(context.Background(), 1, 2)
		assert.ErrorIs(t, err, ErrNotSelf)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("empty list for user without deals", func(t *testing.T) {
		deals := &mockDealStore{
			listByUserFn: func(ctx context.Context, userID int64) ([]*domain.Deal, error) {
				return []*domain.Deal{}, nil
			},
		}
		svc := newTestDealService(t, db, deals, &mockBookStore{}, users)

		views, err := svc.ListForUser(context.Background(), 3, 3)
		require.NoError(t, err)
		assert.Empty(t, views)
	})
}
