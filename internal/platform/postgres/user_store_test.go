package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fylgde141/bookswap-api/internal/domain"
	"github.com/fylgde141/bookswap-api/internal/store"
)

func newUserStoreWithMock(t *testing.T) (*PostgresUserStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewPostgresUserStore(db, bcrypt.MinCost, nil), mock
}

func TestPostgresUserStore_Create(t *testing.T) {
	t.Parallel()

	t.Run("hashes the password and assigns the ID", func(t *testing.T) {
		t.Parallel()

		s, mock := newUserStoreWithMock(t)

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("alice", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), false).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

		user, err := domain.NewUser("alice", "alice@example.com", "", "secret-password")
		require.NoError(t, err)

		require.NoError(t, s.Create(context.Background(), user))

		assert.Equal(t, int64(7), user.ID)
		assert.Empty(t, user.Password, "plaintext must be cleared after hashing")
		require.NotEmpty(t, user.HashedPassword)
		assert.NotEqual(t, "secret-password", user.HashedPassword)
		assert.NoError(t,
			bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("secret-password")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate username maps to ErrUsernameExists", func(t *testing.T) {
		t.Parallel()

		s, mock := newUserStoreWithMock(t)

		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		user, err := domain.NewUser("alice", "", "", "secret-password")
		require.NoError(t, err)

		err = s.Create(context.Background(), user)
		assert.ErrorIs(t, err, store.ErrUsernameExists)
		assert.ErrorIs(t, err, store.ErrDuplicate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid user fails before touching the database", func(t *testing.T) {
		t.Parallel()

		s, _ := newUserStoreWithMock(t)

		err := s.Create(context.Background(), &domain.User{Username: "", Password: "x"})
		assert.ErrorIs(t, err, domain.ErrEmptyUsername)
	})
}

func TestPostgresUserStore_GetByUsername(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()

		s, mock := newUserStoreWithMock(t)

		rows := sqlmock.NewRows([]string{"id", "username", "email", "phone", "hashed_password", "is_admin"}).
			AddRow(int64(7), "alice", "alice@example.com", nil, "hash", true)
		mock.ExpectQuery(`SELECT id, username, email, phone, hashed_password, is_admin`).
			WithArgs("alice").
			WillReturnRows(rows)

		user, err := s.GetByUsername(context.Background(), "alice")
		require.NoError(t, err)

		assert.Equal(t, int64(7), user.ID)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.Empty(t, user.Phone)
		assert.True(t, user.IsAdmin)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		s, mock := newUserStoreWithMock(t)

		mock.ExpectQuery(`SELECT id, username, email, phone, hashed_password, is_admin`).
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "phone", "hashed_password", "is_admin"}))

		_, err := s.GetByUsername(context.Background(), "ghost")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresUserStore_SetAdmin(t *testing.T) {
	t.Parallel()

	t.Run("updates the flag", func(t *testing.T) {
		t.Parallel()

		s, mock := newUserStoreWithMock(t)

		mock.ExpectExec(`UPDATE users`).
			WithArgs(true, int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.SetAdmin(context.Background(), 7, true))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing user", func(t *testing.T) {
		t.Parallel()

		s, mock := newUserStoreWithMock(t)

		mock.ExpectExec(`UPDATE users`).
			WithArgs(true, int64(404)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.SetAdmin(context.Background(), 404, true)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
