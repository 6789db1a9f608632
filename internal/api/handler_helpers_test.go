package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/fylgde141/bookswap-api/internal/api/shared"
	"github.com/fylgde141/bookswap-api/internal/domain"
	"github.com/fylgde141/bookswap-api/internal/service"
	"github.com/fylgde141/bookswap-api/internal/service/auth"
	"github.com/fylgde141/bookswap-api/internal/store"
)

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

func (m *mockUserStore) WithTx(tx *sql.Tx) store.UserStore { return m }

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

func (m *mockBookStore) WithTx(tx *sql.Tx) store.BookStore { return m }

// mockReviewStore implements store.ReviewStore with configurable function fields.
type mockReviewStore struct {
	createFn     func(ctx context.Context, review *domain.Review) error
	listByBookFn func(ctx context.Context, bookID int64) ([]*domain.Review, error)
}

func (m *mockReviewStore) Create(ctx context.Context, review *domain.Review) error {
	return m.createFn(ctx, review)
}

func (m *mockReviewStore) ListByBook(ctx context.Context, bookID int64) ([]*domain.Review, error) {
	return m.listByBookFn(ctx, bookID)
}

// mockDealService implements service.DealService with configurable function fields.
type mockDealService struct {
	proposeFn     func(ctx context.Context, senderID, recipientID, recipientBookID int64, place string) (*domain.Deal, error)
	acceptFn      func(ctx context.Context, actorID, dealID int64, senderBookID *int64, giftFlag bool) (*domain.Deal, error)
	completeFn    func(ctx context.Context, actorID, dealID int64) (*domain.Deal, error)
	cancelFn      func(ctx context.Context, actorID, dealID int64) error
	listForUserFn func(ctx context.Context, actorID, userID int64) ([]service.DealView, error)
}

func (m *mockDealService) Propose(ctx context.Context, senderID, recipientID, recipientBookID int64, place string) (*domain.Deal, error) {
	return m.proposeFn(ctx, senderID, recipientID, recipientBookID, place)
}

func (m *mockDealService) Accept(ctx context.Context, actorID, dealID int64, senderBookID *int64, giftFlag bool) (*domain.Deal, error) {
	return m.acceptFn(ctx, actorID, dealID, senderBookID, giftFlag)
}

func (m *mockDealService) Complete(ctx context.Context, actorID, dealID int64) (*domain.Deal, error) {
	return m.completeFn(ctx, actorID, dealID)
}

func (m *mockDealService) Cancel(ctx context.Context, actorID, dealID int64) error {
	return m.cancelFn(ctx, actorID, dealID)
}

func (m *mockDealService) ListForUser(ctx context.Context, actorID, userID int64) ([]service.DealView, error) {
	return m.listForUserFn(ctx, actorID, userID)
}

// mockAdminService implements service.AdminService with configurable function fields.
type mockAdminService struct {
	getStatsFn func(ctx context.Context, actorID int64) (*service.Stats, error)
	promoteFn  func(ctx context.Context, actorID, targetID int64) error
}

func (m *mockAdminService) GetStats(ctx context.Context, actorID int64) (*service.Stats, error) {
	return m.getStatsFn(ctx, actorID)
}

func (m *mockAdminService) Promote(ctx context.Context, actorID, targetID int64) error {
	return m.promoteFn(ctx, actorID, targetID)
}

// mockJWTService implements auth.JWTService with configurable function fields.
type mockJWTService struct {
	generateTokenFn func(ctx context.Context, userID int64) (string, error)
	validateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)
}

func (m *mockJWTService) GenerateToken(ctx context.Context, userID int64) (string, error) {
	return m.generateTokenFn(ctx, userID)
}

func (m *mockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	return m.validateTokenFn(ctx, tokenString)
}

// mockPasswordVerifier implements auth.PasswordVerifier with a function field.
type mockPasswordVerifier struct {
	compareFn func(hashedPassword, password string) error
}

func (m *mockPasswordVerifier) Compare(hashedPassword, password string) error {
	return m.compareFn(hashedPassword, password)
}

// newJSONRequest builds a request with a JSON body.
func newJSONRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// asUser injects an authenticated user ID into the request context, the same
// way the auth middleware does.
func asUser(req *http.Request, userID int64) *http.Request {
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	return req.WithContext(ctx)
}

// withPathParam injects a chi route parameter into the request context so
// handlers can be invoked without a full router.
func withPathParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// decodeResponse unmarshals the recorded response body into v.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}
