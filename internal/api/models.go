package api

import (
	"time"

	"github.com/fylgde141/bookswap-api/internal/domain"
	"github.com/fylgde141/bookswap-api/internal/service"
)

// Common request/response structures. Every endpoint declares an explicit,
// typed schema; requests are validated before reaching business logic.

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"omitempty,email"`
	Phone    string `json:"phone"    validate:"omitempty,max=32"`
	Password string `json:"password" validate:"required,min=1,max=72"`
}

// RegisterResponse defines the successful response for registration.
type RegisterResponse struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse defines the successful response for the login endpoint.
type AuthResponse struct {
	UserID      int64  `json:"user_id"`
	AccessToken string `json:"access_token"`
}

// CreateBookRequest defines the payload for adding a book.
type CreateBookRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description" validate:"omitempty"`
}

// UpdateBookRequest defines the payload for updating a book.
// All fields are optional; only fields present in the request overwrite
// existing values.
type UpdateBookRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsAvailable *bool   `json:"is_available"`
}

// BookResponse represents a book in API responses.
type BookResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsAvailable bool   `json:"is_available"`
	UserID      int64  `json:"user_id"`
}

// CreateReviewRequest defines the payload for reviewing a book.
type CreateReviewRequest struct {
	BookID     int64  `json:"book_id"     validate:"required"`
	ReviewText string `json:"review_text" validate:"required"`
}

// ReviewResponse represents a review in API responses.
type ReviewResponse struct {
	ReviewID   int64  `json:"review_id"`
	UserID     int64  `json:"user_id"`
	BookID     int64  `json:"book_id"`
	ReviewText string `json:"review_text"`
}

// ProposeDealRequest defines the payload for proposing a deal.
type ProposeDealRequest struct {
	RecipientID     int64  `json:"recipient_id"      validate:"required"`
	RecipientBookID int64  `json:"recipient_book_id" validate:"required"`
	Place           string `json:"place"             validate:"omitempty"`
}

// AcceptDealRequest defines the payload for accepting a deal.
// SenderBookID may be omitted when the deal is a gift.
type AcceptDealRequest struct {
	SenderBookID *int64 `json:"sender_book_id"`
	GiftFlag     bool   `json:"gift_flag"`
}

// DealResponse represents a deal in API responses. The contact fields are
// populated only in deal listings, and only for agreed deals.
type DealResponse struct {
	DealID           int64     `json:"deal_id"`
	SenderID         int64     `json:"sender_id"`
	RecipientID      int64     `json:"recipient_id"`
	SenderBookID     *int64    `json:"sender_book_id"`
	RecipientBookID  int64     `json:"recipient_book_id"`
	GiftFlag         bool      `json:"gift_flag"`
	Status           string    `json:"status"`
	Time             time.Time `json:"time"`
	Place            string    `json:"place"`
	SenderContact    *string   `json:"sender_contact"`
	RecipientContact *string   `json:"recipient_contact"`
}

// bookToResponse converts a domain.Book to a BookResponse.
func bookToResponse(book *domain.Book) BookResponse {
	return BookResponse{
		ID:          book.ID,
		Title:       book.Title,
		Description: book.Description,
		IsAvailable: book.IsAvailable,
		UserID:      book.OwnerID,
	}
}

// reviewToResponse converts a domain.Review to a ReviewResponse.
func reviewToResponse(review *domain.Review) ReviewResponse {
	return ReviewResponse{
		ReviewID:   review.ID,
		UserID:     review.AuthorID,
		BookID:     review.BookID,
		ReviewText: review.Text,
	}
}

// dealToResponse converts a domain.Deal to a DealResponse without contacts.
func dealToResponse(deal *domain.Deal) DealResponse {
	return DealResponse{
		DealID:          deal.ID,
		SenderID:        deal.SenderID,
		RecipientID:     deal.RecipientID,
		SenderBookID:    deal.SenderBookID,
		RecipientBookID: deal.RecipientBookID,
		GiftFlag:        deal.GiftFlag,
		Status:          string(deal.Status),
		Time:            deal.ScheduledAt,
		Place:           deal.Place,
	}
}

// dealViewToResponse converts a service.DealView to a DealResponse.
func dealViewToResponse(view service.DealView) DealResponse {
	resp := dealToResponse(view.Deal)
	resp.SenderContact = view.SenderContact
	resp.RecipientContact = view.RecipientContact
	return resp
}
