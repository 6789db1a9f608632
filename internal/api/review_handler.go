package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/fylgde141/bookswap-api/internal/api/shared"
	"github.com/fylgde141/bookswap-api/internal/domain"
	"github.com/fylgde141/bookswap-api/internal/store"
)

// ReviewHandler handles book review API requests.
type ReviewHandler struct {
	reviewStore store.ReviewStore
	bookStore   store.BookStore
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler with the given dependencies.
func NewReviewHandler(reviewStore store.ReviewStore, bookStore store.BookStore, logger *slog.Logger) *ReviewHandler {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &ReviewHandler{
		reviewStore: reviewStore,
		bookStore:   bookStore,
		validator:   validator.New(),
		logger:      logger,
	}
}

// Create handles POST /api/reviews requests.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	// Resolve the book first so a missing book is a 404, not a bare FK error.
	if _, err := h.bookStore.GetByID(r.Context(), req.BookID); err != nil {
		HandleAPIError(w, r, err, "Failed to get book")
		return
	}

	review, err := domain.NewReview(userID, req.BookID, req.ReviewText)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid review data: "+err.Error())
		return
	}

	if err := h.reviewStore.Create(r.Context(), review); err != nil {
		h.logger.Error("failed to create review", "error", err, "book_id", req.BookID)
		HandleAPIError(w, r, err, "Failed to create review")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, reviewToResponse(review))
}

// ListBookReviews handles GET /api/books/{id}/reviews requests.
func (h *ReviewHandler) ListBookReviews(w http.ResponseWriter, r *http.Request) {
	bookID, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid book ID")
		return
	}

	if _, err := h.bookStore.GetByID(r.Context(), bookID); err != nil {
		HandleAPIError(w, r, err, "Failed to get book")
		return
	}

	reviews, err := h.reviewStore.ListByBook(r.Context(), bookID)
	if err != nil {
		h.logger.Error("failed to list reviews", "error", err, "book_id", bookID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to list reviews")
		return
	}

	resp := make([]ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		resp = append(resp, reviewToResponse(review))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
