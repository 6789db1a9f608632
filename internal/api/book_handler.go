package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/fylgde141/bookswap-api/internal/api/shared"
	"github.com/fylgde141/bookswap-api/internal/domain"
	"github.com/fylgde141/bookswap-api/internal/store"
)

// BookHandler handles book catalogue API requests.
type BookHandler struct {
	bookStore store.BookStore
	validator *validator.Validate
	logger    *slog.Logger
}

// NewBookHandler creates a new BookHandler with the given dependencies.
func NewBookHandler(bookStore store.BookStore, logger *slog.Logger) *BookHandler {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &BookHandler{
		bookStore: bookStore,
		validator: validator.New(),
		logger:    logger,
	}
}

// List handles GET /api/books requests. It supports optional title substring
// and is_available query filters.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.BookFilter{
		Title: r.URL.Query().Get("title"),
	}

	if raw := r.URL.Query().Get("is_available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid is_available filter")
			return
		}
		filter.Available = &available
	}

	books, err := h.bookStore.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list books", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to list books")
		return
	}

	resp := make([]BookResponse, 0, len(books))
	for _, book := range books {
		resp = append(resp, bookToResponse(book))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Get handles GET /api/books/{id} requests.
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	bookID, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "Invalid book ID")
		return
	}

	book, err := h.bookStore.GetByID(r.Context(), bookID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get book")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, bookToResponse(book))
}

// Create handles POST /api/books requests.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateBookRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	book, err := domain.NewBook(userID, req.Title, req.Description)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid book data: "+err.Error())
		return
	}

	if err := h.bookStore.Create(r.Context(), book); err != nil {
		h.logger.Error("failed to create book", "error", err, "user_id", userID)
		HandleAPIError(w, r, err, "Failed to create book")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, bookToResponse(book))
}

// Update handles PUT /api/books/{id} requests. Absent fields keep their
// current values.
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, bookID, ok := requireUserAndPathID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateBookRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	book, err := h.bookStore.GetByID(r.Context(), bookID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get book")
		return
	}

	if book.OwnerID != userID {
		shared.RespondWithError(w, r, http.StatusForbidden, "You do not own this book")
		return
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Description != nil {
		book.Description = *req.Description
	}
	if req.IsAvailable != nil {
		book.IsAvailable = *req.IsAvailable
	}

	if err := book.Validate(); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid book data: "+err.Error())
		return
	}

	if err := h.bookStore.Update(r.Context(), book); err != nil {
		HandleAPIError(w, r, err, "Failed to update book")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, bookToResponse(book))
}

// Delete handles DELETE /api/books/{id} requests.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, bookID, ok := requireUserAndPathID(w, r, "id")
	if !ok {
		return
	}

	book, err := h.bookStore.GetByID(r.Context(), bookID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get book")
		return
	}

	if book.OwnerID != userID {
		shared.RespondWithError(w, r, http.StatusForbidden, "You do not own this book")
		return
	}

	if err := h.bookStore.Delete(r.Context(), bookID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete book")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"message": "Book deleted"})
}
