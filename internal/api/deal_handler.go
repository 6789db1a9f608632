package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/fylgde141/bookswap-api/internal/api/shared"
	"github.com/fylgde141/bookswap-api/internal/service"
)

// DealHandler handles exchange deal API requests.
type DealHandler struct {
	dealService service.DealService
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewDealHandler creates a new DealHandler with the given dependencies.
func NewDealHandler(dealService service.DealService, logger *slog.Logger) *DealHandler {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &DealHandler{
		dealService: dealService,
		validator:   validator.New(),
		logger:      logger,
	}
}

// Propose handles POST /api/deals requests.
func (h *DealHandler) Propose(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req ProposeDealRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	deal, err := h.dealService.Propose(r.Context(), userID, req.RecipientID, req.RecipientBookID, req.Place)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to propose deal")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, dealToResponse(deal))
}

// Accept handles PUT /api/deals/{id}/accept requests. Only the recipient of
// the deal may accept it.
func (h *DealHandler) Accept(w http.ResponseWriter, r *http.Request) {
	userID, dealID, ok := requireUserAndPathID(w, r, "id")
	if !ok {
		return
	}

	var req AcceptDealRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	deal, err := h.dealService.Accept(r.Context(), userID, dealID, req.SenderBookID, req.GiftFlag)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to accept deal")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, dealToResponse(deal))
}

// Complete handles PUT /api/deals/{id}/complete requests.
func (h *DealHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID, dealID, ok := requireUserAndPathID(w, r, "id")
	if !ok {
		return
	}

	deal, err := h.dealService.Complete(r.Context(), userID, dealID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to complete deal")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, dealToResponse(deal))
}

// Cancel handles DELETE /api/deals/{id} requests.
func (h *DealHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, dealID, ok := requireUserAndPathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.dealService.Cancel(r.Context(), userID, dealID); err != nil {
		HandleAPIError(w, r, err, "Failed to cancel deal")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"message": "Deal cancelled"})
}

// ListDeals handles GET /api/deals requests. The user_id query parameter must
// match the authenticated user.
func (h *DealHandler) ListDeals(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	targetID := userID
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user_id filter")
			return
		}
		targetID = parsed
	}

	views, err := h.dealService.ListForUser(r.Context(), userID, targetID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list deals")
		return
	}

	resp := make([]DealResponse, 0, len(views))
	for _, view := range views {
		resp = append(resp, dealViewToResponse(view))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
