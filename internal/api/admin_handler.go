package api

import (
	"log/slog"
	"net/http"

	"github.com/fylgde141/bookswap-api/internal/api/shared"
	"github.com/fylgde141/bookswap-api/internal/service"
)

// AdminHandler handles administrative API requests.
type AdminHandler struct {
	adminService service.AdminService
	logger       *slog.Logger
}

// NewAdminHandler creates a new AdminHandler with the given dependencies.
func NewAdminHandler(adminService service.AdminService, logger *slog.Logger) *AdminHandler {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &AdminHandler{
		adminService: adminService,
		logger:       logger,
	}
}

// Stats handles GET /api/admin/stats requests.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	stats, err := h.adminService.GetStats(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get stats")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// Promote handles PUT /api/admin/promote/{user_id} requests.
func (h *AdminHandler) Promote(w http.ResponseWriter, r *http.Request) {
	userID, targetID, ok := requireUserAndPathID(w, r, "user_id")
	if !ok {
		return
	}

	if err := h.adminService.Promote(r.Context(), userID, targetID); err != nil {
		HandleAPIError(w, r, err, "Failed to promote user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"message": "User promoted to admin"})
}
