package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"kudos/internal/balance"
	id "kudos/pkg/domain"
	dErrors "kudos/pkg/domainerrors"
	"kudos/pkg/platform/httputil"
)

// Service defines the read operations the balance surface exposes.
type Service interface {
	Summary(ctx context.Context, userID id.UserID) (balance.Summary, error)
	CanAfford(ctx context.Context, userID id.UserID, cost int64, affordCtx balance.AffordContext) (bool, error)
}

// Handler serves balance reads for catalog filtering and display rendering.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a balance handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the balance routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/users/{userID}/balance", h.handleSummary)
	r.Get("/users/{userID}/can-afford", h.handleCanAfford)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	summary, err := h.service.Summary(r.Context(), userID)
	if err != nil {
		h.logger.Error("balance summary failed", "user_id", userID.String(), "error", err)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "could not process"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

type canAffordResponse struct {
	CanAfford bool `json:"can_afford"`
}

func (h *Handler) handleCanAfford(w http.ResponseWriter, r *http.Request) {
	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	cost, err := strconv.ParseInt(r.URL.Query().Get("cost"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "cost must be an integer"))
		return
	}
	affordCtx, ok := balance.ParseAffordContext(r.URL.Query().Get("context"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "context must be catalog or cart"))
		return
	}
	can, err := h.service.CanAfford(r.Context(), userID, cost, affordCtx)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvalidInput) {
			httputil.WriteError(w, err)
			return
		}
		h.logger.Error("affordability check failed", "user_id", userID.String(), "error", err)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "could not process"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, canAffordResponse{CanAfford: can})
}
