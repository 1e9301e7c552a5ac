package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kudos/internal/award"
	"kudos/internal/events"
	id "kudos/pkg/domain"
	dErrors "kudos/pkg/domainerrors"
	"kudos/pkg/platform/httputil"
	"kudos/pkg/platform/sentinel"
)

// Service defines the awarding operations the admin surface exposes.
type Service interface {
	Award(ctx context.Context, submissionID id.SubmissionID, userID id.UserID, points int64) (award.Outcome, error)
	Revoke(ctx context.Context, submissionID id.SubmissionID, userID id.UserID, reason string) (award.Outcome, error)
	ReconcileValuationChange(ctx context.Context, submissionID id.SubmissionID, userID id.UserID, newPoints int64) (award.Outcome, error)
}

// Dispatcher accepts trigger events from the HTTP event source.
type Dispatcher interface {
	Dispatch(ctx context.Context, trigger events.Trigger) (award.Outcome, error)
}

// Handler wires the awarding endpoints to the engine. These routes are for
// the admin-approval workflow and event sources only; rendering code reads
// balances, never this surface.
type Handler struct {
	service    Service
	dispatcher Dispatcher
	logger     *slog.Logger
}

// New constructs an awarding handler.
func New(service Service, dispatcher Dispatcher, logger *slog.Logger) *Handler {
	return &Handler{service: service, dispatcher: dispatcher, logger: logger}
}

// Register mounts the awarding routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/submissions/{submissionID}/award", h.handleAward)
	r.Post("/admin/submissions/{submissionID}/revoke", h.handleRevoke)
	r.Post("/admin/submissions/{submissionID}/reconcile", h.handleReconcile)
	r.Post("/events/trigger", h.handleTrigger)
}

type awardRequest struct {
	UserID string `json:"user_id"`
	Points int64  `json:"points"`
}

type revokeRequest struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

type outcomeResponse struct {
	Outcome string `json:"outcome"`
}

func (h *Handler) handleAward(w http.ResponseWriter, r *http.Request) {
	submissionID, err := id.ParseSubmissionID(chi.URLParam(r, "submissionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req awardRequest
	if !h.decode(w, r, &req) {
		return
	}
	userID, err := id.ParseUserID(req.UserID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	outcome, err := h.service.Award(r.Context(), submissionID, userID, req.Points)
	h.respond(w, r, "award", outcome, err)
}

func (h *Handler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	submissionID, err := id.ParseSubmissionID(chi.URLParam(r, "submissionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req revokeRequest
	if !h.decode(w, r, &req) {
		return
	}
	userID, err := id.ParseUserID(req.UserID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	outcome, err := h.service.Revoke(r.Context(), submissionID, userID, req.Reason)
	h.respond(w, r, "revoke", outcome, err)
}

func (h *Handler) handleReconcile(w http.ResponseWriter, r *http.Request) {
	submissionID, err := id.ParseSubmissionID(chi.URLParam(r, "submissionID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req awardRequest
	if !h.decode(w, r, &req) {
		return
	}
	userID, err := id.ParseUserID(req.UserID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	outcome, err := h.service.ReconcileValuationChange(r.Context(), submissionID, userID, req.Points)
	h.respond(w, r, "reconcile", outcome, err)
}

func (h *Handler) handleTrigger(w http.ResponseWriter, r *http.Request) {
	var trigger events.Trigger
	if err := httputil.DecodeJSON(r, &trigger); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if _, err := award.ParseTriggerKind(string(trigger.Kind)); err != nil {
		httputil.WriteError(w, err)
		return
	}
	outcome, err := h.dispatcher.Dispatch(r.Context(), trigger)
	h.respond(w, r, "trigger", outcome, err)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httputil.DecodeJSON(r, dst); err != nil {
		httputil.WriteError(w, err)
		return false
	}
	return true
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, operation string, outcome award.Outcome, err error) {
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, dErrors.Wrap(dErrors.CodeNotFound, "submission not found", err))
			return
		}
		if dErrors.HasCode(err, dErrors.CodeInvalidInput) || dErrors.HasCode(err, dErrors.CodeBadRequest) || dErrors.HasCode(err, dErrors.CodeNotFound) {
			httputil.WriteError(w, err)
			return
		}
		// Storage fault: full context to the log, generic message outward.
		h.logger.Error("awarding operation failed",
			"operation", operation,
			"path", r.URL.Path,
			"error", err)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "could not process"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, outcomeResponse{Outcome: string(outcome)})
}
