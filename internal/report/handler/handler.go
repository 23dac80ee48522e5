package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vatour/internal/platform/middleware"
	"vatour/internal/report"
	"vatour/pkg/domerr"
	"vatour/pkg/httputil"
)

// Service defines the interface for report operations.
type Service interface {
	Submit(ctx context.Context, userID, vid string, sub report.Submission) (*report.Report, error)
	Review(ctx context.Context, actorID, reportID string, status report.Status, note string) (*report.Report, error)
	ListForTour(ctx context.Context, userID, tourSlug string) ([]report.Report, error)
}

// Handler wires report endpoints to the report service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a report handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts report endpoints on the router. The router chain is
// expected to have RequireAuth applied already; the review route adds the
// staff gate itself.
func (h *Handler) Register(r chi.Router) {
	r.Post("/reports", h.handleSubmit)
	r.Get("/tours/{slug}/reports", h.handleListForTour)
	r.With(middleware.RequireStaff(h.logger)).Post("/reports/{id}/review", h.handleReview)
}

// handleSubmit handles POST /reports.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	start := time.Now()

	userID := middleware.GetUserID(ctx)
	if userID == "" {
		httputil.WriteError(w, domerr.New(domerr.CodeUnauthorized, "authentication required"))
		return
	}

	req, err := httputil.Decode[submitRequest](r)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid report submission",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if req.LegID == "" {
		httputil.WriteError(w, domerr.New(domerr.CodeBadRequest, "legId is required"))
		return
	}

	result, err := h.service.Submit(ctx, userID, middleware.GetVID(ctx), req.toSubmission())
	if err != nil {
		h.logger.ErrorContext(ctx, "report submission failed",
			"request_id", requestID,
			"user_id", userID,
			"leg_id", req.LegID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "report submitted",
		"request_id", requestID,
		"user_id", userID,
		"leg_id", req.LegID,
		"status", result.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, fromReport(*result))
}

// handleListForTour handles GET /tours/{slug}/reports.
func (h *Handler) handleListForTour(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := middleware.GetUserID(ctx)
	if userID == "" {
		httputil.WriteError(w, domerr.New(domerr.CodeUnauthorized, "authentication required"))
		return
	}

	reports, err := h.service.ListForTour(ctx, userID, chi.URLParam(r, "slug"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	out := make([]reportResponse, 0, len(reports))
	for _, rep := range reports {
		out = append(out, fromReport(rep))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"reports": out})
}

// handleReview handles POST /reports/{id}/review (staff only).
func (h *Handler) handleReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, err := httputil.Decode[reviewRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Review(ctx, middleware.GetUserID(ctx), chi.URLParam(r, "id"), report.Status(req.Status), req.Note)
	if err != nil {
		h.logger.ErrorContext(ctx, "report review failed",
			"request_id", requestID,
			"report_id", chi.URLParam(r, "id"),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, fromReport(*result))
}
