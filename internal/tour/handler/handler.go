package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vatour/internal/platform/middleware"
	"vatour/internal/tour"
	"vatour/pkg/domerr"
	"vatour/pkg/httputil"
)

// Service defines the interface for tour browsing and enrollment.
type Service interface {
	List(ctx context.Context) ([]tour.Tour, error)
	Get(ctx context.Context, slug string) (*tour.Tour, error)
	Join(ctx context.Context, userID, slug string) (*tour.Enrollment, error)
}

// Handler wires tour endpoints to the tour service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts tour endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/tours", h.handleList)
	r.Get("/tours/{slug}", h.handleGet)
	r.Post("/tours/{slug}/join", h.handleJoin)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	tours, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out := make([]tourSummary, 0, len(tours))
	for _, t := range tours {
		out = append(out, summarize(t))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"tours": out})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	t, err := h.service.Get(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, detail(*t))
}

func (h *Handler) handleJoin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		httputil.WriteError(w, domerr.New(domerr.CodeUnauthorized, "authentication required"))
		return
	}

	e, err := h.service.Join(ctx, userID, chi.URLParam(r, "slug"))
	if err != nil {
		h.logger.ErrorContext(ctx, "tour join failed",
			"request_id", middleware.GetRequestID(ctx),
			"user_id", userID,
			"tour", chi.URLParam(r, "slug"),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"tourId":   e.TourID,
		"status":   string(e.Status),
		"joinedAt": e.JoinedAt,
	})
}

type tourSummary struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	Legs int    `json:"legs"`
}

func summarize(t tour.Tour) tourSummary {
	return tourSummary{Slug: t.Slug, Name: t.Name, Legs: len(t.Legs)}
}

type legView struct {
	Number    int    `json:"number"`
	Departure string `json:"departure"`
	Arrival   string `json:"arrival"`
}

type ruleView struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type tourDetail struct {
	Slug             string     `json:"slug"`
	Name             string     `json:"name"`
	AllowAnyAircraft bool       `json:"allowAnyAircraft"`
	Legs             []legView  `json:"legs"`
	Rules            []ruleView `json:"rules"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// detail exposes only the public view of the rule list; hidden rules stay
// staff-side.
func detail(t tour.Tour) tourDetail {
	d := tourDetail{
		Slug:             t.Slug,
		Name:             t.Name,
		AllowAnyAircraft: t.AllowAnyAircraft,
		UpdatedAt:        t.UpdatedAt,
	}
	for _, leg := range t.Legs {
		d.Legs = append(d.Legs, legView{Number: leg.Number, Departure: leg.DepartureID, Arrival: leg.ArrivalID})
	}
	for _, rule := range tour.PublicRules(tour.ParseRules(t.ValidationRules)) {
		label := rule.PublicLabel
		if label == "" {
			label = string(rule.Kind)
		}
		d.Rules = append(d.Rules, ruleView{Label: label, Value: rule.Value})
	}
	return d
}
