package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"vatour/internal/platform/middleware"
	"vatour/internal/tour"
)

func newTourRouter(t *testing.T, userID string, tours ...tour.Tour) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	svc := tour.NewService(tour.NewInMemoryStore(tours...), tour.NewInMemoryEnrollmentStore(), logger, nil)

	h := New(svc, logger)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := req.Context()
			if userID != "" {
				ctx = context.WithValue(ctx, middleware.ContextKeyUserID, userID)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	h.Register(r)
	return r
}

func sampleTour() tour.Tour {
	return tour.Tour{
		ID:   "tour-1",
		Slug: "azores-hopper",
		Name: "Azores Hopper",
		ValidationRules: `[
			{"key": "aircraft", "value": "A320", "public": true, "publicLabel": "Aircraft"},
			{"key": "remarks", "value": "VATOUR", "public": false}
		]`,
		Legs: []tour.Leg{
			{ID: "leg-1", TourID: "tour-1", Number: 1, DepartureID: "LPPT", ArrivalID: "LPPR"},
		},
	}
}

func TestListTours(t *testing.T) {
	router := newTourRouter(t, "user-1", sampleTour())

	req := httptest.NewRequest(http.MethodGet, "/tours", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Tours []tourSummary `json:"tours"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Tours) != 1 || resp.Tours[0].Slug != "azores-hopper" || resp.Tours[0].Legs != 1 {
		t.Fatalf("unexpected tours: %+v", resp.Tours)
	}
}

func TestGetTourHidesPrivateRules(t *testing.T) {
	router := newTourRouter(t, "user-1", sampleTour())

	req := httptest.NewRequest(http.MethodGet, "/tours/azores-hopper", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp tourDetail
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Rules) != 1 {
		t.Fatalf("expected only the public rule, got %+v", resp.Rules)
	}
	if resp.Rules[0].Label != "Aircraft" || resp.Rules[0].Value != "A320" {
		t.Fatalf("unexpected rule view: %+v", resp.Rules[0])
	}
}

func TestGetUnknownTour(t *testing.T) {
	router := newTourRouter(t, "user-1", sampleTour())

	req := httptest.NewRequest(http.MethodGet, "/tours/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestJoinTour(t *testing.T) {
	router := newTourRouter(t, "user-1", sampleTour())

	req := httptest.NewRequest(http.MethodPost, "/tours/azores-hopper/join", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		TourID string `json:"tourId"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.TourID != "tour-1" || resp.Status != string(tour.EnrollmentActive) {
		t.Fatalf("unexpected join response: %+v", resp)
	}
}

func TestJoinRequiresAuthenticatedUser(t *testing.T) {
	router := newTourRouter(t, "", sampleTour())

	req := httptest.NewRequest(http.MethodPost, "/tours/azores-hopper/join", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
