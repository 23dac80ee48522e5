package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vatour/internal/platform/middleware"
	reporthandler "vatour/internal/report/handler"
	tourhandler "vatour/internal/tour/handler"
)

// NewRouter wires the public API. Handlers stay thin; business logic lives in
// the domain services.
func NewRouter(
	logger *slog.Logger,
	validator middleware.TokenValidator,
	tours *tourhandler.Handler,
	reports *reporthandler.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(validator, logger))
		tours.Register(r)
		reports.Register(r)
	})

	return r
}
