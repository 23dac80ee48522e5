package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"vatour/internal/platform/config"
)

const tracerName = "vatour/directory"

// Client talks to the external flight-activity directory over HTTP. Every
// call carries a bounded timeout; there is no retry - callers treat a timeout
// like any other fetch failure and fall through to their next strategy.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	timeout time.Duration
	cache   *LiveCache
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewClient constructs a directory client. cache may be nil (live snapshot
// fetched on every call).
func NewClient(cfg config.DirectoryConfig, cache *LiveCache, logger *slog.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: cfg.Timeout},
		timeout: cfg.Timeout,
		cache:   cache,
		logger:  logger,
		tracer:  otel.Tracer(tracerName),
	}
}

// SessionFlightPlans returns the flight plans filed on a single session.
func (c *Client) SessionFlightPlans(ctx context.Context, sessionID string) ([]FlightPlan, error) {
	ctx, span := c.tracer.Start(ctx, "directory.SessionFlightPlans",
		trace.WithAttributes(attribute.String("session_id", sessionID)))
	defer span.End()

	body, err := c.get(ctx, "/tracker/sessions/"+url.PathEscape(sessionID)+"/flightplans", nil)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	items, err := itemsOf(body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("session flight plans: %w", err)
	}

	plans := make([]FlightPlan, 0, len(items))
	for _, item := range items {
		plans = append(plans, flightPlanFromMap(item))
	}
	return plans, nil
}

// Sessions queries historical sessions by identity and callsign, most recent
// first.
func (c *Client) Sessions(ctx context.Context, filter SessionFilter) ([]Session, error) {
	ctx, span := c.tracer.Start(ctx, "directory.Sessions",
		trace.WithAttributes(
			attribute.String("vid", filter.VID),
			attribute.String("callsign", filter.Callsign),
		))
	defer span.End()

	query := url.Values{}
	if filter.VID != "" {
		query.Set("userId", filter.VID)
	}
	if filter.Callsign != "" {
		query.Set("callsign", filter.Callsign)
	}
	if filter.ConnectionType != "" {
		query.Set("connectionType", filter.ConnectionType)
	}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.PerPage > 0 {
		query.Set("perPage", strconv.Itoa(filter.PerPage))
	}

	body, err := c.get(ctx, "/tracker/sessions", query)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	items, err := itemsOf(body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("sessions: %w", err)
	}

	sessions := make([]Session, 0, len(items))
	for _, item := range items {
		sessions = append(sessions, sessionFromMap(item))
	}
	return sessions, nil
}

// LiveFlights returns the current live-activity snapshot, served from the
// Redis cache when one is configured and fresh.
func (c *Client) LiveFlights(ctx context.Context) ([]LiveFlight, error) {
	ctx, span := c.tracer.Start(ctx, "directory.LiveFlights")
	defer span.End()

	if c.cache != nil {
		if flights, ok := c.cache.Get(ctx); ok {
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return flights, nil
		}
	}

	body, err := c.get(ctx, "/tracker/now/pilots", nil)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	items, err := itemsOf(body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("live flights: %w", err)
	}

	flights := make([]LiveFlight, 0, len(items))
	for _, item := range items {
		flights = append(flights, liveFlightFromMap(item))
	}

	if c.cache != nil {
		c.cache.Put(ctx, flights)
	}
	return flights, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build directory request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apiKey", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory request %s: unexpected status %d", path, resp.StatusCode)
	}

	var body any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode directory response %s: %w", path, err)
	}
	return body, nil
}
