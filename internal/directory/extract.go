package directory

import (
	"fmt"
	"strconv"
	"time"
)

// The directory names the same field differently across endpoints
// (departureId vs departure vs dep, userId vs vid, and so on), so session and
// plan payloads are decoded as generic maps and read through ordered
// candidate lists instead of a single struct schema. A missing field is an
// unknown, never an error.

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

func extractString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			// Numeric identity tokens arrive as JSON numbers.
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func extractBool(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		switch v := m[k].(type) {
		case bool:
			return v
		case string:
			if v == "true" || v == "1" {
				return true
			}
		case float64:
			if v != 0 {
				return true
			}
		}
	}
	return false
}

func extractTime(m map[string]any, keys ...string) *time.Time {
	for _, k := range keys {
		s, ok := m[k].(string)
		if !ok || s == "" {
			continue
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return &t
			}
		}
	}
	return nil
}

func extractMapSlice(m map[string]any, keys ...string) []map[string]any {
	for _, k := range keys {
		raw, ok := m[k].([]any)
		if !ok {
			continue
		}
		out := make([]map[string]any, 0, len(raw))
		for _, item := range raw {
			if obj, ok := item.(map[string]any); ok {
				out = append(out, obj)
			}
		}
		return out
	}
	return nil
}

// itemsOf unwraps list responses that arrive either enveloped
// ({"items": [...]}) or as a bare array.
func itemsOf(body any) ([]map[string]any, error) {
	switch v := body.(type) {
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if obj, ok := item.(map[string]any); ok {
				out = append(out, obj)
			}
		}
		return out, nil
	case map[string]any:
		for _, key := range []string{"items", "results", "data"} {
			if _, ok := v[key]; ok {
				return extractMapSlice(v, key), nil
			}
		}
		return nil, fmt.Errorf("list response has no items field")
	default:
		return nil, fmt.Errorf("unexpected list response shape %T", body)
	}
}

func sessionFromMap(m map[string]any) Session {
	s := Session{
		ID:          extractString(m, "id", "sessionId", "session_id"),
		Callsign:    extractString(m, "callsign", "callSign"),
		VID:         extractString(m, "userId", "vid", "memberId", "user_id"),
		CreatedAt:   extractTime(m, "createdAt", "created_at", "connectionStart", "start"),
		CompletedAt: extractTime(m, "completedAt", "completed_at", "connectionEnd", "end"),
	}
	for _, planMap := range extractMapSlice(m, "flightPlans", "flight_plans", "plans") {
		s.FlightPlans = append(s.FlightPlans, flightPlanFromMap(planMap))
	}
	return s
}

func flightPlanFromMap(m map[string]any) FlightPlan {
	return FlightPlan{
		DepartureID:   extractString(m, "departureId", "departure", "dep"),
		ArrivalID:     extractString(m, "arrivalId", "arrival", "arr", "destination"),
		AircraftType:  extractString(m, "aircraftId", "aircraft", "aircraftType"),
		CruisingSpeed: extractString(m, "speed", "cruisingSpeed", "cruise_speed"),
		CruisingLevel: extractString(m, "level", "cruisingLevel", "cruise_level", "altitude"),
		Remarks:       extractString(m, "remarks", "otherInfo", "other_information"),
		FlightRules:   extractString(m, "flightRules", "flight_rules", "rules"),
		Military:      extractBool(m, "isMilitary", "military"),
	}
}

func liveFlightFromMap(m map[string]any) LiveFlight {
	lf := LiveFlight{
		Callsign:    extractString(m, "callsign", "callSign"),
		VID:         extractString(m, "userId", "vid", "memberId", "user_id"),
		DepartureID: extractString(m, "departureId", "departure", "dep"),
		ArrivalID:   extractString(m, "arrivalId", "arrival", "arr", "destination"),
	}
	// Live trackers often nest route data under the flight plan.
	if plan, ok := m["flightPlan"].(map[string]any); ok {
		if lf.DepartureID == "" {
			lf.DepartureID = extractString(plan, "departureId", "departure", "dep")
		}
		if lf.ArrivalID == "" {
			lf.ArrivalID = extractString(plan, "arrivalId", "arrival", "arr", "destination")
		}
	}
	return lf
}
