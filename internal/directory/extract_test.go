package directory

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeMap(t *testing.T, raw string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	return m
}

func TestSessionFromMapFieldAliases(t *testing.T) {
	// Different endpoints name the same fields differently.
	m := decodeMap(t, `{
		"sessionId": "sess-9",
		"callSign": "RZO123",
		"memberId": 123456,
		"connectionStart": "2024-06-01T10:00:00Z",
		"flightPlans": [{"departure": "LPPT", "arr": "LPPR", "aircraft": "A320", "speed": "N0450", "altitude": "FL350"}]
	}`)

	s := sessionFromMap(m)
	assert.Equal(t, "sess-9", s.ID)
	assert.Equal(t, "RZO123", s.Callsign)
	assert.Equal(t, "123456", s.VID, "numeric identity tokens are stringified")
	require.NotNil(t, s.CreatedAt)
	require.Len(t, s.FlightPlans, 1)
	assert.Equal(t, "LPPT", s.FlightPlans[0].DepartureID)
	assert.Equal(t, "LPPR", s.FlightPlans[0].ArrivalID)
	assert.Equal(t, "A320", s.FlightPlans[0].AircraftType)
	assert.Equal(t, "N0450", s.FlightPlans[0].CruisingSpeed)
	assert.Equal(t, "FL350", s.FlightPlans[0].CruisingLevel)
}

func TestSessionFromMapMissingFields(t *testing.T) {
	s := sessionFromMap(decodeMap(t, `{"id": "sess-1"}`))
	assert.Equal(t, "sess-1", s.ID)
	assert.Empty(t, s.Callsign)
	assert.Nil(t, s.CreatedAt)
	assert.Nil(t, s.CompletedAt)
	assert.Empty(t, s.FlightPlans)
}

func TestFlightPlanFromMapMilitaryCoercion(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"bool true", `{"isMilitary": true}`, true},
		{"string true", `{"military": "true"}`, true},
		{"numeric one", `{"military": 1}`, true},
		{"absent", `{}`, false},
		{"bool false", `{"isMilitary": false}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, flightPlanFromMap(decodeMap(t, tt.raw)).Military)
		})
	}
}

func TestLiveFlightFromMapNestedPlan(t *testing.T) {
	lf := liveFlightFromMap(decodeMap(t, `{
		"callsign": "RZO456",
		"userId": 654321,
		"flightPlan": {"departureId": "LPPR", "arrivalId": "LPPT"}
	}`))
	assert.Equal(t, "RZO456", lf.Callsign)
	assert.Equal(t, "654321", lf.VID)
	assert.Equal(t, "LPPR", lf.DepartureID)
	assert.Equal(t, "LPPT", lf.ArrivalID)
}

func TestLiveFlightFromMapTopLevelWinsOverNested(t *testing.T) {
	lf := liveFlightFromMap(decodeMap(t, `{
		"callsign": "RZO456",
		"departureId": "LEMD",
		"flightPlan": {"departureId": "LPPR", "arrivalId": "LPPT"}
	}`))
	assert.Equal(t, "LEMD", lf.DepartureID)
	assert.Equal(t, "LPPT", lf.ArrivalID, "nested plan fills only missing fields")
}

func TestItemsOfShapes(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		var body any
		require.NoError(t, json.Unmarshal([]byte(`[{"id": "a"}, {"id": "b"}]`), &body))
		items, err := itemsOf(body)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("items envelope", func(t *testing.T) {
		var body any
		require.NoError(t, json.Unmarshal([]byte(`{"items": [{"id": "a"}]}`), &body))
		items, err := itemsOf(body)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("results envelope", func(t *testing.T) {
		var body any
		require.NoError(t, json.Unmarshal([]byte(`{"results": [{"id": "a"}]}`), &body))
		items, err := itemsOf(body)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("unknown envelope", func(t *testing.T) {
		var body any
		require.NoError(t, json.Unmarshal([]byte(`{"stuff": []}`), &body))
		_, err := itemsOf(body)
		assert.Error(t, err)
	})

	t.Run("scalar", func(t *testing.T) {
		_, err := itemsOf("nope")
		assert.Error(t, err)
	})

	t.Run("non-object entries skipped", func(t *testing.T) {
		var body any
		require.NoError(t, json.Unmarshal([]byte(`[{"id": "a"}, 42, "x"]`), &body))
		items, err := itemsOf(body)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})
}

func TestExtractTimeLayouts(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"rfc3339", `{"createdAt": "2024-06-01T10:00:00Z"}`, true},
		{"space separated", `{"createdAt": "2024-06-01 10:00:00"}`, true},
		{"no zone", `{"createdAt": "2024-06-01T10:00:00"}`, true},
		{"garbage", `{"createdAt": "yesterday"}`, false},
		{"wrong type", `{"createdAt": 12345}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractTime(decodeMap(t, tt.raw), "createdAt")
			if tt.ok {
				assert.NotNil(t, got)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}
