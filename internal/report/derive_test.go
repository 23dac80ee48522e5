package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveDecisionTable(t *testing.T) {
	now := time.Date(2026, 8, 15, 18, 0, 0, 0, time.UTC)

	t.Run("precondition failure wins over everything", func(t *testing.T) {
		v := Derive(MatchResult{PreconditionFailure: "callsign is required"}, []string{"Speed 480 exceeds 450"}, now)
		assert.Equal(t, StatusPending, v.Status)
		assert.Equal(t, "callsign is required", v.ReviewNote)
		assert.Nil(t, v.ReviewedAt)
	})

	t.Run("no match", func(t *testing.T) {
		v := Derive(MatchResult{}, nil, now)
		assert.Equal(t, StatusPending, v.Status)
		assert.Equal(t, "no matching session or live flight found", v.ReviewNote)
	})

	t.Run("violations join with semicolons", func(t *testing.T) {
		v := Derive(MatchResult{Source: MatchSessions}, []string{"Speed 480 exceeds 450", "Military flights are not allowed"}, now)
		assert.Equal(t, StatusPending, v.Status)
		assert.Equal(t, "Automatic validation failed: Speed 480 exceeds 450; Military flights are not allowed", v.ReviewNote)
		assert.Nil(t, v.ReviewedAt)
	})

	t.Run("clean session match approves", func(t *testing.T) {
		v := Derive(MatchResult{Source: MatchSessions}, nil, now)
		assert.Equal(t, StatusApproved, v.Status)
		require.NotNil(t, v.ReviewedAt)
		assert.Equal(t, now, *v.ReviewedAt)
		assert.Contains(t, v.ReviewNote, "sessions")
	})

	t.Run("clean live match approves with live note", func(t *testing.T) {
		v := Derive(MatchResult{Source: MatchLive}, nil, now)
		assert.Equal(t, StatusApproved, v.Status)
		assert.Contains(t, v.ReviewNote, "live")
	})
}
