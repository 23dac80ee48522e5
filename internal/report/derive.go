package report

import (
	"strings"
	"time"
)

const noteNoMatch = "no matching session or live flight found"

// Verdict is the automated pipeline's decision for one submission.
type Verdict struct {
	Status     Status
	ReviewedAt *time.Time
	ReviewNote string
}

// Derive turns matcher and evaluator output into the final automated verdict.
// The branches form an ordered decision table; the first matching row wins
// and the rows are mutually exclusive by construction:
//
//  1. precondition failed        -> PENDING, note = the failure
//  2. no strategy matched        -> PENDING, note = noteNoMatch
//  3. matched, violations        -> PENDING, note = joined violations
//  4. matched, zero violations   -> APPROVED, note names the strategy
//
// The automated path never produces REJECTED; that is reserved for staff
// review.
func Derive(match MatchResult, violations []string, now time.Time) Verdict {
	switch {
	case match.PreconditionFailure != "":
		return Verdict{Status: StatusPending, ReviewNote: match.PreconditionFailure}

	case !match.Matched():
		return Verdict{Status: StatusPending, ReviewNote: noteNoMatch}

	case len(violations) > 0:
		return Verdict{
			Status:     StatusPending,
			ReviewNote: "Automatic validation failed: " + strings.Join(violations, "; "),
		}

	default:
		return Verdict{
			Status:     StatusApproved,
			ReviewedAt: &now,
			ReviewNote: "Automatically approved (matched via " + string(match.Source) + ")",
		}
	}
}
