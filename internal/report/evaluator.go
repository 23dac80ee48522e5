package report

import (
	"fmt"
	"strings"

	"vatour/internal/directory"
	"vatour/internal/tour"
)

// EvalInput groups everything the evaluator considers. Plan is nil for
// live-matched reports; plan-derived rules are then skipped as unknown rather
// than scored as violations.
type EvalInput struct {
	Rules            []tour.Rule
	Plan             *directory.FlightPlan
	Session          *directory.Session
	Callsign         string
	AllowAnyAircraft bool
}

// Evaluate applies every rule tuple in stored order and accumulates all
// violations. Duplicate keys are scored independently - the stored rule list
// does not guarantee key uniqueness and deduping would change verdicts on
// existing data. Empty result means compliant.
//
// This is pure domain logic - no I/O, no side effects.
func Evaluate(in EvalInput) []string {
	var violations []string
	for _, rule := range in.Rules {
		if rule.Inert() {
			continue
		}
		if msg, violated := evaluateRule(rule, in); violated {
			violations = append(violations, msg)
		}
	}
	return violations
}

// evaluateRule scores a single tuple. Unparseable numeric values make the
// rule inert, never a pass or a violation.
func evaluateRule(rule tour.Rule, in EvalInput) (string, bool) {
	switch rule.Kind {
	case tour.RuleAircraft:
		if in.AllowAnyAircraft || in.Plan == nil {
			return "", false
		}
		allowed := splitList(rule.Value)
		actual := strings.ToUpper(strings.TrimSpace(in.Plan.AircraftType))
		if actual == "" || !contains(allowed, actual) {
			return fmt.Sprintf("Aircraft %q is not in the allowed list (%s)", in.Plan.AircraftType, rule.Value), true
		}

	case tour.RuleMaxSpeed:
		if in.Plan == nil {
			return "", false
		}
		limit, ok := firstNumber(rule.Value)
		if !ok {
			return "", false
		}
		speed, ok := parseSpeed(in.Plan.CruisingSpeed)
		if ok && speed > limit {
			return fmt.Sprintf("Speed %d exceeds %d", speed, limit), true
		}

	case tour.RuleMaxLevel:
		if in.Plan == nil {
			return "", false
		}
		limit, ok := parseLevel(rule.Value)
		if !ok {
			return "", false
		}
		level, ok := parseLevel(in.Plan.CruisingLevel)
		if ok && level > limit {
			return fmt.Sprintf("Flight level %d exceeds FL%d", level, limit), true
		}

	case tour.RuleCallsign:
		prefix := strings.ToUpper(strings.TrimSpace(rule.Value))
		if !strings.HasPrefix(strings.ToUpper(strings.TrimSpace(in.Callsign)), prefix) {
			return fmt.Sprintf("Callsign %s must start with %s", in.Callsign, rule.Value), true
		}

	case tour.RuleRemarks:
		if in.Plan == nil {
			return "", false
		}
		if !strings.Contains(strings.ToUpper(in.Plan.Remarks), strings.ToUpper(rule.Value)) {
			return fmt.Sprintf("Flight plan remarks must contain %q", rule.Value), true
		}

	case tour.RuleFlightRules:
		if in.Plan == nil || strings.TrimSpace(in.Plan.FlightRules) == "" {
			return "", false
		}
		allowed := splitList(rule.Value)
		for i, a := range allowed {
			allowed[i] = normalizeFlightRules(a)
		}
		filed := normalizeFlightRules(in.Plan.FlightRules)
		if !contains(allowed, filed) {
			return fmt.Sprintf("Flight rules %s are not allowed (expected %s)", filed, rule.Value), true
		}

	case tour.RuleMilitary:
		if in.Plan == nil {
			return "", false
		}
		if strings.EqualFold(strings.TrimSpace(rule.Value), "forbidden") && in.Plan.Military {
			return "Military flights are not allowed", true
		}
	}
	return "", false
}
