package tour

import (
	"encoding/json"
	"strconv"
)

// RuleKind is the closed set of recognized validation rule keys. Anything
// else parses as RuleUnknown and is ignored by the evaluator.
type RuleKind string

const (
	RuleAircraft    RuleKind = "aircraft"
	RuleMaxSpeed    RuleKind = "maxSpeed"
	RuleMaxLevel    RuleKind = "maxLevel"
	RuleCallsign    RuleKind = "callsign"
	RuleRemarks     RuleKind = "remarks"
	RuleFlightRules RuleKind = "flightRules"
	RuleMilitary    RuleKind = "military"
	RuleUnknown     RuleKind = ""
)

// Rule is one parsed (key, value) compliance constraint from a tour's stored
// rule list. Public/PublicLabel only drive member-facing display.
type Rule struct {
	Kind        RuleKind
	Value       string
	Public      bool
	PublicLabel string
}

// Inert reports whether the rule can never fire: unrecognized key or empty
// value.
func (r Rule) Inert() bool {
	return r.Kind == RuleUnknown || r.Value == ""
}

var knownKinds = map[string]RuleKind{
	string(RuleAircraft):    RuleAircraft,
	string(RuleMaxSpeed):    RuleMaxSpeed,
	string(RuleMaxLevel):    RuleMaxLevel,
	string(RuleCallsign):    RuleCallsign,
	string(RuleRemarks):     RuleRemarks,
	string(RuleFlightRules): RuleFlightRules,
	string(RuleMilitary):    RuleMilitary,
}

// ParseRules decodes a tour's stored validation-rule list. It never fails:
// null, empty, malformed, or non-array input yields an empty list. Elements
// are coerced field by field, so one oddly typed tuple does not poison the
// rest. Order and duplicate keys are preserved - upstream data can carry the
// same key twice and the evaluator scores every tuple independently.
func ParseRules(raw string) []Rule {
	if raw == "" {
		return nil
	}

	var stored []map[string]any
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil
	}

	rules := make([]Rule, 0, len(stored))
	for _, s := range stored {
		rules = append(rules, Rule{
			Kind:        knownKinds[coerceString(s["key"])],
			Value:       coerceString(s["value"]),
			Public:      coerceBool(s["public"]),
			PublicLabel: coerceString(s["publicLabel"]),
		})
	}
	return rules
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func coerceBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true" || t == "1"
	case float64:
		return t != 0
	default:
		return false
	}
}

// PublicRules filters the parsed list down to what members may see.
func PublicRules(rules []Rule) []Rule {
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.Public && !r.Inert() {
			out = append(out, r)
		}
	}
	return out
}
