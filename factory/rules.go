/*
Package factory provides JSON to Go status-rule conversion.

PURPOSE:
  Converts JSON status definitions into a validated flexitime.RuleSet.
  This enables status configuration without code changes - admins can
  add statuses like "Training" or "Detached Duty" in JSON and bind
  them to one of the built-in rule kinds.

WHY JSON?
  - Non-developers can add statuses
  - Easy integration with an admin UI
  - Version control for status definitions

JSON SCHEMA:
  {
    "presence": "present",
    "weekend": "weekend",
    "statuses": [
      {"label": "present", "rule": "attendance"},
      {"label": "vacation", "rule": "vacation"},
      {"label": "sick", "rule": "none"},
      {"label": "overtime", "rule": "overtime-accrual"}
    ]
  }

VALIDATION:
  Every rule name must resolve to a member of the closed RuleKind
  enumeration, and the presence and weekend labels must be bound.
  Validation happens at load time; a RuleSet in use can never hit an
  unknown kind.

USAGE:
  rules, err := factory.LoadRuleSet(jsonString)
  // or the built-in defaults:
  rules := factory.DefaultRuleSet()

SEE ALSO:
  - flexitime/rules.go: RuleKind and RuleSet definitions
*/
package factory

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/warp/flexitime-engine/flexitime"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// RuleSetJSON is the JSON representation of the status configuration.
type RuleSetJSON struct {
	Presence string       `json:"presence"`
	Weekend  string       `json:"weekend"`
	Statuses []StatusJSON `json:"statuses"`
}

// StatusJSON binds one status label to a rule kind.
type StatusJSON struct {
	Label string `json:"label"`
	Rule  string `json:"rule"`
}

// =============================================================================
// LOADING
// =============================================================================

// LoadRuleSet parses and validates a JSON status configuration.
func LoadRuleSet(jsonStr string) (*flexitime.RuleSet, error) {
	var cfg RuleSetJSON
	if err := json.Unmarshal([]byte(jsonStr), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse rule config: %w", err)
	}
	return buildRuleSet(cfg)
}

// LoadRuleSetFile reads and validates a JSON status configuration file.
func LoadRuleSetFile(path string) (*flexitime.RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule config: %w", err)
	}
	return LoadRuleSet(string(data))
}

func buildRuleSet(cfg RuleSetJSON) (*flexitime.RuleSet, error) {
	if len(cfg.Statuses) == 0 {
		return nil, fmt.Errorf("rule config has no statuses")
	}

	bindings := make(map[string]flexitime.RuleKind, len(cfg.Statuses))
	for _, st := range cfg.Statuses {
		if st.Label == "" {
			return nil, fmt.Errorf("rule config has a status with an empty label")
		}
		kind, ok := flexitime.ParseRuleKind(st.Rule)
		if !ok {
			return nil, &flexitime.RuleConfigError{Label: st.Label, Kind: st.Rule}
		}
		bindings[st.Label] = kind
	}

	rs := flexitime.NewRuleSet(cfg.Presence, cfg.Weekend, bindings)
	if cfg.Presence == "" || !rs.Known(cfg.Presence) {
		return nil, fmt.Errorf("rule config: presence label %q is not a configured status", cfg.Presence)
	}
	if cfg.Weekend == "" || !rs.Known(cfg.Weekend) {
		return nil, fmt.Errorf("rule config: weekend label %q is not a configured status", cfg.Weekend)
	}
	return rs, nil
}

// =============================================================================
// BUILT-IN DEFAULTS
// =============================================================================

// DefaultRuleSetJSON returns the built-in status configuration.
func DefaultRuleSetJSON() string {
	return `{
		"presence": "present",
		"weekend": "weekend",
		"statuses": [
			{"label": "present", "rule": "attendance"},
			{"label": "home office", "rule": "attendance"},
			{"label": "business trip", "rule": "attendance"},
			{"label": "vacation", "rule": "vacation"},
			{"label": "special duty", "rule": "special-duty"},
			{"label": "time off in lieu", "rule": "time-off-in-lieu"},
			{"label": "overtime", "rule": "overtime-accrual"},
			{"label": "overtime compensation", "rule": "overtime-compensation"},
			{"label": "sick", "rule": "none"},
			{"label": "child sick", "rule": "none"},
			{"label": "holiday", "rule": "none"},
			{"label": "weekend", "rule": "none"},
			{"label": "departed", "rule": "none"}
		]
	}`
}

// DefaultRuleSet returns the built-in rule set. It is validated by a
// package test, so the panic is unreachable in practice.
func DefaultRuleSet() *flexitime.RuleSet {
	rs, err := LoadRuleSet(DefaultRuleSetJSON())
	if err != nil {
		panic(fmt.Sprintf("built-in rule set invalid: %v", err))
	}
	return rs
}
