package audit

import "maps"

// Config controls which rules are enabled and the options they receive.
type Config struct {
	// DisabledRules contains rule IDs to skip
	DisabledRules map[string]bool

	// Defaults are options visible to every rule
	Defaults map[string]any

	// RuleOptions are per-rule options keyed by rule ID, layered over Defaults
	RuleOptions map[string]map[string]any
}

// NewConfig creates a default configuration with all rules enabled.
func NewConfig() *Config {
	return &Config{
		DisabledRules: make(map[string]bool),
		Defaults:      make(map[string]any),
		RuleOptions:   make(map[string]map[string]any),
	}
}

// IsDisabled returns true if the rule should be skipped.
func (c *Config) IsDisabled(ruleID string) bool {
	if c == nil {
		return false
	}
	return c.DisabledRules[ruleID]
}

// Disable disables a rule by ID.
func (c *Config) Disable(ruleID string) *Config {
	c.DisabledRules[ruleID] = true
	return c
}

// SetDefault sets an option for every rule.
func (c *Config) SetDefault(key string, value any) *Config {
	c.Defaults[key] = value
	return c
}

// SetOption sets an option for one rule.
func (c *Config) SetOption(ruleID, key string, value any) *Config {
	opts, ok := c.RuleOptions[ruleID]
	if !ok {
		opts = make(map[string]any)
		c.RuleOptions[ruleID] = opts
	}
	opts[key] = value
	return c
}

// Options returns the merged options for a rule. The result is a fresh map.
func (c *Config) Options(ruleID string) map[string]any {
	out := make(map[string]any)
	if c == nil {
		return out
	}
	maps.Copy(out, c.Defaults)
	maps.Copy(out, c.RuleOptions[ruleID])
	return out
}
