package audit

import (
	"log/slog"
	"slices"
)

// EngineConfig holds engine configuration.
type EngineConfig struct {
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
	// OnRun is called after each executed run (optional)
	OnRun func(*RuleRun)
}

// Engine executes bound rules, one at a time, in rule order.
type Engine struct {
	logger *slog.Logger
	onRun  func(*RuleRun)
}

// NewEngine creates an engine.
func NewEngine(cfg EngineConfig) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{logger: logger, onRun: cfg.OnRun}
}

// CategoryRules is a category with its bound rules.
type CategoryRules struct {
	Name  string
	Rules []*Rule
}

// ListCategories groups rules by category in order of first appearance.
func (e *Engine) ListCategories(rules []*Rule) []CategoryRules {
	var out []CategoryRules
	index := make(map[string]int)
	for _, r := range rules {
		i, ok := index[r.Category]
		if !ok {
			i = len(out)
			index[r.Category] = i
			out = append(out, CategoryRules{Name: r.Category})
		}
		out[i].Rules = append(out[i].Rules, r)
	}
	return out
}

// Selection picks rules by category name or rule ID. The zero value
// selects everything.
type Selection struct {
	Categories []string
	RuleIDs    []string
}

// Empty reports whether the selection selects everything.
func (s Selection) Empty() bool {
	return len(s.Categories) == 0 && len(s.RuleIDs) == 0
}

// Match reports whether r is selected.
func (s Selection) Match(r *Rule) bool {
	if s.Empty() {
		return true
	}
	return slices.Contains(s.Categories, r.Category) || slices.Contains(s.RuleIDs, r.ID)
}

// Validate checks that every name in the selection refers to one of rules.
func (s Selection) Validate(rules []*Rule) error {
	cats := make(map[string]bool)
	ids := make(map[string]bool)
	var available []string
	for _, r := range rules {
		if !cats[r.Category] {
			available = append(available, r.Category)
		}
		cats[r.Category] = true
		ids[r.ID] = true
	}
	for _, c := range s.Categories {
		if !cats[c] {
			return &UnknownRuleError{Name: c, Available: available}
		}
	}
	for _, id := range s.RuleIDs {
		if !ids[id] {
			return &UnknownRuleError{Name: id, Available: available}
		}
	}
	return nil
}

// RunAll executes every rule once and returns the runs in rule order.
func (e *Engine) RunAll(rules []*Rule) []*RuleRun {
	return e.RunSelected(rules, Selection{})
}

// RunSelected returns one run per rule, in rule order. Only selected rules
// are executed; the others stay NotRun.
func (e *Engine) RunSelected(rules []*Rule, sel Selection) []*RuleRun {
	e.logger.Info("starting audit", "rules", len(rules), "categories", sel.Categories, "rule_ids", sel.RuleIDs)

	runs := make([]*RuleRun, len(rules))
	executed := 0
	for i, r := range rules {
		run := NewRun(r)
		runs[i] = run
		if !sel.Match(r) {
			continue
		}
		// a fresh run cannot be reused
		_ = run.Execute()
		executed++
		e.logRun(run)
		if e.onRun != nil {
			e.onRun(run)
		}
	}

	e.logger.Info("audit completed", "executed", executed, "skipped", len(rules)-executed)
	return runs
}

func (e *Engine) logRun(run *RuleRun) {
	attrs := []any{
		"rule_id", run.Rule.ID,
		"rule", run.Rule.Name,
		"status", run.Status.String(),
		"problems", len(run.Problems),
		"duration_ms", run.Duration.Milliseconds(),
	}
	if run.Status == Errored {
		e.logger.Warn("rule errored", append(attrs, "error", run.Err.Error())...)
		return
	}
	e.logger.Debug("rule finished", attrs...)
}
