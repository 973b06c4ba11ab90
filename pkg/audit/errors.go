package audit

import (
	"errors"
	"fmt"
)

// ErrIllegalReuse is returned when a RuleRun is executed more than once.
var ErrIllegalReuse = errors.New("rule run already executed")

// InvalidRuleError is returned when a RuleDef cannot be registered or bound.
type InvalidRuleError struct {
	ID     string
	Reason string
}

func (e *InvalidRuleError) Error() string {
	return fmt.Sprintf("invalid rule %q: %s", e.ID, e.Reason)
}

// DuplicateRuleError is returned when a RuleDef collides with a registered one.
type DuplicateRuleError struct {
	ID       string
	Name     string
	Category string
}

func (e *DuplicateRuleError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("rule %q already registered in category %q", e.Name, e.Category)
	}
	return fmt.Sprintf("rule id %q already registered", e.ID)
}

// UnknownRuleError is returned when a selection names a rule or category
// the catalog does not have.
type UnknownRuleError struct {
	Name      string
	Available []string
}

func (e *UnknownRuleError) Error() string {
	return fmt.Sprintf("unknown rule or category %q\nAvailable: %v", e.Name, e.Available)
}

// RuntimeError wraps an error returned by, or a panic raised inside, a
// rule procedure.
type RuntimeError struct {
	Rule  string
	Err   error
	Stack []byte
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("rule %q: %v", e.Rule, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// PanicError carries a recovered panic value that was not an error.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
