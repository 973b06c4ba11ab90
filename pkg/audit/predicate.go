package audit

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/leapstack-labs/regaudit/pkg/table"
)

// IsBlank reports whether s is empty or whitespace only.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsZeroOrEmptyText reports whether s is blank, "0", or a number equal to zero.
// Text that does not parse is not zero.
func IsZeroOrEmptyText(s string) bool {
	if IsBlank(s) || s == "0" {
		return true
	}
	v, err := table.ParseNumber(s)
	return err == nil && v == 0
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	fold := cases.Fold()
	return strings.Contains(fold.String(s), fold.String(substr))
}

// OneOf returns a predicate matching any of values exactly.
func OneOf(values ...string) func(string) bool {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return func(s string) bool {
		_, ok := set[s]
		return ok
	}
}

// HasPrefix returns a predicate matching text that starts with prefix.
func HasPrefix(prefix string) func(string) bool {
	return func(s string) bool {
		return strings.HasPrefix(s, prefix)
	}
}
