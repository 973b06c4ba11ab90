package config

import (
	"fmt"
	"slices"
	"unicode/utf8"
)

var (
	outputModes = []string{"auto", "text", "markdown", "json", "yaml"}
	logFormats  = []string{"text", "json"}
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(outputModes, c.OutputFormat) {
		return fmt.Errorf("invalid output %q (expected one of %v)", c.OutputFormat, outputModes)
	}
	if !slices.Contains(logFormats, c.LogFormat) {
		return fmt.Errorf("invalid log_format %q (expected one of %v)", c.LogFormat, logFormats)
	}
	if utf8.RuneCountInString(c.Delimiter) > 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter)
	}
	if c.ProblemLimit < 0 {
		return fmt.Errorf("problem_limit must not be negative, got %d", c.ProblemLimit)
	}
	if c.Export.Enabled && c.Export.RetryInterval <= 0 {
		return fmt.Errorf("export.retry_interval must be positive, got %s", c.Export.RetryInterval)
	}
	if c.Export.Enabled && c.Export.Suffix == "" {
		return fmt.Errorf("export.suffix is required\nHint: an empty suffix would overwrite the input workbook")
	}
	return nil
}
