package config

import (
	"strings"
	"time"

	"github.com/leapstack-labs/regaudit/internal/fetch"
	"github.com/leapstack-labs/regaudit/pkg/audit"
)

// ExportConfig controls the annotated workbook written after an audit.
type ExportConfig struct {
	Enabled       bool          `koanf:"enabled"`
	Suffix        string        `koanf:"suffix"`
	RetryInterval time.Duration `koanf:"retry_interval"`
	// MaxRetries of 0 retries a locked file until the command is cancelled.
	MaxRetries uint64 `koanf:"max_retries"`
}

// VocabularyConfig overrides the value sets checked by the built-in rules.
type VocabularyConfig struct {
	Websites    []string `koanf:"websites"`
	GovServices []string `koanf:"gov_services"`
}

// AuditConfig holds rule selection and per-rule options.
type AuditConfig struct {
	Disabled   []string                  `koanf:"disabled"`
	Rules      map[string]map[string]any `koanf:"rules"`
	Vocabulary VocabularyConfig          `koanf:"vocabulary"`
}

// ServeConfig configures the HTTP server.
type ServeConfig struct {
	Addr string `koanf:"addr"`
}

// Config holds all CLI configuration options.
type Config struct {
	Sheet        string   `koanf:"sheet"`
	Format       string   `koanf:"format"`
	Delimiter    string   `koanf:"delimiter"`
	OutputFormat string   `koanf:"output"`
	Verbose      bool     `koanf:"verbose"`
	LogFormat    string   `koanf:"log_format"`
	RulesDir     string   `koanf:"rules_dir"`
	ProblemLimit int      `koanf:"problem_limit"`
	Categories   []string `koanf:"categories"`

	Export ExportConfig `koanf:"export"`
	Audit  AuditConfig  `koanf:"audit"`
	S3     fetch.Config `koanf:"s3"`
	Serve  ServeConfig  `koanf:"serve"`

	// ProjectRoot is the directory holding regaudit.yaml, or the CWD.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultOutput        = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogFormat     = "text"
	DefaultDelimiter     = ","
	DefaultRulesDir      = "rules"
	DefaultProblemLimit  = 20
	DefaultExportSuffix  = "_export"
	DefaultRetryInterval = 5 * time.Second
	DefaultServeAddr     = ":8686"
)

// Default returns the configuration used when nothing was loaded.
func Default() *Config {
	return &Config{
		Delimiter:    DefaultDelimiter,
		OutputFormat: DefaultOutput,
		LogFormat:    DefaultLogFormat,
		RulesDir:     DefaultRulesDir,
		ProblemLimit: DefaultProblemLimit,
		Export: ExportConfig{
			Enabled:       true,
			Suffix:        DefaultExportSuffix,
			RetryInterval: DefaultRetryInterval,
		},
		Serve: ServeConfig{Addr: DefaultServeAddr},
	}
}

// DelimiterRune returns the csv delimiter, or 0 to let the loader decide.
func (c *Config) DelimiterRune() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return 0
}

// RuleConfig converts the audit section into the engine configuration.
// Rule IDs are matched case-insensitively since env keys arrive lowercased.
func (c *Config) RuleConfig() *audit.Config {
	rc := audit.NewConfig()
	for _, id := range c.Audit.Disabled {
		rc.Disable(strings.ToUpper(strings.TrimSpace(id)))
	}
	if v := c.Audit.Vocabulary.Websites; len(v) > 0 {
		rc.SetDefault("websites", v)
	}
	if v := c.Audit.Vocabulary.GovServices; len(v) > 0 {
		rc.SetDefault("gov_services", v)
	}
	for id, opts := range c.Audit.Rules {
		for k, v := range opts {
			rc.SetOption(strings.ToUpper(id), k, v)
		}
	}
	return rc
}
