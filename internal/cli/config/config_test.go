package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("sheet", "", "")
	fs.StringP("output", "o", "", "")
	fs.Int("problem-limit", 0, "")
	fs.StringSlice("category", nil, "")
	fs.Bool("no-export", false, "")
	fs.Bool("watch", false, "")
	return fs
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	ResetConfig()

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultProblemLimit, cfg.ProblemLimit)
	assert.True(t, cfg.Export.Enabled)
	assert.Equal(t, DefaultExportSuffix, cfg.Export.Suffix)
	assert.Equal(t, DefaultRetryInterval, cfg.Export.RetryInterval)
	assert.Equal(t, DefaultServeAddr, cfg.Serve.Addr)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, DefaultRulesDir), cfg.RulesDir)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_Precedence(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "regaudit.yaml"), `
sheet: Реестр
problem_limit: 5
export:
  suffix: _checked
  retry_interval: 1s
audit:
  disabled: [g13]
  rules:
    L02: {low_price: 25}
  vocabulary:
    websites: [РАД]
s3:
  secret_key: ${REGAUDIT_TEST_SECRET}
`)
	writeFile(t, filepath.Join(root, ".env"), "REGAUDIT_PROBLEM_LIMIT=7\n")

	// config is found from a nested directory
	nested := filepath.Join(root, "data", "2024")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)
	t.Setenv("REGAUDIT_EXPORT__MAX_RETRIES", "3")
	t.Setenv("REGAUDIT_CATEGORIES", "Общие,ЗУ")
	t.Setenv("REGAUDIT_TEST_SECRET", "s3cr3t")
	t.Cleanup(func() { _ = os.Unsetenv("REGAUDIT_PROBLEM_LIMIT") })
	ResetConfig()

	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"--output", "json", "--no-export", "--watch"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "regaudit.yaml"), GetConfigFileUsed())
	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, "Реестр", cfg.Sheet)
	assert.Equal(t, 7, cfg.ProblemLimit, ".env overrides the file")
	assert.Equal(t, "json", cfg.OutputFormat, "flags override everything")
	assert.False(t, cfg.Export.Enabled)
	assert.Equal(t, "_checked", cfg.Export.Suffix)
	assert.Equal(t, time.Second, cfg.Export.RetryInterval)
	assert.Equal(t, uint64(3), cfg.Export.MaxRetries)
	assert.Equal(t, []string{"Общие", "ЗУ"}, cfg.Categories)
	assert.Equal(t, "s3cr3t", cfg.S3.SecretKey)

	rc := cfg.RuleConfig()
	assert.True(t, rc.IsDisabled("G13"))
	assert.Equal(t, 25, rc.Options("L02")["low_price"])
	assert.Equal(t, []string{"РАД"}, rc.Options("G03")["websites"])
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("REGAUDIT_PROBLEM_LIMIT", "7")
	ResetConfig()

	flags := testFlags()
	require.NoError(t, flags.Parse([]string{"--problem-limit", "0", "--category", "ОКС"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.ProblemLimit)
	assert.Equal(t, []string{"ОКС"}, cfg.Categories)
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{"bad output", "output: html\n", "invalid output"},
		{"bad log format", "log_format: xml\n", "invalid log_format"},
		{"long delimiter", "delimiter: ';;'\n", "single character"},
		{"negative limit", "problem_limit: -1\n", "must not be negative"},
		{"empty suffix", "export: {suffix: ''}\n", "export.suffix is required"},
		{"broken yaml", "output: [\n", "error reading config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "custom.yaml")
			writeFile(t, path, tt.content)
			ResetConfig()

			_, err := LoadConfig(path, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestConfig_DelimiterRune(t *testing.T) {
	assert.Equal(t, ';', (&Config{Delimiter: ";"}).DelimiterRune())
	assert.Equal(t, '\t', (&Config{Delimiter: "\t"}).DelimiterRune())
	assert.Equal(t, rune(0), (&Config{}).DelimiterRune())
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR_ONE", "value_one")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"single variable", "${TEST_VAR_ONE}", "value_one"},
		{"unset variable stays as-is", "${UNSET_VARIABLE}", "${UNSET_VARIABLE}"},
		{"mixed set and unset", "${TEST_VAR_ONE}:${UNSET_VAR}", "value_one:${UNSET_VAR}"},
		{"no variables", "plain string", "plain string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvVars(tt.input))
		})
	}
}

func TestGetLogger_Fallback(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))
}
