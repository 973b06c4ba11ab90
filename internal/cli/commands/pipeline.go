package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/leapstack-labs/regaudit/internal/cli/config"
	"github.com/leapstack-labs/regaudit/internal/fetch"
	"github.com/leapstack-labs/regaudit/pkg/audit"
	"github.com/leapstack-labs/regaudit/pkg/report"
	"github.com/leapstack-labs/regaudit/pkg/source"
)

// input is one table to audit.
type input struct {
	Path   string
	Format string
	Query  string
	// Reader replaces Path for uploaded bodies.
	Reader io.Reader
}

// prepared is an input that was loaded and bound to the catalog.
type prepared struct {
	in     input
	local  string
	loaded *source.Loaded
	rules  []*audit.Rule

	cleanup func()
}

// Close removes files fetched for a remote input.
func (p *prepared) Close() {
	if p.cleanup != nil {
		p.cleanup()
	}
}

// outcome is the result of auditing one input.
type outcome struct {
	Source   string
	Loaded   *source.Loaded
	Runs     []*audit.RuleRun
	Agg      *audit.Aggregation
	Export   string
	Duration time.Duration
}

// Document returns the structured report of the outcome.
func (o *outcome) Document() *report.Document {
	return report.NewDocument(o.Source, o.Runs, o.Agg)
}

// pipeline loads, binds, runs and exports inputs with one configuration.
type pipeline struct {
	cfg      *config.Config
	catalog  *audit.Catalog
	logger   *slog.Logger
	fetcher  *fetch.Fetcher
	exporter *report.WorkbookExporter
}

func newPipeline(cfg *config.Config, catalog *audit.Catalog, logger *slog.Logger) *pipeline {
	return &pipeline{
		cfg:     cfg,
		catalog: catalog,
		logger:  logger,
		fetcher: fetch.New(cfg.S3, fetch.WithLogger(logger)),
		exporter: report.NewWorkbookExporter(report.ExporterConfig{
			Logger:        logger,
			RetryInterval: cfg.Export.RetryInterval,
			MaxRetries:    cfg.Export.MaxRetries,
		}),
	}
}

// prepare loads the input and binds every enabled rule. Binding fails as a
// whole when any rule misses a column.
func (p *pipeline) prepare(ctx context.Context, in input) (*prepared, error) {
	pr := &prepared{in: in, local: in.Path}

	if in.Reader == nil && fetch.IsRemote(in.Path) {
		dir, err := os.MkdirTemp("", "regaudit-*")
		if err != nil {
			return nil, fmt.Errorf("failed to create download directory: %w", err)
		}
		pr.cleanup = func() { _ = os.RemoveAll(dir) }
		local, err := p.fetcher.Fetch(ctx, in.Path, dir)
		if err != nil {
			pr.Close()
			return nil, err
		}
		pr.local = local
	}

	format := in.Format
	if format == "" {
		format = p.cfg.Format
	}
	loaded, err := source.Load(ctx, source.Spec{
		Path:      pr.local,
		Format:    format,
		Sheet:     p.cfg.Sheet,
		Query:     in.Query,
		Delimiter: p.cfg.DelimiterRune(),
		Reader:    in.Reader,
	}, p.logger)
	if err != nil {
		pr.Close()
		return nil, err
	}
	pr.loaded = loaded

	rules, err := p.catalog.Bind(loaded.Table, p.cfg.RuleConfig())
	if err != nil {
		pr.Close()
		return nil, err
	}
	pr.rules = rules
	p.logger.Debug("rules bound", "input", in.Path, "rules", len(rules))
	return pr, nil
}

// execute runs the selected rules and, when export is set, writes the
// annotated workbook.
func (p *pipeline) execute(ctx context.Context, pr *prepared, sel audit.Selection, export bool) (*outcome, error) {
	if err := sel.Validate(pr.rules); err != nil {
		return nil, err
	}

	start := time.Now()
	eng := audit.NewEngine(audit.EngineConfig{Logger: p.logger})
	runs := eng.RunSelected(pr.rules, sel)
	agg := audit.Aggregate(runs)

	out := &outcome{
		Source:   pr.in.Path,
		Loaded:   pr.loaded,
		Runs:     runs,
		Agg:      agg,
		Duration: time.Since(start),
	}
	if out.Source == "" {
		out.Source = "<upload>"
	}

	if !export {
		return out, nil
	}
	dst := p.exportPath(pr)
	if err := p.exporter.Export(ctx, pr.local, dst, pr.loaded.Sheet, pr.loaded.Table, agg); err != nil {
		return out, fmt.Errorf("export failed: %w", err)
	}
	out.Export = dst
	return out, nil
}

// exportPath places the workbook next to a local input. Remote inputs and
// postgres tables export into the working directory.
func (p *pipeline) exportPath(pr *prepared) string {
	suffix := p.cfg.Export.Suffix
	switch pr.loaded.Format {
	case "duckdb", "sqlite", "postgres":
		name := pr.loaded.Sheet
		if name == "" {
			name = "query"
		}
		name = strings.ReplaceAll(name, ".", "_")
		dir := filepath.Dir(pr.local)
		if pr.loaded.Format == "postgres" || fetch.IsRemote(pr.in.Path) {
			dir = "."
		}
		return report.ExportPath(filepath.Join(dir, name), suffix)
	}
	if fetch.IsRemote(pr.in.Path) {
		return report.ExportPath(filepath.Base(pr.local), suffix)
	}
	return report.ExportPath(pr.local, suffix)
}
