package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/leapstack-labs/regaudit/pkg/audit"
)

// ErrAuditFailed is returned by run --strict when a rule failed or errored.
var ErrAuditFailed = errors.New("audit found problems")

// RunOptions holds options for the run command.
type RunOptions struct {
	Query  string
	Rules  []string
	All    bool
	Pick   bool
	Watch  bool
	Strict bool
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run [path...]",
		Short: "Audit registry tables",
		Long: `Audit one or more registry tables against the rule catalog.

Each input is loaded (xlsx, csv, parquet, duckdb, sqlite, postgres or an
s3:// object), every enabled rule is bound to its columns, and the selected
rules are run. Problems are printed per rule and written into a copy of the
workbook named <input>_export.xlsx.

Without arguments on a terminal, run asks for the input path. Unless
--category, --rule or --all is given it then asks which categories to run.`,
		Example: `  # Audit a workbook, choosing categories interactively
  regaudit run registry.xlsx

  # Run two categories without prompting
  regaudit run registry.xlsx -c Общие -c ЗУ

  # Audit several files and print a JSON report
  regaudit run 2023.xlsx 2024.xlsx --all -o json

  # Audit a table in a DuckDB file and re-run when it changes
  regaudit run registry.duckdb --sheet assets --watch`,
		Aliases: []string{"check"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Query, "query", "", "SQL query for database inputs (default: SELECT * FROM --sheet)")
	cmd.Flags().StringSliceP("category", "c", nil, "Categories to run (repeatable)")
	cmd.Flags().StringSliceVarP(&opts.Rules, "rule", "r", nil, "Rule IDs to run (repeatable)")
	cmd.Flags().StringSlice("disable", nil, "Rule IDs to skip")
	cmd.Flags().BoolVar(&opts.All, "all", false, "Run every category without prompting")
	cmd.Flags().BoolVar(&opts.Pick, "pick", false, "Choose categories in a full-screen picker")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Re-run when the input file changes")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Exit non-zero when any rule fails or errors")
	cmd.Flags().Bool("no-export", false, "Do not write the annotated workbook")
	cmd.Flags().String("export-suffix", "", "Suffix of the exported workbook name (default: _export)")
	cmd.Flags().Int("problem-limit", 0, "Problems printed per rule, 0 for all (default: 20)")

	return cmd
}

// session holds the per-invocation state of run.
type session struct {
	cmd  *cobra.Command
	cc   *CommandContext
	opts *RunOptions
	pipe *pipeline

	interactive bool
	rl          *readline.Instance
	// chosen is the prompted selection, reused by --watch re-runs.
	chosen *audit.Selection
}

func (s *session) lineReader() (lineReader, error) {
	if s.rl == nil {
		rl, err := newLineReader(s.cmd.OutOrStdout())
		if err != nil {
			return nil, err
		}
		s.rl = rl
	}
	return s.rl, nil
}

func (s *session) close() {
	if s.rl != nil {
		_ = s.rl.Close()
	}
}

func runRun(cmd *cobra.Command, args []string, opts *RunOptions) error {
	ctx := cmd.Context()
	cc := NewCommandContext(cmd)

	s := &session{
		cmd:         cmd,
		cc:          cc,
		opts:        opts,
		interactive: stdinIsTerminal(cmd) && !cc.Renderer.EffectiveMode().Structured(),
	}
	defer s.close()

	if len(args) == 0 {
		if !s.interactive {
			return errors.New("no input given\nHint: regaudit run registry.xlsx")
		}
		rl, err := s.lineReader()
		if err != nil {
			return err
		}
		path, err := promptPath(cc.Renderer, rl)
		if err != nil {
			return err
		}
		args = []string{path}
	}

	catalog, err := loadCatalog(cc.Cfg, cc.Logger)
	if err != nil {
		return err
	}
	s.pipe = newPipeline(cc.Cfg, catalog, cc.Logger)

	switch {
	case opts.Watch:
		if len(args) != 1 {
			return errors.New("--watch takes exactly one input")
		}
		return watchInput(ctx, cc, args[0], func(ctx context.Context) error {
			_, err := s.auditOne(ctx, args[0])
			return err
		})
	case len(args) == 1:
		out, err := s.auditOne(ctx, args[0])
		if err != nil {
			return err
		}
		return s.verdict([]*outcome{out})
	default:
		outs, err := s.auditMany(ctx, args)
		if err != nil {
			return err
		}
		return s.verdict(outs)
	}
}

// auditOne audits and renders a single input, prompting for the selection
// when needed.
func (s *session) auditOne(ctx context.Context, path string) (*outcome, error) {
	pr, err := s.pipe.prepare(ctx, input{Path: path, Query: s.opts.Query})
	if err != nil {
		return nil, err
	}
	defer pr.Close()

	sel, err := s.selection(pr)
	if err != nil {
		return nil, err
	}

	out, execErr := s.pipe.execute(ctx, pr, sel, s.cc.Cfg.Export.Enabled)
	if out == nil {
		return nil, execErr
	}
	if err := s.emit([]*outcome{out}); err != nil {
		return nil, err
	}
	return out, execErr
}

// auditMany audits inputs concurrently and renders them in argument order.
// Prompts are skipped: without flags every category runs.
func (s *session) auditMany(ctx context.Context, paths []string) ([]*outcome, error) {
	outs := make([]*outcome, len(paths))
	errs := make([]error, len(paths))
	sel := s.flagSelection()

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			pr, err := s.pipe.prepare(ctx, input{Path: path, Query: s.opts.Query})
			if err != nil {
				errs[i] = err
				return nil
			}
			defer pr.Close()
			outs[i], errs[i] = s.pipe.execute(ctx, pr, sel, s.cc.Cfg.Export.Enabled)
			return nil
		})
	}
	_ = g.Wait()

	var done []*outcome
	for i := range paths {
		if outs[i] != nil {
			done = append(done, outs[i])
		}
	}
	if err := s.emit(done); err != nil {
		return nil, err
	}
	for i, err := range errs {
		if err != nil {
			s.cc.Renderer.Error(fmt.Sprintf("%s: %v", paths[i], err))
		}
	}
	return done, errors.Join(errs...)
}

func (s *session) flagSelection() audit.Selection {
	return audit.Selection{Categories: s.cc.Cfg.Categories, RuleIDs: s.opts.Rules}
}

// selection returns the flag selection, or asks for one on a terminal.
func (s *session) selection(pr *prepared) (audit.Selection, error) {
	sel := s.flagSelection()
	if !sel.Empty() || s.opts.All || !s.interactive {
		return sel, nil
	}
	if s.chosen != nil {
		return *s.chosen, nil
	}

	cats := audit.NewEngine(audit.EngineConfig{}).ListCategories(pr.rules)
	var err error
	if s.opts.Pick {
		sel, err = runPicker(cats, s.cmd.InOrStdin(), s.cmd.OutOrStdout())
	} else {
		var rl lineReader
		if rl, err = s.lineReader(); err == nil {
			sel, err = promptCategories(s.cc.Renderer, rl, cats)
		}
	}
	if err != nil {
		return audit.Selection{}, err
	}
	s.chosen = &sel
	return sel, nil
}

func (s *session) emit(outs []*outcome) error {
	r := s.cc.Renderer
	if r.EffectiveMode().Structured() {
		var v any
		if len(outs) == 1 {
			v = outs[0].Document()
		} else {
			docs := make([]any, len(outs))
			for i, o := range outs {
				docs[i] = o.Document()
			}
			v = docs
		}
		_, err := r.Structured(v)
		return err
	}
	for _, o := range outs {
		renderOutcome(r, o, s.cc.Cfg.ProblemLimit)
	}
	return nil
}

// verdict applies --strict.
func (s *session) verdict(outs []*outcome) error {
	if !s.opts.Strict {
		return nil
	}
	for _, o := range outs {
		for _, run := range o.Runs {
			if run.Status == audit.Failed || run.Status == audit.Errored {
				return ErrAuditFailed
			}
		}
	}
	return nil
}

func stdinIsTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
