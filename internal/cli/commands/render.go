package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/leapstack-labs/regaudit/internal/cli/output"
	"github.com/leapstack-labs/regaudit/pkg/audit"
)

// renderOutcome prints each executed rule with its problems, then a
// summary table.
func renderOutcome(r *output.Renderer, o *outcome, limit int) {
	r.Header(1, o.Source)
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatKeyValue("Format", o.Loaded.Format))
		if o.Loaded.Sheet != "" {
			r.Println(output.FormatKeyValue("Sheet", o.Loaded.Sheet))
		}
		r.Println(output.FormatKeyValue("Rows", strconv.Itoa(o.Loaded.Table.RowCount())))
		r.Println()
	} else {
		r.Muted(fmt.Sprintf("%s, sheet %q, %d rows", o.Loaded.Format, o.Loaded.Sheet, o.Loaded.Table.RowCount()))
	}

	for _, run := range o.Runs {
		if run.Status == audit.NotRun {
			continue
		}
		renderRun(r, run, limit)
	}

	renderSummary(r, o)

	switch {
	case o.Export != "":
		r.Success(fmt.Sprintf("Report saved to %s", o.Export))
	case o.Agg.Total == 0:
		r.Success("No problems found")
	}
}

// renderRun prints a status badge and at most limit problems. A limit of 0
// prints every problem.
func renderRun(r *output.Renderer, run *audit.RuleRun, limit int) {
	detail := run.Duration.Round(time.Microsecond).String()
	if n := len(run.Problems); n > 0 {
		detail = fmt.Sprintf("%d problems, %s", n, detail)
	}
	r.StatusLine(fmt.Sprintf("%s %s", run.Rule.ID, run.Rule.Name), run.Status.String(), detail)

	for i, p := range run.Problems {
		if limit > 0 && i >= limit {
			r.Muted(fmt.Sprintf("   %d..%d hidden, use --problem-limit 0 to show all", i+1, len(run.Problems)))
			break
		}
		r.Printf("   %d. [%s] %s\n", i+1, p.Cell(), p)
	}

	if run.Err != nil {
		r.Println("   " + r.Styles().Error.Render("error: "+run.Err.Error()))
	}
	if run.Status != audit.Passed {
		r.Println()
	}
}

func renderSummary(r *output.Renderer, o *outcome) {
	var passed, failed, errored int
	rows := make([][]string, 0, len(o.Runs))
	for _, run := range o.Runs {
		switch run.Status {
		case audit.Passed:
			passed++
		case audit.Failed:
			failed++
		case audit.Errored:
			errored++
		default:
			continue
		}
		rows = append(rows, []string{
			run.Rule.ID,
			run.Rule.Category,
			run.Rule.Name,
			run.Status.String(),
			strconv.Itoa(len(run.Problems)),
		})
	}

	r.Header(2, "Summary")
	r.Table([]string{"ID", "Category", "Rule", "Status", "Problems"}, rows)
	r.Printf("%d passed, %d failed, %d errored; %d problems in %d rows (%s)\n",
		passed, failed, errored, o.Agg.Total, len(o.Agg.Rows), o.Duration.Round(time.Microsecond))
}
