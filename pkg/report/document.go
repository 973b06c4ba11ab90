package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/regaudit/pkg/audit"
)

// Document is the structured result of one audit.
type Document struct {
	ID          string      `json:"id" yaml:"id"`
	Source      string      `json:"source,omitempty" yaml:"source,omitempty"`
	GeneratedAt time.Time   `json:"generated_at" yaml:"generated_at"`
	Summary     Summary     `json:"summary" yaml:"summary"`
	Rules       []RuleEntry `json:"rules" yaml:"rules"`
	Rows        []RowEntry  `json:"rows" yaml:"rows"`
}

// Summary counts runs by status.
type Summary struct {
	Rules    int `json:"rules" yaml:"rules"`
	Passed   int `json:"passed" yaml:"passed"`
	Failed   int `json:"failed" yaml:"failed"`
	Errored  int `json:"errored" yaml:"errored"`
	Skipped  int `json:"skipped" yaml:"skipped"`
	Problems int `json:"problems" yaml:"problems"`
	Rows     int `json:"rows" yaml:"rows"`
}

// RuleEntry is one rule run.
type RuleEntry struct {
	ID         string         `json:"id" yaml:"id"`
	Name       string         `json:"name" yaml:"name"`
	Category   string         `json:"category" yaml:"category"`
	Status     audit.Status   `json:"status" yaml:"status"`
	DurationMS int64          `json:"duration_ms" yaml:"duration_ms"`
	Error      string         `json:"error,omitempty" yaml:"error,omitempty"`
	Problems   []ProblemEntry `json:"problems,omitempty" yaml:"problems,omitempty"`
}

// ProblemEntry is one problem of a rule run.
type ProblemEntry struct {
	Cell        string `json:"cell" yaml:"cell"`
	Row         int    `json:"row" yaml:"row"`
	Column      string `json:"column" yaml:"column"`
	Explanation string `json:"explanation" yaml:"explanation"`
}

// RowEntry is the aggregated view of one spreadsheet row.
type RowEntry struct {
	Row         int      `json:"row" yaml:"row"`
	Count       int      `json:"count" yaml:"count"`
	Description []string `json:"description" yaml:"description"`
}

// NewDocument builds a document from runs and their aggregation.
func NewDocument(src string, runs []*audit.RuleRun, agg *audit.Aggregation) *Document {
	doc := &Document{
		ID:          uuid.NewString(),
		Source:      src,
		GeneratedAt: time.Now().UTC(),
		Rules:       make([]RuleEntry, 0, len(runs)),
		Rows:        make([]RowEntry, 0, len(agg.Rows)),
	}

	for _, run := range runs {
		doc.Summary.Rules++
		switch run.Status {
		case audit.Passed:
			doc.Summary.Passed++
		case audit.Failed:
			doc.Summary.Failed++
		case audit.Errored:
			doc.Summary.Errored++
		default:
			doc.Summary.Skipped++
		}

		entry := RuleEntry{
			ID:         run.Rule.ID,
			Name:       run.Rule.Name,
			Category:   run.Rule.Category,
			Status:     run.Status,
			DurationMS: run.Duration.Milliseconds(),
		}
		if run.Err != nil {
			entry.Error = run.Err.Error()
		}
		for _, p := range run.Problems {
			entry.Problems = append(entry.Problems, ProblemEntry{
				Cell:        p.Cell(),
				Row:         p.SheetRow(),
				Column:      p.Column.Name(),
				Explanation: p.Explanation,
			})
		}
		doc.Rules = append(doc.Rules, entry)
	}

	for _, rr := range agg.Rows {
		doc.Rows = append(doc.Rows, RowEntry{
			Row:         rr.SheetRow(),
			Count:       len(rr.Problems),
			Description: rr.Lines(),
		})
	}
	doc.Summary.Problems = agg.Total
	doc.Summary.Rows = len(agg.Rows)
	return doc
}

// Write encodes the document as json or yaml.
func (d *Document) Write(w io.Writer, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported document format %q (use json or yaml)", format)
	}
}
