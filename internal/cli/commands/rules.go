package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/regaudit/internal/cli/output"
	"github.com/leapstack-labs/regaudit/pkg/audit"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Category string // Filter by category
	Details  bool   // Show descriptions and options
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-id]",
		Short: "List available audit rules",
		Long: `List the built-in audit rules and the rules loaded from scripts in the
rules directory, grouped by category.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON/YAML: Machine-readable format`,
		Example: `  # List all rules
  regaudit rules

  # Show details for a specific rule
  regaudit rules L02

  # List the land rules with descriptions
  regaudit rules --in ЗУ -d

  # Output as JSON
  regaudit rules -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0])
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Category, "in", "", "Filter by category")
	cmd.Flags().BoolVarP(&opts.Details, "details", "d", false, "Show descriptions and options")

	return cmd
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	cc := NewCommandContext(cmd)
	r := cc.Renderer

	catalog, err := loadCatalog(cc.Cfg, cc.Logger)
	if err != nil {
		return err
	}

	cats := catalog.Categories()
	if opts.Category != "" {
		var filtered []audit.Category
		for _, c := range cats {
			if strings.EqualFold(c.Name, opts.Category) {
				filtered = append(filtered, c)
			}
		}
		if len(filtered) == 0 {
			return &audit.UnknownRuleError{Name: opts.Category, Available: categoryNames(cats)}
		}
		cats = filtered
	}

	switch r.EffectiveMode() {
	case output.ModeJSON, output.ModeYAML:
		_, err := r.Structured(newRulesOutput(cats))
		return err
	case output.ModeMarkdown:
		listRulesMarkdown(r, cats, opts.Details)
	default:
		listRulesText(r, cats, opts.Details)
	}
	return nil
}

func categoryNames(cats []audit.Category) []string {
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Name
	}
	return names
}

var titleCase = cases.Title(language.Und, cases.NoLower)

func listRulesText(r *output.Renderer, cats []audit.Category, verbose bool) {
	styles := r.Styles()

	total := 0
	for _, c := range cats {
		total += len(c.Rules)
	}

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Audit Rules (%d in %d categories)", total, len(cats))))
	r.Println("")

	for _, c := range cats {
		r.Println(styles.Header2.Render(fmt.Sprintf("%s (%d)", titleCase.String(c.Name), len(c.Rules))))
		for _, rule := range c.Rules {
			r.Printf("    %s  %s\n", styles.Muted.Render(rule.ID), rule.Name)
			if verbose && rule.Description != "" {
				r.Println(styles.Muted.Render("        " + rule.Description))
			}
			if verbose && len(rule.ConfigKeys) > 0 {
				r.Println(styles.Muted.Render("        Options: " + strings.Join(rule.ConfigKeys, ", ")))
			}
		}
		r.Println("")
	}

	r.Println(styles.Muted.Render("Use 'regaudit rules <rule-id>' for details"))
	r.Println("")
}

func listRulesMarkdown(r *output.Renderer, cats []audit.Category, verbose bool) {
	r.Println("# Audit Rules")
	r.Println("")

	for _, c := range cats {
		r.Println("## " + titleCase.String(c.Name))
		r.Println("")
		for _, rule := range c.Rules {
			r.Printf("- **%s** - %s\n", rule.ID, rule.Name)
			if verbose && rule.Description != "" {
				r.Println("  " + rule.Description)
			}
		}
		r.Println("")
	}
}

// RulesOutput is the structured output of the rules listing.
type RulesOutput struct {
	Categories []CategoryOutput `json:"categories" yaml:"categories"`
	Count      int              `json:"count" yaml:"count"`
}

// CategoryOutput is one category of RulesOutput.
type CategoryOutput struct {
	Name  string           `json:"name" yaml:"name"`
	Rules []audit.RuleInfo `json:"rules" yaml:"rules"`
}

func newRulesOutput(cats []audit.Category) RulesOutput {
	var out RulesOutput
	for _, c := range cats {
		co := CategoryOutput{Name: c.Name}
		for _, def := range c.Rules {
			co.Rules = append(co.Rules, def.Info())
		}
		out.Count += len(co.Rules)
		out.Categories = append(out.Categories, co)
	}
	return out
}

func showRule(cmd *cobra.Command, ruleID string) error {
	cc := NewCommandContext(cmd)
	r := cc.Renderer

	catalog, err := loadCatalog(cc.Cfg, cc.Logger)
	if err != nil {
		return err
	}

	def, ok := catalog.Get(strings.ToUpper(ruleID))
	if !ok {
		def, ok = catalog.Get(ruleID)
	}
	if !ok {
		return fmt.Errorf("rule %q not found\nHint: run 'regaudit rules' to list rule IDs", ruleID)
	}
	info := def.Info()

	switch r.EffectiveMode() {
	case output.ModeJSON, output.ModeYAML:
		_, err := r.Structured(info)
		return err
	case output.ModeMarkdown:
		showRuleMarkdown(r, info)
	default:
		showRuleText(r, info)
	}
	return nil
}

func showRuleText(r *output.Renderer, rule audit.RuleInfo) {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("%s - %s", rule.ID, rule.Name)))
	r.Println("")
	r.Printf("  %s: %s\n", styles.Bold.Render("Category"), rule.Category)
	r.Println("")

	if rule.Description != "" {
		r.Println(styles.Bold.Render("Description"))
		r.Println("  " + rule.Description)
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Println(styles.Bold.Render("Configuration"))
		r.Printf("  Options: %s\n", strings.Join(rule.ConfigKeys, ", "))
		r.Printf("  Set under audit.rules.%s in regaudit.yaml\n", rule.ID)
		r.Println("")
	}
}

func showRuleMarkdown(r *output.Renderer, rule audit.RuleInfo) {
	r.Printf("# %s - %s\n\n", rule.ID, rule.Name)
	r.Println(output.FormatKeyValue("Category", rule.Category))
	r.Println("")

	if rule.Description != "" {
		r.Println(rule.Description)
		r.Println("")
	}

	if len(rule.ConfigKeys) > 0 {
		r.Println("## Configuration")
		r.Println("")
		r.Printf("Options: `%s`\n", strings.Join(rule.ConfigKeys, "`, `"))
		r.Println("")
	}
}
