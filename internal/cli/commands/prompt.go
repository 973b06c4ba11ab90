package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/leapstack-labs/regaudit/internal/cli/output"
	"github.com/leapstack-labs/regaudit/internal/fetch"
	"github.com/leapstack-labs/regaudit/pkg/audit"
	"github.com/leapstack-labs/regaudit/pkg/source"
)

// errAborted is returned when the user interrupts a prompt.
var errAborted = errors.New("aborted")

// lineReader is the part of *readline.Instance used by the prompts.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// newLineReader opens a readline prompt with input files completed from the
// working directory.
func newLineReader(stdout io.Writer) (*readline.Instance, error) {
	historyFile := ""
	if dir, err := os.UserCacheDir(); err == nil {
		if err := os.MkdirAll(filepath.Join(dir, "regaudit"), 0o750); err == nil {
			historyFile = filepath.Join(dir, "regaudit", "history")
		}
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     historyFile,
		AutoComplete:    readline.NewPrefixCompleter(readline.PcItemDynamic(listInputs)),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          stdout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize prompt: %w", err)
	}
	return rl, nil
}

// listInputs returns the files in the working directory with a known format.
func listInputs(string) []string {
	entries, err := os.ReadDir(".")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && source.DetectFormat(e.Name()) != "" {
			names = append(names, e.Name())
		}
	}
	return names
}

func readLine(rl lineReader) (string, error) {
	line, err := rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return "", errAborted
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPath asks for an input path until an existing file or remote URL
// is given. Quotes added by drag and drop are removed.
func promptPath(r *output.Renderer, rl lineReader) (string, error) {
	r.Println("Path to the registry workbook (drag and drop works):")
	rl.SetPrompt("path> ")
	for {
		line, err := readLine(rl)
		if err != nil {
			return "", err
		}
		path := strings.Trim(line, `"'`)
		if path == "" {
			continue
		}
		if fetch.IsRemote(path) || source.DetectFormat(path) == "postgres" {
			return path, nil
		}
		if _, err := os.Stat(path); err != nil {
			r.Warning(fmt.Sprintf("file %q does not exist", path))
			continue
		}
		return path, nil
	}
}

// printCategories lists the categories with their rules, numbered from 1.
func printCategories(r *output.Renderer, cats []audit.CategoryRules) {
	rows := make([][]string, 0, len(cats))
	for i, c := range cats {
		names := make([]string, len(c.Rules))
		for j, rule := range c.Rules {
			names[j] = rule.Name
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			c.Name,
			strconv.Itoa(len(c.Rules)),
			strings.Join(names, "\n"),
		})
	}
	r.Table([]string{"#", "Category", "Rules", "Names"}, rows)
}

// parseChoice parses comma-separated 1-based category numbers. A blank
// line selects nothing, which means every category.
func parseChoice(line string, n int) ([]int, error) {
	var out []int
	for _, part := range strings.Split(line, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		i, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", part)
		}
		if i < 1 || i > n {
			return nil, fmt.Errorf("no category %d (expected 1..%d)", i, n)
		}
		if !slices.Contains(out, i-1) {
			out = append(out, i-1)
		}
	}
	return out, nil
}

// promptCategories asks which categories to run.
func promptCategories(r *output.Renderer, rl lineReader, cats []audit.CategoryRules) (audit.Selection, error) {
	printCategories(r, cats)
	r.Println("Enter category numbers separated by commas (blank runs every category):")
	rl.SetPrompt("categories> ")
	for {
		line, err := readLine(rl)
		if err != nil {
			return audit.Selection{}, err
		}
		picked, err := parseChoice(line, len(cats))
		if err != nil {
			r.Warning(err.Error())
			continue
		}
		return selectionOf(cats, picked), nil
	}
}

// selectionOf selects the categories at the given indexes. No indexes
// selects everything.
func selectionOf(cats []audit.CategoryRules, picked []int) audit.Selection {
	var sel audit.Selection
	for _, i := range picked {
		sel.Categories = append(sel.Categories, cats[i].Name)
	}
	return sel
}
