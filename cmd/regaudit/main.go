// Package main provides the CLI for regaudit, the real-estate registry auditor.
package main

import (
	"errors"
	"os"

	"github.com/leapstack-labs/regaudit/internal/cli"
	"github.com/leapstack-labs/regaudit/internal/cli/commands"
)

func main() {
	if err := cli.Execute(); err != nil {
		if errors.Is(err, commands.ErrAuditFailed) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
