package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/regaudit/pkg/source"
)

func TestVersionCommand_ReportsInputFormats(t *testing.T) {
	tests := []struct {
		version  string
		wantHead string
	}{
		{version: "0.1.0", wantHead: "regaudit v0.1.0"},
		{version: "dev", wantHead: "regaudit vdev"},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			cmd := NewVersionCommand(tt.version)
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetArgs(nil)
			require.NoError(t, cmd.Execute())

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			require.Len(t, lines, 2)
			assert.Equal(t, tt.wantHead, lines[0])
			assert.Equal(t, "Registry audit engine (inputs: csv, duckdb, parquet, postgres, sqlite, xlsx)", lines[1])
		})
	}
}

func TestVersionCommand_FollowsLoaderRegistry(t *testing.T) {
	formats := source.Formats()
	require.NotEmpty(t, formats)
	assert.IsNonDecreasing(t, formats)

	buf := new(bytes.Buffer)
	cmd := NewVersionCommand("test")
	cmd.SetOut(buf)
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "inputs: "+strings.Join(formats, ", "))
}
