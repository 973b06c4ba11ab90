package starlark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
)

func TestGoToStarlark(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		wantStr string
		wantErr bool
	}{
		{name: "nil", input: nil, wantStr: "None"},
		{name: "string", input: "ГУИОН", wantStr: `"ГУИОН"`},
		{name: "int", input: 10, wantStr: "10"},
		{name: "float", input: 2.5, wantStr: "2.5"},
		{name: "string slice", input: []string{"РАД", "другое"}, wantStr: `["РАД", "другое"]`},
		{name: "any slice", input: []any{"x", 1, true}, wantStr: `["x", 1, True]`},
		{name: "map keys sorted", input: map[string]any{"low_price": 10, "gov_services": []string{"ГУИОН"}}, wantStr: `{"gov_services": ["ГУИОН"], "low_price": 10}`},
		{name: "nil map", input: map[string]any(nil), wantStr: "{}"},
		{name: "unsupported", input: struct{}{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GoToStarlark(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStr, got.String())
		})
	}
}

func TestStringList(t *testing.T) {
	got, err := stringList(starlark.NewList([]starlark.Value{starlark.String("a"), starlark.String("b")}), "columns")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	_, err = stringList(starlark.NewList([]starlark.Value{starlark.MakeInt(1)}), "columns")
	assert.ErrorContains(t, err, "columns must contain only strings")

	_, err = stringList(starlark.String("a"), "columns")
	assert.ErrorContains(t, err, "columns must be a list of strings")
}
