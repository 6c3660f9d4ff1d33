package diagnostic

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics(t *testing.T) {
	var d Diagnostics
	assert.True(t, d.IsValid())
	assert.NoError(t, d.Error())

	d.AddWarning("path-conflict", "overlaps", "geo.Point", "Greeting")
	d.AddInfo("flatten", "merged", "geo.Point", "Location")
	assert.False(t, d.HasErrors())

	d.AddError("empty-segment", "empty path segment", "geo.Point", "Name")
	assert.True(t, d.HasErrors())

	all := d.All()
	require.Len(t, all, 3)
	assert.Equal(t, DiagnosticError, all[0].Severity)
	assert.Equal(t, DiagnosticWarning, all[1].Severity)
	assert.Equal(t, DiagnosticInfo, all[2].Severity)

	require.EqualError(t, d.Error(), "[geo.Point] Name: [empty-segment] empty path segment")
}

func TestDiagnostics_Merge(t *testing.T) {
	var a, b Diagnostics
	a.AddError("x", "first", "", "")
	b.AddError("y", "second", "", "")
	b.AddWarning("z", "third", "", "")

	a.Merge(b)
	assert.Len(t, a.Errors, 2)
	assert.Len(t, a.Warnings, 1)
}

func TestDiagnostic_String(t *testing.T) {
	tests := []struct {
		name     string
		diag     Diagnostic
		expected string
	}{
		{name: "message only", diag: Diagnostic{Message: "m"}, expected: "m"},
		{name: "with code", diag: Diagnostic{Code: "c", Message: "m"}, expected: "[c] m"},
		{
			name:     "with position",
			diag:     Diagnostic{Code: "c", Message: "m", Type: "T", FieldPath: "F", Pos: token.Position{Filename: "a.go", Line: 3, Column: 2}},
			expected: "a.go:3:2: [T] F: [c] m",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.diag.String())
		})
	}
}

func TestDiagnosticSeverity_String(t *testing.T) {
	assert.Equal(t, "info", DiagnosticInfo.String())
	assert.Equal(t, "warning", DiagnosticWarning.String())
	assert.Equal(t, "error", DiagnosticError.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(7).String())
}
