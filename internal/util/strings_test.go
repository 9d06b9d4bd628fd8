package util

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  string
	}{
		{name: "fits", input: "Desk Lamp", width: 12, want: "Desk Lamp"},
		{name: "exact", input: "Desk Lamp", width: 9, want: "Desk Lamp"},
		{name: "cut", input: "Cable Management Box", width: 10, want: "Cable Man…"},
		{name: "wide characters", input: "椅子椅子椅子", width: 5, want: "椅子…"},
		{name: "zero width", input: "Desk Lamp", width: 0, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.width)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, lipgloss.Width(got), max(tt.width, 0))
		})
	}
}

func TestTruncate_KeepsStyling(t *testing.T) {
	styled := lipgloss.NewStyle().Bold(true).Render("Cable Management Box")

	got := Truncate(styled, 10)
	assert.Equal(t, 10, lipgloss.Width(got))
}

func TestCell(t *testing.T) {
	assert.Equal(t, "Desk Lamp   ", Cell("Desk Lamp", 12))
	assert.Equal(t, "Cable Man…", Cell("Cable Management Box", 10))
	assert.Equal(t, "椅子  ", Cell("椅子", 6))
}

func TestCellRight(t *testing.T) {
	assert.Equal(t, "   12", CellRight("12", 5))
	assert.Equal(t, "2.5", CellRight("2.5", 3))
}
