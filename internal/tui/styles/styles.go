// Package styles holds the lipgloss styles of the scanform TUI.
package styles

import (
	"github.com/Iron-Ham/scanform/internal/host"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors - all colors meet WCAG AA contrast (4.5:1) on both black and dark surfaces
	PrimaryColor   = lipgloss.Color("#A78BFA") // Purple
	SecondaryColor = lipgloss.Color("#10B981") // Green
	WarningColor   = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#F87171") // Red
	MutedColor     = lipgloss.Color("#9CA3AF") // Gray
	SurfaceColor   = lipgloss.Color("#1F2937") // Dark surface
	TextColor      = lipgloss.Color("#F9FAFB") // Light text
	BorderColor    = lipgloss.Color("#6B7280") // Gray

	// Convenience styles for colors
	Primary   = lipgloss.NewStyle().Foreground(PrimaryColor)
	Secondary = lipgloss.NewStyle().Foreground(SecondaryColor)
	Warning   = lipgloss.NewStyle().Foreground(WarningColor)
	Error     = lipgloss.NewStyle().Foreground(ErrorColor)
	Muted     = lipgloss.NewStyle().Foreground(MutedColor)
	Text      = lipgloss.NewStyle().Foreground(TextColor)

	// Base styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor)

	Label = lipgloss.NewStyle().
		Foreground(MutedColor).
		Width(12)

	// Mode badges
	badge = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextColor).
		Padding(0, 1)

	EditBadge = badge.Background(SecondaryColor)
	ViewBadge = badge.Background(BorderColor)

	// Record list
	Row = lipgloss.NewStyle().
		PaddingLeft(2)

	FocusedRow = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			PaddingLeft(0)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(0, 1).
		MarginRight(1)

	FocusedCard = Card.
			BorderForeground(PrimaryColor)

	// Scan input box
	InputBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	FocusedInputBox = InputBox.
			BorderForeground(PrimaryColor)

	// Dialogs
	WarningDialog = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(WarningColor).
			Padding(1, 2).
			Width(56)

	PromptDialog = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PrimaryColor).
			Padding(1, 2).
			Width(40)

	// Activity log
	Activity = lipgloss.NewStyle().
			Foreground(MutedColor)

	ActivityError = lipgloss.NewStyle().
			Foreground(ErrorColor)
)

// ModeBadge renders the editor mode.
func ModeBadge(mode host.Mode) string {
	if mode == host.ModeEdit {
		return EditBadge.Render("EDIT")
	}
	return ViewBadge.Render("VIEW")
}
