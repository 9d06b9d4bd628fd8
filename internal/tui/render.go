package tui

import (
	"strconv"
	"strings"

	"github.com/Iron-Ham/scanform/internal/demo"
	"github.com/Iron-Ham/scanform/internal/tui/styles"
	"github.com/Iron-Ham/scanform/internal/util"
	"github.com/charmbracelet/lipgloss"
)

// Column widths of the picking lines.
const (
	productWidth = 24
	barcodeWidth = 15
	qtyWidth     = 6
	cardWidth    = 18
)

// View implements tea.Model.
func (m Model) View() string {
	snap := m.editor.Snapshot()

	sections := []string{
		m.renderHeader(snap),
		m.renderValues(snap),
		m.renderLines(snap),
		m.renderScanInput(),
		m.renderActivity(),
		m.help.View(m.keys),
	}
	screen := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if dialog := m.renderDialog(); dialog != "" {
		if m.width > 0 && m.height > 0 {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, dialog)
		}
		return screen + "\n\n" + dialog
	}
	return screen
}

func (m Model) renderHeader(snap demo.Snapshot) string {
	return styles.Title.Render("scanform") + "  " +
		styles.Text.Render(snap.Picking) + "  " +
		styles.ModeBadge(snap.Mode) + "\n"
}

func (m Model) renderValues(snap demo.Snapshot) string {
	var b strings.Builder
	for _, field := range m.editor.FieldNames() {
		value := snap.Values[field]
		if pending, ok := snap.Pending[field]; ok {
			value = pending + styles.Warning.Render(" (editing)")
		}
		b.WriteString(styles.Label.Render(field))
		b.WriteString(value)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderLines(snap demo.Snapshot) string {
	if len(snap.Lines) == 0 {
		return styles.Muted.Render("no operation lines") + "\n"
	}
	if m.kanban {
		cards := make([]string, 0, len(snap.Lines))
		for _, l := range snap.Lines {
			style := styles.Card
			if l.ID == snap.Focused {
				style = styles.FocusedCard
			}
			card := util.Cell(l.Product, cardWidth) + "\n" +
				util.Cell(barcodeOrDash(l.Barcode), cardWidth) + "\n" +
				"qty " + formatQty(l.Quantity)
			cards = append(cards, style.Render(card))
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, cards...) + "\n"
	}

	var b strings.Builder
	for _, l := range snap.Lines {
		row := util.Cell(l.Product, productWidth) + " " +
			util.Cell(barcodeOrDash(l.Barcode), barcodeWidth) + " " +
			util.CellRight(formatQty(l.Quantity), qtyWidth)
		if l.ID == snap.Focused {
			b.WriteString(styles.FocusedRow.Render("▶ " + row))
		} else {
			b.WriteString(styles.Row.Render(row))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderScanInput() string {
	box := styles.InputBox
	hint := styles.Muted.Render("tab: lines, type digits to set a quantity")
	if m.scan.Focused() {
		box = styles.FocusedInputBox
		hint = styles.Muted.Render("tab: leave the scan input")
	}
	return box.Render(m.scan.View()) + "\n" + hint + "\n"
}

func (m Model) renderActivity() string {
	if len(m.activity) == 0 {
		return ""
	}
	var b strings.Builder
	for _, line := range m.activity {
		style := styles.Activity
		if line.Error {
			style = styles.ActivityError
		}
		b.WriteString(style.Render(util.Truncate(line.Text, m.activityWidth())))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderDialog() string {
	switch {
	case m.warning != nil:
		return styles.WarningDialog.Render(
			styles.Warning.Bold(true).Render(m.warning.Title) + "\n\n" +
				m.warning.Body + "\n\n" +
				styles.Muted.Render("enter or esc to close"))
	case m.prompt != nil:
		return styles.PromptDialog.Render(
			styles.Title.Render(m.prompt.Title) + "\n\n" +
				m.qty.View() + "\n\n" +
				styles.Muted.Render("enter to confirm, esc to discard"))
	default:
		return ""
	}
}

// activityWidth is the width available to one activity line.
func (m Model) activityWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}

func barcodeOrDash(barcode string) string {
	if barcode == "" {
		return "-"
	}
	return barcode
}

func formatQty(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
