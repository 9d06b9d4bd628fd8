package tui

import (
	"context"
	"strings"

	"github.com/Iron-Ham/scanform/internal/app"
	"github.com/Iron-Ham/scanform/internal/demo"
	"github.com/Iron-Ham/scanform/internal/host"
	"github.com/Iron-Ham/scanform/internal/quantity"
	"github.com/Iron-Ham/scanform/internal/records"
	"github.com/Iron-Ham/scanform/internal/tui/msg"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Model is the Bubbletea model of the scan station: a picking form with
// its lines, a scan input, and the dialogs raised by the scan core.
type Model struct {
	core   *app.App
	editor *demo.Editor

	keys keyMap
	help help.Model

	// scan receives scanner keystrokes while focused. When it is blurred,
	// digit keys go to the quantity capture.
	scan textinput.Model
	// qty is the input of the open prompt.
	qty    textinput.Model
	prompt *host.Prompt

	warning  *msg.WarnMsg
	activity []activityLine
	kanban   bool

	width  int
	height int
}

// NewModel creates the model for a started core over editor.
func NewModel(core *app.App, editor *demo.Editor, kanban bool) Model {
	scan := textinput.New()
	scan.Placeholder = "scan a barcode"
	scan.Prompt = "▌ "
	scan.CharLimit = 128
	scan.Focus()

	qty := textinput.New()
	qty.CharLimit = 16

	return Model{
		core:   core,
		editor: editor,
		keys:   defaultKeyMap(),
		help:   help.New(),
		scan:   scan,
		qty:    qty,
		kanban: kanban,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		m.help.Width = message.Width
		return m, nil

	case msg.WarnMsg:
		m.warning = &message
		return m, nil

	case msg.PromptMsg:
		return m.openPrompt(message.Prompt), textinput.Blink

	case msg.EventMsg:
		if line, ok := describeEvent(message.Event); ok {
			m.activity = appendActivity(m.activity, line)
		}
		return m, nil

	case msg.ScanSettledMsg, msg.QuantityDoneMsg:
		// Outcomes reach the operator through events and warnings.
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(message)
	}

	if m.prompt != nil {
		var cmd tea.Cmd
		m.qty, cmd = m.qty.Update(message)
		return m, cmd
	}
	var cmd tea.Cmd
	m.scan, cmd = m.scan.Update(message)
	return m, cmd
}

func (m Model) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(k, m.keys.Quit) {
		return m, tea.Quit
	}

	// A warning blocks everything until dismissed.
	if m.warning != nil {
		if key.Matches(k, m.keys.Submit, m.keys.Dismiss) {
			m.warning = nil
		}
		return m, nil
	}

	if m.prompt != nil {
		return m.handlePromptKey(k)
	}

	switch {
	case key.Matches(k, m.keys.SwitchPane):
		if m.scan.Focused() {
			m.scan.Blur()
			return m, nil
		}
		return m, m.scan.Focus()
	case key.Matches(k, m.keys.ToggleView):
		m.kanban = !m.kanban
		if m.kanban {
			m.editor.SetViewKind(records.KindKanban)
		} else {
			m.editor.SetViewKind(records.KindList)
		}
		return m, nil
	case key.Matches(k, m.keys.ToggleEdit):
		if m.editor.Mode() == host.ModeEdit {
			m.editor.SetMode(host.ModeView)
		} else {
			m.editor.SetMode(host.ModeEdit)
		}
		return m, nil
	case key.Matches(k, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if k.Type == tea.KeyRunes && len(k.Runes) == 1 {
		press := quantity.KeyPress{Rune: k.Runes[0], InputFocused: m.scan.Focused()}
		if m.core.Quantity.HandleKey(press) {
			return m, nil
		}
	}

	if !m.scan.Focused() {
		return m, nil
	}
	if key.Matches(k, m.keys.Submit) {
		return m.submitScan()
	}
	var cmd tea.Cmd
	m.scan, cmd = m.scan.Update(k)
	return m, cmd
}

func (m Model) handlePromptKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(k, m.keys.Submit):
		p, input := *m.prompt, m.qty.Value()
		m = m.closePrompt()
		return m, msg.ConfirmPrompt(p, input)
	case key.Matches(k, m.keys.Dismiss):
		if m.prompt.Discard != nil {
			m.prompt.Discard()
		}
		return m.closePrompt(), nil
	}
	var cmd tea.Cmd
	m.qty, cmd = m.qty.Update(k)
	return m, cmd
}

// submitScan hands the scan input's content to the dispatcher. OnScan runs
// here, on the UI goroutine, so scans are classified in the order typed.
func (m Model) submitScan() (tea.Model, tea.Cmd) {
	token := strings.TrimSpace(m.scan.Value())
	m.scan.Reset()
	if token == "" {
		return m, nil
	}
	res := m.core.Handler.OnScan(context.Background(), token)
	if res.Ticket != nil {
		return m, msg.WaitScan(res.Ticket)
	}
	return m, nil
}

func (m Model) openPrompt(p host.Prompt) Model {
	m.prompt = &p
	m.qty.SetValue(p.Value)
	m.qty.CursorEnd()
	m.qty.Focus()
	return m
}

func (m Model) closePrompt() Model {
	m.prompt = nil
	m.qty.Blur()
	m.qty.Reset()
	return m
}
