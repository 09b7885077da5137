package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/varcodec/codec"
	"github.com/wippyai/varcodec/transcoder"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	consumedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	trailingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Strikethrough(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type inspectModel struct {
	err      error
	typ      wit.Type
	result   string
	data     []byte
	input    textinput.Model
	cfg      codec.Config
	consumed int
}

func newInspectModel(cfg codec.Config, t wit.Type, initial string) *inspectModel {
	ti := textinput.New()
	ti.Placeholder = "hex bytes, e.g. 82 2c 6a"
	ti.Prompt = "> "
	ti.Width = 60
	ti.SetValue(initial)
	ti.Focus()

	m := &inspectModel{
		typ:   t,
		cfg:   cfg,
		input: ti,
	}
	m.refresh()
	return m
}

func (m *inspectModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.refresh()
	}
	return m, cmd
}

// refresh decodes the current input and records how many bytes the value
// used.
func (m *inspectModel) refresh() {
	m.result, m.err, m.consumed = "", nil, 0

	data, err := parseHex(m.input.Value())
	if err != nil {
		m.data = nil
		m.err = err
		return
	}
	m.data = data
	if len(data) == 0 {
		return
	}

	var value any
	err = m.cfg.Unmarshal(data, codec.DecodeFunc(func(d *codec.Decoder) error {
		v, err := transcoder.DecodeValue(d, m.typ)
		m.consumed = d.Offset()
		value = v
		return err
	}))
	if err != nil {
		m.err = err
		return
	}

	out, err := json.MarshalIndent(toJSON(m.typ, value), "", "  ")
	if err != nil {
		m.err = err
		return
	}
	m.result = string(out)
}

func (m *inspectModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("varcodec inspect"))
	b.WriteString(" ")
	b.WriteString(typeStyle.Render(typeString(m.typ)))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if len(m.data) > 0 {
		b.WriteString(m.renderBytes())
		b.WriteString("\n\n")
	}

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	case m.result != "":
		b.WriteString(resultStyle.Render(m.result))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("type hex to decode • esc quit"))

	return b.String()
}

// renderBytes shows the input with the bytes the value consumed
// highlighted. Trailing bytes are struck through; after a failure the
// bytes from the failing offset on are marked as errors.
func (m *inspectModel) renderBytes() string {
	head := fmt.Sprintf("% x", m.data[:m.consumed])
	tail := fmt.Sprintf("% x", m.data[m.consumed:])

	tailStyle := trailingStyle
	if m.err != nil {
		tailStyle = errorStyle
	}

	var b strings.Builder
	b.WriteString(consumedStyle.Render(head))
	if head != "" && tail != "" {
		b.WriteString(" ")
	}
	b.WriteString(tailStyle.Render(tail))
	if m.err != nil {
		fmt.Fprintf(&b, "\nstopped at offset %d of %d", m.consumed, len(m.data))
	} else {
		fmt.Fprintf(&b, "\n%d of %d bytes used", m.consumed, len(m.data))
	}
	return b.String()
}

func inspectCmd(cfg codec.Config, t wit.Type, args []string) error {
	p := tea.NewProgram(newInspectModel(cfg, t, strings.Join(args, " ")), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
