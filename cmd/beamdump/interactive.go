package main

import (
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/beam"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// headerLines is the number of rows above the chunk list or detail pane.
const headerLines = 3

type browserState int

const (
	stateList browserState = iota
	stateDetail
)

type browserModel struct {
	module   *beam.Module
	rep      *report
	detail   viewport.Model
	selected int
	width    int
	height   int
	state    browserState
	ready    bool
}

func newBrowserModel(rep *report, m *beam.Module) *browserModel {
	return &browserModel{rep: rep, module: m, state: stateList}
}

func (m *browserModel) Init() tea.Cmd {
	return nil
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h := max(msg.Height-headerLines-2, 1)
		if !m.ready {
			m.detail = viewport.New(msg.Width, h)
			m.ready = true
		} else {
			m.detail.Width = msg.Width
			m.detail.Height = h
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateList {
				if m.selected > 0 {
					m.selected--
				}
				return m, nil
			}

		case "down", "j":
			if m.state == stateList {
				if m.selected < len(m.module.Chunks)-1 {
					m.selected++
				}
				return m, nil
			}

		case "enter":
			if m.state == stateList && len(m.module.Chunks) > 0 {
				m.detail.SetContent(chunkDetail(m.module.Chunks[m.selected], m.rep.Chunks[m.selected]))
				m.detail.GotoTop()
				m.state = stateDetail
			} else {
				m.state = stateList
			}
			return m, nil

		case "esc":
			m.state = stateList
			return m, nil
		}
	}

	if m.state == stateDetail {
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *browserModel) View() string {
	var b strings.Builder

	name := m.rep.Module
	if name == "" {
		name = "BEAM"
	}
	b.WriteString(titleStyle.Render(name))
	b.WriteString(" ")
	b.WriteString(m.rep.File)
	b.WriteString("\n\n")

	switch m.state {
	case stateList:
		for i, c := range m.rep.Chunks {
			line := fmt.Sprintf("%-10s %-16s %8d  %s", c.ID, c.Description, c.Size, c.Summary)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter details • q quit"))

	case stateDetail:
		b.WriteString(m.detail.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render(fmt.Sprintf("%3.f%% • ↑/↓ scroll • esc back • q quit", m.detail.ScrollPercent()*100)))
	}

	return b.String()
}

// chunkDetail renders the detail pane for one chunk: its decoded body
// followed by a hex dump of the payload.
func chunkDetail(c beam.Chunk, cr chunkReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", idStyle.Render(cr.ID), cr.Description)
	fmt.Fprintf(&b, "offset %d, size %d, span %d\n", cr.Offset, cr.Size, cr.Span)
	if cr.Digest != "" {
		fmt.Fprintf(&b, "blake3 %s\n", cr.Digest)
	}
	b.WriteString("\n")

	switch body := c.Body.(type) {
	case *beam.AtomTable:
		for i, a := range body.Atoms {
			fmt.Fprintf(&b, "%4d %s\n", i+1, a.Name)
		}
	case *beam.ExportTable:
		for _, e := range body.Exports {
			fmt.Fprintf(&b, "atom %d / %d -> label %d\n", e.Function, e.Arity, e.Label)
		}
	case *beam.OpaqueChunk:
		fmt.Fprintf(&b, "text %s\n\n", printable(body.Text()))
		b.WriteString(hex.Dump(body.Data))
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(hex.Dump(c.Payload))
	return b.String()
}

// printable replaces runes the terminal cannot show with '.'.
func printable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return '.'
	}, s)
}

func runInteractive(rep *report, m *beam.Module) error {
	p := tea.NewProgram(newBrowserModel(rep, m), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
