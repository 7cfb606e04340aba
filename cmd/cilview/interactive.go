package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	cil "github.com/keremc/cil"
	"github.com/keremc/cil/ir"
	"github.com/keremc/cil/printer"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type viewState int

const (
	stateGlobals viewState = iota
	stateSource
	stateLayout
)

type interactiveModel struct {
	file     *ir.File
	machine  *cil.Machine
	state    viewState
	globals  []globalInfo
	filter   textinput.Model
	selected int
	width    int
	err      error
}

type globalInfo struct {
	label  string
	detail string
	comp   *ir.CompInfo
}

func runInteractive(file *ir.File, machine *cil.Machine) error {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}

	ti := textinput.New()
	ti.Placeholder = "filter globals"
	ti.CharLimit = 64

	m := &interactiveModel{
		file:    file,
		machine: machine,
		filter:  ti,
		width:   width,
		globals: collectGlobals(file),
	}
	_, err := tea.NewProgram(m).Run()
	return err
}

func collectGlobals(f *ir.File) []globalInfo {
	var out []globalInfo
	for _, g := range f.Globals {
		switch x := g.(type) {
		case *ir.GType:
			out = append(out, globalInfo{label: x.Info.Name, detail: "typedef"})
		case *ir.GCompTag:
			kw := "union"
			if x.Comp.Struct {
				kw = "struct"
			}
			out = append(out, globalInfo{label: x.Comp.Name, detail: kw, comp: x.Comp})
		case *ir.GEnumTag:
			out = append(out, globalInfo{label: x.Enum.Name, detail: "enum"})
		case *ir.GVarDecl:
			out = append(out, globalInfo{label: x.Var.Name, detail: "declaration"})
		case *ir.GVar:
			out = append(out, globalInfo{label: x.Var.Name, detail: "variable"})
		case *ir.GFun:
			out = append(out, globalInfo{label: x.Fn.Var.Name, detail: "function"})
		}
	}
	return out
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) visibleGlobals() []globalInfo {
	needle := strings.ToLower(m.filter.Value())
	if needle == "" {
		return m.globals
	}
	var out []globalInfo
	for _, g := range m.globals {
		if strings.Contains(strings.ToLower(g.label), needle) {
			out = append(out, g)
		}
	}
	return out
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if !m.filter.Focused() {
				return m, tea.Quit
			}
		case "esc":
			if m.filter.Focused() {
				m.filter.Blur()
				return m, nil
			}
			m.state = stateGlobals
			return m, nil
		case "/":
			if m.state == stateGlobals && !m.filter.Focused() {
				m.filter.Focus()
				return m, textinput.Blink
			}
		case "up", "k":
			if !m.filter.Focused() && m.selected > 0 {
				m.selected--
				return m, nil
			}
		case "down", "j":
			if !m.filter.Focused() && m.selected < len(m.visibleGlobals())-1 {
				m.selected++
				return m, nil
			}
		case "s":
			if !m.filter.Focused() {
				m.state = stateSource
				return m, nil
			}
		case "l":
			if !m.filter.Focused() {
				m.state = stateLayout
				return m, nil
			}
		case "enter":
			if m.filter.Focused() {
				m.filter.Blur()
				m.selected = 0
				return m, nil
			}
		}
	}

	if m.filter.Focused() {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("cilview — " + m.file.Name))
	b.WriteString("\n\n")

	switch m.state {
	case stateSource:
		b.WriteString(m.sourceView())
	case stateLayout:
		b.WriteString(m.layoutView())
	default:
		b.WriteString(m.globalsView())
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select · / filter · s source · l layout · esc back · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *interactiveModel) globalsView() string {
	var b strings.Builder
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")
	for i, g := range m.visibleGlobals() {
		line := fmt.Sprintf("%-24s %s", g.label, typeStyle.Render(g.detail))
		if i == m.selected {
			line = selectedStyle.Render(line)
		} else {
			line = nameStyle.Render(g.label) + strings.Repeat(" ", max(1, 24-len(g.label))) + typeStyle.Render(g.detail)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m *interactiveModel) sourceView() string {
	var buf bytes.Buffer
	p := printer.New(&buf, printer.Config{Machine: m.machine})
	if err := p.File(m.file); err != nil {
		return errorStyle.Render(err.Error())
	}
	return buf.String()
}

func (m *interactiveModel) layoutView() string {
	var b strings.Builder
	for _, g := range m.globals {
		if g.comp == nil {
			continue
		}
		base := &ir.TComp{Comp: g.comp}
		size, err := ir.BitsSizeOf(m.machine, base)
		if err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("%s: %v", g.label, err)))
			b.WriteString("\n")
			continue
		}
		align, _ := ir.AlignOf(m.machine, base)
		b.WriteString(nameStyle.Render(fmt.Sprintf("%s %s", g.detail, g.label)))
		b.WriteString(fmt.Sprintf("  %d bits, align %d\n", size, align))
		for _, f := range g.comp.Fields {
			start, width, err := ir.BitsOffset(m.machine, base, &ir.FieldOff{Field: f})
			if err != nil {
				b.WriteString(fmt.Sprintf("  %-16s ?\n", f.Name))
				continue
			}
			b.WriteString(fmt.Sprintf("  %-16s %s\n", f.Name,
				typeStyle.Render(fmt.Sprintf("bits %d..%d", start, start+width-1))))
		}
		b.WriteString("\n")
	}
	if b.Len() == 0 {
		return helpStyle.Render("no composite types")
	}
	return b.String()
}
