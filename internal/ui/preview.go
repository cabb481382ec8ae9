package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gubarz/pitanja/internal/parser"
)

// ============================================================================
// Key Bindings
// ============================================================================

type keyMap struct {
	Next key.Binding
	Prev key.Binding
	Up   key.Binding
	Down key.Binding
	Help key.Binding
	Quit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(key.WithKeys("n", "tab"), key.WithHelp("n", "next question")),
		Prev: key.NewBinding(key.WithKeys("p", "shift+tab"), key.WithHelp("p", "previous question")),
		Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev},
		{k.Up, k.Down},
		{k.Help, k.Quit},
	}
}

// ============================================================================
// Preview Model
// ============================================================================

const chromeHeight = 3 // title + divider + help

// previewModel shows a parsed document in a scrollable viewport
type previewModel struct {
	doc      *parser.Document
	content  string
	starts   []int // first viewport line of each question
	viewport viewport.Model
	keys     keyMap
	help     help.Model
	width    int
	ready    bool
}

func newPreviewModel(doc *parser.Document) previewModel {
	content, starts := renderDocument(doc)
	return previewModel{
		doc:     doc,
		content: content,
		starts:  starts,
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
}

// Init implements tea.Model
func (m previewModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		height := max(msg.Height-chromeHeight, 1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Next):
			m.jump(1)
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.jump(-1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// current returns the index of the question at the top of the viewport
func (m previewModel) current() int {
	idx := 0
	for i, start := range m.starts {
		if start <= m.viewport.YOffset {
			idx = i
		}
	}
	return idx
}

// jump scrolls to the next (dir > 0) or previous question start
func (m *previewModel) jump(dir int) {
	if !m.ready || len(m.starts) == 0 {
		return
	}
	offset := m.viewport.YOffset
	if dir > 0 {
		for _, start := range m.starts {
			if start > offset {
				m.viewport.SetYOffset(start)
				return
			}
		}
		return
	}
	for i := len(m.starts) - 1; i >= 0; i-- {
		if m.starts[i] < offset {
			m.viewport.SetYOffset(m.starts[i])
			return
		}
	}
}

// View implements tea.Model
func (m previewModel) View() string {
	if !m.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(title(m.doc))
	if len(m.starts) > 0 {
		b.WriteString(styles.Dim.Render(fmt.Sprintf("  %d/%d", m.current()+1, len(m.starts))))
	}
	b.WriteString("\n")
	b.WriteString(styles.Divider.Render(strings.Repeat("─", max(m.width, 1))))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// ============================================================================
// Run Preview
// ============================================================================

// RunPreview shows doc in a full-screen pager until the user quits
func RunPreview(doc *parser.Document) error {
	lipgloss.SetDefaultRenderer(lipgloss.NewRenderer(os.Stdout))
	RefreshStyles()

	m := newPreviewModel(doc)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
