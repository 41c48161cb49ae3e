package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/homcount/pkg/hom"
	homio "github.com/matzehuels/homcount/pkg/io"
)

// ClassListModel is the bubbletea model behind "classes --browse".
type ClassListModel struct {
	Classes  []hom.Class
	Cursor   int
	Offset   int
	Height   int
	Selected *hom.Class

	// HideZero drops classes with no homomorphisms from the view.
	HideZero bool
	visible  []int
}

func newClassListModel(classes []hom.Class) ClassListModel {
	m := ClassListModel{Classes: classes, Height: 15}
	m.refilter()
	return m
}

// refilter rebuilds the visible index list and keeps the cursor in range.
func (m *ClassListModel) refilter() {
	m.visible = make([]int, 0, len(m.Classes))
	for i, cl := range m.Classes {
		if m.HideZero && cl.Count == 0 {
			continue
		}
		m.visible = append(m.visible, i)
	}
	if m.Cursor >= len(m.visible) {
		m.Cursor = max(len(m.visible)-1, 0)
	}
	m.Offset = min(m.Offset, m.Cursor)
}

func (m ClassListModel) Init() tea.Cmd {
	return nil
}

func (m ClassListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.visible)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "z":
			m.HideZero = !m.HideZero
			m.refilter()
		case "enter":
			if len(m.visible) == 0 {
				return m, nil
			}
			cl := m.Classes[m.visible[m.Cursor]]
			m.Selected = &cl
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m ClassListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Homomorphism Classes"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  z toggle zero counts  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.visible))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		cl := m.Classes[m.visible[i]]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			strconv.FormatUint(cl.Mask, 10),
			strconv.Itoa(cl.Graph.EdgeCount()),
			strconv.FormatUint(cl.Count, 10),
			homio.FormatEdgeList(cl.Graph),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers("", "Mask", "|E|", "Homs", "Edges").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.visible) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col == 4 {
				base = base.Foreground(colorMuted)
			}
			if m.Classes[m.visible[idx]].Count == 0 {
				base = base.Foreground(colorFaint)
			}
			if idx == m.Cursor {
				return base.Foreground(colorOK).Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.visible)), len(m.visible))))

	return b.String()
}
