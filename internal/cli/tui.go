package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/inboxatlas/inboxatlas/pkg/category"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// CategoryListModel - Interactive category selection
// =============================================================================

// categoryRow is one selectable entry: a category with its depth in
// the hierarchy, in depth-first order.
type categoryRow struct {
	node  *category.Node
	depth int
}

// CategoryListModel is the bubbletea model for picking a category
// subtree to render.
type CategoryListModel struct {
	Rows     []categoryRow
	Cursor   int
	Selected *category.Node
	Height   int
	Offset   int
}

// NewCategoryListModel creates a category list model from flat records.
// Rows follow depth-first pre-order so children sit under their parent.
func NewCategoryListModel(records []category.Record) CategoryListModel {
	f := category.BuildForest(records)

	var rows []categoryRow
	var walk func(n *category.Node, depth int)
	walk = func(n *category.Node, depth int) {
		rows = append(rows, categoryRow{node: n, depth: depth})
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	for _, root := range f.Roots {
		walk(root, 0)
	}

	return CategoryListModel{
		Rows:   rows,
		Height: 15,
	}
}

func (m CategoryListModel) Init() tea.Cmd {
	return nil
}

func (m CategoryListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Selected = m.Rows[m.Cursor].node
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m CategoryListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Category"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Rows) {
		end = len(m.Rows)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		name := strings.Repeat("  ", r.depth) + r.node.Name

		emails := "—"
		if r.node.EmailCount > 0 {
			emails = fmt.Sprintf("%d", r.node.EmailCount)
		}

		children := "—"
		if len(r.node.Children) > 0 {
			children = fmt.Sprintf("%d", len(r.node.Children))
		}

		rows = append(rows, []string{cursor, name, emails, children})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Category", "Emails", "Subcategories").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}
