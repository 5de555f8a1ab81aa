package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/leymap/pkg/atlas"
	"github.com/matzehuels/leymap/pkg/errors"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// PlanetPickerModel - Interactive planet selection
// =============================================================================

// PlanetItem is one row of the picker.
type PlanetItem struct {
	Name     string
	Label    string
	Capital  bool
	Leylines int
}

// PlanetPickerModel is the bubbletea model for choosing a planet. Typing
// narrows the list by name; backspace widens it again.
type PlanetPickerModel struct {
	Title    string
	Items    []PlanetItem
	Filter   string
	Cursor   int
	Offset   int
	Height   int
	Selected *PlanetItem
	Aborted  bool
}

// NewPlanetPickerModel lists the planets of a that sit on at least one
// leyline, leaving out exclude.
func NewPlanetPickerModel(title string, a *atlas.Atlas, exclude string) PlanetPickerModel {
	var items []PlanetItem
	for _, name := range a.PlanetNames() {
		lines := len(a.LeylinesOf(name))
		if name == exclude || lines == 0 {
			continue
		}
		p := a.Planets[name]
		items = append(items, PlanetItem{Name: name, Label: p.Label(), Capital: p.Capital, Leylines: lines})
	}
	return PlanetPickerModel{Title: title, Items: items, Height: 15}
}

// Visible returns the items matching the filter.
func (m PlanetPickerModel) Visible() []PlanetItem {
	if m.Filter == "" {
		return m.Items
	}
	f := strings.ToLower(m.Filter)
	var out []PlanetItem
	for _, it := range m.Items {
		if strings.Contains(strings.ToLower(it.Name), f) || strings.Contains(strings.ToLower(it.Label), f) {
			out = append(out, it)
		}
	}
	return out
}

func (m PlanetPickerModel) Init() tea.Cmd {
	return nil
}

func (m PlanetPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.Aborted = true
			return m, tea.Quit
		case tea.KeyUp:
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case tea.KeyDown:
			if m.Cursor < len(m.Visible())-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case tea.KeyEnter:
			visible := m.Visible()
			if len(visible) == 0 {
				return m, nil
			}
			it := visible[m.Cursor]
			m.Selected = &it
			return m, tea.Quit
		case tea.KeyBackspace:
			if m.Filter != "" {
				r := []rune(m.Filter)
				m.Filter = string(r[:len(r)-1])
				m.Cursor, m.Offset = 0, 0
			}
		case tea.KeyRunes, tea.KeySpace:
			m.Filter += string(msg.Runes)
			m.Cursor, m.Offset = 0, 0
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m PlanetPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("type to filter  ↑/↓ navigate  ⏎ select  esc quit"))
	b.WriteString("\n")
	b.WriteString(StyleHighlight.Render("› " + m.Filter))
	b.WriteString("\n\n")

	visible := m.Visible()
	if len(visible) == 0 {
		b.WriteString(listDimStyle.Render("  no matching planets"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(visible))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		it := visible[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		label := it.Label
		if label == it.Name {
			label = "—"
		}
		rows = append(rows, []string{cursor, it.Name, label, fmt.Sprint(it.Leylines)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("", "Planet", "Name", "Lines").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleTableHeader
			}
			idx := m.Offset + row
			if idx >= len(visible) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if visible[idx].Capital {
				base = base.Foreground(colorYellow)
			}
			if idx == m.Cursor {
				return base.Bold(true).Foreground(colorCyan)
			}
			if col == 3 {
				return base.Foreground(colorDim)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(visible))))
	return b.String()
}

// pickPlanet runs the picker on the terminal and returns the chosen planet.
func pickPlanet(ctx context.Context, title string, a *atlas.Atlas, exclude string) (string, error) {
	model := NewPlanetPickerModel(title, a, exclude)
	if len(model.Items) == 0 {
		return "", errors.New(errors.ErrCodeMissingData, "no planets to choose from")
	}
	final, err := tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return "", fmt.Errorf("planet picker: %w", err)
	}
	m := final.(PlanetPickerModel)
	if m.Aborted || m.Selected == nil {
		return "", context.Canceled
	}
	return m.Selected.Name, nil
}
