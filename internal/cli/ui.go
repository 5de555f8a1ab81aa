package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/leymap/pkg/archive"
	"github.com/matzehuels/leymap/pkg/atlas"
	"github.com/matzehuels/leymap/pkg/graph"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings, capitals
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)

	styleTableHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleTableBorder = lipgloss.NewStyle().Foreground(colorDim)
	styleCapital     = lipgloss.NewStyle().Foreground(colorYellow)
	styleUnreachable = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// statusOut receives status lines so that data written to stdout stays
// pipeable.
var statusOut io.Writer = os.Stderr

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(statusOut, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(statusOut, styleIconError.Render(iconError)+" "+msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(statusOut, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(statusOut, styleIconInfo.Render(iconInfo)+" "+msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(statusOut, "  "+StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(statusOut, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Stats Display
// =============================================================================

// statsLine joins counts and the cache status into one dim line.
func statsLine(cached bool, counts ...string) string {
	var parts []string
	for _, c := range counts {
		if c != "" {
			parts = append(parts, c)
		}
	}

	status, statusStyle := iconFresh, styleComputed
	if cached {
		status, statusStyle = iconCached, styleCached
	}
	parts = append(parts, statusStyle.Render(status))

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	return line
}

// printStats prints layout statistics on a single line.
func printStats(circles, planets, unplaced int, cached bool) {
	var extra string
	if unplaced > 0 {
		extra = fmt.Sprintf("%d unplaced", unplaced)
	}
	fmt.Fprintln(statusOut, statsLine(cached,
		plural(circles, "circle"), plural(planets, "planet"), extra))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// =============================================================================
// Tables
// =============================================================================

// headerRow is the row index lipgloss passes to StyleFunc for headers.
const headerRow = -1

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers(headers...)
}

// planetTable lists planets with the leylines they sit on. Capitals are
// highlighted.
func planetTable(a *atlas.Atlas) string {
	names := a.PlanetNames()
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		p := a.Planets[name]
		lines := a.LeylinesOf(name)
		full := p.FullName
		if full == "" {
			full = "—"
		}
		rows = append(rows, []string{name, full, p.Type, strconv.Itoa(len(lines)), strings.Join(lines, ", ")})
	}

	t := newTable("Planet", "Name", "Type", "Lines", "Leylines").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleTableHeader
			}
			if row < len(names) && a.Planets[names[row]].Capital && col <= 1 {
				return styleCapital
			}
			if col >= 3 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

// routeTable lists the legs of a route with a total row.
func routeTable(rt graph.Route) string {
	if !rt.Reachable {
		return styleUnreachable.Render(fmt.Sprintf("%s %s %s: unreachable",
			label(rt, 0), iconArrow, label(rt, len(rt.Planets)-1)))
	}
	rows := make([][]string, 0, len(rt.Legs)+1)
	for i, leg := range rt.Legs {
		rows = append(rows, []string{strconv.Itoa(i + 1), label(rt, i), label(rt, i+1), leg.Label})
	}
	if rt.To != "" {
		rows = append(rows, []string{"", "", "total", atlas.Miles(rt.Distance).Label()})
	}

	t := newTable("#", "From", "To", "Distance").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == headerRow:
				return styleTableHeader
			case row == len(rt.Legs):
				return StyleTitle
			case col == 0:
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}

func label(rt graph.Route, i int) string {
	if i >= 0 && i < len(rt.Labels) {
		return rt.Labels[i]
	}
	if i >= 0 && i < len(rt.Planets) {
		return rt.Planets[i]
	}
	return ""
}

// archiveTable lists archived layouts, newest first as the store returns
// them.
func archiveTable(items []archive.Summary) string {
	rows := make([][]string, 0, len(items))
	for _, s := range items {
		tf := s.Timeframe
		if tf == "" {
			tf = "—"
		}
		rows = append(rows, []string{s.ID, s.Focus, tf, strconv.Itoa(s.Circles), s.CreatedAt.Local().Format("2006-01-02 15:04")})
	}
	t := newTable("ID", "Focus", "Timeframe", "Circles", "Created").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleTableHeader
			}
			if col == 0 || col == 4 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}
