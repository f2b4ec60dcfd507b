package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/fixturefit/pkg/geometry"
	"github.com/matzehuels/fixturefit/pkg/layout"
	"github.com/matzehuels/fixturefit/pkg/scoring"
)

// out receives all command output. Tests swap it for a buffer.
var out io.Writer = os.Stdout

// =============================================================================
// Palette and Styles
// =============================================================================

var (
	colorTeal  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("220")
	colorRed   = lipgloss.Color("167")
	colorBlue  = lipgloss.Color("75")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

// Exported styles are shared with the spinner and the table renderers.
var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber  = lipgloss.NewStyle().Foreground(colorTeal)
	StyleWarning = lipgloss.NewStyle().Foreground(colorAmber)
)

var (
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorTeal)
	styleCached      = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed    = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)

	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
	styleLow    = lipgloss.NewStyle().Foreground(colorRed)
	styleHigh   = lipgloss.NewStyle().Foreground(colorGreen)
)

const (
	iconArrow  = "→"
	iconCached = "cached"
	iconFresh  = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// statusMark is the coloured glyph that prefixes a status line.
type statusMark struct {
	glyph string
	style lipgloss.Style
	body  func(string) string
}

var (
	markSuccess = statusMark{"✓", lipgloss.NewStyle().Foreground(colorGreen), nil}
	markError   = statusMark{"✗", lipgloss.NewStyle().Foreground(colorRed), nil}
	markWarning = statusMark{"!", lipgloss.NewStyle().Foreground(colorAmber), func(s string) string { return StyleWarning.Render(s) }}
	markInfo    = statusMark{"›", lipgloss.NewStyle().Foreground(colorGray), nil}
)

func (m statusMark) print(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if m.body != nil {
		msg = m.body(msg)
	}
	fmt.Fprintln(out, m.style.Render(m.glyph)+" "+msg)
}

func printSuccess(format string, args ...any) { markSuccess.print(format, args...) }
func printError(format string, args ...any)   { markError.print(format, args...) }
func printWarning(format string, args ...any) { markWarning.print(format, args...) }
func printInfo(format string, args ...any)    { markInfo.print(format, args...) }

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(out, "  "+StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Fprintln(out, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(14)
	fmt.Fprintln(out, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints search statistics on a single line.
func printStats(requested, placed, candidates int, cached bool) {
	parts := []string{fmt.Sprintf("%d/%d placed", placed, requested)}
	if candidates > 0 {
		parts = append(parts, fmt.Sprintf("%d candidates", candidates))
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	line += StyleDim.Render(" · ") + statusStyle.Render(status)
	fmt.Fprintln(out, line)
}

// =============================================================================
// Tables
// =============================================================================

// printBreakdown prints a score breakdown as a table in criterion order.
func printBreakdown(s scoring.Score) {
	keys := s.Breakdown.Keys()
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, fmt.Sprintf("%.1f", s.Breakdown[k])})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Criterion", "Score").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			if col == 1 && row < len(keys) {
				switch v := s.Breakdown[keys[row]]; {
				case v < 3:
					return styleLow.Padding(0, 1)
				case v >= 8:
					return styleHigh.Padding(0, 1)
				}
			}
			return styleCell
		})
	fmt.Fprintln(out, t.Render())

	total := StyleNumber.Render(fmt.Sprintf("%.1f", s.Total))
	if s.Gated {
		total += " " + StyleWarning.Render("(gated)")
	}
	printKeyValue("Total", total)
}

// printObjects prints the placed fixtures of a layout.
func printObjects(l layout.Layout) {
	rows := make([][]string, 0, len(l.Objects))
	for _, o := range l.Objects {
		rows = append(rows, []string{
			o.Name,
			fmt.Sprintf("%d,%d", o.X, o.Y),
			fmt.Sprintf("%dx%dx%d", o.Width, o.Depth, o.Height),
			string(o.Wall(l.Room)),
		})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Fixture", "Position", "Size", "Wall").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			return styleCell
		})
	fmt.Fprintln(out, t.Render())
}

// printRects prints a titled list of rectangles with their areas.
func printRects(title string, rects []geometry.Rect) {
	fmt.Fprintln(out, StyleTitle.Render(title)+" "+StyleDim.Render(fmt.Sprintf("(%d)", len(rects))))
	if len(rects) == 0 {
		printDetail("none")
		return
	}
	var b strings.Builder
	for _, r := range rects {
		fmt.Fprintf(&b, "  %s %s\n", r, StyleDim.Render(fmt.Sprintf("%d cm²", r.Area())))
	}
	fmt.Fprint(out, b.String())
}

// =============================================================================
// Commands & Next Steps
// =============================================================================

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(out, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Fprintln(out)
}
