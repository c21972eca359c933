package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/gridkit/pkg/errors"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorAccent  = lipgloss.Color("36")  // teal: titles, focus
	colorOK      = lipgloss.Color("35")  // green: success, cache hits
	colorTarget  = lipgloss.Color("220") // amber: warnings, drop targets
	colorFail    = lipgloss.Color("167") // soft red: errors
	colorCommand = lipgloss.Color("75")  // light blue: suggested commands
	colorText    = lipgloss.Color("255") // white: values, table body
	colorMuted   = lipgloss.Color("245") // gray: labels, headers
	colorFaint   = lipgloss.Color("240") // dim gray: details, borders
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleFaint   = lipgloss.NewStyle().Foreground(colorFaint)
	styleValue   = lipgloss.NewStyle().Foreground(colorText)
	styleLabel   = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
	styleCommand = lipgloss.NewStyle().Foreground(colorCommand)

	styleTableHeader = lipgloss.NewStyle().Foreground(colorMuted).Bold(true).Padding(0, 1)
	styleTableCell   = lipgloss.NewStyle().Padding(0, 1)
)

// uiOut receives all status output. Tests swap it for a buffer.
var uiOut io.Writer = os.Stdout

// =============================================================================
// Status lines
// =============================================================================

type status struct {
	icon  string
	style lipgloss.Style
	tint  bool // style the message too, not just the icon
}

var (
	statusOK   = status{icon: "✓", style: lipgloss.NewStyle().Foreground(colorOK)}
	statusFail = status{icon: "✗", style: lipgloss.NewStyle().Foreground(colorFail)}
	statusWarn = status{icon: "!", style: lipgloss.NewStyle().Foreground(colorTarget), tint: true}
	statusInfo = status{icon: "›", style: lipgloss.NewStyle().Foreground(colorMuted)}
)

func (s status) line(format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)
	if s.tint {
		msg = s.style.Render(msg)
	}
	return s.style.Render(s.icon) + " " + msg
}

func printSuccess(format string, args ...any) {
	fmt.Fprintln(uiOut, statusOK.line(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(uiOut, statusWarn.line(format, args...))
}

func printInfo(format string, args ...any) {
	fmt.Fprintln(uiOut, statusInfo.line(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(uiOut, "  "+styleFaint.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Fprintln(uiOut, "  "+styleFaint.Render("→")+" "+styleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(uiOut, styleLabel.Render(key)+" "+styleValue.Render(value))
}

func printNextStep(description, cmd string) {
	fmt.Fprintln(uiOut)
	fmt.Fprintln(uiOut, styleFaint.Render(description+":")+" "+styleCommand.Render(cmd))
}

// errorLine formats err for the terminal. Coded errors show their user
// message followed by the code.
func errorLine(err error) string {
	code := errors.GetCode(err)
	if code == "" {
		return statusFail.line("%v", err)
	}
	return statusFail.line("%s", errors.UserMessage(err)) + " " + styleFaint.Render("("+string(code)+")")
}

// PrintError writes err to w the way the CLI reports failures.
func PrintError(w io.Writer, err error) {
	fmt.Fprintln(w, errorLine(err))
}

// =============================================================================
// Layout stats
// =============================================================================

func printStats(rows, visible int, cached bool) {
	fmt.Fprintln(uiOut, statsLine(rows, visible, cached))
}

// statsLine renders "  N rows · M visible · cached|fresh", omitting zero
// counts.
func statsLine(rows, visible int, cached bool) string {
	var parts []string
	if rows > 0 {
		parts = append(parts, styleFaint.Render(fmt.Sprintf("%d rows", rows)))
	}
	if visible > 0 {
		parts = append(parts, styleFaint.Render(fmt.Sprintf("%d visible", visible)))
	}
	if cached {
		parts = append(parts, statusOK.style.Render("cached"))
	} else {
		parts = append(parts, statusInfo.style.Render("fresh"))
	}
	return "  " + strings.Join(parts, styleFaint.Render(" · "))
}

// =============================================================================
// Tables
// =============================================================================

// headerRow is the row index lipgloss/table passes for the header.
const headerRow = -1

// renderTable renders rows under headers in a rounded, dimmed border.
func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleFaint).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleTableHeader
			}
			return styleTableCell
		}).
		Render()
}
