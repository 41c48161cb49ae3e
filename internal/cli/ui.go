package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Palette. ANSI 256 codes so that output looks the same in 256-color and
// truecolor terminals.
var (
	colorAccent = lipgloss.Color("36")  // counts, titles
	colorOK     = lipgloss.Color("35")  // success, cache hits
	colorWarn   = lipgloss.Color("220") // degraded backends
	colorCmd    = lipgloss.Color("75")  // suggested commands
	colorText   = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorFaint  = lipgloss.Color("240")
)

// Exported styles are shared with the class browser.
var (
	StyleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleNumber = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleValue  = lipgloss.NewStyle().Foreground(colorText)
	StyleDim    = lipgloss.NewStyle().Foreground(colorFaint)
)

var (
	styleOK          = lipgloss.NewStyle().Foreground(colorOK)
	styleWarn        = lipgloss.NewStyle().Foreground(colorWarn)
	styleMuted       = lipgloss.NewStyle().Foreground(colorMuted)
	styleCommand     = lipgloss.NewStyle().Foreground(colorCmd)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleKey         = lipgloss.NewStyle().Foreground(colorMuted).Width(16)
)

// status receives progress and status lines. Results go to CLI.out so that
// they can be piped.
var status io.Writer = os.Stderr

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// interactive reports whether both stdin and stdout are terminals.
func interactive() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

func statusLine(mark string, style lipgloss.Style, msg string) {
	fmt.Fprintln(status, style.Render(mark)+" "+msg)
}

func printSuccess(format string, args ...any) {
	statusLine("✓", styleOK, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	statusLine("!", styleWarn, styleWarn.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	statusLine("›", styleMuted, fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(status, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile reports a written file.
func printFile(path string) {
	fmt.Fprintln(status, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(status, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// writeKeyValue writes one aligned line of a text report.
func writeKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// writeStats writes a summary such as "14 nodes · width 1 · cached".
func writeStats(w io.Writer, parts []string, cached bool) {
	state := styleMuted.Render("fresh")
	if cached {
		state = styleOK.Render("cached")
	}
	rendered := make([]string, 0, len(parts)+1)
	for _, p := range parts {
		rendered = append(rendered, StyleDim.Render(p))
	}
	fmt.Fprintln(w, "  "+strings.Join(append(rendered, state), StyleDim.Render(" · ")))
}
