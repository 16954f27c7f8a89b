package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/graphvis/pkg/adjlist"
)

// console receives all human-oriented command output. Machine-readable
// output (parse --json, cache path) goes to the command's own writer.
var console io.Writer = os.Stdout

// ANSI 256 palette shared by the status lines, the spinner and inspect.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleLink    = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

// A marker is the glyph leading a status line.
type marker struct {
	glyph string
	style lipgloss.Style
}

var (
	markSuccess = marker{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	markError   = marker{"✗", lipgloss.NewStyle().Foreground(colorRed)}
	markWarning = marker{"!", lipgloss.NewStyle().Foreground(colorYellow)}
	markInfo    = marker{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

// Cache status labels appended to the stats line.
const (
	statusCached = "cached"
	statusFresh  = "fresh"
)

func (m marker) println(msg string) {
	fmt.Fprintln(console, m.style.Render(m.glyph)+" "+msg)
}

func printSuccess(format string, args ...any) { markSuccess.println(fmt.Sprintf(format, args...)) }

func printError(format string, args ...any) { markError.println(fmt.Sprintf(format, args...)) }

func printWarning(format string, args ...any) {
	markWarning.println(StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) { markInfo.println(fmt.Sprintf(format, args...)) }

// printDetail prints an indented, dimmed line under the previous status.
func printDetail(format string, args ...any) {
	fmt.Fprintln(console, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Fprintln(console, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(console, styleKey.Render(key)+" "+StyleValue.Render(value))
}

func printNextStep(description, cmd string) {
	fmt.Fprintln(console, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// printStats prints node, edge and dropped-relation counts on one line,
// followed by status (statusCached or statusFresh) when it is non-empty.
func printStats(nodeCount, edgeCount, dropped int, status string) {
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d nodes", nodeCount)),
		StyleDim.Render(fmt.Sprintf("%d edges", edgeCount)),
	}
	if dropped > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d dropped", dropped)))
	}
	switch status {
	case statusCached:
		parts = append(parts, markSuccess.style.Render(status))
	case statusFresh:
		parts = append(parts, markInfo.style.Render(status))
	}
	fmt.Fprintln(console, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

func cacheStatus(hit bool) string {
	if hit {
		return statusCached
	}
	return statusFresh
}

// printDropped warns about each one-way relation left out of the graph.
func printDropped(rels []adjlist.Relation) {
	for _, r := range rels {
		printWarning("Ignored one-way relation %s", r)
	}
}
