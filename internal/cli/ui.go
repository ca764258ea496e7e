package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/categorycloud/pkg/cloud"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
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

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

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
)

// Cloud preview tiers, smallest to largest.
var previewTiers = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(colorDim),
	lipgloss.NewStyle().Foreground(colorGray),
	lipgloss.NewStyle().Foreground(colorWhite),
	lipgloss.NewStyle().Foreground(colorWhite).Bold(true),
	lipgloss.NewStyle().Foreground(colorCyan).Bold(true),
}

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// Status lines go to stderr so stdout stays clean for rendered output.
var statusOut io.Writer = os.Stderr

func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(statusOut, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(statusOut, styleIconError.Render(iconError)+" "+msg)
}

func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(statusOut, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(statusOut, styleIconInfo.Render(iconInfo)+" "+msg)
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(statusOut, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints cloud statistics on a single line.
func printStats(s cloud.Stats) {
	parts := []string{
		fmt.Sprintf("%d subcategories", s.Count),
		fmt.Sprintf("%d pages", s.Total),
		fmt.Sprintf("counts %d–%d", s.Min, s.Max),
	}
	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Fprintln(statusOut, line)
}

// =============================================================================
// Cloud Preview
// =============================================================================

// previewCloud renders c for a terminal: entries keep their order and are
// styled by where their size falls between the smallest and largest entry,
// wrapped to width.
func previewCloud(c *cloud.Cloud, width int) string {
	lo, hi := sizeRange(c.Items)
	words := make([]string, len(c.Items))
	for i, it := range c.Items {
		words[i] = previewTiers[tier(it.Size, lo, hi, len(previewTiers))].Render(it.Label())
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(words, "  "))
}

func sizeRange(items []cloud.Item) (lo, hi float64) {
	for i, it := range items {
		if i == 0 || it.Size < lo {
			lo = it.Size
		}
		if i == 0 || it.Size > hi {
			hi = it.Size
		}
	}
	return lo, hi
}

// tier maps size into [0, n) by its position in [lo, hi]. A degenerate
// range maps to the middle tier.
func tier(size, lo, hi float64, n int) int {
	if hi == lo {
		return n / 2
	}
	t := int((size - lo) / (hi - lo) * float64(n))
	if t >= n {
		t = n - 1
	}
	if t < 0 {
		t = 0
	}
	return t
}
