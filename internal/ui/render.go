package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// DividerWidth is the default width for divider lines.
const DividerWidth = 50

// StepDisplay renders per-step status lines for a node's provisioning steps.
type StepDisplay struct {
	w io.Writer
}

// NewStepDisplay creates a step display writing to w.
func NewStepDisplay(w io.Writer) *StepDisplay {
	return &StepDisplay{w: w}
}

// Header renders a bold node header line, e.g. "node 1 (ziz-gpu01-debug)".
func (sd *StepDisplay) Header(node, partition string) {
	headerStyle := lipgloss.NewStyle().Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	fmt.Fprintf(sd.w, "%s %s\n",
		headerStyle.Render("node "+node),
		mutedStyle.Render("("+partition+")"))
}

// Success renders a completed step: ● keygen (1.2s)
func (sd *StepDisplay) Success(name string, duration time.Duration) {
	symbolStyle := lipgloss.NewStyle().Foreground(ColorSuccess)
	timingStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	fmt.Fprintf(sd.w, "  %s %s %s\n",
		symbolStyle.Render(SymbolComplete),
		name,
		timingStyle.Render(formatDuration(duration)))
}

// Failed renders a failed step with its exit code: ✗ keygen (exit 1)
func (sd *StepDisplay) Failed(name string, exitCode int) {
	symbolStyle := lipgloss.NewStyle().Foreground(ColorError)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	fmt.Fprintf(sd.w, "  %s %s %s\n",
		symbolStyle.Render(SymbolFail),
		name,
		mutedStyle.Render(fmt.Sprintf("(exit %d)", exitCode)))
}

// Skipped renders a skipped step with a reason: ⊘ install (dry run)
func (sd *StepDisplay) Skipped(name, reason string) {
	symbolStyle := lipgloss.NewStyle().Foreground(ColorWarning)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	fmt.Fprintf(sd.w, "  %s %s %s\n",
		symbolStyle.Render(SymbolSkipped),
		name,
		mutedStyle.Render("("+reason+")"))
}

// Muted renders a secondary information line, indented under the step lines.
func (sd *StepDisplay) Muted(text string) {
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	fmt.Fprintf(sd.w, "  %s\n", mutedStyle.Render(text))
}

// Divider renders a horizontal divider line.
func Divider(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("━", DividerWidth))
}

// formatDuration renders a duration compactly: 340ms, 1.2s, 2m5s.
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		m := int(d.Minutes())
		s := int(d.Seconds()) - m*60
		return fmt.Sprintf("%dm%ds", m, s)
	}
}
