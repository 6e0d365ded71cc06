package formatter

import (
	"strings"

	"github.com/alexanderramin/metraj/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Palette. Gruvbox tones, readable on dark and light terminals.
const (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

func fg(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

var (
	StyleGreen  = fg(ColorGreen)
	StyleYellow = fg(ColorYellow)
	StyleRed    = fg(ColorRed)
	StyleBlue   = fg(ColorBlue)
	StylePurple = fg(ColorPurple)
	StyleDim    = fg(ColorDim)
	StyleHeader = fg(ColorHeader).Bold(true)
	StyleBold   = fg(ColorFg).Bold(true)
)

var severityStyles = map[domain.Severity]lipgloss.Style{
	domain.SeverityCritical: StyleRed,
	domain.SeverityWarning:  StyleYellow,
	domain.SeverityInfo:     StyleBlue,
}

// SeverityStyle returns the style for a finding severity; unknown
// severities render dim.
func SeverityStyle(sev domain.Severity) lipgloss.Style {
	if s, ok := severityStyles[sev]; ok {
		return s
	}
	return StyleDim
}

// SeverityBadge renders e.g. "● CRITICAL".
func SeverityBadge(sev domain.Severity) string {
	return SeverityStyle(sev).Render("● " + string(sev))
}

// ScoreStyle colors a 0..100 risk score: green below 20, red from 50.
func ScoreStyle(score int) lipgloss.Style {
	if score >= 50 {
		return StyleRed
	}
	if score >= 20 {
		return StyleYellow
	}
	return StyleGreen
}

// SourceBadge labels where a risk report came from.
func SourceBadge(src domain.ReportSource, model string) string {
	if src != domain.SourceLLM {
		return StyleDim.Render("rule-based")
	}
	if model == "" {
		return StylePurple.Render("AI")
	}
	return StylePurple.Render("AI · " + model)
}

// Header renders text upper-cased over a dim rule of the same width.
func Header(text string) string {
	title := strings.ToUpper(text)
	return StyleHeader.Render(title) + "\n" + StyleDim.Render(strings.Repeat("─", lipgloss.Width(title)))
}

func Dim(text string) string { return StyleDim.Render(text) }
func Bold(text string) string { return StyleBold.Render(text) }
