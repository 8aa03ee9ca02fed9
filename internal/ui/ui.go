// Package ui provides terminal output styling for the wwv CLI.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var (
	colorPass   = lipgloss.Color("#2CD7C7")
	colorWarn   = lipgloss.Color("#F4D03F")
	colorFail   = lipgloss.Color("#E74C3C")
	colorMuted  = lipgloss.Color("#5C6A72")
	colorAccent = lipgloss.Color("#7AA2F7")
)

var (
	stylePass   = lipgloss.NewStyle().Foreground(colorPass)
	styleWarn   = lipgloss.NewStyle().Foreground(colorWarn)
	styleFail   = lipgloss.NewStyle().Foreground(colorFail)
	styleMuted  = lipgloss.NewStyle().Foreground(colorMuted)
	styleAccent = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	styleBold   = lipgloss.NewStyle().Bold(true)
)

// colorEnabled reports whether styled output makes sense: stdout must be a
// terminal with some color capability.
func colorEnabled() bool {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}
	return termenv.ColorProfile() != termenv.Ascii
}

func render(style lipgloss.Style, text string) string {
	if !colorEnabled() {
		return text
	}
	return style.Render(text)
}

// RenderPass styles success text (counts, checkmarks).
func RenderPass(text string) string { return render(stylePass, text) }

// RenderWarn styles warning text (skips).
func RenderWarn(text string) string { return render(styleWarn, text) }

// RenderFail styles error text.
func RenderFail(text string) string { return render(styleFail, text) }

// RenderMuted styles secondary text (paths, timestamps).
func RenderMuted(text string) string { return render(styleMuted, text) }

// RenderAccent styles headings and highlighted names.
func RenderAccent(text string) string { return render(styleAccent, text) }

// RenderBold styles emphasized text.
func RenderBold(text string) string { return render(styleBold, text) }

// Width returns the terminal width, or 80 when stdout is not a terminal.
func Width() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}
