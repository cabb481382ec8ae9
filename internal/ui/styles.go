package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/gubarz/pitanja/internal/config"
)

// StyleManager encapsulates all TUI styles and provides methods for style operations
type StyleManager struct {
	// Document styles
	Title    lipgloss.Style
	Question lipgloss.Style
	Kind     lipgloss.Style
	Right    lipgloss.Style
	Wrong    lipgloss.Style
	Key      lipgloss.Style
	Dim      lipgloss.Style

	// Report styles
	OK    lipgloss.Style
	Error lipgloss.Style

	// Chrome styles
	Border  lipgloss.Style
	Divider lipgloss.Style
}

// DefaultStyles returns a StyleManager with default styles
func DefaultStyles() *StyleManager {
	return &StyleManager{
		Title:    lipgloss.NewStyle().Bold(true),
		Question: lipgloss.NewStyle().Bold(true),
		Kind:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Right:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Wrong:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Key:      lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		OK:       lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Border:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")),
		Divider:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// LoadFromConfig updates styles based on configuration
func (s *StyleManager) LoadFromConfig() {
	questionColor := parseANSIColor(config.GetColorQuestion())
	answerColor := parseANSIColor(config.GetColorAnswer())
	okColor := parseANSIColor(config.GetColorOK())
	errColor := parseANSIColor(config.GetColorError())
	dimColor := parseANSIColor(config.GetColorDim())

	s.Question = lipgloss.NewStyle().Bold(true).Foreground(questionColor)
	s.Right = lipgloss.NewStyle().Foreground(answerColor)
	s.Wrong = lipgloss.NewStyle().Foreground(errColor)
	s.Kind = lipgloss.NewStyle().Foreground(dimColor)
	s.Dim = lipgloss.NewStyle().Foreground(dimColor)
	s.OK = lipgloss.NewStyle().Foreground(okColor)
	s.Error = lipgloss.NewStyle().Foreground(errColor).Bold(true)
}

// parseANSIColor converts ANSI color codes to lipgloss colors
func parseANSIColor(code string) lipgloss.Color {
	ansiToLipgloss := map[string]string{
		"30": "0", "31": "1", "32": "2", "33": "3",
		"34": "4", "35": "5", "36": "6", "37": "7",
		"90": "8", "91": "9", "92": "10", "93": "11",
		"94": "12", "95": "13", "96": "14", "97": "15",
	}
	if mapped, ok := ansiToLipgloss[code]; ok {
		return lipgloss.Color(mapped)
	}
	return lipgloss.Color(code)
}

// Global style manager instance
var styles = DefaultStyles()

// RefreshStyles updates the global styles from config
func RefreshStyles() {
	styles.LoadFromConfig()
}
