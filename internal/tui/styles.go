package tui

import "github.com/charmbracelet/lipgloss"

// Styles.
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	connectedSt   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	disconnectSt  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	connectingSt  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	headlineStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	categoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	neutralStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	trendStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	sectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	userMsgStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	botMsgStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	sourceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Underline(true)
	promptStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// sentimentStyle picks a style for a score using the same thresholds as the
// overall classification.
func sentimentStyle(score float64) lipgloss.Style {
	switch {
	case score > 0.2:
		return positiveStyle
	case score < -0.2:
		return negativeStyle
	default:
		return neutralStyle
	}
}
