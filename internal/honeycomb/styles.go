package honeycomb

import "github.com/charmbracelet/lipgloss"

var (
	// 蜂巢格
	cellStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(cellWidth).
			Align(lipgloss.Center)
	activeCellStyle   = cellStyle.BorderForeground(lipgloss.Color("214")).Foreground(lipgloss.Color("230"))
	inactiveCellStyle = cellStyle.BorderForeground(lipgloss.Color("238")).Foreground(lipgloss.Color("242"))
	initialCellStyle  = activeCellStyle.Bold(true)
	selectedCellStyle = cellStyle.BorderForeground(lipgloss.Color("99")).Foreground(lipgloss.Color("231")).Bold(true)

	// 标题与邮件列表
	TitleStyle       = lipgloss.NewStyle().Bold(true).Background(lipgloss.Color("214")).Foreground(lipgloss.Color("232")).Padding(0, 1)
	HeaderKeyStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	SecondaryStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "244"})
	EmailBlockStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, true, false).BorderForeground(lipgloss.Color("238")).MarginBottom(1)
	EmptyNoticeStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("244")).MarginTop(1)

	// 状态栏
	StatusBarNormalStyle = lipgloss.NewStyle().Background(lipgloss.Color("235")).Foreground(lipgloss.Color("250")).Padding(0, 1)
	StatusBarErrorStyle  = lipgloss.NewStyle().Background(lipgloss.Color("196")).Foreground(lipgloss.Color("255")).Padding(0, 1)
)
