package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Width(16)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

func printTitle(s string) {
	fmt.Println(titleStyle.Render(s))
}

func printField(label string, value any) {
	fmt.Println(labelStyle.Render(label+":") + " " + valueStyle.Render(fmt.Sprint(value)))
}

func onOff(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}
