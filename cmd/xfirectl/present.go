package main

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/omeyang/xfire/pkg/config/xcfgerr"
)

var (
	errorPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(0, 1)

	usagePanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// renderError 把错误渲染成面板：标题为错误类别，正文为消息，末行为产生位置。
func renderError(err error) string {
	title := "错误"
	var provenance string
	var cfgErr *xcfgerr.Error
	if errors.As(err, &cfgErr) {
		title = string(cfgErr.Kind)
		provenance = cfgErr.Provenance()
	}

	lines := []string{titleStyle.Render(title), wrapMessage(err.Error())}
	if provenance != "" {
		lines = append(lines, hintStyle.Render("at "+provenance))
	}
	return errorPanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderUsage 渲染参数错误，附带帮助提示。
func renderUsage(err error) string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Foreground(lipgloss.Color("214")).Render("参数错误"),
		wrapMessage(err.Error()),
		hintStyle.Render("运行 xfirectl --help 查看用法"),
	)
	return usagePanelStyle.Render(body)
}

// wrapMessage 把 ": " 连接的错误链拆成多行，便于在面板中阅读。
func wrapMessage(msg string) string {
	return strings.Join(strings.Split(msg, ": "), ":\n  ")
}
