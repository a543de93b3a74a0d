package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/stickerpicker/internal/logtail"
)

type logLinesMsg struct {
	lines []string
	err   error
}

func readLogCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if strings.TrimSpace(path) == "" {
			return logLinesMsg{}
		}
		lines, err := logtail.Read(path, LogTailLines)
		return logLinesMsg{lines: lines, err: err}
	}
}

// resizeLogView fits the log viewport inside the overlay border.
func (m *Model) resizeLogView() {
	w := max(1, m.width-4)
	h := max(1, m.height-4)
	if m.logView.Width == 0 {
		m.logView = viewport.New(w, h)
		return
	}
	m.logView.Width = w
	m.logView.Height = h
}

func (m *Model) applyLogLines(msg logLinesMsg) {
	if msg.err != nil {
		m.logErr = msg.err.Error()
		return
	}
	m.logErr = ""
	follow := m.logView.AtBottom() || m.logView.TotalLineCount() == 0
	if len(msg.lines) == 0 {
		m.logView.SetContent("(log is empty)")
	} else {
		m.logView.SetContent(strings.Join(msg.lines, "\n"))
	}
	if follow {
		m.logView.GotoBottom()
	}
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Logs), key.Matches(msg, m.keys.Escape):
		m.showLogs = false
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Top):
		m.logView.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logView.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.logView, cmd = m.logView.Update(msg)
	return m, cmd
}

// renderLogs renders the log overlay.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()

	title := styles.AccentText.Bold(true).Render("Log") + " " +
		styles.MutedText.Render(truncateMiddle(m.logPath, max(10, m.width-12)))
	if m.logErr != "" {
		title += "  " + styles.DangerText.Render(truncate(m.logErr, 40))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Width(max(1, m.width-2)).
		Height(max(1, m.height-3))

	return title + "\n" + box.Render(m.logView.View())
}
