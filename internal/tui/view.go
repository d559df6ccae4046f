package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFF7DB")).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Margin(0, 1)

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	focusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func (m HostsModel) View() string {
	title := titleStyle.Render(fmt.Sprintf("Wake-on-LAN - %d host(s), %d selected", m.app.Hosts().Count(), m.selectedCount()))

	var body, help string
	switch m.mode {
	case modeForm:
		heading := "New host"
		if m.editing {
			heading = "Edit host"
		}
		body = infoStyle.Render(heading + "\n\n" + m.form.view())
		help = "tab/shift+tab: move  enter: next/save  ctrl+s: save  esc: cancel"
	case modeConfirmDelete:
		name := ""
		if rec, err := m.app.Hosts().Get(m.target); err == nil {
			name = rec.Name
		}
		body = infoStyle.Render(m.table.View()) + "\n" +
			errorStyle.Render(fmt.Sprintf("Delete host %q? (y/n)", name))
		help = "y: delete  n: keep"
	case modeARP:
		body = infoStyle.Render("ARP table\n" + m.arpTable.View())
		help = "enter: import  esc: back"
	default:
		body = infoStyle.Render(m.table.View())
		help = "space: select  a: add  e: edit  d: delete  w: wake  i: import ARP  s: save  q: quit"
	}

	status := m.status
	if m.statusErr {
		status = errorStyle.Render(status)
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, body, status, helpStyle.Render(help))
}

func (m HostsModel) selectedCount() int {
	n := 0
	for _, rec := range m.app.Hosts().All() {
		if rec.Selected {
			n++
		}
	}
	return n
}
