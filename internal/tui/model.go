// Package tui is the interactive host list: select hosts, edit them, import
// from the ARP table and send the magic packets.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gowakeonlan/internal/app"
	"gowakeonlan/internal/arp"
	"gowakeonlan/internal/registry"
	"gowakeonlan/internal/reporting"
)

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirmDelete
	modeARP
)

// HostsModel is the root bubbletea model.
type HostsModel struct {
	ctx  context.Context
	app  *app.App
	mode mode

	table      table.Model
	arpTable   table.Model
	arpEntries []arp.Entry
	form       hostForm

	// target is the host being edited or deleted; editing is false for a new host.
	target  registry.Handle
	editing bool

	status    string
	statusErr bool
	busy      bool
	saveErr   error
}

func NewHostsModel(ctx context.Context, a *app.App) HostsModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Sel", Width: 3},
			{Title: "Name", Width: 20},
			{Title: "MAC Address", Width: 17},
			{Title: "Port", Width: 12},
			{Title: "Destination", Width: 20},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	t.SetStyles(tableStyles())

	at := table.New(
		table.WithColumns([]table.Column{
			{Title: "IP Address", Width: 16},
			{Title: "MAC Address", Width: 17},
			{Title: "Device", Width: 10},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	at.SetStyles(tableStyles())

	m := HostsModel{
		ctx:      ctx,
		app:      a,
		table:    t,
		arpTable: at,
	}
	m.refresh()
	return m
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	return s
}

func (m HostsModel) Init() tea.Cmd {
	return nil
}

// SaveErr reports the error of the save that ran on quit, if any.
func (m HostsModel) SaveErr() error {
	return m.saveErr
}

// refresh rebuilds the table rows from the registry.
func (m *HostsModel) refresh() {
	var rows []table.Row
	for _, rec := range m.app.Hosts().All() {
		sel := "[ ]"
		if rec.Selected {
			sel = "[x]"
		}
		rows = append(rows, table.Row{sel, rec.Name, rec.MACAddress, reporting.PortLabel(rec.Port), rec.Destination})
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m *HostsModel) current() (registry.Handle, bool) {
	if len(m.table.Rows()) == 0 {
		return registry.Handle{}, false
	}
	h, err := m.app.Hosts().HandleAt(m.table.Cursor())
	if err != nil {
		return registry.Handle{}, false
	}
	return h, true
}

func (m *HostsModel) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *HostsModel) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

type wakeDoneMsg struct {
	results []app.WakeResult
	err     error
}

type arpLoadedMsg struct {
	entries []arp.Entry
	err     error
}

type savedMsg struct {
	err  error
	quit bool
}

func wakeCmd(ctx context.Context, a *app.App) tea.Cmd {
	return func() tea.Msg {
		results, err := a.WakeSelected(ctx)
		return wakeDoneMsg{results: results, err: err}
	}
}

func arpCmd(ctx context.Context, a *app.App) tea.Cmd {
	return func() tea.Msg {
		entries, err := a.ARPEntries(ctx)
		return arpLoadedMsg{entries: entries, err: err}
	}
}

func saveCmd(ctx context.Context, a *app.App, quit bool) tea.Cmd {
	return func() tea.Msg {
		return savedMsg{err: a.Save(ctx), quit: quit}
	}
}
