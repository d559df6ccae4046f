package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

func (m HostsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, saveCmd(m.ctx, m.app, true)
		}
		switch m.mode {
		case modeForm:
			return m.updateForm(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		case modeARP:
			return m.updateARP(msg)
		}
		return m.updateList(msg)

	case wakeDoneMsg:
		m.busy = false
		sent := 0
		for _, r := range msg.results {
			if r.Err == nil {
				sent++
			}
		}
		switch {
		case len(msg.results) == 0 && msg.err == nil:
			m.setStatus("No hosts selected")
		case msg.err != nil:
			m.setError(fmt.Errorf("sent %d of %d: %w", sent, len(msg.results), msg.err))
		default:
			m.setStatus(fmt.Sprintf("Sent magic packet to %d host(s)", sent))
		}
		return m, nil

	case arpLoadedMsg:
		m.busy = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.arpEntries = msg.entries
		rows := make([]table.Row, len(msg.entries))
		for i, e := range msg.entries {
			rows[i] = table.Row{e.IP.String(), e.MAC.String(), e.Device}
		}
		m.arpTable.SetRows(rows)
		m.arpTable.SetCursor(0)
		m.mode = modeARP
		m.setStatus(fmt.Sprintf("%d ARP entries", len(msg.entries)))
		return m, nil

	case savedMsg:
		m.saveErr = msg.err
		if msg.quit {
			return m, tea.Quit
		}
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.setStatus("Saved")
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.mode == modeARP {
		m.arpTable, cmd = m.arpTable.Update(msg)
	} else if m.mode == modeList {
		m.table, cmd = m.table.Update(msg)
	}
	return m, cmd
}

func (m HostsModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, saveCmd(m.ctx, m.app, true)

	case " ", "x":
		h, ok := m.current()
		if !ok {
			return m, nil
		}
		if _, err := m.app.ToggleSelected(h); err != nil {
			m.setError(err)
		}
		m.refresh()
		return m, nil

	case "a":
		m.form = newHostForm(m.app.NewHostDefaults())
		m.editing = false
		m.mode = modeForm
		return m, nil

	case "e", "enter":
		h, ok := m.current()
		if !ok {
			return m, nil
		}
		rec, err := m.app.Hosts().Get(h)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.form = newHostForm(rec)
		m.target = h
		m.editing = true
		m.mode = modeForm
		return m, nil

	case "d", "delete":
		h, ok := m.current()
		if !ok {
			return m, nil
		}
		m.target = h
		m.mode = modeConfirmDelete
		return m, nil

	case "w":
		if m.busy {
			return m, nil
		}
		m.busy = true
		m.setStatus("Waking selected hosts...")
		return m, wakeCmd(m.ctx, m.app)

	case "i":
		if m.busy {
			return m, nil
		}
		m.busy = true
		m.setStatus("Reading ARP table...")
		return m, arpCmd(m.ctx, m.app)

	case "s":
		return m, saveCmd(m.ctx, m.app, false)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m HostsModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.setStatus("Cancelled")
		return m, nil
	case "tab", "down":
		return m, m.form.move(1)
	case "shift+tab", "up":
		return m, m.form.move(-1)
	case "enter":
		if m.form.focus < fieldCount-1 {
			return m, m.form.move(1)
		}
		return m.submitForm()
	case "ctrl+s":
		return m.submitForm()
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m HostsModel) submitForm() (tea.Model, tea.Cmd) {
	rec, err := m.form.record()
	if err != nil {
		m.form.err = err.Error()
		return m, nil
	}

	if m.editing {
		err = m.app.EditHost(m.target, rec)
	} else {
		m.target, err = m.app.AddHost(rec)
	}
	if err != nil {
		m.form.err = err.Error()
		return m, nil
	}

	m.mode = modeList
	m.refresh()
	if m.editing {
		m.setStatus("Updated " + rec.Name)
	} else {
		m.table.SetCursor(m.target.Index())
		m.setStatus("Added " + rec.Name)
	}
	return m, nil
}

func (m HostsModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if err := m.app.RemoveHost(m.target); err != nil {
			m.setError(err)
		} else {
			m.setStatus("Removed host")
		}
		m.mode = modeList
		m.refresh()
	case "n", "N", "esc":
		m.mode = modeList
		m.setStatus("Cancelled")
	}
	return m, nil
}

func (m HostsModel) updateARP(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = modeList
		return m, nil
	case "enter":
		if len(m.arpEntries) == 0 {
			m.mode = modeList
			return m, nil
		}
		e := m.arpEntries[m.arpTable.Cursor()]
		h, err := m.app.ImportARPEntry(e)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.mode = modeList
		m.refresh()
		m.table.SetCursor(h.Index())
		m.setStatus("Imported " + e.IP.String())
		return m, nil
	}

	var cmd tea.Cmd
	m.arpTable, cmd = m.arpTable.Update(msg)
	return m, cmd
}
