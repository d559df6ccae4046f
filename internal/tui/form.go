package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"gowakeonlan/internal/models"
)

const (
	fieldName = iota
	fieldMAC
	fieldPort
	fieldDestination
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "MAC Address", "Port", "Destination"}

type hostForm struct {
	inputs [fieldCount]textinput.Model
	focus  int
	err    string
}

func newHostForm(rec models.HostRecord) hostForm {
	var f hostForm
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Width = 30
		f.inputs[i] = in
	}
	f.inputs[fieldName].Placeholder = "office-pc"
	f.inputs[fieldMAC].Placeholder = "AA:BB:CC:DD:EE:FF"
	f.inputs[fieldMAC].CharLimit = 17
	f.inputs[fieldPort].CharLimit = 5
	f.inputs[fieldDestination].Placeholder = models.BroadcastAddress

	f.inputs[fieldName].SetValue(rec.Name)
	f.inputs[fieldMAC].SetValue(rec.MACAddress)
	f.inputs[fieldPort].SetValue(strconv.Itoa(rec.Port))
	f.inputs[fieldDestination].SetValue(rec.Destination)
	f.inputs[fieldName].Focus()
	return f
}

func (f *hostForm) move(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	return f.inputs[f.focus].Focus()
}

func (f hostForm) update(msg tea.Msg) (hostForm, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// record reads the inputs back. Only the port is checked here.
func (f hostForm) record() (models.HostRecord, error) {
	portText := strings.TrimSpace(f.inputs[fieldPort].Value())
	port, err := strconv.Atoi(portText)
	if err != nil {
		return models.HostRecord{}, fmt.Errorf("port %q is not a number", portText)
	}
	return models.HostRecord{
		Name:        f.inputs[fieldName].Value(),
		MACAddress:  f.inputs[fieldMAC].Value(),
		Port:        port,
		Destination: f.inputs[fieldDestination].Value(),
	}, nil
}

func (f hostForm) view() string {
	var b strings.Builder
	for i, in := range f.inputs {
		label := fmt.Sprintf("%-12s", fieldLabels[i])
		if i == f.focus {
			label = focusStyle.Render(label)
		} else {
			label = labelStyle.Render(label)
		}
		b.WriteString(label + " " + in.View() + "\n")
	}
	if f.err != "" {
		b.WriteString("\n" + errorStyle.Render(f.err) + "\n")
	}
	return b.String()
}
