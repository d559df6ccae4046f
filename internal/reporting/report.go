// Package reporting renders the host list and wake outcomes as terminal
// tables, JSON or a standalone HTML page.
package reporting

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"gowakeonlan/internal/app"
	"gowakeonlan/internal/arp"
	"gowakeonlan/internal/models"
	"gowakeonlan/internal/wol"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatHTML = "html"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	errorStyle  = cellStyle.Foreground(lipgloss.Color("196"))
	okStyle     = cellStyle.Foreground(lipgloss.Color("42"))
)

type hostEntry struct {
	Index int `json:"index"`
	models.HostRecord
}

type wakeEntry struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	MACAddress  string `json:"mac_address"`
	Port        int    `json:"port"`
	Destination string `json:"destination"`
	Sent        bool   `json:"sent"`
	Error       string `json:"error,omitempty"`
}

// PortLabel shows a port with its conventional name, e.g. "9 (discard)".
func PortLabel(port int) string {
	name := wol.PortName(port)
	if name == strconv.Itoa(port) {
		return name
	}
	return fmt.Sprintf("%d (%s)", port, name)
}

// Hosts writes the host list in the given format. Indexes are shown 1-based.
func Hosts(w io.Writer, format string, hosts []models.HostRecord) error {
	switch format {
	case FormatText:
		if len(hosts) == 0 {
			_, err := fmt.Fprintln(w, "No hosts.")
			return err
		}
		rows := make([][]string, 0, len(hosts))
		for i, h := range hosts {
			sel := " "
			if h.Selected {
				sel = "x"
			}
			rows = append(rows, []string{strconv.Itoa(i + 1), sel, h.Name, h.MACAddress, PortLabel(h.Port), h.Destination})
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("#", "Sel", "Name", "MAC Address", "Port", "Destination").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			})
		_, err := fmt.Fprintln(w, t.String())
		return err
	case FormatJSON:
		entries := make([]hostEntry, 0, len(hosts))
		for i, h := range hosts {
			entries = append(entries, hostEntry{Index: i + 1, HostRecord: h})
		}
		return writeJSON(w, entries)
	case FormatHTML:
		_, err := io.WriteString(w, hostsHTML(hosts, time.Now()))
		return err
	}
	return fmt.Errorf("unsupported format: %s", format)
}

// WakeResults writes the per-host outcome of a batch wake.
func WakeResults(w io.Writer, format string, results []app.WakeResult) error {
	entries := make([]wakeEntry, 0, len(results))
	for _, r := range results {
		e := wakeEntry{
			Index:       r.Index + 1,
			Name:        r.Host.Name,
			MACAddress:  r.Host.MACAddress,
			Port:        r.Host.Port,
			Destination: r.Host.Destination,
			Sent:        r.Err == nil,
		}
		if r.Err != nil {
			e.Error = r.Err.Error()
		}
		entries = append(entries, e)
	}

	switch format {
	case FormatText:
		if len(entries) == 0 {
			_, err := fmt.Fprintln(w, "No hosts selected.")
			return err
		}
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			status := "sent"
			if !e.Sent {
				status = e.Error
			}
			rows = append(rows, []string{strconv.Itoa(e.Index), e.Name, e.MACAddress, e.Destination + ":" + strconv.Itoa(e.Port), status})
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("#", "Name", "MAC Address", "Target", "Status").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				if col == 4 {
					if entries[row].Sent {
						return okStyle
					}
					return errorStyle
				}
				return cellStyle
			})
		_, err := fmt.Fprintln(w, t.String())
		return err
	case FormatJSON:
		return writeJSON(w, entries)
	}
	return fmt.Errorf("unsupported format: %s", format)
}

type arpEntry struct {
	IP         string `json:"ip"`
	MACAddress string `json:"mac_address"`
	Device     string `json:"device,omitempty"`
}

// ARPEntries writes an ARP snapshot.
func ARPEntries(w io.Writer, format string, entries []arp.Entry) error {
	switch format {
	case FormatText:
		if len(entries) == 0 {
			_, err := fmt.Fprintln(w, "No ARP entries.")
			return err
		}
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{e.IP.String(), e.MAC.String(), e.Device})
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("IP Address", "MAC Address", "Device").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			})
		_, err := fmt.Fprintln(w, t.String())
		return err
	case FormatJSON:
		out := make([]arpEntry, 0, len(entries))
		for _, e := range entries {
			out = append(out, arpEntry{IP: e.IP.String(), MACAddress: e.MAC.String(), Device: e.Device})
		}
		return writeJSON(w, out)
	}
	return fmt.Errorf("unsupported format: %s", format)
}

// GenerateHostReport writes an HTML report of hosts into dir and returns its path.
func GenerateHostReport(dir string, hosts []models.HostRecord) (string, error) {
	now := time.Now()
	filename := filepath.Join(dir, fmt.Sprintf("hosts_%s.html", now.Format("20060102_150405")))

	file, err := os.Create(filename)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := file.WriteString(hostsHTML(hosts, now)); err != nil {
		return "", err
	}
	return filename, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func hostsHTML(hosts []models.HostRecord, now time.Time) string {
	selected := 0
	for _, h := range hosts {
		if h.Selected {
			selected++
		}
	}

	out := fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Wake-on-LAN Hosts - %s</title>
    <style>
        body { font-family: sans-serif; margin: 20px; color: #333; }
        h1 { color: #2c3e50; }
        table { width: 100%%; border-collapse: collapse; margin-bottom: 20px; }
        th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
        th { background-color: #f2f2f2; }
        tr:nth-child(even) { background-color: #f9f9f9; }
        .summary { background: #eef; padding: 15px; border-radius: 5px; margin-bottom: 20px; }
        .mac { font-family: monospace; }
    </style>
</head>
<body>
    <h1>Wake-on-LAN Hosts</h1>
    <div class="summary">
        <p><strong>Date:</strong> %s</p>
        <p><strong>Hosts:</strong> %d (%d selected)</p>
    </div>

    <table>
        <thead>
            <tr>
                <th>#</th>
                <th>Selected</th>
                <th>Name</th>
                <th>MAC Address</th>
                <th>Port</th>
                <th>Destination</th>
            </tr>
        </thead>
        <tbody>
`, now.Format("20060102_150405"), now.Format(time.RFC1123), len(hosts), selected)

	if len(hosts) == 0 {
		out += "            <tr><td colspan=\"6\">No hosts configured.</td></tr>\n"
	}
	for i, h := range hosts {
		sel := ""
		if h.Selected {
			sel = "yes"
		}
		out += fmt.Sprintf("            <tr><td>%d</td><td>%s</td><td>%s</td><td class=\"mac\">%s</td><td>%s</td><td>%s</td></tr>\n",
			i+1, sel, html.EscapeString(h.Name), html.EscapeString(h.MACAddress), html.EscapeString(PortLabel(h.Port)), html.EscapeString(h.Destination))
	}

	out += `        </tbody>
    </table>
</body>
</html>`
	return out
}
