package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"gowakeonlan/internal/app"
	"gowakeonlan/internal/registry"
)

const arpTable = `IP address       HW type     Flags       HW address            Mask     Device
192.168.1.20     0x1         0x2         aa:bb:cc:dd:ee:ff     *        eth0
192.168.1.1      0x1         0x2         00:11:22:33:44:55     *        eth0
`

func writeConfig(t *testing.T, backend string) string {
	t.Helper()
	dir := t.TempDir()
	hosts := filepath.Join(dir, "hosts.yaml")
	if backend == "sqlite" {
		hosts = filepath.Join(dir, "hosts.db")
	}
	arpPath := filepath.Join(dir, "arp")
	require.NoError(t, os.WriteFile(arpPath, []byte(arpTable), 0o644))

	cfg := fmt.Sprintf(`storage:
  backend: %s
  path: %s
arp:
  cache_path: %s
logging:
  file: %s
`, backend, hosts, arpPath, filepath.Join(dir, "gowakeonlan.log"))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

func execute(t *testing.T, cfgFile string, args ...string) (string, error) {
	t.Helper()
	cmd, s := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", cfgFile}, args...))
	err := multierr.Append(cmd.ExecuteContext(context.Background()), s.close())
	return out.String(), err
}

type listed struct {
	Index       int    `json:"index"`
	Selected    bool   `json:"selected"`
	Name        string `json:"name"`
	MACAddress  string `json:"mac_address"`
	Port        int    `json:"port"`
	Destination string `json:"destination"`
}

func listHosts(t *testing.T, cfgFile string) []listed {
	t.Helper()
	out, err := execute(t, cfgFile, "list", "-o", "json")
	require.NoError(t, err)
	var hosts []listed
	require.NoError(t, json.Unmarshal([]byte(out), &hosts))
	return hosts
}

func listenUDP(t *testing.T) (*net.UDPConn, int) {
	t.Helper()
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn, conn.LocalAddr().(*net.UDPAddr).Port
}

func TestAddListEditRemove(t *testing.T) {
	for _, backend := range []string{"file", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			cfg := writeConfig(t, backend)

			out, err := execute(t, cfg, "add", "--name", "server1", "--mac", "aa-bb-cc-dd-ee-ff")
			require.NoError(t, err)
			assert.Contains(t, out, "Added host 1")
			_, err = execute(t, cfg, "add", "-n", "nas", "-m", "001122334455", "-p", "7", "--destination", "192.168.1.255")
			require.NoError(t, err)

			hosts := listHosts(t, cfg)
			require.Len(t, hosts, 2)
			assert.Equal(t, listed{Index: 1, Name: "server1", MACAddress: "AA:BB:CC:DD:EE:FF", Port: 9, Destination: "255.255.255.255"}, hosts[0])
			assert.Equal(t, listed{Index: 2, Name: "nas", MACAddress: "00:11:22:33:44:55", Port: 7, Destination: "192.168.1.255"}, hosts[1])

			_, err = execute(t, cfg, "edit", "2", "--port", "9", "--name", "storage")
			require.NoError(t, err)
			hosts = listHosts(t, cfg)
			assert.Equal(t, "storage", hosts[1].Name)
			assert.Equal(t, 9, hosts[1].Port)
			assert.Equal(t, "00:11:22:33:44:55", hosts[1].MACAddress)

			_, err = execute(t, cfg, "remove", "1")
			require.NoError(t, err)
			hosts = listHosts(t, cfg)
			require.Len(t, hosts, 1)
			assert.Equal(t, "storage", hosts[0].Name)
		})
	}
}

func TestAddRejectsInvalidHost(t *testing.T) {
	cfg := writeConfig(t, "file")

	_, err := execute(t, cfg, "add", "--name", "bad", "--mac", "00:11:22")
	assert.ErrorIs(t, err, app.ErrInvalidHost)
	_, err = execute(t, cfg, "add", "--name", "bad", "--mac", "00:11:22:33:44:55", "--port", "70000")
	assert.ErrorIs(t, err, app.ErrInvalidHost)

	assert.Empty(t, listHosts(t, cfg))
}

func TestIndexErrors(t *testing.T) {
	cfg := writeConfig(t, "file")
	_, err := execute(t, cfg, "add", "--mac", "00:11:22:33:44:55")
	require.NoError(t, err)

	_, err = execute(t, cfg, "remove", "2")
	assert.ErrorIs(t, err, registry.ErrInvalidHandle)
	_, err = execute(t, cfg, "edit", "0", "--name", "x")
	assert.Error(t, err)
	_, err = execute(t, cfg, "select", "abc")
	assert.Error(t, err)
	assert.Len(t, listHosts(t, cfg), 1)
}

func TestRemoveSeveral(t *testing.T) {
	cfg := writeConfig(t, "file")
	for _, name := range []string{"a", "b", "c", "d"} {
		_, err := execute(t, cfg, "add", "--name", name, "--mac", "00:11:22:33:44:55")
		require.NoError(t, err)
	}

	_, err := execute(t, cfg, "remove", "1", "3", "3")
	require.NoError(t, err)

	hosts := listHosts(t, cfg)
	require.Len(t, hosts, 2)
	assert.Equal(t, "b", hosts[0].Name)
	assert.Equal(t, "d", hosts[1].Name)
}

func TestSelect(t *testing.T) {
	cfg := writeConfig(t, "file")
	for _, name := range []string{"a", "b"} {
		_, err := execute(t, cfg, "add", "--name", name, "--mac", "00:11:22:33:44:55")
		require.NoError(t, err)
	}

	_, err := execute(t, cfg, "select", "2")
	require.NoError(t, err)
	hosts := listHosts(t, cfg)
	assert.False(t, hosts[0].Selected)
	assert.True(t, hosts[1].Selected)

	_, err = execute(t, cfg, "select", "--all")
	require.NoError(t, err)
	hosts = listHosts(t, cfg)
	assert.True(t, hosts[0].Selected && hosts[1].Selected)

	_, err = execute(t, cfg, "select", "1", "--off")
	require.NoError(t, err)
	assert.False(t, listHosts(t, cfg)[0].Selected)

	_, err = execute(t, cfg, "select", "--none")
	require.NoError(t, err)
	for _, h := range listHosts(t, cfg) {
		assert.False(t, h.Selected)
	}
}

func TestWakeSelected(t *testing.T) {
	cfg := writeConfig(t, "file")
	conn, port := listenUDP(t)

	_, err := execute(t, cfg, "add", "--name", "server1", "--mac", "AA:BB:CC:DD:EE:FF",
		"--port", strconv.Itoa(port), "--destination", "127.0.0.1", "--select")
	require.NoError(t, err)
	_, err = execute(t, cfg, "add", "--name", "idle", "--mac", "00:11:22:33:44:55")
	require.NoError(t, err)

	out, err := execute(t, cfg, "wake", "-o", "json")
	require.NoError(t, err)

	var results []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "server1", results[0]["name"])
	assert.Equal(t, true, results[0]["sent"])

	buf := make([]byte, 256)
	n, _, err := conn.ReadFromUDP(buf)
	require.NoError(t, err)
	assert.Equal(t, 102, n)
}

func TestWakeAddress(t *testing.T) {
	cfg := writeConfig(t, "file")
	conn, port := listenUDP(t)

	out, err := execute(t, cfg, "wake", "--mac", "aa:bb:cc:dd:ee:ff", "--port", strconv.Itoa(port), "--destination", "127.0.0.1")
	require.NoError(t, err)
	assert.Contains(t, out, "Sent magic packet to aa:bb:cc:dd:ee:ff")

	buf := make([]byte, 256)
	n, _, err := conn.ReadFromUDP(buf)
	require.NoError(t, err)
	assert.Equal(t, 102, n)
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xaa, 0xbb}, buf[:8])

	assert.Empty(t, listHosts(t, cfg), "ad-hoc wake does not add a host")
}

func TestARPListAndImport(t *testing.T) {
	cfg := writeConfig(t, "file")

	out, err := execute(t, cfg, "arp", "list", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "192.168.1.20")
	assert.Contains(t, out, "192.168.1.1")

	out, err = execute(t, cfg, "arp", "import", "192.168.1.20")
	require.NoError(t, err)
	assert.Contains(t, out, "as host 1")

	_, err = execute(t, cfg, "arp", "import", "192.168.1.99")
	assert.Error(t, err)

	hosts := listHosts(t, cfg)
	require.Len(t, hosts, 1)
	assert.Equal(t, listed{Index: 1, Name: "192.168.1.20", MACAddress: "AA:BB:CC:DD:EE:FF", Port: 9, Destination: "255.255.255.255"}, hosts[0])

	_, err = execute(t, cfg, "arp", "import", "--all")
	require.NoError(t, err)
	assert.Len(t, listHosts(t, cfg), 3)
}

func TestLogLevelFlagsAreExclusive(t *testing.T) {
	cfg := writeConfig(t, "file")
	_, err := execute(t, cfg, "--verbose", "--quiet", "list")
	assert.Error(t, err)
}
