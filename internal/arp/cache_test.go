package arp

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCache = `IP address       HW type     Flags       HW address            Mask     Device
192.168.1.20     0x1         0x2         aa:bb:cc:dd:ee:ff     *        wlan0
192.168.1.1      0x1         0x2         00:11:22:33:44:55     *        eth0
192.168.1.30     0x1         0x0         00:00:00:00:00:00     *        eth0
192.168.1.40     0x1         0x2         00:00:00:00:00:00     *        eth0
192.168.1.1      0x1         0x2         00:11:22:33:44:55     *        wlan0
garbage
`

func TestParseCache(t *testing.T) {
	entries, err := ParseCache(strings.NewReader(sampleCache))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "192.168.1.1", entries[0].IP.String())
	assert.Equal(t, "00:11:22:33:44:55", entries[0].MAC.String())
	assert.Equal(t, "eth0", entries[0].Device)

	assert.Equal(t, "192.168.1.20", entries[1].IP.String())
	assert.Equal(t, net.HardwareAddr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}, entries[1].MAC)
	assert.Equal(t, "wlan0", entries[1].Device)
}

func TestParseCacheEmpty(t *testing.T) {
	entries, err := ParseCache(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCacheSourceReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arp")
	require.NoError(t, os.WriteFile(path, []byte(sampleCache), 0o644))

	entries, err := CacheSource{Path: path}.Entries(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestCacheSourceMissingFile(t *testing.T) {
	_, err := CacheSource{Path: filepath.Join(t.TempDir(), "missing")}.Entries(context.Background())
	assert.Error(t, err)
}
