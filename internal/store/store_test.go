package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gowakeonlan/internal/config"
	"gowakeonlan/internal/models"
)

var sampleHosts = []models.HostRecord{
	{Selected: true, Name: "server1", MACAddress: "AA:BB:CC:DD:EE:FF", Port: 9, Destination: "255.255.255.255"},
	{Selected: false, Name: "nas", MACAddress: "00:11:22:33:44:55", Port: 7, Destination: "192.168.1.255"},
	{Selected: false, Name: "nas", MACAddress: "00:11:22:33:44:55", Port: 7, Destination: "192.168.1.255"},
}

func roundTrip(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	hosts, err := b.ReadHosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, hosts)

	require.NoError(t, b.WriteHosts(ctx, sampleHosts))
	hosts, err = b.ReadHosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleHosts, hosts)

	require.NoError(t, b.WriteHosts(ctx, sampleHosts[1:2]))
	hosts, err = b.ReadHosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleHosts[1:2], hosts)

	require.NoError(t, b.WriteHosts(ctx, nil))
	hosts, err = b.ReadHosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, hosts)
}

func TestFileYAMLRoundTrip(t *testing.T) {
	f, err := NewFile(logr.Discard(), filepath.Join(t.TempDir(), "sub", "hosts.yaml"))
	require.NoError(t, err)
	roundTrip(t, f)
}

func TestFileJSONRoundTrip(t *testing.T) {
	f, err := NewFile(logr.Discard(), filepath.Join(t.TempDir(), "hosts.json"))
	require.NoError(t, err)
	roundTrip(t, f)
}

func TestFileYAMLLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hosts.yaml")
	f, err := NewFile(logr.Discard(), path)
	require.NoError(t, err)
	require.NoError(t, f.WriteHosts(context.Background(), sampleHosts[:1]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "mac_address: AA:BB:CC:DD:EE:FF")
	assert.Contains(t, string(data), "selected: true")
}

func TestFileRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hosts.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	f, err := NewFile(logr.Discard(), path)
	require.NoError(t, err)
	_, err = f.ReadHosts(context.Background())
	assert.Error(t, err)
}

func TestSQLiteRoundTrip(t *testing.T) {
	s, err := NewSQLite(logr.Discard(), filepath.Join(t.TempDir(), "hosts.db"))
	require.NoError(t, err)
	defer s.Close()
	roundTrip(t, s)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	b, err := Open(logr.Discard(), config.StorageConfig{Backend: config.BackendFile, Path: filepath.Join(dir, "hosts.yaml")})
	require.NoError(t, err)
	assert.IsType(t, &File{}, b)
	require.NoError(t, b.Close())

	b, err = Open(logr.Discard(), config.StorageConfig{Backend: config.BackendSQLite, Path: filepath.Join(dir, "hosts.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, b)
	require.NoError(t, b.Close())

	_, err = Open(logr.Discard(), config.StorageConfig{Backend: "etcd"})
	assert.Error(t, err)
}
