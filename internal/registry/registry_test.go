package registry

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gowakeonlan/internal/models"
)

type memStore struct {
	hosts []models.HostRecord
	err   error
}

func (m *memStore) ReadHosts(ctx context.Context) ([]models.HostRecord, error) {
	return m.hosts, m.err
}

func (m *memStore) WriteHosts(ctx context.Context, hosts []models.HostRecord) error {
	if m.err != nil {
		return m.err
	}
	m.hosts = hosts
	return nil
}

func TestAddIncrementsCount(t *testing.T) {
	r := New()
	require.Equal(t, 0, r.Count())

	h := r.Add(false, "server1", "AA:BB:CC:DD:EE:FF", 9, "255.255.255.255")
	assert.Equal(t, 1, r.Count())
	assert.Equal(t, 0, h.Index())

	rec, err := r.Get(h)
	require.NoError(t, err)
	assert.Equal(t, models.HostRecord{
		Name:        "server1",
		MACAddress:  "AA:BB:CC:DD:EE:FF",
		Port:        9,
		Destination: "255.255.255.255",
	}, rec)
}

func TestAddDoesNotValidate(t *testing.T) {
	r := New()
	h := r.Add(true, "", "not-a-mac", 0, "")

	port, err := r.Port(h)
	require.NoError(t, err)
	assert.Equal(t, 0, port)
}

func TestRemoveInvalidatesHandle(t *testing.T) {
	r := New()
	first := r.Add(false, "a", "00:00:00:00:00:01", 9, models.BroadcastAddress)
	second := r.Add(false, "b", "00:00:00:00:00:02", 9, models.BroadcastAddress)
	r.Add(false, "c", "00:00:00:00:00:03", 9, models.BroadcastAddress)

	require.NoError(t, r.Remove(second))
	assert.Equal(t, 2, r.Count())

	err := r.Remove(second)
	assert.True(t, errors.Is(err, ErrInvalidHandle))

	_, err = r.Get(first)
	assert.ErrorIs(t, err, ErrInvalidHandle, "removal invalidates every outstanding handle")

	h, err := r.HandleAt(1)
	require.NoError(t, err)
	name, err := r.Name(h)
	require.NoError(t, err)
	assert.Equal(t, "c", name, "later positions shift down")
}

func TestAddKeepsHandlesValid(t *testing.T) {
	r := New()
	h := r.Add(false, "a", "", 9, "")
	r.Add(false, "b", "", 9, "")

	name, err := r.Name(h)
	require.NoError(t, err)
	assert.Equal(t, "a", name)
}

func TestZeroHandleIsInvalid(t *testing.T) {
	r := New()
	r.Add(false, "a", "", 9, "")

	_, err := r.Get(Handle{})
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestSettersOnStaleHandle(t *testing.T) {
	r := New()
	h := r.Add(false, "a", "", 9, "")
	require.NoError(t, r.Remove(h))

	assert.ErrorIs(t, r.SetSelected(h, true), ErrInvalidHandle)
	assert.ErrorIs(t, r.SetName(h, "x"), ErrInvalidHandle)
	assert.ErrorIs(t, r.SetMACAddress(h, "x"), ErrInvalidHandle)
	assert.ErrorIs(t, r.SetPort(h, 7), ErrInvalidHandle)
	assert.ErrorIs(t, r.SetDestination(h, "x"), ErrInvalidHandle)
	_, err := r.HandleAt(0)
	assert.ErrorIs(t, err, ErrInvalidHandle)
	_, err = r.HandleAt(-1)
	assert.ErrorIs(t, err, ErrInvalidHandle)
}

func TestSetters(t *testing.T) {
	r := New()
	h := r.Add(false, "a", "00:11:22:33:44:55", 9, models.BroadcastAddress)

	require.NoError(t, r.SetSelected(h, true))
	require.NoError(t, r.SetName(h, "desktop"))
	require.NoError(t, r.SetMACAddress(h, "66:77:88:99:AA:BB"))
	require.NoError(t, r.SetPort(h, 7))
	require.NoError(t, r.SetDestination(h, "192.168.1.255"))

	selected, err := r.Selected(h)
	require.NoError(t, err)
	assert.True(t, selected)
	mac, _ := r.MACAddress(h)
	assert.Equal(t, "66:77:88:99:AA:BB", mac)
	dest, _ := r.Destination(h)
	assert.Equal(t, "192.168.1.255", dest)
	port, _ := r.Port(h)
	assert.Equal(t, 7, port)
}

func TestAllIsOrderedAndRestartable(t *testing.T) {
	r := New()
	for _, name := range []string{"a", "b", "c"} {
		r.Add(false, name, "", 9, "")
	}

	collect := func() []string {
		var names []string
		for _, rec := range r.All() {
			names = append(names, rec.Name)
		}
		return names
	}
	assert.Equal(t, []string{"a", "b", "c"}, collect())
	assert.Equal(t, []string{"a", "b", "c"}, collect())
}

func TestAllAllowsSettersInBody(t *testing.T) {
	r := New()
	r.Add(false, "a", "", 9, "")
	r.Add(false, "b", "", 9, "")

	for h := range r.All() {
		require.NoError(t, r.SetSelected(h, true))
	}
	for _, rec := range r.All() {
		assert.True(t, rec.Selected)
	}
}

func TestAllStopsAfterRemoval(t *testing.T) {
	r := New()
	r.Add(false, "a", "", 9, "")
	r.Add(false, "b", "", 9, "")
	r.Add(false, "c", "", 9, "")

	seen := 0
	for h := range r.All() {
		seen++
		if seen == 1 {
			require.NoError(t, r.Remove(h))
		}
	}
	assert.Equal(t, 1, seen)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	r := New()
	a := r.Add(false, "a", "00:00:00:00:00:01", 9, models.BroadcastAddress)
	r.Add(true, "b", "00:00:00:00:00:02", 7, "10.0.0.255")
	r.Add(false, "c", "00:00:00:00:00:03", 9, "host.example.com")
	require.NoError(t, r.SetName(a, "renamed"))
	h, err := r.HandleAt(1)
	require.NoError(t, err)
	require.NoError(t, r.Remove(h))

	saved := r.Save()

	fresh := New()
	fresh.Load(saved)
	assert.Equal(t, saved, fresh.Save())
	assert.Equal(t, []models.HostRecord{
		{Name: "renamed", MACAddress: "00:00:00:00:00:01", Port: 9, Destination: models.BroadcastAddress},
		{Name: "c", MACAddress: "00:00:00:00:00:03", Port: 9, Destination: "host.example.com"},
	}, fresh.Save())
}

func TestSaveReturnsCopy(t *testing.T) {
	r := New()
	r.Add(false, "a", "", 9, "")
	saved := r.Save()
	saved[0].Name = "mutated"

	h, _ := r.HandleAt(0)
	name, _ := r.Name(h)
	assert.Equal(t, "a", name)
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := &memStore{}

	r := New()
	r.Add(true, "nas", "00:11:22:33:44:55", 9, models.BroadcastAddress)
	require.NoError(t, r.SaveTo(ctx, s))

	fresh := New()
	require.NoError(t, fresh.LoadFrom(ctx, s))
	assert.Equal(t, r.Save(), fresh.Save())
}

func TestStoreErrorsAreWrapped(t *testing.T) {
	boom := errors.New("boom")
	s := &memStore{err: boom}

	r := New()
	assert.ErrorIs(t, r.LoadFrom(context.Background(), s), boom)
	assert.ErrorIs(t, r.SaveTo(context.Background(), s), boom)
}

func TestConcurrentReadersAndWriter(t *testing.T) {
	r := New()
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			r.Add(false, "h", "", 9, "")
		}
	}()
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				for range r.All() {
				}
				_ = r.Count()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, r.Count())
}
