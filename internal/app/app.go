// Package app holds the command handlers the CLI and the TUI call into.
// It is the only place that combines the host registry, the persistence
// store, the ARP sources and the transmitter.
package app

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"gowakeonlan/internal/arp"
	"gowakeonlan/internal/config"
	"gowakeonlan/internal/models"
	"gowakeonlan/internal/registry"
)

// Waker sends one magic packet. wol.Transmitter and wol.EthernetTransmitter implement it.
type Waker interface {
	Wake(mac string, port int, destination string) error
}

// App wires the registry to its collaborators.
type App struct {
	log      logr.Logger
	cfg      config.WakeConfig
	hosts    *registry.Registry
	store    registry.Store
	waker    Waker
	arp      arp.Source
	validate *hostValidator
}

func New(log logr.Logger, cfg config.WakeConfig, hosts *registry.Registry, store registry.Store, waker Waker, arpSource arp.Source) *App {
	return &App{
		log:      log.WithName("app"),
		cfg:      cfg,
		hosts:    hosts,
		store:    store,
		waker:    waker,
		arp:      arpSource,
		validate: newHostValidator(),
	}
}

// Hosts exposes the registry for iteration and lookups.
func (a *App) Hosts() *registry.Registry {
	return a.hosts
}

// Load replaces the registry content with the stored host list.
func (a *App) Load(ctx context.Context) error {
	if err := a.hosts.LoadFrom(ctx, a.store); err != nil {
		a.log.Error(err, "Failed to load hosts")
		return err
	}
	a.log.Info("Loaded hosts", "count", a.hosts.Count())
	return nil
}

// Save writes the registry to the store.
func (a *App) Save(ctx context.Context) error {
	if err := a.hosts.SaveTo(ctx, a.store); err != nil {
		a.log.Error(err, "Failed to save hosts")
		return err
	}
	a.log.Info("Saved hosts", "count", a.hosts.Count())
	return nil
}

// NewHostDefaults returns the values a new host starts with.
func (a *App) NewHostDefaults() models.HostRecord {
	return models.HostRecord{
		Port:        a.cfg.DefaultPort,
		Destination: a.cfg.DefaultDestination,
	}
}

// AddHost validates rec, normalizes its MAC and appends it.
func (a *App) AddHost(rec models.HostRecord) (registry.Handle, error) {
	rec, err := a.validate.host(rec)
	if err != nil {
		return registry.Handle{}, err
	}
	h := a.hosts.Add(rec.Selected, rec.Name, rec.MACAddress, rec.Port, rec.Destination)
	a.log.Info("Added host", "name", rec.Name, "mac", rec.MACAddress, "index", h.Index())
	return h, nil
}

// EditHost validates rec and overwrites the editable fields of h.
// The selection flag is left as it is.
func (a *App) EditHost(h registry.Handle, rec models.HostRecord) error {
	rec, err := a.validate.host(rec)
	if err != nil {
		return err
	}
	err = a.hosts.Update(h, func(cur *models.HostRecord) {
		cur.Name = rec.Name
		cur.MACAddress = rec.MACAddress
		cur.Port = rec.Port
		cur.Destination = rec.Destination
	})
	if err != nil {
		return err
	}
	a.log.Info("Edited host", "name", rec.Name, "index", h.Index())
	return nil
}

func (a *App) RemoveHost(h registry.Handle) error {
	rec, err := a.hosts.Get(h)
	if err != nil {
		return err
	}
	if err := a.hosts.Remove(h); err != nil {
		return err
	}
	a.log.Info("Removed host", "name", rec.Name, "index", h.Index())
	return nil
}

// ToggleSelected flips the selection flag and returns the new value.
func (a *App) ToggleSelected(h registry.Handle) (bool, error) {
	var selected bool
	err := a.hosts.Update(h, func(rec *models.HostRecord) {
		rec.Selected = !rec.Selected
		selected = rec.Selected
	})
	return selected, err
}

func (a *App) SetSelected(h registry.Handle, selected bool) error {
	return a.hosts.SetSelected(h, selected)
}

// ARPEntries returns the current ARP snapshot.
func (a *App) ARPEntries(ctx context.Context) ([]arp.Entry, error) {
	if a.arp == nil {
		return nil, fmt.Errorf("no ARP source configured")
	}
	entries, err := a.arp.Entries(ctx)
	if err != nil {
		a.log.Error(err, "Failed to read ARP entries")
		return nil, err
	}
	return entries, nil
}

// ImportARPEntry adds an unselected host named after the entry's IP address.
func (a *App) ImportARPEntry(e arp.Entry) (registry.Handle, error) {
	rec := a.NewHostDefaults()
	rec.Name = e.IP.String()
	rec.MACAddress = e.MAC.String()
	return a.AddHost(rec)
}
