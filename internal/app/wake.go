package app

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/iter"
	"go.uber.org/multierr"

	"gowakeonlan/internal/models"
	"gowakeonlan/internal/registry"
)

// WakeResult is the outcome for one host of a batch.
type WakeResult struct {
	Index int
	Host  models.HostRecord
	Err   error
}

type wakeTarget struct {
	index int
	host  models.HostRecord
}

// WakeSelected sends one magic packet to every selected host. A failure on
// one host never stops the others; the returned error combines all failures.
func (a *App) WakeSelected(ctx context.Context) ([]WakeResult, error) {
	var targets []wakeTarget
	for h, rec := range a.hosts.All() {
		if rec.Selected {
			targets = append(targets, wakeTarget{index: h.Index(), host: rec})
		}
	}
	return a.wakeAll(ctx, targets)
}

// WakeHosts wakes the hosts at the given handles, selected or not.
func (a *App) WakeHosts(ctx context.Context, handles []registry.Handle) ([]WakeResult, error) {
	targets := make([]wakeTarget, 0, len(handles))
	for _, h := range handles {
		rec, err := a.hosts.Get(h)
		if err != nil {
			return nil, err
		}
		targets = append(targets, wakeTarget{index: h.Index(), host: rec})
	}
	return a.wakeAll(ctx, targets)
}

// WakeAddress wakes a machine that is not in the registry.
func (a *App) WakeAddress(mac string, port int, destination string) error {
	if err := a.waker.Wake(mac, port, destination); err != nil {
		a.log.Error(err, "Failed to wake", "mac", mac, "port", port, "destination", destination)
		return err
	}
	a.log.Info("Woke", "mac", mac, "port", port, "destination", destination)
	return nil
}

func (a *App) wakeAll(ctx context.Context, targets []wakeTarget) ([]WakeResult, error) {
	if len(targets) == 0 {
		a.log.Info("No hosts to wake")
		return nil, nil
	}

	mapper := iter.Mapper[wakeTarget, WakeResult]{MaxGoroutines: a.cfg.Concurrency}
	results := mapper.Map(targets, func(t *wakeTarget) WakeResult {
		res := WakeResult{Index: t.index, Host: t.host}
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res
		}
		res.Err = a.waker.Wake(t.host.MACAddress, t.host.Port, t.host.Destination)
		if res.Err != nil {
			a.log.Error(res.Err, "Failed to wake host", "name", t.host.Name, "mac", t.host.MACAddress)
		} else {
			a.log.Info("Woke host", "name", t.host.Name, "mac", t.host.MACAddress, "destination", t.host.Destination)
		}
		return res
	})

	var err error
	for _, r := range results {
		if r.Err != nil {
			err = multierr.Append(err, fmt.Errorf("%s (%s): %w", r.Host.Name, r.Host.MACAddress, r.Err))
		}
	}
	return results, err
}
