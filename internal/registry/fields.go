package registry

import "gowakeonlan/internal/models"

func (r *Registry) Selected(h Handle) (bool, error) {
	rec, err := r.Get(h)
	return rec.Selected, err
}

func (r *Registry) Name(h Handle) (string, error) {
	rec, err := r.Get(h)
	return rec.Name, err
}

func (r *Registry) MACAddress(h Handle) (string, error) {
	rec, err := r.Get(h)
	return rec.MACAddress, err
}

func (r *Registry) Port(h Handle) (int, error) {
	rec, err := r.Get(h)
	return rec.Port, err
}

func (r *Registry) Destination(h Handle) (string, error) {
	rec, err := r.Get(h)
	return rec.Destination, err
}

func (r *Registry) SetSelected(h Handle, selected bool) error {
	return r.Update(h, func(rec *models.HostRecord) { rec.Selected = selected })
}

func (r *Registry) SetName(h Handle, name string) error {
	return r.Update(h, func(rec *models.HostRecord) { rec.Name = name })
}

func (r *Registry) SetMACAddress(h Handle, mac string) error {
	return r.Update(h, func(rec *models.HostRecord) { rec.MACAddress = mac })
}

func (r *Registry) SetPort(h Handle, port int) error {
	return r.Update(h, func(rec *models.HostRecord) { rec.Port = port })
}

func (r *Registry) SetDestination(h Handle, destination string) error {
	return r.Update(h, func(rec *models.HostRecord) { rec.Destination = destination })
}
