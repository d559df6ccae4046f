package registry

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"

	"gowakeonlan/internal/models"
)

// ErrInvalidHandle is returned when a handle refers to a removed or out-of-range entry.
var ErrInvalidHandle = errors.New("invalid host handle")

// Store is the persistence contract the registry needs: an ordered array of records.
type Store interface {
	ReadHosts(ctx context.Context) ([]models.HostRecord, error)
	WriteHosts(ctx context.Context, hosts []models.HostRecord) error
}

// Handle addresses one registry entry. It stays valid until the next removal or load.
type Handle struct {
	index int
	gen   uint64
}

// Index returns the zero-based position the handle refers to.
func (h Handle) Index() int {
	return h.index
}

// Registry is the ordered, mutable collection of host records.
type Registry struct {
	mu      sync.RWMutex
	records []models.HostRecord
	// gen starts at 1 so the zero Handle is never valid.
	gen uint64
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		records: make([]models.HostRecord, 0),
		gen:     1,
	}
}

// Add appends a record and returns its handle. Fields are stored as given.
func (r *Registry) Add(selected bool, name, mac string, port int, destination string) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, models.HostRecord{
		Selected:    selected,
		Name:        name,
		MACAddress:  mac,
		Port:        port,
		Destination: destination,
	})
	return Handle{index: len(r.records) - 1, gen: r.gen}
}

// Remove deletes the entry. Every outstanding handle becomes invalid.
func (r *Registry) Remove(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.check(h); err != nil {
		return err
	}
	r.records = append(r.records[:h.index], r.records[h.index+1:]...)
	r.gen++
	return nil
}

// Count returns the number of records.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// HandleAt returns a handle for the zero-based position.
func (r *Registry) HandleAt(index int) (Handle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h := Handle{index: index, gen: r.gen}
	if err := r.check(h); err != nil {
		return Handle{}, err
	}
	return h, nil
}

// All yields handles and record copies in insertion order.
// The sequence ends early when the registry is reloaded or an entry is removed
// while iterating. No lock is held while the loop body runs.
func (r *Registry) All() iter.Seq2[Handle, models.HostRecord] {
	return func(yield func(Handle, models.HostRecord) bool) {
		r.mu.RLock()
		gen := r.gen
		r.mu.RUnlock()

		for i := 0; ; i++ {
			r.mu.RLock()
			if r.gen != gen || i >= len(r.records) {
				r.mu.RUnlock()
				return
			}
			rec := r.records[i]
			r.mu.RUnlock()

			if !yield(Handle{index: i, gen: gen}, rec) {
				return
			}
		}
	}
}

// Get returns a copy of the record.
func (r *Registry) Get(h Handle) (models.HostRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.check(h); err != nil {
		return models.HostRecord{}, err
	}
	return r.records[h.index], nil
}

// Update applies fn to the record in place under the write lock.
func (r *Registry) Update(h Handle, fn func(*models.HostRecord)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.check(h); err != nil {
		return err
	}
	fn(&r.records[h.index])
	return nil
}

// Load replaces the whole content with the given records, in order.
func (r *Registry) Load(records []models.HostRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = make([]models.HostRecord, len(records))
	copy(r.records, records)
	r.gen++
}

// Save returns a copy of every record, in order.
func (r *Registry) Save() []models.HostRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.HostRecord, len(r.records))
	copy(out, r.records)
	return out
}

// LoadFrom reads all records from the store and replaces the registry content.
func (r *Registry) LoadFrom(ctx context.Context, s Store) error {
	hosts, err := s.ReadHosts(ctx)
	if err != nil {
		return fmt.Errorf("failed to load hosts: %w", err)
	}
	r.Load(hosts)
	return nil
}

// SaveTo writes all records to the store.
func (r *Registry) SaveTo(ctx context.Context, s Store) error {
	if err := s.WriteHosts(ctx, r.Save()); err != nil {
		return fmt.Errorf("failed to save hosts: %w", err)
	}
	return nil
}

func (r *Registry) check(h Handle) error {
	if h.gen != r.gen || h.index < 0 || h.index >= len(r.records) {
		return fmt.Errorf("%w: %d", ErrInvalidHandle, h.index)
	}
	return nil
}
