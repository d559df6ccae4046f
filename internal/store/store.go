// Package store persists the host list.
package store

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"gowakeonlan/internal/config"
	"gowakeonlan/internal/models"
)

// Backend is an ordered host list store that owns resources.
type Backend interface {
	ReadHosts(ctx context.Context) ([]models.HostRecord, error)
	WriteHosts(ctx context.Context, hosts []models.HostRecord) error
	Close() error
}

// Open returns the backend selected by cfg.
func Open(log logr.Logger, cfg config.StorageConfig) (Backend, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return NewFile(log, cfg.Path)
	case config.BackendSQLite:
		return NewSQLite(log, cfg.Path)
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Backend)
	}
}
