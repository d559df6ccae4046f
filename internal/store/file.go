package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
	"gopkg.in/yaml.v3"

	"gowakeonlan/internal/models"
)

type hostsDocument struct {
	Hosts []models.HostRecord `json:"hosts" yaml:"hosts"`
}

// File keeps the host list in a YAML document, or JSON when the path ends in .json.
type File struct {
	path string
	log  logr.Logger
}

func NewFile(log logr.Logger, path string) (*File, error) {
	if path == "" {
		return nil, errors.New("empty hosts file path")
	}
	return &File{
		path: path,
		log:  log.WithName("FileStore").WithValues("path", path),
	}, nil
}

func (f *File) isJSON() bool {
	return strings.EqualFold(filepath.Ext(f.path), ".json")
}

// ReadHosts returns an empty list when the file does not exist yet.
func (f *File) ReadHosts(ctx context.Context) ([]models.HostRecord, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		f.log.Info("Hosts file not found, starting empty")
		return []models.HostRecord{}, nil
	}
	if err != nil {
		return nil, err
	}

	var doc hostsDocument
	if f.isJSON() {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		f.log.Error(err, "Failed to decode hosts file")
		return nil, fmt.Errorf("failed to decode %s: %w", f.path, err)
	}
	if doc.Hosts == nil {
		doc.Hosts = []models.HostRecord{}
	}
	f.log.V(1).Info("Read hosts", "count", len(doc.Hosts))
	return doc.Hosts, nil
}

// WriteHosts replaces the file atomically.
func (f *File) WriteHosts(ctx context.Context, hosts []models.HostRecord) error {
	doc := hostsDocument{Hosts: hosts}
	if doc.Hosts == nil {
		doc.Hosts = []models.HostRecord{}
	}

	var data []byte
	var err error
	if f.isJSON() {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = yaml.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("failed to encode hosts: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), "."+filepath.Base(f.path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return err
	}
	f.log.V(1).Info("Wrote hosts", "count", len(hosts))
	return nil
}

func (f *File) Close() error {
	return nil
}
