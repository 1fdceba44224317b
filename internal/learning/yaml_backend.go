package learning

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SchemaVersion is the version tag written with every persisted status map.
const SchemaVersion = 1

type statusDocument struct {
	Version  int       `yaml:"version"`
	Statuses StatusMap `yaml:"statuses"`
}

// YAMLBackend stores the status map as a single YAML document.
type YAMLBackend struct {
	path string
}

// NewYAMLBackend creates a YAMLBackend writing to path.
func NewYAMLBackend(path string) *YAMLBackend {
	return &YAMLBackend{path: path}
}

// Load reads the document. A missing file is an empty map.
func (b *YAMLBackend) Load(_ context.Context) (StatusMap, error) {
	file, err := os.Open(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return StatusMap{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("os.Open(%s) > %w", b.path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	var document statusDocument
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&document); err != nil {
		return nil, fmt.Errorf("yaml.NewDecoder().Decode(%s) > %w", b.path, err)
	}
	if document.Version != SchemaVersion {
		return nil, fmt.Errorf("unsupported status file version %d in %s", document.Version, b.path)
	}
	if document.Statuses == nil {
		return StatusMap{}, nil
	}
	return document.Statuses, nil
}

// Save replaces the document atomically.
func (b *YAMLBackend) Save(_ context.Context, statuses StatusMap) error {
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp(%s) > %w", dir, err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	encoder := yaml.NewEncoder(tmp)
	if err := encoder.Encode(statusDocument{
		Version:  SchemaVersion,
		Statuses: statuses,
	}); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("yaml.NewEncoder().Encode() > %w", err)
	}
	if err := encoder.Close(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encoder.Close() > %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tmp.Close() > %w", err)
	}
	if err := os.Rename(tmp.Name(), b.path); err != nil {
		return fmt.Errorf("os.Rename(%s) > %w", b.path, err)
	}
	return nil
}

func (b *YAMLBackend) Close() error {
	return nil
}
