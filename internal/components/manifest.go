package components

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed manifest.yaml
var defaultManifest []byte

// Manifest is the YAML document listing component types.
type Manifest struct {
	Components []*Descriptor `yaml:"components"`
}

// LoadManifest decodes a manifest and registers every type it declares.
func LoadManifest(r io.Reader) (*Registry, error) {
	var m Manifest
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse component manifest: %w", err)
	}

	reg := NewRegistry()
	for i, d := range m.Components {
		if err := reg.Register(d); err != nil {
			return nil, fmt.Errorf("manifest entry %d: %w", i, err)
		}
	}
	return reg, nil
}

// LoadManifestFile reads a manifest from disk.
func LoadManifestFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open component manifest: %w", err)
	}
	defer f.Close()
	return LoadManifest(f)
}

// DefaultRegistry returns the registry of the embedded manifest.
func DefaultRegistry() (*Registry, error) {
	return LoadManifest(bytes.NewReader(defaultManifest))
}

// OpenRegistry loads path, or the embedded manifest when path is empty.
func OpenRegistry(path string) (*Registry, error) {
	if path == "" {
		return DefaultRegistry()
	}
	return LoadManifestFile(path)
}
