package catalog

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the top-level structure of a YAML card list.
type File struct {
	Cards []CardInfo `yaml:"cards"`
}

// LoadYAML reads a YAML card list and returns it as an in-memory catalog.
func LoadYAML(r io.Reader) (*Memory, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("parse catalog YAML: %w", err)
	}
	for i, c := range f.Cards {
		if c.Name == "" {
			return nil, fmt.Errorf("catalog entry %d has no name", i+1)
		}
	}
	return NewMemory(f.Cards...), nil
}

// LoadYAMLFile opens path and parses it with LoadYAML.
func LoadYAMLFile(path string) (*Memory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadYAML(f)
}
