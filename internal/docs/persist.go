package docs

import (
	"encoding/json"
	"fmt"
	"io"
)

// Save writes the collection as indented JSON.
func Save(w io.Writer, c *Collection) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode documentation collection: %w", err)
	}
	return nil
}

// Load reads a collection written by Save.
func Load(r io.Reader) (*Collection, error) {
	var c Collection
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to decode documentation collection: %w", err)
	}
	return &c, nil
}
