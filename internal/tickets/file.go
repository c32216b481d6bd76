package tickets

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the YAML import format:
//
//	tickets:
//	  - id: 1
//	    priority: 2
//	  - id: 3        # no priority: sorts last
type File struct {
	Tickets []Ticket `yaml:"tickets"`
}

// LoadFile reads and parses a ticket import file. Unknown fields and
// duplicate or negative ids are rejected.
func LoadFile(path string) ([]Ticket, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ticket file: %w", err)
	}
	return Parse(data)
}

// Parse decodes the YAML import format.
func Parse(data []byte) ([]Ticket, error) {
	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	seen := make(map[int64]bool, len(f.Tickets))
	for i, t := range f.Tickets {
		if t.ID < 0 {
			return nil, fmt.Errorf("tickets[%d]: id must be non-negative, got %d", i, t.ID)
		}
		if seen[int64(t.ID)] {
			return nil, fmt.Errorf("tickets[%d]: duplicate id %d", i, t.ID)
		}
		seen[int64(t.ID)] = true
	}

	return f.Tickets, nil
}
