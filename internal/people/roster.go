package people

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/meetsched/internal/domain"
)

// Roster is a YAML file listing persons to register in bulk:
//
//	persons:
//	  - name: Ana
//	    email: ana@example.com
//	    phone: "0712345678"
type Roster struct {
	Persons []RosterEntry `yaml:"persons"`
}

// RosterEntry is one person in a Roster.
type RosterEntry struct {
	Name  string  `yaml:"name"`
	Email string  `yaml:"email"`
	Phone *string `yaml:"phone,omitempty"`
}

// ParseRoster decodes a roster. Unknown fields are rejected.
func ParseRoster(r io.Reader) (*Roster, error) {
	var roster Roster
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&roster); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("roster is empty")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(roster.Persons) == 0 {
		return nil, fmt.Errorf("persons list is required and must be non-empty")
	}
	return &roster, nil
}

// LoadRoster reads and parses a roster file.
func LoadRoster(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}
	return ParseRoster(bytes.NewReader(data))
}

// RosterError reports the entry at which a roster load stopped.
type RosterError struct {
	// Registered is the number of persons stored before the failure.
	Registered int

	// Index is the zero-based position of the failing entry.
	Index int
	Name  string
	Err   error
}

func (e *RosterError) Error() string {
	return fmt.Sprintf("Roster entry %d (%s): %v", e.Index+1, e.Name, e.Err)
}

func (e *RosterError) Unwrap() error {
	return e.Err
}

// RegisterAll registers the roster's persons in order and stops at the
// first entry that is rejected. Persons registered before it are kept.
func (s *Service) RegisterAll(ctx context.Context, roster *Roster) ([]domain.Person, error) {
	registered := make([]domain.Person, 0, len(roster.Persons))
	for i, entry := range roster.Persons {
		p, err := s.Register(ctx, entry.Name, entry.Email, entry.Phone)
		if err != nil {
			return registered, &RosterError{Registered: len(registered), Index: i, Name: entry.Name, Err: err}
		}
		registered = append(registered, p)
	}
	s.logger.Info("roster loaded", "registered", len(registered))
	return registered, nil
}
