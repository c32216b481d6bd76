package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/backlog/internal/board"
	"github.com/roach88/backlog/internal/tickets"
)

// Scenario defines an ordering scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// DefaultPriority overrides the ranking sentinel for tickets without a
	// priority. Defaults to 999.
	DefaultPriority *int64 `yaml:"default_priority,omitempty"`

	// Tickets is the host's candidate set.
	Tickets []tickets.Ticket `yaml:"tickets"`

	// Positions are written to the store before the first step.
	Positions []PositionSeed `yaml:"positions,omitempty"`

	// Steps run in order. A failing step does not stop the scenario.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final board.
	Assertions []Assertion `yaml:"assertions"`
}

// PositionSeed is an explicit position present before the scenario starts.
type PositionSeed struct {
	Item     board.Item     `yaml:"item"`
	Position board.Position `yaml:"position"`
}

// Step is one engine operation.
type Step struct {
	// Op is one of resolve, move, place, compact.
	Op string `yaml:"op"`

	Item      board.Item     `yaml:"item"`
	Target    board.Position `yaml:"target,omitempty"`    // move
	Relative  board.Item     `yaml:"relative,omitempty"`  // place
	Direction string         `yaml:"direction,omitempty"` // place: before | after
	Generate  bool           `yaml:"generate,omitempty"`  // resolve

	// Actor is recorded in history. Defaults to "harness".
	Actor string `yaml:"actor,omitempty"`

	// Expect validates the step's outcome. If nil the step must succeed.
	Expect *StepExpect `yaml:"expect,omitempty"`
}

// StepExpect specifies the expected outcome of a step.
type StepExpect struct {
	// Position is the item's position after the step.
	Position *board.Position `yaml:"position,omitempty"`

	// Absent expects a resolve without generate to report no position.
	Absent bool `yaml:"absent,omitempty"`

	// Count is the number of items a compact renumbered.
	Count *int `yaml:"count,omitempty"`

	// Error is the expected error kind: conflict, not_found, invariant or
	// negative.
	Error string `yaml:"error,omitempty"`
}

// Assertion validates the final board.
type Assertion struct {
	// Type specifies the assertion type:
	// - "order": effective order equals Items
	// - "positions": explicit positions equal Positions exactly
	// - "unpositioned": Items have no explicit position
	// - "history_count": Item has exactly Count history records
	// - "dense": explicit positions are exactly 0..n-1
	Type string `yaml:"type"`

	Items     []board.Item                  `yaml:"items,omitempty"`
	Positions map[board.Item]board.Position `yaml:"positions,omitempty"`
	Item      board.Item                    `yaml:"item,omitempty"`
	Count     int                           `yaml:"count,omitempty"`
}

// Step operations.
const (
	OpResolve = "resolve"
	OpMove    = "move"
	OpPlace   = "place"
	OpCompact = "compact"
)

// Assertion type constants.
const (
	AssertOrder        = "order"
	AssertPositions    = "positions"
	AssertUnpositioned = "unpositioned"
	AssertHistoryCount = "history_count"
	AssertDense        = "dense"
)

// Error kinds reported in traces and matched by StepExpect.Error.
const (
	KindConflict  = "conflict"
	KindNotFound  = "not_found"
	KindInvariant = "invariant"
	KindNegative  = "negative"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates a scenario.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if s.DefaultPriority != nil && *s.DefaultPriority < 0 {
		return fmt.Errorf("default_priority must be non-negative")
	}

	for i, seed := range s.Positions {
		if seed.Position < 0 {
			return fmt.Errorf("positions[%d]: position must be non-negative", i)
		}
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, s *Step) error {
	switch s.Op {
	case OpResolve, OpMove, OpCompact:
	case OpPlace:
		if _, ok := board.ParseDirection(s.Direction); !ok {
			return fmt.Errorf("steps[%d]: direction must be before or after, got %q", index, s.Direction)
		}
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, s.Op)
	}

	if s.Expect == nil {
		return nil
	}
	switch s.Expect.Error {
	case "", KindConflict, KindNotFound, KindInvariant, KindNegative:
	default:
		return fmt.Errorf("steps[%d].expect: unknown error kind %q", index, s.Expect.Error)
	}
	if s.Expect.Absent && s.Op != OpResolve {
		return fmt.Errorf("steps[%d].expect: absent only applies to resolve", index)
	}
	if s.Expect.Count != nil && s.Op != OpCompact {
		return fmt.Errorf("steps[%d].expect: count only applies to compact", index)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertOrder, AssertUnpositioned:
		if a.Items == nil {
			return fmt.Errorf("assertions[%d]: items is required for %s", index, a.Type)
		}
	case AssertPositions:
		if a.Positions == nil {
			return fmt.Errorf("assertions[%d]: positions is required for positions", index)
		}
	case AssertHistoryCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for history_count", index)
		}
	case AssertDense:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
