package operations

import (
	"context"
	"time"

	"github.com/go-gota/gota/dataframe"

	"covercli/internal/config"
)

// Step is one independently runnable table transform
type Step interface {
	// ID returns the unique identifier used to select the Step
	ID() string

	// Name returns the human-readable name for this Step
	Name() string

	// DefaultParams returns the configured input and output paths
	DefaultParams(paths *config.Paths) Params

	// Validate checks params before anything is read
	Validate(params Params) error

	// Execute loads the inputs, transforms them and writes the output
	Execute(ctx context.Context, params Params) (*Result, error)
}

// Params are the explicit file paths of one Step run. Steps use the subset
// they need: Input and Output always, Lookup for name matching, Right for
// merges (where Input is the left table).
type Params struct {
	Input  string `json:"input,omitempty" validate:"required"`
	Lookup string `json:"lookup,omitempty" validate:"required"`
	Right  string `json:"right,omitempty" validate:"required"`
	Output string `json:"output,omitempty" validate:"required"`
}

// Override returns p with every non-empty field of o applied
func (p Params) Override(o Params) Params {
	if o.Input != "" {
		p.Input = o.Input
	}
	if o.Lookup != "" {
		p.Lookup = o.Lookup
	}
	if o.Right != "" {
		p.Right = o.Right
	}
	if o.Output != "" {
		p.Output = o.Output
	}
	return p
}

// Result describes what a Step wrote
type Result struct {
	StepID     string        `json:"step_id"`
	OutputPath string        `json:"output_path"`
	Rows       int           `json:"rows"`
	Columns    int           `json:"columns"`
	Duration   time.Duration `json:"duration"`

	// Join diagnostics, zero for steps that do not merge
	UnmatchedLeft  int `json:"unmatched_left,omitempty"`
	UnmatchedRight int `json:"unmatched_right,omitempty"`

	// Table is printed after the run when set
	Table *dataframe.DataFrame `json:"-"`
	// Document is printed verbatim after the run when set
	Document []byte `json:"-"`
}

// Request selects a Step and optionally overrides its default params
type Request struct {
	StepID string
	Params Params
}
