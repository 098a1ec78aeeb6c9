package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-playground/validator/v10"

	"covercli/internal/config"
	"covercli/internal/dataprocessing"
	"covercli/internal/exporter"
	"covercli/internal/validation"
	"covercli/pkg/contracts/domain"
)

// Step IDs
const (
	StepIDCoverLoss  = "cover-loss"
	StepIDMatchNames = "match-names"
	StepIDCoverGain  = "cover-gain"
	StepIDMerge      = "merge"
	StepIDToJSON     = "to-json"
)

var paramsValidator = validator.New()

// baseStep holds what every Step shares: identity, the Params fields it
// reads and path checks
type baseStep struct {
	id     string
	name   string
	inputs []string // Params fields naming table files to read
	outExt []string
}

func newBaseStep(id, name string, outExt []string, inputs ...string) baseStep {
	return baseStep{
		id:     id,
		name:   name,
		inputs: inputs,
		outExt: outExt,
	}
}

// ID returns the step ID
func (b *baseStep) ID() string { return b.id }

// Name returns the step name
func (b *baseStep) Name() string { return b.name }

// Validate checks required params, input files and the output path
func (b *baseStep) Validate(params Params) error {
	fields := append(append([]string{}, b.inputs...), "Output")
	if err := paramsValidator.StructPartial(params, fields...); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return NewValidationError(b.id, fmt.Sprintf("missing parameter %s", verrs[0].Field()), err)
		}
		return NewValidationError(b.id, "invalid parameters", err)
	}

	files := validation.NewFileValidator(slog.Default().With(slog.String("step", b.id)))
	for _, field := range b.inputs {
		if err := files.ValidateInputFile(params.field(field), validation.TableInputExtensions); err != nil {
			return NewValidationError(b.id, fmt.Sprintf("bad %s file", field), err)
		}
	}
	if err := files.ValidateOutputFile(params.Output, b.outExt); err != nil {
		return NewValidationError(b.id, "bad output path", err)
	}
	return nil
}

func (p Params) field(name string) string {
	switch name {
	case "Input":
		return p.Input
	case "Lookup":
		return p.Lookup
	case "Right":
		return p.Right
	case "Output":
		return p.Output
	}
	return ""
}

func tableResult(id, path string, df dataframe.DataFrame) *Result {
	return &Result{StepID: id, OutputPath: path, Rows: df.Nrow(), Columns: df.Ncol()}
}

// CoverLossStep sums yearly tree cover loss into five-year periods per country
type CoverLossStep struct {
	baseStep
	aggregator *dataprocessing.IntervalAggregator
	sheet      *exporter.SpreadsheetExporter
}

// NewCoverLossStep creates the cover-loss operation
func NewCoverLossStep() *CoverLossStep {
	return &CoverLossStep{
		baseStep:   newBaseStep(StepIDCoverLoss, "Tree cover loss by country", validation.TableOutputExtensions, "Input"),
		aggregator: dataprocessing.NewLossAggregator(),
		sheet:      exporter.NewSpreadsheetExporter(nil),
	}
}

// DefaultParams reads the loss data export and writes the per country totals
func (s *CoverLossStep) DefaultParams(paths *config.Paths) Params {
	return Params{Input: paths.LossData, Output: paths.LossByCountry}
}

// Execute aggregates the loss table and prints the result
func (s *CoverLossStep) Execute(ctx context.Context, params Params) (*Result, error) {
	df, err := dataprocessing.LoadTable(params.Input)
	if err != nil {
		return nil, err
	}

	out, err := s.aggregator.Aggregate(df)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", params.Input, err)
	}

	path, err := s.sheet.Export(out, params.Output)
	if err != nil {
		return nil, err
	}

	res := tableResult(s.id, path, out)
	res.Table = &out
	return res, nil
}

// MatchNamesStep attaches country names to the loss data by ISO code
type MatchNamesStep struct {
	baseStep
	merger *dataprocessing.Merger
	sheet  *exporter.SpreadsheetExporter
}

// NewMatchNamesStep creates the match-names operation. join.NamesKind picks
// the join, left unless configured otherwise.
func NewMatchNamesStep(join config.JoinConfig) (*MatchNamesStep, error) {
	kind, err := joinKind(join.NamesKind, config.DefaultNamesJoinKind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", StepIDMatchNames, err)
	}
	return &MatchNamesStep{
		baseStep: newBaseStep(StepIDMatchNames, "Match ISO codes to country names", validation.TableOutputExtensions, "Input", "Lookup"),
		merger:   dataprocessing.NewMerger(kind, domain.KeyISO, join.LeftSuffix, join.RightSuffix),
		sheet:    exporter.NewSpreadsheetExporter(nil),
	}, nil
}

// joinKind parses a configured join kind, falling back to def when unset
func joinKind(configured, def string) (dataprocessing.JoinKind, error) {
	if configured == "" {
		configured = def
	}
	return dataprocessing.ParseJoinKind(configured)
}

// DefaultParams joins the loss data with the ISO metadata
func (s *MatchNamesStep) DefaultParams(paths *config.Paths) Params {
	return Params{Input: paths.LossData, Lookup: paths.ISOMetadata, Output: paths.DataWithNames}
}

// Execute joins Input with Lookup on iso
func (s *MatchNamesStep) Execute(ctx context.Context, params Params) (*Result, error) {
	data, err := dataprocessing.LoadTable(params.Input)
	if err != nil {
		return nil, err
	}
	lookup, err := dataprocessing.LoadTable(params.Lookup)
	if err != nil {
		return nil, err
	}

	merged, err := s.merger.Merge(data, lookup)
	if err != nil {
		return nil, err
	}

	path, err := s.sheet.Export(merged.Frame, params.Output)
	if err != nil {
		return nil, err
	}

	res := tableResult(s.id, path, merged.Frame)
	res.UnmatchedLeft = merged.UnmatchedLeft
	res.UnmatchedRight = merged.UnmatchedRight
	return res, nil
}

// CoverGainStep turns cumulative tree cover gain into five-year periods
type CoverGainStep struct {
	baseStep
	splitter *dataprocessing.CumulativeSplitter
	sheet    *exporter.SpreadsheetExporter
}

// NewCoverGainStep creates the cover-gain operation
func NewCoverGainStep() *CoverGainStep {
	return &CoverGainStep{
		baseStep: newBaseStep(StepIDCoverGain, "Split cumulative tree cover gain", validation.TableOutputExtensions, "Input"),
		splitter: dataprocessing.NewGainSplitter(),
		sheet:    exporter.NewSpreadsheetExporter(nil),
	}
}

// DefaultParams reads the gain export and writes the revised table
func (s *CoverGainStep) DefaultParams(paths *config.Paths) Params {
	return Params{Input: paths.CoverGain, Output: paths.RevisedGain}
}

// Execute derives the disjoint gain periods
func (s *CoverGainStep) Execute(ctx context.Context, params Params) (*Result, error) {
	df, err := dataprocessing.LoadTable(params.Input)
	if err != nil {
		return nil, err
	}

	out, err := s.splitter.Split(df)
	if err != nil {
		return nil, fmt.Errorf("split %s: %w", params.Input, err)
	}

	path, err := s.sheet.Export(out, params.Output)
	if err != nil {
		return nil, err
	}
	return tableResult(s.id, path, out), nil
}

// MergeStep joins the loss and gain tables on country
type MergeStep struct {
	baseStep
	merger *dataprocessing.Merger
	sheet  *exporter.SpreadsheetExporter
}

// NewMergeStep creates the merge operation. join.MergeKind picks the join,
// outer unless configured otherwise.
func NewMergeStep(join config.JoinConfig) (*MergeStep, error) {
	kind, err := joinKind(join.MergeKind, config.DefaultMergeJoinKind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", StepIDMerge, err)
	}
	return &MergeStep{
		baseStep: newBaseStep(StepIDMerge, "Merge loss and gain tables", validation.TableOutputExtensions, "Input", "Right"),
		merger:   dataprocessing.NewMerger(kind, domain.KeyCountry, join.LeftSuffix, join.RightSuffix),
		sheet:    exporter.NewSpreadsheetExporter(nil),
	}, nil
}

// DefaultParams merges the cover loss table with the cover gain table
func (s *MergeStep) DefaultParams(paths *config.Paths) Params {
	return Params{Input: paths.CoverLoss, Right: paths.CoverGain, Output: paths.MergedCover}
}

// Execute joins Input (left) with Right on country
func (s *MergeStep) Execute(ctx context.Context, params Params) (*Result, error) {
	left, err := dataprocessing.LoadTable(params.Input)
	if err != nil {
		return nil, err
	}
	right, err := dataprocessing.LoadTable(params.Right)
	if err != nil {
		return nil, err
	}

	merged, err := s.merger.Merge(left, right)
	if err != nil {
		return nil, err
	}

	path, err := s.sheet.Export(merged.Frame, params.Output)
	if err != nil {
		return nil, err
	}

	res := tableResult(s.id, path, merged.Frame)
	res.UnmatchedLeft = merged.UnmatchedLeft
	res.UnmatchedRight = merged.UnmatchedRight
	return res, nil
}

// ToJSONStep exports the final table as JSON records
type ToJSONStep struct {
	baseStep
	records *exporter.JSONExporter
}

// NewToJSONStep creates the to-json operation
func NewToJSONStep() *ToJSONStep {
	return &ToJSONStep{
		baseStep: newBaseStep(StepIDToJSON, "Export final table as JSON", validation.JSONOutputExtensions, "Input"),
		records:  exporter.NewJSONExporter(nil),
	}
}

// DefaultParams converts the final data workbook
func (s *ToJSONStep) DefaultParams(paths *config.Paths) Params {
	return Params{Input: paths.FinalData, Output: paths.FinalJSON}
}

// Execute writes one JSON object per row and prints the document
func (s *ToJSONStep) Execute(ctx context.Context, params Params) (*Result, error) {
	df, err := dataprocessing.LoadTable(params.Input)
	if err != nil {
		return nil, err
	}

	data, err := s.records.Marshal(df)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", params.Input, err)
	}

	path, err := s.records.Save(data, params.Output)
	if err != nil {
		return nil, err
	}

	res := tableResult(s.id, path, df)
	res.Document = data
	return res, nil
}
