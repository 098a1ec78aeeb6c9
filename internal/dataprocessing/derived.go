package dataprocessing

import (
	"fmt"
	"log/slog"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"covercli/pkg/contracts/domain"
)

// CumulativeSplitter derives disjoint interval columns from cumulative
// "from year X to Endpoint" columns by subtracting successive boundaries.
// The last interval already is disjoint and is carried over unchanged.
type CumulativeSplitter struct {
	Boundaries []int
	Endpoint   int
	// SourceTemplate and TargetTemplate take (start, end) years
	SourceTemplate string
	TargetTemplate string
	// KeepColumns are copied ahead of the interval columns
	KeepColumns []string
}

// NewGainSplitter returns the splitter for the cumulative tree cover gain export
func NewGainSplitter() *CumulativeSplitter {
	return &CumulativeSplitter{
		Boundaries:     append([]int(nil), domain.GainBoundaries...),
		Endpoint:       domain.GainEndpoint,
		SourceTemplate: domain.GainColumnTemplate,
		TargetTemplate: domain.GainColumnTemplate,
		KeepColumns:    []string{domain.KeyISO, domain.KeyName},
	}
}

// TargetColumns lists the output interval column names in order
func (c *CumulativeSplitter) TargetColumns() []string {
	names := make([]string, len(c.Boundaries))
	for i, start := range c.Boundaries {
		end := c.Endpoint
		if i+1 < len(c.Boundaries) {
			end = c.Boundaries[i+1]
		}
		names[i] = fmt.Sprintf(c.TargetTemplate, start, end)
	}
	return names
}

// Split returns KeepColumns followed by one column per interval:
// target(b[i], b[i+1]) = source(b[i], End) - source(b[i+1], End).
// Missing or non-numeric operands give missing results.
func (c *CumulativeSplitter) Split(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := c.validate(); err != nil {
		return dataframe.DataFrame{}, err
	}

	sources := make([]string, len(c.Boundaries))
	for i, start := range c.Boundaries {
		sources[i] = fmt.Sprintf(c.SourceTemplate, start, c.Endpoint)
	}
	if err := RequireColumns(df, c.KeepColumns...); err != nil {
		return dataframe.DataFrame{}, err
	}
	if err := RequireColumns(df, sources...); err != nil {
		return dataframe.DataFrame{}, err
	}

	targets := c.TargetColumns()
	cols := make([]series.Series, 0, len(c.KeepColumns)+len(targets))
	for _, name := range c.KeepColumns {
		cols = append(cols, df.Col(name))
	}

	last := len(c.Boundaries) - 1
	for i := 0; i < last; i++ {
		minuend := floatValues(df.Col(sources[i]))
		subtrahend := floatValues(df.Col(sources[i+1]))
		diff := make([]float64, len(minuend))
		for r := range diff {
			diff[r] = minuend[r] - subtrahend[r]
		}
		cols = append(cols, floatSeries(targets[i], diff))
	}

	carried := df.Col(sources[last])
	carried.Name = targets[last]
	cols = append(cols, carried)

	out := dataframe.New(cols...)
	if out.Err != nil {
		return dataframe.DataFrame{}, out.Err
	}

	slog.Debug("Split cumulative columns",
		slog.Int("rows", out.Nrow()),
		slog.Any("intervals", targets))

	return out, nil
}

func (c *CumulativeSplitter) validate() error {
	if len(c.Boundaries) == 0 {
		return fmt.Errorf("splitter: at least one boundary is required")
	}
	prev := c.Boundaries[0]
	for _, b := range c.Boundaries[1:] {
		if b <= prev {
			return fmt.Errorf("splitter: boundaries must increase, got %d after %d", b, prev)
		}
		prev = b
	}
	if prev >= c.Endpoint {
		return fmt.Errorf("splitter: last boundary %d must precede endpoint %d", prev, c.Endpoint)
	}
	if c.SourceTemplate == "" || c.TargetTemplate == "" {
		return fmt.Errorf("splitter: column templates are required")
	}
	return nil
}
