package dataprocessing

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"covercli/pkg/contracts/domain"
)

// IntervalAggregator groups rows by GroupKey and sums yearly measurement
// columns into one column per interval.
type IntervalAggregator struct {
	GroupKey       string
	ColumnTemplate string
	Intervals      []domain.Interval
}

// NewLossAggregator returns the aggregator for the tree cover loss export:
// rows grouped by country, tc_loss_ha_Y summed over the five-year periods.
func NewLossAggregator() *IntervalAggregator {
	return &IntervalAggregator{
		GroupKey:       domain.KeyCountry,
		ColumnTemplate: domain.LossColumnTemplate,
		Intervals:      domain.DefaultLossIntervals(),
	}
}

// Aggregate returns one row per distinct group key, in ascending key order,
// holding the key and the interval sums in declared order. Rows with a
// missing key are dropped. Overlapping intervals are summed independently,
// so a shared boundary year counts in both.
func (a *IntervalAggregator) Aggregate(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := a.validate(); err != nil {
		return dataframe.DataFrame{}, err
	}
	if err := RequireColumns(df, a.GroupKey); err != nil {
		return dataframe.DataFrame{}, err
	}

	keyCol := df.Col(a.GroupKey)

	// row -> group index, -1 for rows without a key
	groupOf := make([]int, df.Nrow())
	index := make(map[string]int)
	var firstRow []int // first row of each group
	for i := 0; i < keyCol.Len(); i++ {
		e := keyCol.Elem(i)
		if IsMissing(e) {
			groupOf[i] = -1
			continue
		}
		k := keyOf(e)
		g, ok := index[k]
		if !ok {
			g = len(firstRow)
			index[k] = g
			firstRow = append(firstRow, i)
		}
		groupOf[i] = g
	}

	// Sum only the year columns the intervals reference
	sums := make(map[int][]float64)
	for _, iv := range a.Intervals {
		for _, year := range iv.Years() {
			if _, done := sums[year]; done {
				continue
			}
			name := fmt.Sprintf(a.ColumnTemplate, year)
			if name == a.GroupKey || !HasColumn(df, name) {
				return dataframe.DataFrame{}, columnNotFound(name)
			}
			col := df.Col(name)
			if !isNumeric(col) {
				// non-numeric columns do not survive the group sum
				return dataframe.DataFrame{}, fmt.Errorf("%w: %q is not numeric", ErrColumnNotFound, name)
			}
			sums[year] = groupSum(floatValues(col), groupOf, len(firstRow))
		}
	}

	order := make([]int, len(firstRow))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return lessKey(keyCol.Elem(firstRow[order[i]]), keyCol.Elem(firstRow[order[j]]))
	})

	rows := make([]int, len(order))
	for i, g := range order {
		rows[i] = firstRow[g]
	}
	keys := keyCol.Subset(rows)
	if keys.Err != nil {
		return dataframe.DataFrame{}, keys.Err
	}
	keys.Name = a.GroupKey

	cols := []series.Series{keys}
	for _, iv := range a.Intervals {
		values := make([]float64, len(order))
		for i, g := range order {
			for _, year := range iv.Years() {
				values[i] += sums[year][g]
			}
		}
		cols = append(cols, series.Floats(values))
		cols[len(cols)-1].Name = iv.Label
	}

	out := dataframe.New(cols...)
	if out.Err != nil {
		return dataframe.DataFrame{}, out.Err
	}

	slog.Debug("Aggregated intervals",
		slog.String("group_key", a.GroupKey),
		slog.Int("input_rows", df.Nrow()),
		slog.Int("groups", len(order)),
		slog.Int("intervals", len(a.Intervals)))

	return out, nil
}

func (a *IntervalAggregator) validate() error {
	if a.GroupKey == "" {
		return fmt.Errorf("aggregator: group key is required")
	}
	if a.ColumnTemplate == "" {
		return fmt.Errorf("aggregator: column template is required")
	}
	if len(a.Intervals) == 0 {
		return fmt.Errorf("aggregator: at least one interval is required")
	}
	for _, iv := range a.Intervals {
		if err := iv.Validate(); err != nil {
			return fmt.Errorf("aggregator: %w", err)
		}
		if iv.Label == a.GroupKey {
			return fmt.Errorf("aggregator: interval label %q collides with the group key", iv.Label)
		}
	}
	return nil
}

// groupSum adds values into their groups, skipping missing values and rows
// without a group
func groupSum(values []float64, groupOf []int, groups int) []float64 {
	out := make([]float64, groups)
	for i, v := range values {
		g := groupOf[i]
		if g < 0 || math.IsNaN(v) {
			continue
		}
		out[g] += v
	}
	return out
}
