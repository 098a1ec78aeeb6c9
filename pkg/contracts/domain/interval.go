package domain

import (
	"fmt"
)

// Key columns shared by the tree cover datasets
const (
	KeyCountry = "country"
	KeyISO     = "iso"
	KeyName    = "name"
)

// Column naming used by the Global Forest Watch exports
const (
	// LossColumnTemplate names one yearly tree cover loss column
	LossColumnTemplate = "tc_loss_ha_%d"
	// GainColumnTemplate names a gain column covering start..end
	GainColumnTemplate = "%d-%d umd_tree_cover_gain__ha"
	// LossIntervalSuffix is appended to a period label for loss aggregates
	LossIntervalSuffix = "_cover_loss"

	// GainEndpoint is the final year of every cumulative gain column
	GainEndpoint = 2020
)

// GainBoundaries are the period starts of the cumulative gain columns
var GainBoundaries = []int{2000, 2005, 2010, 2015}

// Interval is a contiguous, inclusive range of years whose measurements are
// summed into the column named Label.
type Interval struct {
	Label string `json:"label" yaml:"label"`
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`
}

// NewInterval creates an interval covering start..end inclusive
func NewInterval(label string, start, end int) Interval {
	return Interval{Label: label, Start: start, End: end}
}

// Validate checks that the interval is named and not inverted
func (i Interval) Validate() error {
	if i.Label == "" {
		return fmt.Errorf("interval %d-%d has no label", i.Start, i.End)
	}
	if i.Start > i.End {
		return fmt.Errorf("interval %s: start %d after end %d", i.Label, i.Start, i.End)
	}
	return nil
}

// Years lists every year in the interval, in order
func (i Interval) Years() []int {
	if i.Start > i.End {
		return nil
	}
	years := make([]int, 0, i.End-i.Start+1)
	for y := i.Start; y <= i.End; y++ {
		years = append(years, y)
	}
	return years
}

// Overlaps reports whether both intervals include at least one common year
func (i Interval) Overlaps(o Interval) bool {
	return i.Start <= o.End && o.Start <= i.End
}

// PeriodLabel formats a period as "2000-2005"
func PeriodLabel(start, end int) string {
	return fmt.Sprintf("%d-%d", start, end)
}

// DefaultLossIntervals are the five-year loss periods of the tree cover
// viewer. The first period starts at 2001, the first year with loss data,
// and later periods include their starting boundary year, so 2005, 2010 and
// 2015 are each counted in two periods.
func DefaultLossIntervals() []Interval {
	return []Interval{
		NewInterval(PeriodLabel(2000, 2005)+LossIntervalSuffix, 2001, 2005),
		NewInterval(PeriodLabel(2005, 2010)+LossIntervalSuffix, 2005, 2010),
		NewInterval(PeriodLabel(2010, 2015)+LossIntervalSuffix, 2010, 2015),
		NewInterval(PeriodLabel(2015, 2020)+LossIntervalSuffix, 2015, 2020),
	}
}
