package exporter

import (
	"math"
	"strconv"

	"github.com/go-gota/gota/series"
)

// formatFloat formats a float64 with the fewest digits that round trip
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// isMissing reports whether a cell is NA or a non-finite float
func isMissing(e series.Element) bool {
	if e.IsNA() {
		return true
	}
	if e.Type() == series.Float {
		f := e.Float()
		return math.IsNaN(f) || math.IsInf(f, 0)
	}
	return false
}

// formatCell renders a cell for text output; missing cells are empty
func formatCell(e series.Element) string {
	if isMissing(e) {
		return ""
	}
	switch e.Type() {
	case series.Float:
		return formatFloat(e.Float())
	case series.Int:
		if i, err := e.Int(); err == nil {
			return formatInt(i)
		}
	case series.Bool:
		if b, err := e.Bool(); err == nil {
			return formatBool(b)
		}
	}
	return e.String()
}

// cellValue returns a cell as a native Go value; missing cells are nil
func cellValue(e series.Element) interface{} {
	if isMissing(e) {
		return nil
	}
	switch e.Type() {
	case series.Float:
		return e.Float()
	case series.Int:
		if i, err := e.Int(); err == nil {
			return i
		}
	case series.Bool:
		if b, err := e.Bool(); err == nil {
			return b
		}
	}
	return e.String()
}
