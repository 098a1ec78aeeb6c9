package dataprocessing

import (
	"math"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// HasColumn reports whether df has a column called name
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// RequireColumns fails with ErrColumnNotFound on the first absent name
func RequireColumns(df dataframe.DataFrame, names ...string) error {
	for _, name := range names {
		if !HasColumn(df, name) {
			return columnNotFound(name)
		}
	}
	return nil
}

// IsMissing reports whether an element is NA or a NaN float
func IsMissing(e series.Element) bool {
	if e.IsNA() {
		return true
	}
	return e.Type() == series.Float && math.IsNaN(e.Float())
}

// isNumeric reports whether s takes part in sums. A column with no values at
// all loads as strings but counts as numeric.
func isNumeric(s series.Series) bool {
	switch s.Type() {
	case series.Int, series.Float:
		return true
	}
	for i := 0; i < s.Len(); i++ {
		if !IsMissing(s.Elem(i)) {
			return false
		}
	}
	return true
}

// floatValues returns s as floats; missing or unparsable cells are NaN
func floatValues(s series.Series) []float64 {
	out := make([]float64, s.Len())
	for i := range out {
		e := s.Elem(i)
		if IsMissing(e) {
			out[i] = math.NaN()
			continue
		}
		out[i] = e.Float()
	}
	return out
}

// floatSeries builds a float column where NaN entries become missing
func floatSeries(name string, values []float64) series.Series {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			cells[i] = nil
			continue
		}
		cells[i] = v
	}
	return series.New(cells, series.Float, name)
}

// distinctKeys returns the set of non-missing key values of s
func distinctKeys(s series.Series) map[string]struct{} {
	keys := make(map[string]struct{}, s.Len())
	for i := 0; i < s.Len(); i++ {
		e := s.Elem(i)
		if IsMissing(e) {
			continue
		}
		keys[keyOf(e)] = struct{}{}
	}
	return keys
}

// keyOf is the identity of a non-missing key cell. Numbers use their
// shortest exact form, so 1 and 1.0 are one key and 1.0000001 is not 1.
func keyOf(e series.Element) string {
	if isNumberType(e.Type()) {
		return strconv.FormatFloat(e.Float(), 'g', -1, 64)
	}
	return e.String()
}

// lessKey orders two non-missing key cells: numbers by value, anything
// else as text
func lessKey(a, b series.Element) bool {
	if isNumberType(a.Type()) && isNumberType(b.Type()) {
		return a.Float() < b.Float()
	}
	return a.String() < b.String()
}

func isNumberType(t series.Type) bool {
	return t == series.Int || t == series.Float
}
