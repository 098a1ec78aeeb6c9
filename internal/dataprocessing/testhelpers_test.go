package dataprocessing

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// lossFrame builds a country table with one tc_loss_ha_Y column per year
// in 2001..2020; value(row, year) fills the cells.
func lossFrame(t *testing.T, countries []interface{}, value func(row, year int) interface{}) dataframe.DataFrame {
	t.Helper()

	cols := []series.Series{series.New(countries, series.String, "country")}
	for year := 2001; year <= 2020; year++ {
		cells := make([]interface{}, len(countries))
		for r := range countries {
			cells[r] = value(r, year)
		}
		cols = append(cols, series.New(cells, series.Float, fmt.Sprintf("tc_loss_ha_%d", year)))
	}

	df := dataframe.New(cols...)
	require.NoError(t, df.Err)
	return df
}

// writeWorkbook saves rows to Sheet1 of a new workbook in a temp dir
func writeWorkbook(t *testing.T, name string, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, f.SaveAs(path))
	return path
}
