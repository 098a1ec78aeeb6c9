package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"

	"covercli/internal/config"
)

// DefaultSheetName is the worksheet written to .xlsx outputs
const DefaultSheetName = "Sheet1"

// SpreadsheetExporter writes a table as a header row followed by data rows,
// with no index column. The format follows the file extension: .csv goes
// through the CSV writer, anything else is written as .xlsx.
type SpreadsheetExporter struct {
	paths     *config.Paths
	csv       *CSVWriter
	SheetName string
	// BOMPrefix is applied to CSV outputs
	BOMPrefix bool
}

// NewSpreadsheetExporter creates a spreadsheet exporter
func NewSpreadsheetExporter(paths *config.Paths) *SpreadsheetExporter {
	return &SpreadsheetExporter{
		paths:     paths,
		csv:       NewCSVWriter(paths),
		SheetName: DefaultSheetName,
	}
}

// Export writes df to filePath and returns the resolved path
func (e *SpreadsheetExporter) Export(df dataframe.DataFrame, filePath string) (string, error) {
	if df.Err != nil {
		return "", df.Err
	}
	if strings.EqualFold(filepath.Ext(filePath), ".csv") {
		return e.exportCSV(df, filePath)
	}
	return e.exportXLSX(df, filePath)
}

func (e *SpreadsheetExporter) exportCSV(df dataframe.DataFrame, filePath string) (string, error) {
	records := make([][]string, df.Nrow())
	for r := range records {
		row := make([]string, df.Ncol())
		for c := range row {
			row[c] = formatCell(df.Elem(r, c))
		}
		records[r] = row
	}
	return e.csv.WriteCSV(filePath, WriteOptions{
		Headers:   df.Names(),
		Records:   records,
		BOMPrefix: e.BOMPrefix,
	})
}

func (e *SpreadsheetExporter) exportXLSX(df dataframe.DataFrame, filePath string) (string, error) {
	fullPath := resolvePath(e.paths, filePath)

	f := excelize.NewFile()
	defer f.Close()

	sheet := e.SheetName
	if sheet == "" {
		sheet = DefaultSheetName
	}
	if sheet != DefaultSheetName {
		if err := f.SetSheetName(DefaultSheetName, sheet); err != nil {
			return "", fmt.Errorf("failed to name sheet %q: %w", sheet, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return "", fmt.Errorf("failed to create header style: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return "", fmt.Errorf("failed to open sheet writer: %w", err)
	}

	names := df.Names()
	header := make([]interface{}, len(names))
	for i, name := range names {
		header[i] = name
	}
	if err := sw.SetRow("A1", header, excelize.RowOpts{StyleID: headerStyle}); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}

	for r := 0; r < df.Nrow(); r++ {
		row := make([]interface{}, len(names))
		for c := range row {
			row[c] = cellValue(df.Elem(r, c))
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return "", err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return "", fmt.Errorf("failed to write row %d: %w", r, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush sheet: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(fullPath); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", fullPath, err)
	}

	slog.Debug("Wrote spreadsheet",
		slog.String("full_path", fullPath),
		slog.String("sheet_name", sheet),
		slog.Int("rows", df.Nrow()),
		slog.Int("columns", len(names)))

	return fullPath, nil
}
