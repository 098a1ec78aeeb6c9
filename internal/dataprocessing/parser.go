package dataprocessing

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

// missingValues are the cell spellings loaded as missing. "NA" is absent on
// purpose: it is Namibia's ISO code.
var missingValues = []string{
	"", "NaN", "nan", "-NaN", "-nan", "NULL", "null", "None", "<NA>", "<nil>",
	"N/A", "n/a", "#N/A", "#N/A N/A", "#NA", "1.#IND", "1.#QNAN", "-1.#IND", "-1.#QNAN",
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadTable reads a whole table file into memory. The format is chosen by
// extension: .xlsx/.xlsm read the first worksheet, .csv reads comma
// separated text. The first row is the header.
func LoadTable(path string) (dataframe.DataFrame, error) {
	var (
		records [][]string
		err     error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		records, err = readSpreadsheet(path)
	case ".csv":
		records, err = readCSV(path)
	default:
		return dataframe.DataFrame{}, fmt.Errorf("%w: %s (%s)", ErrUnsupportedFormat, ext, path)
	}
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	df, err := buildFrame(records)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to load %s: %w", path, err)
	}

	slog.Debug("Loaded table",
		slog.String("file_path", path),
		slog.Int("rows", df.Nrow()),
		slog.Int("columns", df.Ncol()))

	return df, nil
}

// readSpreadsheet returns the raw cell values of the first worksheet
func readSpreadsheet(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyTable)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheets[0], path, err)
	}

	slog.Debug("Read worksheet",
		slog.String("file_path", path),
		slog.String("sheet_name", sheets[0]),
		slog.Int("total_rows", len(rows)))

	return rows, nil
}

// readCSV returns the records of a CSV file. Rows may be ragged; a UTF-8 BOM
// is dropped.
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	br := bufio.NewReader(file)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// buildFrame turns header + rows into a typed DataFrame. Short rows are
// padded with missing cells and blank header cells get pandas style
// "Unnamed: N" names.
func buildFrame(records [][]string) (dataframe.DataFrame, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return dataframe.DataFrame{}, ErrEmptyTable
	}

	width := 0
	for _, row := range records {
		if len(row) > width {
			width = len(row)
		}
	}

	header := make([]string, width)
	for i := range header {
		if i < len(records[0]) {
			header[i] = strings.TrimSpace(records[0][i])
		}
		if header[i] == "" {
			header[i] = fmt.Sprintf("Unnamed: %d", i)
		}
	}

	// gota refuses a header without rows
	if len(records) == 1 {
		cols := make([]series.Series, width)
		for i, name := range header {
			cols[i] = series.New([]string{}, series.String, name)
		}
		df := dataframe.New(cols...)
		return df, df.Err
	}

	padded := make([][]string, 0, len(records))
	padded = append(padded, header)
	for _, row := range records[1:] {
		if len(row) < width {
			full := make([]string, width)
			copy(full, row)
			row = full
		}
		padded = append(padded, row)
	}

	df := dataframe.LoadRecords(padded,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(missingValues),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}
	return df, nil
}
