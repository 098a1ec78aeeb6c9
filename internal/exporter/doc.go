// Package exporter writes tables produced by the covercli operations.
//
// This package contains three components:
//
// CSVWriter: Core CSV writing with headers and an optional UTF-8 BOM for
// Excel compatibility.
//
// SpreadsheetExporter: Writes a DataFrame as .xlsx (header row, then data
// rows, no index column) or as .csv when the output path asks for it.
//
// JSONExporter: Writes a DataFrame as a JSON array of row objects with a
// fixed four space indent. Missing values become null.
//
// Example usage:
//
//	xlsx := exporter.NewSpreadsheetExporter(paths)
//	path, err := xlsx.Export(df, "merged_cover_data.xlsx")
//
//	records := exporter.NewJSONExporter(paths)
//	path, err = records.Export(df, "final_data.json")
package exporter
