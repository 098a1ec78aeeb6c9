package testutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"covercli/internal/config"
	"covercli/internal/operations"
)

// CreateTestRegistry creates a registry with test steps
func CreateTestRegistry() *operations.Registry {
	registry := operations.NewRegistry()

	registry.Register(CreateSuccessfulStep("step1", "step 1"))
	registry.Register(CreateSuccessfulStep("step2", "step 2"))
	registry.Register(CreateSuccessfulStep("step3", "step 3"))

	return registry
}

// CreateSuccessfulStep creates a step that always succeeds
func CreateSuccessfulStep(id, name string) *MockStep {
	return &MockStep{
		IDValue:     id,
		NameValue:   name,
		ParamsValue: operations.Params{Input: id + ".xlsx", Output: id + "_out.xlsx"},
		ExecuteFunc: func(ctx context.Context, params operations.Params) (*operations.Result, error) {
			return &operations.Result{OutputPath: params.Output, Rows: 1, Columns: 1}, nil
		},
	}
}

// CreateFailingStep creates a step that always fails
func CreateFailingStep(id, name string, err error) *MockStep {
	if err == nil {
		err = errors.New("step failed")
	}

	return &MockStep{
		IDValue:   id,
		NameValue: name,
		ExecuteFunc: func(ctx context.Context, params operations.Params) (*operations.Result, error) {
			return nil, err
		},
	}
}

// CreateValidationFailingStep creates a step that fails validation
func CreateValidationFailingStep(id, name string, validationErr error) *MockStep {
	if validationErr == nil {
		validationErr = errors.New("validation failed")
	}

	return &MockStep{
		IDValue:   id,
		NameValue: name,
		ValidateFunc: func(params operations.Params) error {
			return validationErr
		},
	}
}

// CreateTestPaths lays out a data directory under t.TempDir() with the
// default file names
func CreateTestPaths(t *testing.T) *config.Paths {
	t.Helper()

	cfg := config.Default().Paths
	cfg.DataDir = filepath.Join(t.TempDir(), "data")
	paths, err := config.NewPaths(cfg)
	if err != nil {
		t.Fatalf("failed to resolve paths: %v", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		t.Fatalf("failed to create data dir: %v", err)
	}
	return paths
}

// WriteWorkbook saves rows to the first sheet of a new workbook at path
func WriteWorkbook(t *testing.T, path string, rows [][]interface{}) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		r := row
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatalf("write row %d: %v", i, err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("create dir: %v", err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook %s: %v", path, err)
	}
}

// ReadWorkbook returns the formatted cell values of the first sheet
func ReadWorkbook(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook %s: %v", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetList()[0])
	if err != nil {
		t.Fatalf("read workbook %s: %v", path, err)
	}
	return rows
}

// LossRows builds a loss data sheet: header plus one row per country with
// every tc_loss_ha_Y column for 2001..2020 set to perYear
func LossRows(countries []string, isos []string, perYear float64) [][]interface{} {
	header := []interface{}{"country", "iso", "threshold"}
	for year := 2001; year <= 2020; year++ {
		header = append(header, fmt.Sprintf("tc_loss_ha_%d", year))
	}

	rows := [][]interface{}{header}
	for i, country := range countries {
		row := []interface{}{country, isos[i], 30}
		for year := 2001; year <= 2020; year++ {
			row = append(row, perYear)
		}
		rows = append(rows, row)
	}
	return rows
}
