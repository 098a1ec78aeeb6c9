package operations_test

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covercli/internal/config"
	"covercli/internal/operations"
	"covercli/internal/operations/testutil"
)

func runStep(t *testing.T, step operations.Step, params operations.Params) *operations.Result {
	t.Helper()
	require.NoError(t, step.Validate(params))
	res, err := step.Execute(context.Background(), params)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func newMergeStep(t *testing.T, join config.JoinConfig) *operations.MergeStep {
	t.Helper()
	step, err := operations.NewMergeStep(join)
	require.NoError(t, err)
	return step
}

func newMatchNamesStep(t *testing.T, join config.JoinConfig) *operations.MatchNamesStep {
	t.Helper()
	step, err := operations.NewMatchNamesStep(join)
	require.NoError(t, err)
	return step
}

func TestCoverLossStep(t *testing.T) {
	paths := testutil.CreateTestPaths(t)
	step := operations.NewCoverLossStep()
	params := step.DefaultParams(paths)

	assert.Equal(t, paths.LossData, params.Input)
	assert.Equal(t, paths.LossByCountry, params.Output)

	testutil.WriteWorkbook(t, params.Input, testutil.LossRows(
		[]string{"Brazil", "Chad", "Brazil"},
		[]string{"BRA", "TCD", "BRA"},
		2,
	))

	res := runStep(t, step, params)
	assert.Equal(t, operations.StepIDCoverLoss, res.StepID)
	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, 5, res.Columns)
	require.NotNil(t, res.Table)

	rows := testutil.ReadWorkbook(t, res.OutputPath)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{
		"country",
		"2000-2005_cover_loss",
		"2005-2010_cover_loss",
		"2010-2015_cover_loss",
		"2015-2020_cover_loss",
	}, rows[0])
	// Two Brazil rows with 2 ha a year; later periods span six years
	assert.Equal(t, []string{"Brazil", "20", "24", "24", "24"}, rows[1])
	assert.Equal(t, []string{"Chad", "10", "12", "12", "12"}, rows[2])
}

func TestMatchNamesStep(t *testing.T) {
	paths := testutil.CreateTestPaths(t)
	step := newMatchNamesStep(t, config.Default().Join)
	params := step.DefaultParams(paths)

	testutil.WriteWorkbook(t, params.Input, [][]interface{}{
		{"iso", "extent"},
		{"BRA", 10},
		{"NA", 20},
		{"XYZ", 30},
	})
	require.NoError(t, os.WriteFile(params.Lookup,
		[]byte("iso,name\nBRA,Brazil\nNA,Namibia\nFRA,France\n"), 0644))

	res := runStep(t, step, params)
	assert.Equal(t, 3, res.Rows)
	assert.Equal(t, 1, res.UnmatchedLeft)
	assert.Equal(t, 1, res.UnmatchedRight)

	rows := testutil.ReadWorkbook(t, res.OutputPath)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"iso", "extent", "name"}, rows[0])
	assert.Equal(t, []string{"BRA", "10", "Brazil"}, rows[1])
	assert.Equal(t, []string{"NA", "20", "Namibia"}, rows[2])
	assert.Equal(t, []string{"XYZ", "30"}, rows[3])
}

func TestCoverGainStep(t *testing.T) {
	paths := testutil.CreateTestPaths(t)
	step := operations.NewCoverGainStep()
	params := step.DefaultParams(paths)

	testutil.WriteWorkbook(t, params.Input, [][]interface{}{
		{"iso", "name",
			"2000-2020 umd_tree_cover_gain__ha",
			"2005-2020 umd_tree_cover_gain__ha",
			"2010-2020 umd_tree_cover_gain__ha",
			"2015-2020 umd_tree_cover_gain__ha"},
		{"BRA", "Brazil", 100, 60, 30, 10},
	})

	res := runStep(t, step, params)
	assert.Equal(t, 1, res.Rows)

	rows := testutil.ReadWorkbook(t, res.OutputPath)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{
		"iso", "name",
		"2000-2005 umd_tree_cover_gain__ha",
		"2005-2010 umd_tree_cover_gain__ha",
		"2010-2015 umd_tree_cover_gain__ha",
		"2015-2020 umd_tree_cover_gain__ha",
	}, rows[0])
	assert.Equal(t, []string{"BRA", "Brazil", "40", "30", "20", "10"}, rows[1])
}

func TestMergeStep(t *testing.T) {
	paths := testutil.CreateTestPaths(t)
	step := newMergeStep(t, config.Default().Join)
	params := step.DefaultParams(paths)

	assert.Equal(t, paths.CoverLoss, params.Input)
	assert.Equal(t, paths.CoverGain, params.Right)

	testutil.WriteWorkbook(t, params.Input, [][]interface{}{
		{"country", "loss", "year"},
		{"A", 5, 2001},
		{"B", 7, 2001},
	})
	testutil.WriteWorkbook(t, params.Right, [][]interface{}{
		{"country", "gain", "year"},
		{"B", 3, 2002},
		{"C", 4, 2002},
	})

	res := runStep(t, step, params)
	assert.Equal(t, 3, res.Rows)
	assert.Equal(t, 5, res.Columns)
	assert.Equal(t, 1, res.UnmatchedLeft)
	assert.Equal(t, 1, res.UnmatchedRight)

	rows := testutil.ReadWorkbook(t, res.OutputPath)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"country", "loss", "year_left", "gain", "year_right"}, rows[0])

	countries := make([]string, 0, 3)
	for _, row := range rows[1:] {
		countries = append(countries, row[0])
	}
	assert.Equal(t, []string{"A", "B", "C"}, countries)
}

func TestJoinKindFromConfig(t *testing.T) {
	paths := testutil.CreateTestPaths(t)

	join := config.Default().Join
	join.NamesKind = "inner"
	join.MergeKind = "left"

	names := newMatchNamesStep(t, join)
	params := names.DefaultParams(paths)
	testutil.WriteWorkbook(t, params.Input, [][]interface{}{
		{"iso", "extent"},
		{"BRA", 10},
		{"XYZ", 30},
	})
	require.NoError(t, os.WriteFile(params.Lookup, []byte("iso,name\nBRA,Brazil\nFRA,France\n"), 0644))

	res := runStep(t, names, params)
	assert.Equal(t, 1, res.Rows)
	assert.Equal(t, 1, res.UnmatchedLeft)

	merge := newMergeStep(t, join)
	params = merge.DefaultParams(paths)
	testutil.WriteWorkbook(t, params.Input, [][]interface{}{
		{"country", "loss"},
		{"A", 5},
		{"B", 7},
	})
	testutil.WriteWorkbook(t, params.Right, [][]interface{}{
		{"country", "gain"},
		{"B", 3},
		{"C", 4},
	})

	res = runStep(t, merge, params)
	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, 1, res.UnmatchedRight)

	t.Run("unknown kind", func(t *testing.T) {
		bad := config.Default().Join
		bad.MergeKind = "cross"
		_, err := operations.NewMergeStep(bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "merge")
		assert.Contains(t, err.Error(), "cross")

		_, err = operations.NewDefaultRegistry(bad)
		assert.Error(t, err)
	})
}

func TestToJSONStep(t *testing.T) {
	paths := testutil.CreateTestPaths(t)
	step := operations.NewToJSONStep()
	params := step.DefaultParams(paths)

	testutil.WriteWorkbook(t, params.Input, [][]interface{}{
		{"country", "value"},
		{"Brazil", 1},
		{"Chad", 2},
	})

	res := runStep(t, step, params)
	assert.Equal(t, paths.FinalJSON, res.OutputPath)

	expected := "[\n" +
		"    {\n" +
		"        \"country\": \"Brazil\",\n" +
		"        \"value\": 1\n" +
		"    },\n" +
		"    {\n" +
		"        \"country\": \"Chad\",\n" +
		"        \"value\": 2\n" +
		"    }\n" +
		"]"
	assert.Equal(t, expected, string(res.Document))

	written, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, expected, string(written))
}

func TestStepValidation(t *testing.T) {
	paths := testutil.CreateTestPaths(t)
	input := filepath.Join(paths.DataDir, "input.xlsx")
	testutil.WriteWorkbook(t, input, [][]interface{}{{"country"}, {"A"}})

	tests := []struct {
		name     string
		step     operations.Step
		params   operations.Params
		contains string
		notExist bool
	}{
		{
			name:     "missing input file",
			step:     operations.NewCoverLossStep(),
			params:   operations.Params{Input: filepath.Join(paths.DataDir, "absent.xlsx"), Output: "out.xlsx"},
			contains: "bad Input file",
			notExist: true,
		},
		{
			name:     "empty output",
			step:     operations.NewCoverGainStep(),
			params:   operations.Params{Input: input},
			contains: "missing parameter Output",
		},
		{
			name:     "merge without right table",
			step:     newMergeStep(t, config.Default().Join),
			params:   operations.Params{Input: input, Output: "merged.xlsx"},
			contains: "missing parameter Right",
		},
		{
			name:     "json step writing a workbook",
			step:     operations.NewToJSONStep(),
			params:   operations.Params{Input: input, Output: filepath.Join(paths.DataDir, "final.xlsx")},
			contains: "bad output path",
		},
		{
			name:     "unsupported input extension",
			step:     operations.NewCoverLossStep(),
			params:   operations.Params{Input: filepath.Join(paths.DataDir, "data.txt"), Output: "out.xlsx"},
			contains: "bad Input file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.step.Validate(tt.params)
			testutil.AssertErrorType(t, err, operations.ErrorTypeValidation)
			testutil.AssertErrorContains(t, err, tt.contains)
			if tt.notExist {
				assert.ErrorIs(t, err, fs.ErrNotExist)
			}
		})
	}
}

func TestCoverLossStep_MissingColumn(t *testing.T) {
	paths := testutil.CreateTestPaths(t)
	step := operations.NewCoverLossStep()
	params := step.DefaultParams(paths)

	testutil.WriteWorkbook(t, params.Input, [][]interface{}{
		{"country", "tc_loss_ha_2001"},
		{"A", 1},
	})

	require.NoError(t, step.Validate(params))
	_, err := step.Execute(context.Background(), params)
	testutil.AssertErrorContains(t, err, "tc_loss_ha_2002")

	_, statErr := os.Stat(params.Output)
	assert.ErrorIs(t, statErr, fs.ErrNotExist)
}
