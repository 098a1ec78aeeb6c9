package operations_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covercli/internal/config"
	"covercli/internal/operations"
	"covercli/internal/operations/testutil"
)

func TestRenderResult_Table(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"Brazil", "Chad"}, series.String, "country"),
		series.New([]interface{}{12.5, nil}, series.Float, "2000-2005_cover_loss"),
	)
	require.NoError(t, df.Err)

	var buf bytes.Buffer
	err := operations.RenderResult(&buf, &operations.Result{
		StepID:     operations.StepIDCoverLoss,
		OutputPath: "/data/out.xlsx",
		Rows:       2,
		Table:      &df,
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "2000-2005_cover_loss")
	assert.Contains(t, out, "12.5")
	assert.Contains(t, out, "NaN")
	assert.Contains(t, out, "[2 rows x 2 columns]")
	assert.True(t, strings.HasSuffix(out, "cover-loss: saved 2 rows to /data/out.xlsx\n"))
}

func TestRenderResult_Document(t *testing.T) {
	var buf bytes.Buffer
	err := operations.RenderResult(&buf, &operations.Result{
		StepID:     operations.StepIDToJSON,
		OutputPath: "final_data.json",
		Document:   []byte("[]"),
	})
	require.NoError(t, err)
	assert.Equal(t, "[]\nto-json: saved 0 rows to final_data.json\n", buf.String())

	assert.NoError(t, operations.RenderResult(&buf, nil))
}

func TestRenderSteps(t *testing.T) {
	registry, err := operations.NewDefaultRegistry(config.Default().Join)
	require.NoError(t, err)
	paths := testutil.CreateTestPaths(t)

	var buf bytes.Buffer
	operations.RenderSteps(&buf, registry, paths)

	out := buf.String()
	for _, id := range registry.ListIDs() {
		assert.Contains(t, out, id)
	}
	assert.Contains(t, out, paths.MergedCover)
	assert.Contains(t, out, paths.ISOMetadata)
}
