package exporter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covercli/internal/config"
)

func coverFrame(t *testing.T) dataframe.DataFrame {
	t.Helper()
	df := dataframe.New(
		series.New([]string{"Brazil", "Chad", "Namibia"}, series.String, "country"),
		series.New([]interface{}{5.5, nil, 3.0}, series.Float, "loss"),
		series.New([]int{1, 2, 3}, series.Int, "rank"),
		series.New([]string{"BRA", "TCD", "NA"}, series.String, "iso"),
	)
	require.NoError(t, df.Err)
	return df
}

func TestJSONExporter_Marshal(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"A", "B"}, series.String, "country"),
		series.New([]interface{}{5, nil}, series.Int, "loss"),
	)
	require.NoError(t, df.Err)

	data, err := NewJSONExporter(nil).Marshal(df)
	require.NoError(t, err)

	expected := `[
    {
        "country": "A",
        "loss": 5
    },
    {
        "country": "B",
        "loss": null
    }
]`
	assert.Equal(t, expected, string(data))
}

func TestJSONExporter_KeysFollowColumnOrder(t *testing.T) {
	data, err := NewJSONExporter(nil).Marshal(coverFrame(t))
	require.NoError(t, err)

	text := string(data)
	country := bytes.Index(data, []byte(`"country"`))
	loss := bytes.Index(data, []byte(`"loss"`))
	rank := bytes.Index(data, []byte(`"rank"`))
	iso := bytes.Index(data, []byte(`"iso"`))
	assert.True(t, country < loss && loss < rank && rank < iso, text)
	assert.Contains(t, text, `"iso": "NA"`)
}

func TestJSONExporter_RoundTrip(t *testing.T) {
	df := coverFrame(t)
	exp := NewJSONExporter(&config.Paths{DataDir: t.TempDir()})

	path, err := exp.Export(df, "final_data.json")
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(content, &rows))

	expected := []map[string]interface{}{
		{"country": "Brazil", "loss": 5.5, "rank": 1.0, "iso": "BRA"},
		{"country": "Chad", "loss": nil, "rank": 2.0, "iso": "TCD"},
		{"country": "Namibia", "loss": 3.0, "rank": 3.0, "iso": "NA"},
	}
	assert.Equal(t, expected, rows)
}

func TestJSONExporter_EmptyTable(t *testing.T) {
	df := dataframe.New(series.New([]string{}, series.String, "country"))
	require.NoError(t, df.Err)

	var buf bytes.Buffer
	require.NoError(t, NewJSONExporter(nil).WriteRecords(&buf, df))
	assert.Equal(t, "[]", buf.String())
}

func TestJSONExporter_NoHTMLEscaping(t *testing.T) {
	df := dataframe.New(series.New([]string{"Bosnia & Herzegovina"}, series.String, "name"))
	require.NoError(t, df.Err)

	data, err := NewJSONExporter(nil).Marshal(df)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Bosnia & Herzegovina")
}

func TestJSONExporter_CreatesDirectory(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out", "final_data.json")
	path, err := NewJSONExporter(nil).Export(coverFrame(t), target)
	require.NoError(t, err)
	assert.Equal(t, target, path)
	assert.FileExists(t, target)
}
