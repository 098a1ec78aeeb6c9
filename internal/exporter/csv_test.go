package exporter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"covercli/internal/config"
)

// Setup test environment
func setupTestEnv(t *testing.T) (*CSVWriter, string) {
	t.Helper()

	tempDir := t.TempDir()
	writer := NewCSVWriter(&config.Paths{DataDir: tempDir})
	return writer, tempDir
}

func TestNewCSVWriter(t *testing.T) {
	paths := &config.Paths{}
	writer := NewCSVWriter(paths)

	assert.NotNil(t, writer)
	assert.Equal(t, paths, writer.paths)
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	writer, tempDir := setupTestEnv(t)

	tests := []struct {
		name     string
		filePath string
		options  WriteOptions
		validate func(t *testing.T, content []byte)
	}{
		{
			name:     "basic write with headers",
			filePath: "test_basic.csv",
			options: WriteOptions{
				Headers: []string{"country", "2000-2005_cover_loss"},
				Records: [][]string{
					{"Brazil", "1234.5"},
					{"Chad", ""},
				},
			},
			validate: func(t *testing.T, content []byte) {
				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Len(t, lines, 3) // header + 2 records
				assert.Equal(t, "country,2000-2005_cover_loss", lines[0])
				assert.Equal(t, "Brazil,1234.5", lines[1])
				assert.Equal(t, "Chad,", lines[2])
			},
		},
		{
			name:     "write with BOM prefix",
			filePath: "test_bom.csv",
			options: WriteOptions{
				Headers:   []string{"iso", "name"},
				Records:   [][]string{{"CIV", "Côte d'Ivoire"}},
				BOMPrefix: true,
			},
			validate: func(t *testing.T, content []byte) {
				assert.True(t, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}))

				lines := strings.Split(strings.TrimSpace(string(content[3:])), "\n")
				assert.Equal(t, "iso,name", lines[0])
				assert.Equal(t, "CIV,Côte d'Ivoire", lines[1])
			},
		},
		{
			name:     "quotes fields with separators",
			filePath: "test_quotes.csv",
			options: WriteOptions{
				Headers: []string{"name"},
				Records: [][]string{{"Korea, Republic of"}},
			},
			validate: func(t *testing.T, content []byte) {
				assert.Contains(t, string(content), `"Korea, Republic of"`)
			},
		},
		{
			name:     "empty records",
			filePath: "nested/test_empty.csv",
			options: WriteOptions{
				Headers: []string{"Col1", "Col2"},
				Records: [][]string{},
			},
			validate: func(t *testing.T, content []byte) {
				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Len(t, lines, 1) // only headers
				assert.Equal(t, "Col1,Col2", lines[0])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fullPath, err := writer.WriteCSV(tt.filePath, tt.options)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(tempDir, tt.filePath), fullPath)

			content, err := os.ReadFile(fullPath)
			require.NoError(t, err)
			tt.validate(t, content)
		})
	}
}

func TestCSVWriter_OverwritesExistingFile(t *testing.T) {
	writer, _ := setupTestEnv(t)

	_, err := writer.WriteCSV("out.csv", WriteOptions{Headers: []string{"a"}, Records: [][]string{{"1"}, {"2"}}, BOMPrefix: true})
	require.NoError(t, err)
	fullPath, err := writer.WriteCSV("out.csv", WriteOptions{Headers: []string{"a"}, Records: [][]string{{"3"}}, BOMPrefix: true})
	require.NoError(t, err)

	content, err := os.ReadFile(fullPath)
	require.NoError(t, err)
	assert.Equal(t, "\xEF\xBB\xBFa\n3\n", string(content))
}

func TestCSVWriter_AbsolutePath(t *testing.T) {
	writer, _ := setupTestEnv(t)
	target := filepath.Join(t.TempDir(), "elsewhere.csv")

	fullPath, err := writer.WriteCSV(target, WriteOptions{Headers: []string{"x"}})
	require.NoError(t, err)
	assert.Equal(t, target, fullPath)
	assert.FileExists(t, target)
}
