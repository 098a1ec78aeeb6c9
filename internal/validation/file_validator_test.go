package validation

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileValidator_ValidateInputFile(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "data.xlsx")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0644))
	upper := filepath.Join(dir, "ISO.CSV")
	require.NoError(t, os.WriteFile(upper, []byte("iso\n"), 0644))

	v := NewFileValidator(nil)

	tests := []struct {
		name     string
		path     string
		wantErr  bool
		notExist bool
	}{
		{"existing workbook", existing, false, false},
		{"upper case extension", upper, false, false},
		{"missing file", filepath.Join(dir, "absent.xlsx"), true, true},
		{"wrong extension", filepath.Join(dir, "data.json"), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateInputFile(tt.path, TableInputExtensions)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.notExist {
				assert.ErrorIs(t, err, fs.ErrNotExist)
			}
		})
	}
}

func TestFileValidator_ValidateFile_Directory(t *testing.T) {
	err := NewFileValidator(nil).ValidateFile(t.TempDir())
	assert.ErrorContains(t, err, "is a directory")
}

func TestFileValidator_ValidateOutputFile(t *testing.T) {
	dir := t.TempDir()
	v := NewFileValidator(nil)

	nested := filepath.Join(dir, "out", "final_data.json")
	require.NoError(t, v.ValidateOutputFile(nested, JSONOutputExtensions))
	assert.DirExists(t, filepath.Dir(nested))
	assert.NoFileExists(t, filepath.Join(dir, "out", ".write_test"))

	assert.Error(t, v.ValidateOutputFile(filepath.Join(dir, "final_data.xlsx"), JSONOutputExtensions))
	assert.NoError(t, v.ValidateOutputFile(filepath.Join(dir, "merged.CSV"), TableOutputExtensions))
}

func TestFileValidator_ValidateExtension(t *testing.T) {
	v := NewFileValidator(nil)
	assert.NoError(t, v.ValidateExtension("anything.bin", nil))
	assert.NoError(t, v.ValidateExtension("cover loss.xlsx", TableInputExtensions))
	assert.Error(t, v.ValidateExtension("no_extension", TableInputExtensions))
}
