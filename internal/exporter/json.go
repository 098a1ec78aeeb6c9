package exporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"

	"covercli/internal/config"
)

// DefaultJSONIndent is the indent of exported record documents
const DefaultJSONIndent = "    "

// JSONExporter writes a table as a JSON array of row objects. Rows keep
// their order and keys follow column order.
type JSONExporter struct {
	paths  *config.Paths
	Indent string
}

// NewJSONExporter creates a JSON exporter with the default indent
func NewJSONExporter(paths *config.Paths) *JSONExporter {
	return &JSONExporter{paths: paths, Indent: DefaultJSONIndent}
}

// Marshal renders df as an indented JSON array. Missing and non-finite
// values are null.
func (e *JSONExporter) Marshal(df dataframe.DataFrame) ([]byte, error) {
	if df.Err != nil {
		return nil, df.Err
	}

	names := df.Names()
	keys := make([][]byte, len(names))
	for i, name := range names {
		k, err := marshalValue(name)
		if err != nil {
			return nil, err
		}
		keys[i] = k
	}

	var compact bytes.Buffer
	compact.WriteByte('[')
	for r := 0; r < df.Nrow(); r++ {
		if r > 0 {
			compact.WriteByte(',')
		}
		compact.WriteByte('{')
		for c := range names {
			if c > 0 {
				compact.WriteByte(',')
			}
			v, err := marshalValue(cellValue(df.Elem(r, c)))
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", r, names[c], err)
			}
			compact.Write(keys[c])
			compact.WriteByte(':')
			compact.Write(v)
		}
		compact.WriteByte('}')
	}
	compact.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", e.Indent); err != nil {
		return nil, fmt.Errorf("failed to indent records: %w", err)
	}
	return out.Bytes(), nil
}

// WriteRecords writes the JSON document for df to w
func (e *JSONExporter) WriteRecords(w io.Writer, df dataframe.DataFrame) error {
	data, err := e.Marshal(df)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Export writes df to filePath and returns the resolved path
func (e *JSONExporter) Export(df dataframe.DataFrame, filePath string) (string, error) {
	data, err := e.Marshal(df)
	if err != nil {
		return "", fmt.Errorf("failed to encode records: %w", err)
	}
	return e.Save(data, filePath)
}

// Save writes an already rendered document to filePath
func (e *JSONExporter) Save(data []byte, filePath string) (string, error) {
	fullPath := resolvePath(e.paths, filePath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", fullPath, err)
	}

	slog.Debug("Wrote JSON records",
		slog.String("full_path", fullPath),
		slog.Int("bytes", len(data)))

	return fullPath, nil
}

// marshalValue encodes v without HTML escaping
func marshalValue(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
