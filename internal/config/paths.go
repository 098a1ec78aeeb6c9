package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains every resolved file path used by the operations.
// It is built once from PathsConfig and is the single source of truth for
// default inputs and outputs.
type Paths struct {
	DataDir string
	LogsDir string

	// Inputs
	LossData    string
	ISOMetadata string
	CoverGain   string
	CoverLoss   string
	FinalData   string

	// Outputs
	LossByCountry string
	DataWithNames string
	RevisedGain   string
	MergedCover   string
	FinalJSON     string
}

// NewPaths resolves the configured file names against the data directory
func NewPaths(cfg PathsConfig) (*Paths, error) {
	dataDir, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory %s: %w", cfg.DataDir, err)
	}

	logsDir := cfg.LogsDir
	if logsDir == "" {
		logsDir = DefaultLogsDir
	}
	logsDir, err = filepath.Abs(logsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve logs directory %s: %w", cfg.LogsDir, err)
	}

	p := &Paths{DataDir: dataDir, LogsDir: logsDir}
	p.LossData = p.GetDataPath(cfg.LossData)
	p.ISOMetadata = p.GetDataPath(cfg.ISOMetadata)
	p.CoverGain = p.GetDataPath(cfg.CoverGain)
	p.CoverLoss = p.GetDataPath(cfg.CoverLoss)
	p.FinalData = p.GetDataPath(cfg.FinalData)
	p.LossByCountry = p.GetDataPath(cfg.LossByCountry)
	p.DataWithNames = p.GetDataPath(cfg.DataWithNames)
	p.RevisedGain = p.GetDataPath(cfg.RevisedGain)
	p.MergedCover = p.GetDataPath(cfg.MergedCover)
	p.FinalJSON = p.GetDataPath(cfg.FinalJSON)

	return p, nil
}

// GetDataPath returns filename resolved against the data directory.
// Absolute names are returned unchanged.
func (p *Paths) GetDataPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.DataDir, filename)
}

// GetLogPath returns filename resolved against the logs directory.
// Absolute names are returned unchanged.
func (p *Paths) GetLogPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.LogsDir, filename)
}

// EnsureDirectories creates the data directory if it does not exist
func (p *Paths) EnsureDirectories() error {
	if err := os.MkdirAll(p.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", p.DataDir, err)
	}
	return nil
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LogPathResolution logs all resolved paths at debug level
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("Path resolution complete",
		slog.String("data_dir", p.DataDir),
		slog.String("logs_dir", p.LogsDir),
		slog.String("loss_data", p.LossData),
		slog.String("iso_metadata", p.ISOMetadata),
		slog.String("cover_gain", p.CoverGain),
		slog.String("cover_loss", p.CoverLoss),
		slog.String("final_data", p.FinalData),
		slog.String("final_json", p.FinalJSON))
}
