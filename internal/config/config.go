package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Join      JoinConfig      `yaml:"join" envconfig:"JOIN"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// PathsConfig contains the data directory and the default file name of every
// operation input and output. Relative file names resolve against DataDir.
type PathsConfig struct {
	DataDir string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	LogsDir string `yaml:"logs_dir" envconfig:"LOGS_DIR"`

	LossData    string `yaml:"loss_data" envconfig:"LOSS_DATA" validate:"required"`
	ISOMetadata string `yaml:"iso_metadata" envconfig:"ISO_METADATA" validate:"required"`
	CoverGain   string `yaml:"cover_gain" envconfig:"COVER_GAIN" validate:"required"`
	CoverLoss   string `yaml:"cover_loss" envconfig:"COVER_LOSS" validate:"required"`
	FinalData   string `yaml:"final_data" envconfig:"FINAL_DATA" validate:"required"`

	LossByCountry string `yaml:"loss_by_country" envconfig:"LOSS_BY_COUNTRY" validate:"required"`
	DataWithNames string `yaml:"data_with_names" envconfig:"DATA_WITH_NAMES" validate:"required"`
	RevisedGain   string `yaml:"revised_gain" envconfig:"REVISED_GAIN" validate:"required"`
	MergedCover   string `yaml:"merged_cover" envconfig:"MERGED_COVER" validate:"required"`
	FinalJSON     string `yaml:"final_json" envconfig:"FINAL_JSON" validate:"required"`
}

// JoinConfig controls the joins run by match-names and merge: which rows
// each keeps and how colliding non-key columns are renamed
type JoinConfig struct {
	LeftSuffix  string `yaml:"left_suffix" envconfig:"LEFT_SUFFIX" validate:"required"`
	RightSuffix string `yaml:"right_suffix" envconfig:"RIGHT_SUFFIX" validate:"required,nefield=LeftSuffix"`
	NamesKind   string `yaml:"names_kind" envconfig:"NAMES_KIND" validate:"oneof=left outer inner right"`
	MergeKind   string `yaml:"merge_kind" envconfig:"MERGE_KIND" validate:"oneof=left outer inner right"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	ServiceName   string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	EnableTracing bool   `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	// TraceFile receives span dumps; empty means stderr
	TraceFile string `yaml:"trace_file" envconfig:"TRACE_FILE"`
	// MetricsFile is a Prometheus textfile written after each run; empty disables it
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Load builds the configuration from defaults, an optional YAML file and
// COVER_* environment variables, in increasing order of precedence.
// An empty configFile probes the usual locations.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	} else if _, err := os.Stat(configFile); err != nil {
		return nil, fmt.Errorf("config file %s: %w", configFile, err)
	}

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Only variables that are actually set override the file values
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate normalizes and validates the configuration
func (c *Config) validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Format = strings.ToLower(c.Logging.Format)
	c.Logging.Output = strings.ToLower(c.Logging.Output)
	c.Join.NamesKind = strings.ToLower(strings.TrimSpace(c.Join.NamesKind))
	c.Join.MergeKind = strings.ToLower(strings.TrimSpace(c.Join.MergeKind))
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}

	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid %s: failed %q check", fe.Namespace(), fe.Tag())
		}
		return err
	}
	return nil
}

// getConfigFilePath returns the first existing default config file
func getConfigFilePath() string {
	for _, location := range configFileLocations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Paths: PathsConfig{
			DataDir:       DefaultDataDir,
			LogsDir:       DefaultLogsDir,
			LossData:      DefaultLossDataFile,
			ISOMetadata:   DefaultISOMetadataFile,
			CoverGain:     DefaultCoverGainFile,
			CoverLoss:     DefaultCoverLossFile,
			FinalData:     DefaultFinalDataFile,
			LossByCountry: DefaultLossByCountryFile,
			DataWithNames: DefaultDataWithNamesFile,
			RevisedGain:   DefaultRevisedGainFile,
			MergedCover:   DefaultMergedCoverFile,
			FinalJSON:     DefaultFinalJSONFile,
		},
		Join: JoinConfig{
			LeftSuffix:  DefaultLeftSuffix,
			RightSuffix: DefaultRightSuffix,
			NamesKind:   DefaultNamesJoinKind,
			MergeKind:   DefaultMergeJoinKind,
		},
		Telemetry: TelemetryConfig{
			ServiceName: DefaultServiceName,
		},
	}
}
