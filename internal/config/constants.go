package config

// Application constants
const (
	// Application Info
	AppName = "covercli"

	// EnvPrefix namespaces every environment variable (COVER_LOGGING_LEVEL, ...)
	EnvPrefix = "COVER"

	// File Paths (relative to the working directory unless absolute)
	DefaultDataDir = "data"
	DefaultLogsDir = "logs"
	DefaultLogFile = "covercli.log" // resolved against the logs directory

	// Input files
	DefaultLossDataFile    = "data.xlsx"
	DefaultISOMetadataFile = "iso_metadata.csv"
	DefaultCoverGainFile   = "cover_gain.xlsx"
	DefaultCoverLossFile   = "cover loss.xlsx"
	DefaultFinalDataFile   = "final_data.xlsx"

	// Output files
	DefaultLossByCountryFile = "total_tree_cover_loss_by_country.xlsx"
	DefaultDataWithNamesFile = "data_with_names.xlsx"
	DefaultRevisedGainFile   = "revised_tree_cover_gain.xlsx"
	DefaultMergedCoverFile   = "merged_cover_data.xlsx"
	DefaultFinalJSONFile     = "final_data.json"

	// Join column disambiguation
	DefaultLeftSuffix  = "_left"
	DefaultRightSuffix = "_right"

	// Join kinds: names are looked up, tables are combined
	DefaultNamesJoinKind = "left"
	DefaultMergeJoinKind = "outer"

	// Telemetry
	DefaultServiceName = "covercli"
)

// configFileLocations are probed in order when no config file is given
var configFileLocations = []string{
	"covercli.yaml",
	"configs/covercli.yaml",
	"../configs/covercli.yaml",
}
