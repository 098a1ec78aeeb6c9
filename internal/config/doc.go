// Package config provides configuration management for covercli.
// It loads configuration from several sources, validates it, and resolves
// the default input and output file of every operation.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file (covercli.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern COVER_<SECTION>_<FIELD>:
//
//	COVER_LOGGING_LEVEL=debug
//	COVER_PATHS_DATA_DIR=/srv/vr/data
//	COVER_JOIN_LEFT_SUFFIX=_x
//	COVER_TELEMETRY_METRICS_FILE=/var/lib/node_exporter/covercli.prom
//
// # Path Management
//
// Paths replaces fixed file locations with values derived from PathsConfig:
//
//	paths, err := config.NewPaths(cfg.Paths)
//	in := paths.LossData          // data/data.xlsx
//	out := paths.GetDataPath("x.xlsx")
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
