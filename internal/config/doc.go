// Package config provides centralized configuration management for the
// sensor analysis tools. It handles loading configuration from multiple
// sources, validation, and provides a type-safe API for accessing
// configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern ENVCLI_* for namespacing:
//
//	ENVCLI_LOGGING_LEVEL=debug
//	ENVCLI_ANALYSIS_MAX_CONCURRENCY=8
//	ENVCLI_ANALYSIS_MISSING_STRATEGY=interpolate
//	ENVCLI_EXPORT_FORMATS=csv,chart
//
// # Path Management
//
// The package provides centralized path management through the Paths type,
// which handles all file system paths relative to the executable location:
//
//	paths, err := config.GetPaths()
//	reportPath := paths.GetReportPath("temperature_daily.csv")
//	chartPath := paths.GetChartPath("temperature.png")
//
// # Validation
//
// All configuration is validated at load time to ensure values are within
// acceptable ranges before any analysis work starts.
package config
