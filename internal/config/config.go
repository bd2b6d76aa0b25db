package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Export   ExportConfig   `yaml:"export" envconfig:"EXPORT"`
	Tracing  TracingConfig  `yaml:"tracing" envconfig:"TRACING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"false"`
}

// AnalysisConfig contains defaults for analysis runs. CLI flags override
// these per invocation.
type AnalysisConfig struct {
	MaxConcurrency  int     `yaml:"max_concurrency" envconfig:"MAX_CONCURRENCY" default:"4"`
	TickTarget      int     `yaml:"tick_target" envconfig:"TICK_TARGET" default:"20"`
	MissingStrategy string  `yaml:"missing_strategy" envconfig:"MISSING_STRATEGY" default:"interpolate"`
	FillValue       float64 `yaml:"fill_value" envconfig:"FILL_VALUE" default:"0"`
}

// ExportConfig contains output rendering configuration
type ExportConfig struct {
	Formats     []string `yaml:"formats" envconfig:"FORMATS" default:"csv"`
	ChartWidth  int      `yaml:"chart_width" envconfig:"CHART_WIDTH" default:"1440"`
	ChartHeight int      `yaml:"chart_height" envconfig:"CHART_HEIGHT" default:"720"`
}

// TracingConfig contains OpenTelemetry tracing configuration
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled" envconfig:"ENABLED" default:"false"`
	Exporter    string  `yaml:"exporter" envconfig:"EXPORTER" default:"stdout"`
	SampleRatio float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" default:"1.0"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	ExecutableDir string `yaml:"executable_dir" envconfig:"EXECUTABLE_DIR"`
	DataDir       string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	ReportsDir    string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"reports"`
	ChartsDir     string `yaml:"charts_dir" envconfig:"CHARTS_DIR" default:"charts"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("ENVCLI", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.Format == "" {
		envConfig.Logging.Format = fileConfig.Logging.Format
	}
	if envConfig.Logging.Output == "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if envConfig.Logging.FilePath == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if envConfig.Analysis.MaxConcurrency == 0 {
		envConfig.Analysis.MaxConcurrency = fileConfig.Analysis.MaxConcurrency
	}
	if envConfig.Analysis.TickTarget == 0 {
		envConfig.Analysis.TickTarget = fileConfig.Analysis.TickTarget
	}
	if envConfig.Analysis.MissingStrategy == "" {
		envConfig.Analysis.MissingStrategy = fileConfig.Analysis.MissingStrategy
	}
	if len(envConfig.Export.Formats) == 0 {
		envConfig.Export.Formats = fileConfig.Export.Formats
	}
	if envConfig.Export.ChartWidth == 0 {
		envConfig.Export.ChartWidth = fileConfig.Export.ChartWidth
	}
	if envConfig.Export.ChartHeight == 0 {
		envConfig.Export.ChartHeight = fileConfig.Export.ChartHeight
	}
	if envConfig.Paths.DataDir == "" {
		envConfig.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if envConfig.Paths.ReportsDir == "" {
		envConfig.Paths.ReportsDir = fileConfig.Paths.ReportsDir
	}
	if envConfig.Paths.ChartsDir == "" {
		envConfig.Paths.ChartsDir = fileConfig.Paths.ChartsDir
	}
	if envConfig.Paths.LogsDir == "" {
		envConfig.Paths.LogsDir = fileConfig.Paths.LogsDir
	}

	return envConfig
}

// validate validates the configuration
func (c *Config) validate() error {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error", "":
	default:
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "console", "":
	default:
		return fmt.Errorf("invalid logging format: %s", c.Logging.Format)
	}

	if c.Logging.Output != "console" && c.Logging.Output != "file" && c.Logging.Output != "both" {
		c.Logging.Output = "both"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	if c.Analysis.MaxConcurrency <= 0 {
		return fmt.Errorf("analysis max_concurrency must be positive, got %d", c.Analysis.MaxConcurrency)
	}
	if c.Analysis.TickTarget <= 0 {
		return fmt.Errorf("analysis tick_target must be positive, got %d", c.Analysis.TickTarget)
	}

	switch c.Analysis.MissingStrategy {
	case "drop", "constant", "carry", "interpolate":
	default:
		return fmt.Errorf("invalid missing strategy: %s", c.Analysis.MissingStrategy)
	}

	for _, format := range c.Export.Formats {
		switch format {
		case "csv", "excel", "chart", "all":
		default:
			return fmt.Errorf("invalid export format: %s", format)
		}
	}

	if c.Export.ChartWidth < 320 || c.Export.ChartHeight < 200 {
		return fmt.Errorf("chart dimensions too small: %dx%d", c.Export.ChartWidth, c.Export.ChartHeight)
	}

	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing sample_ratio must be in [0,1], got %f", c.Tracing.SampleRatio)
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
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
			Output:   "both",
			FilePath: "logs/app.log",
		},
		Analysis: AnalysisConfig{
			MaxConcurrency:  4,
			TickTarget:      20,
			MissingStrategy: "interpolate",
			FillValue:       0,
		},
		Export: ExportConfig{
			Formats:     []string{"csv"},
			ChartWidth:  1440,
			ChartHeight: 720,
		},
		Tracing: TracingConfig{
			Enabled:     false,
			Exporter:    "stdout",
			SampleRatio: 1.0,
		},
		Paths: PathsConfig{
			DataDir:    "data",
			ReportsDir: "reports",
			ChartsDir:  "charts",
			LogsDir:    "logs",
		},
	}
}
