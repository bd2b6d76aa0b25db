package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the application paths
// This is the single source of truth for file locations in the application
type Paths struct {
	ExecutableDir string
	DataDir       string
	ReportsDir    string
	ChartsDir     string
	LogsDir       string
}

// GetPaths returns the application paths relative to the executable location
// All paths are relative to the executable directory, never the current
// working directory, so runs behave the same from any shell.
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	exeDir := filepath.Dir(exe)
	return pathsForRoot(exeDir), nil
}

// PathsForDir returns paths rooted at an explicit directory. Used when the
// caller passes an output directory flag instead of relying on the
// executable location.
func PathsForDir(root string) *Paths {
	return pathsForRoot(root)
}

// pathsForRoot lays out the directory structure under root:
//
//	root/
//	  ├── data/        (input files)
//	  ├── reports/     (CSV and Excel output)
//	  ├── charts/      (PNG output)
//	  └── logs/        (application logs)
func pathsForRoot(root string) *Paths {
	return &Paths{
		ExecutableDir: root,
		DataDir:       filepath.Join(root, "data"),
		ReportsDir:    filepath.Join(root, "reports"),
		ChartsDir:     filepath.Join(root, "charts"),
		LogsDir:       filepath.Join(root, "logs"),
	}
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.ReportsDir,
		p.ChartsDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// GetReportPath returns the full path for a report file
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetChartPath returns the full path for a chart file
func (p *Paths) GetChartPath(filename string) string {
	return filepath.Join(p.ChartsDir, filename)
}

// GetLogPath returns the full path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// GetDataPath returns the full path for an input data file
func (p *Paths) GetDataPath(filename string) string {
	return filepath.Join(p.DataDir, filename)
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution() {
	slog.Default().Debug("resolved application paths",
		slog.String("executable_dir", p.ExecutableDir),
		slog.String("data_dir", p.DataDir),
		slog.String("reports_dir", p.ReportsDir),
		slog.String("charts_dir", p.ChartsDir),
		slog.String("logs_dir", p.LogsDir))
}
