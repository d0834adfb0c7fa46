package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Paths contains the directories the command-line tools write to.
// All paths are relative to the executable, never the current working directory.
type Paths struct {
	ExecutableDir string
	ReportsDir    string
	ExportsDir    string
	LogsDir       string
}

// GetPaths returns the application paths relative to the executable location
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

	return NewPaths(filepath.Dir(exe)), nil
}

// NewPaths lays out the directory tree under base:
//
//	base/
//	  ├── reports/   (generated workbooks)
//	  ├── exports/   (canonical CSV dumps)
//	  └── logs/
func NewPaths(base string) *Paths {
	return &Paths{
		ExecutableDir: base,
		ReportsDir:    filepath.Join(base, "reports"),
		ExportsDir:    filepath.Join(base, "exports"),
		LogsDir:       filepath.Join(base, "logs"),
	}
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ReportsDir, p.ExportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetReportPath returns the path of a generated workbook
func (p *Paths) GetReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// GetExportPath returns the path of a canonical CSV export
func (p *Paths) GetExportPath(filename string) string {
	return filepath.Join(p.ExportsDir, filename)
}

// GetExportPathForDate returns the canonical CSV export path for a report date
func (p *Paths) GetExportPathForDate(date time.Time) string {
	return p.GetExportPath(fmt.Sprintf("canonical_%s.csv", date.Format("20060102")))
}

// GetLogPath returns the path of a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LogPathResolution logs all resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Debug("Resolved application paths",
		slog.String("executable_dir", p.ExecutableDir),
		slog.String("reports_dir", p.ReportsDir),
		slog.String("exports_dir", p.ExportsDir),
		slog.String("logs_dir", p.LogsDir))
}
