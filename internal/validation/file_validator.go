package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// FileValidator checks the paths handed to the command-line tool
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateRawFile checks a POS export path: readable and of a supported format
func (v *FileValidator) ValidateRawFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}
	if !hasExtension(path, RawExtensions) {
		v.logger.Error("POS export has an unsupported extension",
			slog.String("file", path),
			slog.String("extension", filepath.Ext(path)))
		return fmt.Errorf("file %s is not a CSV or Excel export", path)
	}
	return nil
}

// ValidateWorkbookFile checks a month workbook path. A missing file is not an
// error; the tool then starts a new workbook.
func (v *FileValidator) ValidateWorkbookFile(path string) (exists bool, err error) {
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		v.logger.Info("Month workbook not found, a new one will be created",
			slog.String("file", path))
		return false, nil
	}
	if err := v.ValidateFile(path); err != nil {
		return false, err
	}
	if !hasExtension(path, WorkbookExtensions) {
		return false, fmt.Errorf("file %s is not an Excel workbook (extension: %s)", path, filepath.Ext(path))
	}
	return true, nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	// Verify it's writable by creating a test file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Info("Output directory validated",
		slog.String("directory", dir))
	return nil
}
