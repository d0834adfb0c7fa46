package files

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"storereport/internal/config"
)

// Manager provides file operations rooted at the reports directory
type Manager struct {
	paths  *config.Paths
	logger *slog.Logger
	now    func() time.Time
}

// NewManager creates a new file manager instance
func NewManager(paths *config.Paths, logger *slog.Logger) *Manager {
	return &Manager{
		paths:  paths,
		logger: logger.With(slog.String("component", "files")),
		now:    time.Now,
	}
}

// WriteFile atomically replaces path with data and returns the resolved path
func (m *Manager) WriteFile(path string, data []byte) (string, error) {
	fullPath := m.resolvePath(path)
	dir := filepath.Dir(fullPath)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fullPath)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return "", fmt.Errorf("failed to chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, fullPath); err != nil {
		return "", fmt.Errorf("failed to replace %s: %w", fullPath, err)
	}

	m.logger.Info("File written",
		slog.String("path", fullPath),
		slog.Int("bytes", len(data)))
	return fullPath, nil
}

// Backup copies an existing file to name.YYYYMMDD-HHMMSS.bak.ext beside it.
// A missing file yields an empty path and no error.
func (m *Manager) Backup(path string) (string, error) {
	fullPath := m.resolvePath(path)

	src, err := os.Open(fullPath)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", fullPath, err)
	}
	defer src.Close()

	ext := filepath.Ext(fullPath)
	stem := strings.TrimSuffix(fullPath, ext)
	backupPath := fmt.Sprintf("%s.%s.bak%s", stem, m.now().Format("20060102-150405"), ext)

	dst, err := os.OpenFile(backupPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create backup %s: %w", backupPath, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("failed to copy to backup %s: %w", backupPath, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("failed to close backup %s: %w", backupPath, err)
	}

	m.logger.Info("Backup created",
		slog.String("source", fullPath),
		slog.String("backup", backupPath))
	return backupPath, nil
}

// resolvePath resolves a path relative to the reports directory
func (m *Manager) resolvePath(path string) string {
	if filepath.IsAbs(path) || m.paths == nil {
		return filepath.Clean(path)
	}
	return m.paths.GetReportPath(path)
}
