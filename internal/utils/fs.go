package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DirStatus describes whether a directory can hold wildserve's files.
// Err holds the reason when the directory is missing or read-only.
type DirStatus struct {
	Exists   bool
	Writable bool
	Err      error
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// EnsureDir creates dirPath and its parents when missing.
func EnsureDir(dirPath string) error {
	return os.MkdirAll(dirPath, 0755)
}

// SaveTOMLFile encodes data to a temp file next to filePath and renames it
// into place, so a failed write never leaves a truncated file behind.
func SaveTOMLFile(data any, filePath string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(filePath), "."+filepath.Base(filePath)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", filePath, err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if err := toml.NewEncoder(tmp).Encode(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode %s: %w", filePath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", filePath, err)
	}
	if err := os.Rename(tmp.Name(), filePath); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filePath, err)
	}
	return nil
}

// GetAbsolutePath returns path made absolute, or "unknown" for an empty path.
func GetAbsolutePath(path string) string {
	if path == "" {
		return "unknown"
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// GetExecutableDir returns the directory of the running binary, the last
// place config is looked for.
func GetExecutableDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(execPath), nil
}

// CheckDirStatus creates dirPath if needed and probes it with a throwaway
// file.
func CheckDirStatus(dirPath string) DirStatus {
	if err := EnsureDir(dirPath); err != nil {
		return DirStatus{Err: fmt.Errorf("cannot create %s: %w", dirPath, err)}
	}
	status := DirStatus{Exists: true}
	if err := probeWrite(dirPath); err != nil {
		status.Err = err
		return status
	}
	status.Writable = true
	return status
}

// probeWrite creates and removes a temp file in dirPath. A probe file that
// cannot be removed is reported too.
func probeWrite(dirPath string) error {
	f, err := os.CreateTemp(dirPath, ".write_test*")
	if err != nil {
		return fmt.Errorf("cannot write to %s: %w", dirPath, err)
	}
	closeErr := f.Close()
	if err := errors.Join(closeErr, os.Remove(f.Name())); err != nil {
		return fmt.Errorf("cannot clean up write probe in %s: %w", dirPath, err)
	}
	return nil
}
