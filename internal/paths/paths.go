// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrOutsideBase is returned when a path resolves outside its allowed base directory
var ErrOutsideBase = errors.New("path is outside the allowed directory")

// GetConfigDir returns the pii-redactor configuration directory
func GetConfigDir() string {
	// Check for explicit override first (works on all platforms)
	if dir := os.Getenv("PII_REDACTOR_CONFIG_DIR"); dir != "" {
		return dir
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "pii-redactor")
	}
	return ""
}

// GetConfigFile returns the path to the main config file
func GetConfigFile() string {
	dir := GetConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// NormalizePath cleans a path and converts separators for the current platform
func NormalizePath(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Clean(filepath.FromSlash(path))
}

// ResolvePath resolves a path to its absolute form, following symlinks when
// the path exists
func ResolvePath(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	absPath, err := filepath.Abs(NormalizePath(path))
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(absPath); err == nil {
		return resolved, nil
	}
	return absPath, nil
}

// EnsureWithinBase resolves path and verifies it lies inside base. It returns
// the resolved absolute path. The check is done on resolved paths so "..",
// absolute paths and symlinks cannot escape base.
func EnsureWithinBase(path, base string) (string, error) {
	if err := ValidatePath(path); err != nil {
		return "", err
	}

	resolved, err := ResolvePath(path)
	if err != nil {
		return "", err
	}
	resolvedBase, err := ResolvePath(base)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(resolvedBase, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", &PathValidationError{Path: path, Reason: ErrOutsideBase.Error(), Err: ErrOutsideBase}
	}
	return resolved, nil
}

// OutputFileFor returns the de-identified output path for an input file
func OutputFileFor(outputDir, inputPath string) string {
	return filepath.Join(outputDir, "deidentified_"+filepath.Base(inputPath))
}

// ReportFileFor returns the summary report path for an input file and report extension
func ReportFileFor(outputDir, inputPath, extension string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, "report_"+stem+extension)
}

// ValidatePath validates a path for the current platform
func ValidatePath(path string) error {
	if path == "" {
		return nil // Empty path is valid
	}

	if runtime.GOOS == "windows" {
		return validateWindowsPath(path)
	}

	return validateUnixPath(path)
}

// validateWindowsPath validates a Windows path
func validateWindowsPath(path string) error {
	invalidChars := []rune{'<', '>', ':', '"', '|', '?', '*'}
	for i, char := range path {
		for _, invalid := range invalidChars {
			if char == invalid {
				// Skip colon if it's part of a drive letter (position 1: C:)
				if char == ':' && i == 1 {
					continue
				}
				return &PathValidationError{
					Path:   path,
					Reason: "contains invalid character: " + string(char),
				}
			}
		}
	}

	if len(path) > 32767 {
		return &PathValidationError{
			Path:   path,
			Reason: "path exceeds maximum length of 32,767 characters",
		}
	}

	return nil
}

// validateUnixPath validates a Unix path
func validateUnixPath(path string) error {
	if strings.ContainsRune(path, 0) {
		return &PathValidationError{
			Path:   path,
			Reason: "contains null byte",
		}
	}
	return nil
}

// PathValidationError represents a path validation error
type PathValidationError struct {
	Path   string
	Reason string
	Err    error
}

func (e *PathValidationError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Reason
}

func (e *PathValidationError) Unwrap() error {
	return e.Err
}
