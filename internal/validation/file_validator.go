// Package validation checks local input and output paths before a
// single-unit summary run touches them.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"olttstats/internal/errors"
)

// FileValidator provides file checks for local runs
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

// ValidateFile checks that path is a readable regular file
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return errors.NewStorageError("stat "+path, errors.NewNotFoundError(path))
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return errors.NewStorageError("stat "+path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return errors.NewInvalidArgumentError(fmt.Sprintf("%s is a directory, not a file", path))
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return errors.NewStorageError("open "+path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateCSVFile checks that path is a readable file with a .csv extension
func (v *FileValidator) ValidateCSVFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".csv" {
		v.logger.Error("File is not a CSV file",
			slog.String("file", path),
			slog.String("extension", ext))
		return errors.NewInvalidArgumentError(fmt.Sprintf("file %s is not a CSV file (extension: %s)", path, ext))
	}

	return nil
}

// ValidateOutputFile checks that a workbook can be written to path: the
// extension is .xlsx, the parent directory exists or can be created, and an
// existing file is only accepted when overwrite is set.
func (v *FileValidator) ValidateOutputFile(path string, overwrite bool) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" {
		return errors.NewInvalidArgumentError(fmt.Sprintf("output %s is not an .xlsx file", path))
	}

	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return errors.NewInvalidArgumentError(fmt.Sprintf("%s is a directory, not a file", path))
	case err == nil && !overwrite:
		v.logger.Warn("Output file exists",
			slog.String("file", path))
		return errors.NewInvalidArgumentError(fmt.Sprintf("%s exists; use --overwrite to replace it", path))
	case err != nil && !os.IsNotExist(err):
		return errors.NewStorageError("stat "+path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewStorageError("create directory "+dir, err)
	}

	return nil
}
