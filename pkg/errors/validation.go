package errors

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

const maxPathLength = 4096

// ValidatePath checks that a user-supplied path is usable at all.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateInputPath checks that path names an existing regular file.
func ValidateInputPath(path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return Wrap(ErrCodeFileNotFound, err, "input file %s does not exist", path)
	}
	if err != nil {
		return Wrap(ErrCodeInvalidPath, err, "stat %s", path)
	}
	if info.IsDir() {
		return New(ErrCodeInvalidPath, "input %s is a directory", path)
	}

	return nil
}

// ValidateOutputPath checks that path can be created: its parent directory
// must exist and the path itself must not be a directory.
func ValidateOutputPath(path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return New(ErrCodeInvalidPath, "output %s is a directory", path)
	}

	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return Wrap(ErrCodeInvalidPath, err, "output directory %s does not exist", dir)
	}
	if err != nil {
		return Wrap(ErrCodeInvalidPath, err, "stat %s", dir)
	}
	if !info.IsDir() {
		return New(ErrCodeInvalidPath, "output parent %s is not a directory", dir)
	}

	return nil
}
