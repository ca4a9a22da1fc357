// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// maxBaseNameLen caps filenames derived from document topics.
const maxBaseNameLen = 40

// unsafeNameRunRe matches runs of characters outside the Latin and
// Cyrillic (incl. Uzbek Ў Қ Ғ Ҳ) alphanumeric set used in topics.
var unsafeNameRunRe = regexp.MustCompile(`[^0-9A-Za-zА-Яа-яЎҚҒҲўқғҳ]+`)

// SafeBaseName derives a filesystem-safe base name from a document
// topic. Unsafe runs collapse to underscores, the result is capped at
// 40 characters, and an empty outcome falls back to "referat".
func SafeBaseName(topic string) string {
	name := unsafeNameRunRe.ReplaceAllString(topic, "_")
	name = strings.Trim(name, "_")
	if runes := []rune(name); len(runes) > maxBaseNameLen {
		name = strings.TrimRight(string(runes[:maxBaseNameLen]), "_")
	}
	if name == "" {
		return "referat"
	}
	return name
}

// WriteTempFile creates a temporary file holding content, named
// {prefix}-*.{extension}. Returns the file path and a cleanup function
// that removes it.
func WriteTempFile(content, prefix, extension string) (path string, cleanup func(), err error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}
	if prefix == "" {
		prefix = "tgbotq"
	}

	tmpFile, err := os.CreateTemp("", prefix+"-*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, writeErr := tmpFile.WriteString(content); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", writeErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", closeErr)
	}

	return path, cleanup, nil
}

// ValidateExtension checks that the extension is safe for use in temp
// file names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather
// than a name. A string containing path separators is treated as a
// path.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsURL returns true if the string looks like a URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
