// Package zip expands zipped export uploads into the individual spreadsheet
// files the channel normalizers understand.
package zip

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// ExpandOptions contains limits for ZIP expansion
type ExpandOptions struct {
	// MaxFileSize is the maximum size for a single file in bytes (0 = unlimited)
	MaxFileSize int64
	// MaxTotalSize is the maximum total size for all extracted files (0 = unlimited)
	MaxTotalSize int64
	// MaxFiles is the maximum number of files to extract (0 = unlimited)
	MaxFiles int
	// AllowedExtensions filters which file extensions to extract (empty = all)
	AllowedExtensions []string
	// SkipPatterns contains patterns to skip (e.g., "__MACOSX")
	SkipPatterns []string
}

// DefaultExpandOptions returns default options for ZIP expansion
func DefaultExpandOptions() ExpandOptions {
	return ExpandOptions{
		MaxFileSize:  100 * 1024 * 1024, // 100MB per file
		MaxTotalSize: 512 * 1024 * 1024, // 512MB total
		MaxFiles:     100,
		AllowedExtensions: []string{
			".csv",
			".xlsx",
			".xls",
		},
		SkipPatterns: []string{
			"__MACOSX",
			".DS_Store",
			"Thumbs.db",
			"desktop.ini",
		},
	}
}

// ExpandedFile is a file extracted from a ZIP archive
type ExpandedFile struct {
	Name    string
	Content []byte
	Size    int64
}

// Expander handles ZIP file expansion
type Expander struct {
	options ExpandOptions
}

// NewExpander creates a new ZIP expander
func NewExpander(options ExpandOptions) *Expander {
	return &Expander{options: options}
}

// Expand expands a ZIP file in memory and returns the extracted files
func (e *Expander) Expand(ctx context.Context, content []byte, parentFilename string) ([]ExpandedFile, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open ZIP: %w", err)
	}

	var expanded []ExpandedFile
	var totalSize int64
	fileCount := 0

	for _, file := range reader.File {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if file.FileInfo().IsDir() {
			continue
		}

		// Zip slip prevention
		safeName, err := sanitizeFilename(file.Name)
		if err != nil {
			continue
		}

		if e.shouldSkip(safeName) {
			continue
		}
		if !e.isAllowedExtension(safeName) {
			continue
		}

		fileCount++
		if e.options.MaxFiles > 0 && fileCount > e.options.MaxFiles {
			return nil, fmt.Errorf("too many files in archive (limit: %d)", e.options.MaxFiles)
		}

		if e.options.MaxFileSize > 0 && int64(file.UncompressedSize64) > e.options.MaxFileSize {
			return nil, fmt.Errorf("file %s exceeds maximum size (%d > %d)",
				safeName, file.UncompressedSize64, e.options.MaxFileSize)
		}

		data, err := e.readFileWithLimit(file, safeName)
		if err != nil {
			return nil, err
		}

		// Check total size against actual bytes read, not declared sizes
		totalSize += int64(len(data))
		if e.options.MaxTotalSize > 0 && totalSize > e.options.MaxTotalSize {
			return nil, fmt.Errorf("total extracted size exceeds maximum (%d > %d)",
				totalSize, e.options.MaxTotalSize)
		}

		expanded = append(expanded, ExpandedFile{
			Name:    safeName,
			Content: data,
			Size:    int64(len(data)),
		})
	}

	return expanded, nil
}

// readFileWithLimit reads a ZIP entry enforcing the actual size limit, not
// just the declared one
func (e *Expander) readFileWithLimit(file *zip.File, safeName string) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s in ZIP: %w", safeName, err)
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil {
			log.Warn().Str("entry", safeName).Err(closeErr).Msg("Failed to close ZIP entry")
		}
	}()

	var reader io.Reader = rc
	if e.options.MaxFileSize > 0 {
		// Add 1 byte to detect if the entry exceeds the limit
		reader = io.LimitReader(rc, e.options.MaxFileSize+1)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s from ZIP: %w", safeName, err)
	}

	if e.options.MaxFileSize > 0 && int64(len(data)) > e.options.MaxFileSize {
		return nil, fmt.Errorf("file %s exceeds maximum size (actual data > %d bytes)", safeName, e.options.MaxFileSize)
	}

	return data, nil
}

// sanitizeFilename validates a filename from a ZIP to prevent zip slip.
// The directory structure is flattened to the base name.
func sanitizeFilename(filename string) (string, error) {
	if path.IsAbs(filename) || filepath.IsAbs(filename) {
		return "", fmt.Errorf("absolute path not allowed: %s", filename)
	}

	// Windows drive letters
	if len(filename) >= 2 && filename[1] == ':' {
		return "", fmt.Errorf("drive letter not allowed: %s", filename)
	}

	if strings.Contains(filename, "\\") {
		filename = strings.ReplaceAll(filename, "\\", "/")
	}

	cleaned := path.Clean(filename)
	if strings.HasPrefix(cleaned, "..") || strings.HasPrefix(cleaned, "/") {
		return "", fmt.Errorf("path traversal not allowed: %s", filename)
	}
	for _, part := range strings.Split(cleaned, "/") {
		if part == ".." {
			return "", fmt.Errorf("path traversal not allowed: %s", filename)
		}
	}

	baseName := path.Base(cleaned)
	if baseName == "." || baseName == "/" || baseName == "" {
		return "", fmt.Errorf("invalid filename: %s", filename)
	}
	return baseName, nil
}

// shouldSkip checks if a file should be skipped based on patterns
func (e *Expander) shouldSkip(filename string) bool {
	for _, pattern := range e.options.SkipPatterns {
		if strings.Contains(filename, pattern) {
			return true
		}
	}
	return false
}

// isAllowedExtension checks if a file has an allowed extension
func (e *Expander) isAllowedExtension(filename string) bool {
	if len(e.options.AllowedExtensions) == 0 {
		return true
	}

	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range e.options.AllowedExtensions {
		if strings.EqualFold(ext, allowed) {
			return true
		}
	}
	return false
}

// ExpandInMemory is a convenience function for in-memory ZIP expansion with
// default limits
func ExpandInMemory(content []byte, parentFilename string) ([]ExpandedFile, error) {
	return NewExpander(DefaultExpandOptions()).Expand(context.Background(), content, parentFilename)
}
