package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pigeonworks-llc/campus-budget/pkg/pathutil"
)

// Repository defines the interface for ledger file operations.
type Repository interface {
	// WriteMonth replaces a monthly file with a header and the given entries
	WriteMonth(yearMonth string, entries []string) error

	// ReadMonth reads the content of a monthly file
	ReadMonth(yearMonth string) (string, error)

	// MonthsInYear lists the monthly files in a year
	MonthsInYear(year string) ([]string, error)
}

// FileSystemRepository is a file system implementation of Repository.
type FileSystemRepository struct {
	pathResolver *pathutil.PathResolver
	now          func() time.Time
}

// NewFileSystemRepository creates a new FileSystemRepository.
func NewFileSystemRepository(pathResolver *pathutil.PathResolver) *FileSystemRepository {
	return &FileSystemRepository{
		pathResolver: pathResolver,
		now:          time.Now,
	}
}

// WriteMonth writes a monthly file, replacing any earlier export of the
// same month. The file is written to a temp file first and renamed.
func (r *FileSystemRepository) WriteMonth(yearMonth string, entries []string) error {
	filePath, err := r.pathResolver.MonthFilePath(yearMonth)
	if err != nil {
		return fmt.Errorf("failed to get month file path: %w", err)
	}

	if err := r.pathResolver.EnsureParentDir(filePath); err != nil {
		return fmt.Errorf("failed to ensure parent directory: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(r.generateFileHeader(yearMonth))
	for _, e := range entries {
		sb.WriteString(e)
		if !strings.HasSuffix(e, "\n") {
			sb.WriteString("\n")
		}
		sb.WriteString("\n") // Blank line after each entry
	}

	tmp := filePath + ".tmp"
	if err := os.WriteFile(tmp, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, filePath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace file: %w", err)
	}

	return nil
}

// ReadMonth reads the content of a monthly file.
// Returns empty string if file doesn't exist.
func (r *FileSystemRepository) ReadMonth(yearMonth string) (string, error) {
	filePath, err := r.pathResolver.MonthFilePath(yearMonth)
	if err != nil {
		return "", fmt.Errorf("failed to get month file path: %w", err)
	}

	if !r.pathResolver.FileExists(filePath) {
		return "", nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	return string(data), nil
}

// MonthsInYear returns the sorted year-month keys with a file in year
// (e.g., ["2024-01", "2024-02"]).
func (r *FileSystemRepository) MonthsInYear(year string) ([]string, error) {
	yearDir := r.pathResolver.YearDir(year)
	if !r.pathResolver.FileExists(yearDir) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(yearDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read year directory: %w", err)
	}

	var months []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) == ".beancount" {
			months = append(months, strings.TrimSuffix(name, ".beancount"))
		}
	}
	sort.Strings(months)

	return months, nil
}

// generateFileHeader generates a header comment for a monthly file.
func (r *FileSystemRepository) generateFileHeader(yearMonth string) string {
	return fmt.Sprintf("; campus-budget ledger for %s\n; Generated at %s\n\n", yearMonth, r.now().Format(time.RFC3339))
}
