package internal

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCategory represents the type of error encountered
type ErrorCategory string

const (
	ErrorCategoryUnreadable  ErrorCategory = "unreadable_file"    // Hash or metadata read failed
	ErrorCategoryMetadata    ErrorCategory = "missing_metadata"   // Tag block absent or unparseable
	ErrorCategoryCollision   ErrorCategory = "collision"          // Target name already taken on disk
	ErrorCategoryIO          ErrorCategory = "io_error"           // File system, permissions, disk space
	ErrorCategoryUnsupported ErrorCategory = "unsupported_format" // Unrecognized file format
	ErrorCategoryUnknown     ErrorCategory = "unknown_error"      // Unexpected errors
)

// ErrorSeverity indicates how critical the error is
type ErrorSeverity string

const (
	ErrorSeverityCritical ErrorSeverity = "critical" // System-level issues (disk full, permissions)
	ErrorSeverityError    ErrorSeverity = "error"    // File-level issues (corruption, unreadable)
	ErrorSeverityWarning  ErrorSeverity = "warning"  // Recoverable issues (missing metadata, skipped rename)
)

// InvalidFolderError means the folder argument is missing, not a directory or not accessible.
type InvalidFolderError struct {
	Path string
	Err  error
}

func (e *InvalidFolderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("folder does not exist or is not a directory: %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("folder does not exist or is not a directory: %s", e.Path)
}

func (e *InvalidFolderError) Unwrap() error { return e.Err }

func IsInvalidFolder(err error) bool {
	var e *InvalidFolderError
	return errors.As(err, &e)
}

// UnreadableFileError means the bytes of a file could not be read to the end.
type UnreadableFileError struct {
	Path string
	Err  error
}

func (e *UnreadableFileError) Error() string {
	return fmt.Sprintf("unreadable file %s: %v", e.Path, e.Err)
}

func (e *UnreadableFileError) Unwrap() error { return e.Err }

func IsUnreadable(err error) bool {
	var e *UnreadableFileError
	return errors.As(err, &e)
}

// CollisionError means the rename target exists and is not the source.
type CollisionError struct {
	Src string
	Dst string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("target already exists: %q -> %q", e.Src, e.Dst)
}

func IsCollision(err error) bool {
	var e *CollisionError
	return errors.As(err, &e)
}

// CrossDeviceError means the rename crossed filesystems (EXDEV). Files are never copied.
type CrossDeviceError struct {
	Src string
	Dst string
	Err error
}

func (e *CrossDeviceError) Error() string {
	return fmt.Sprintf("cross-device rename refused: %q -> %q: %v", e.Src, e.Dst, e.Err)
}

func (e *CrossDeviceError) Unwrap() error { return e.Err }

func IsCrossDevice(err error) bool {
	var e *CrossDeviceError
	return errors.As(err, &e)
}

// ProcessError represents a categorized error during file processing
type ProcessError struct {
	FilePath    string
	Category    ErrorCategory
	Severity    ErrorSeverity
	OriginalErr error
	Context     map[string]string // Additional context (hash, target, etc.)
	Suggestion  string            // User-friendly suggestion to fix
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("[%s/%s] %s: %v", e.Severity, e.Category, e.FilePath, e.OriginalErr)
}

func (e *ProcessError) Unwrap() error { return e.OriginalErr }

// CategorizeError analyzes an error and returns a ProcessError with category and severity
func CategorizeError(filePath string, err error) *ProcessError {
	if err == nil {
		return nil
	}

	procErr := &ProcessError{
		FilePath:    filePath,
		OriginalErr: err,
		Context:     make(map[string]string),
	}

	// Typed errors first
	var collision *CollisionError
	var crossDev *CrossDeviceError
	switch {
	case errors.As(err, &collision):
		procErr.Category = ErrorCategoryCollision
		procErr.Severity = ErrorSeverityWarning
		procErr.Context["target"] = collision.Dst
		procErr.Suggestion = "A file appeared under the target name during the run - re-run rename to pick a free name"
		return procErr
	case errors.As(err, &crossDev):
		procErr.Category = ErrorCategoryIO
		procErr.Severity = ErrorSeverityError
		procErr.Context["target"] = crossDev.Dst
		procErr.Suggestion = "Source and target must be on the same filesystem"
		return procErr
	}

	errStr := strings.ToLower(err.Error())

	switch {
	// Disk/Filesystem errors (CRITICAL)
	case strings.Contains(errStr, "no space left"):
		procErr.Category = ErrorCategoryIO
		procErr.Severity = ErrorSeverityCritical
		procErr.Suggestion = "Free up disk space and retry"

	case strings.Contains(errStr, "permission denied"):
		procErr.Category = ErrorCategoryIO
		procErr.Severity = ErrorSeverityCritical
		procErr.Suggestion = "Check file and folder permissions"

	case strings.Contains(errStr, "read-only file system"):
		procErr.Category = ErrorCategoryIO
		procErr.Severity = ErrorSeverityCritical
		procErr.Suggestion = "Folder is on a read-only filesystem - check mount options"

	case strings.Contains(errStr, "too many open files"):
		procErr.Category = ErrorCategoryIO
		procErr.Severity = ErrorSeverityCritical
		procErr.Suggestion = "System file descriptor limit reached - lower --workers or increase ulimit"

	// Unreadable content (ERROR)
	case IsUnreadable(err) || strings.Contains(errStr, "input/output error"):
		procErr.Category = ErrorCategoryUnreadable
		procErr.Severity = ErrorSeverityError
		procErr.Suggestion = "File could not be read - it is left out of duplicate detection"

	case strings.Contains(errStr, "no such file"):
		procErr.Category = ErrorCategoryIO
		procErr.Severity = ErrorSeverityError
		procErr.Suggestion = "File disappeared during the run - check if external drive disconnected"

	// Metadata errors (WARNING - file is still renamed)
	case strings.Contains(errStr, "exif") || strings.Contains(errStr, "metadata") || strings.Contains(errStr, "mvhd"):
		procErr.Category = ErrorCategoryMetadata
		procErr.Severity = ErrorSeverityWarning
		procErr.Suggestion = "Metadata could not be extracted - modification time is used instead"

	// Unsupported format
	case strings.Contains(errStr, "unsupported") || strings.Contains(errStr, "unknown format"):
		procErr.Category = ErrorCategoryUnsupported
		procErr.Severity = ErrorSeverityWarning
		procErr.Suggestion = "File format not recognized - try --exiftool"

	// Default: unknown error
	default:
		procErr.Category = ErrorCategoryUnknown
		procErr.Severity = ErrorSeverityError
		procErr.Suggestion = "Unexpected error - check logs for details"
	}

	return procErr
}

// ErrorStats tracks error statistics during a run
type ErrorStats struct {
	Total      int
	Critical   int
	Errors     int
	Warnings   int
	ByCategory map[ErrorCategory]int
	LastErrors []*ProcessError // Last 5 errors for quick diagnosis
}

func NewErrorStats() *ErrorStats {
	return &ErrorStats{
		ByCategory: make(map[ErrorCategory]int),
		LastErrors: make([]*ProcessError, 0, 5),
	}
}

func (s *ErrorStats) Add(err *ProcessError) {
	s.Total++
	s.ByCategory[err.Category]++

	switch err.Severity {
	case ErrorSeverityCritical:
		s.Critical++
	case ErrorSeverityError:
		s.Errors++
	case ErrorSeverityWarning:
		s.Warnings++
	}

	// Keep last 5 errors
	if len(s.LastErrors) >= 5 {
		s.LastErrors = s.LastErrors[1:]
	}
	s.LastErrors = append(s.LastErrors, err)
}

// GenerateReport creates a human-readable error report
func (s *ErrorStats) GenerateReport() string {
	var report strings.Builder

	fmt.Fprintf(&report, "\nRun encountered %d problems:\n\n", s.Total)

	if s.Critical > 0 {
		fmt.Fprintf(&report, "  Critical: %d (system-level issues)\n", s.Critical)
	}
	if s.Errors > 0 {
		fmt.Fprintf(&report, "  Errors:   %d (file-level issues)\n", s.Errors)
	}
	if s.Warnings > 0 {
		fmt.Fprintf(&report, "  Warnings: %d (recoverable issues)\n", s.Warnings)
	}

	report.WriteString("\nError categories:\n")
	cats := make([]string, 0, len(s.ByCategory))
	for cat := range s.ByCategory {
		cats = append(cats, string(cat))
	}
	sort.Strings(cats)
	for _, cat := range cats {
		fmt.Fprintf(&report, "  - %s: %d\n", cat, s.ByCategory[ErrorCategory(cat)])
	}

	report.WriteString("\nRecent errors:\n")
	for i, err := range s.LastErrors {
		fmt.Fprintf(&report, "\n%d. %s\n", i+1, err.FilePath)
		fmt.Fprintf(&report, "   Category: %s | Severity: %s\n", err.Category, err.Severity)
		fmt.Fprintf(&report, "   Error: %v\n", err.OriginalErr)
		if err.Suggestion != "" {
			fmt.Fprintf(&report, "   Suggestion: %s\n", err.Suggestion)
		}
	}

	report.WriteString("\n")
	report.WriteString(s.generateSuggestions())

	return report.String()
}

func (s *ErrorStats) generateSuggestions() string {
	var suggestions strings.Builder
	suggestions.WriteString("Suggested next steps:\n")

	if s.ByCategory[ErrorCategoryIO] > 0 {
		suggestions.WriteString("  - Check disk space and permissions\n")
		suggestions.WriteString("  - Verify removable media is still connected\n")
	}

	if s.ByCategory[ErrorCategoryUnreadable] > 0 {
		suggestions.WriteString("  - Verify unreadable files are not corrupted\n")
	}

	if s.ByCategory[ErrorCategoryCollision] > 0 {
		suggestions.WriteString("  - Run rename again; skipped files will get a free name\n")
	}

	if s.ByCategory[ErrorCategoryMetadata] > s.Total/2 {
		suggestions.WriteString("  - Many metadata errors - consider using --exiftool for better compatibility\n")
	}

	suggestions.WriteString("  - Re-run with --log-level debug for per-file details\n")

	return suggestions.String()
}
