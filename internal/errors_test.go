package internal

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"testing"
)

func TestCategorizeError_DiskSpace(t *testing.T) {
	err := errors.New("write failed: no space left on device")
	procErr := CategorizeError("/test/file.jpg", err)

	if procErr.Category != ErrorCategoryIO {
		t.Errorf("Expected IO category, got %s", procErr.Category)
	}
	if procErr.Severity != ErrorSeverityCritical {
		t.Errorf("Expected critical severity, got %s", procErr.Severity)
	}
	if !strings.Contains(procErr.Suggestion, "disk space") {
		t.Errorf("Expected disk space suggestion, got: %s", procErr.Suggestion)
	}
}

func TestCategorizeError_Permission(t *testing.T) {
	err := &os.PathError{Op: "rename", Path: "/library/file.jpg", Err: syscall.EACCES}
	procErr := CategorizeError("/test/file.jpg", err)

	if procErr.Category != ErrorCategoryIO {
		t.Errorf("Expected IO category, got %s", procErr.Category)
	}
	if procErr.Severity != ErrorSeverityCritical {
		t.Errorf("Expected critical severity, got %s", procErr.Severity)
	}
}

func TestCategorizeError_Unreadable(t *testing.T) {
	err := &UnreadableFileError{Path: "/test/file.jpg", Err: errors.New("read: bad sector")}
	procErr := CategorizeError("/test/file.jpg", err)

	if procErr.Category != ErrorCategoryUnreadable {
		t.Errorf("Expected unreadable category, got %s", procErr.Category)
	}
	if procErr.Severity != ErrorSeverityError {
		t.Errorf("Expected error severity, got %s", procErr.Severity)
	}
}

func TestCategorizeError_Collision(t *testing.T) {
	err := fmt.Errorf("commit: %w", &CollisionError{Src: "/p/a.jpg", Dst: "/p/b.jpg"})
	procErr := CategorizeError("a.jpg", err)

	if procErr.Category != ErrorCategoryCollision {
		t.Errorf("Expected collision category, got %s", procErr.Category)
	}
	if procErr.Context["target"] != "/p/b.jpg" {
		t.Errorf("Expected target in context, got %q", procErr.Context["target"])
	}
}

func TestCategorizeError_CrossDevice(t *testing.T) {
	err := &CrossDeviceError{Src: "/a", Dst: "/b", Err: syscall.EXDEV}
	procErr := CategorizeError("a.jpg", err)

	if procErr.Category != ErrorCategoryIO {
		t.Errorf("Expected IO category, got %s", procErr.Category)
	}
	if procErr.Severity != ErrorSeverityError {
		t.Errorf("Expected error severity, got %s", procErr.Severity)
	}
	if !errors.Is(procErr, syscall.EXDEV) {
		t.Error("Expected ProcessError to unwrap to EXDEV")
	}
}

func TestCategorizeError_Metadata(t *testing.T) {
	err := errors.New("failed to read exif data")
	procErr := CategorizeError("/test/file.jpg", err)

	if procErr.Category != ErrorCategoryMetadata {
		t.Errorf("Expected metadata category, got %s", procErr.Category)
	}
	if procErr.Severity != ErrorSeverityWarning {
		t.Errorf("Expected warning severity, got %s", procErr.Severity)
	}
}

func TestCategorizeError_Nil(t *testing.T) {
	if CategorizeError("x", nil) != nil {
		t.Error("Expected nil for nil error")
	}
}

func TestInvalidFolderError(t *testing.T) {
	err := fmt.Errorf("rename: %w", &InvalidFolderError{Path: "/nope", Err: os.ErrNotExist})
	if !IsInvalidFolder(err) {
		t.Error("Expected IsInvalidFolder to see through wrapping")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("Expected InvalidFolderError to unwrap")
	}
	if !strings.Contains(err.Error(), "/nope") {
		t.Errorf("Expected path in message, got %q", err.Error())
	}
}

func TestErrorStats_KeepsLastFive(t *testing.T) {
	stats := NewErrorStats()
	for i := 0; i < 7; i++ {
		stats.Add(&ProcessError{
			FilePath:    fmt.Sprintf("/test/file%d.jpg", i),
			Category:    ErrorCategoryIO,
			Severity:    ErrorSeverityError,
			OriginalErr: errors.New("test"),
		})
	}

	if stats.Total != 7 || stats.Errors != 7 {
		t.Errorf("Expected 7 errors, got total=%d errors=%d", stats.Total, stats.Errors)
	}
	if len(stats.LastErrors) != 5 {
		t.Fatalf("Expected 5 recent errors, got %d", len(stats.LastErrors))
	}
	if stats.LastErrors[0].FilePath != "/test/file2.jpg" {
		t.Errorf("Expected oldest kept error to be file2, got %s", stats.LastErrors[0].FilePath)
	}
}

func TestErrorStats_GenerateReport(t *testing.T) {
	stats := NewErrorStats()

	stats.Add(&ProcessError{
		FilePath:    "/test/file1.jpg",
		Category:    ErrorCategoryIO,
		Severity:    ErrorSeverityError,
		OriginalErr: errors.New("I/O error"),
		Suggestion:  "Check disk health",
	})

	stats.Add(&ProcessError{
		FilePath:    "/test/file2.jpg",
		Category:    ErrorCategoryCollision,
		Severity:    ErrorSeverityWarning,
		OriginalErr: errors.New("target already exists"),
		Suggestion:  "Re-run rename",
	})

	report := stats.GenerateReport()

	for _, want := range []string{
		"Run encountered 2 problems",
		"Error categories",
		"- collision: 1",
		"- io_error: 1",
		"Recent errors",
		"file1.jpg",
		"Check disk health",
		"Suggested next steps",
		"Run rename again",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("Report missing %q", want)
		}
	}

	if strings.Index(report, "- collision") > strings.Index(report, "- io_error") {
		t.Error("Expected categories in sorted order")
	}
}

func TestErrorStats_BySeverity(t *testing.T) {
	stats := NewErrorStats()

	stats.Add(&ProcessError{Category: ErrorCategoryIO, Severity: ErrorSeverityCritical, OriginalErr: errors.New("test")})
	stats.Add(&ProcessError{Category: ErrorCategoryUnreadable, Severity: ErrorSeverityError, OriginalErr: errors.New("test")})
	stats.Add(&ProcessError{Category: ErrorCategoryMetadata, Severity: ErrorSeverityWarning, OriginalErr: errors.New("test")})

	if stats.Critical != 1 || stats.Errors != 1 || stats.Warnings != 1 {
		t.Errorf("Unexpected severity counts: %+v", stats)
	}
	if stats.ByCategory[ErrorCategoryUnreadable] != 1 {
		t.Errorf("Expected 1 unreadable error, got %d", stats.ByCategory[ErrorCategoryUnreadable])
	}
}
