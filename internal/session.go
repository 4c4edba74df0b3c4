package internal

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// RenameSession tracks one rename pass: per-file events go to the log,
// user-facing lines go to Out, and failures are collected for the final report.
type RenameSession struct {
	ID     string // Session ID (timestamp: 2025-01-15-103045)
	Folder string
	DryRun bool
	Out    io.Writer

	log    *Logger
	stats  RenameStats
	errors *ErrorStats
}

// RenameStats tracks statistics for a rename session
type RenameStats struct {
	TotalScanned int
	Renamed      int
	Unchanged    int
	Skipped      int
	Unreadable   int
}

func NewRenameSession(folder string, dryRun bool, out io.Writer, log *Logger) *RenameSession {
	return &RenameSession{
		ID:     time.Now().Format("2006-01-02-150405"),
		Folder: folder,
		DryRun: dryRun,
		Out:    out,
		log:    log,
		errors: NewErrorStats(),
	}
}

func (s *RenameSession) entry(event string) *logrus.Entry {
	return s.log.WithFields(logrus.Fields{"session": s.ID, "event": event})
}

// LogSessionStart records the number of classified files.
func (s *RenameSession) LogSessionStart(totalFiles int) {
	s.stats.TotalScanned = totalFiles
	s.entry("session_start").WithFields(logrus.Fields{
		"folder":  s.Folder,
		"files":   totalFiles,
		"dry_run": s.DryRun,
	}).Info("rename pass started")
}

// LogRenamed records a committed (or, in dry-run, planned) rename.
func (s *RenameSession) LogRenamed(m *MediaFile) {
	s.stats.Renamed++
	s.entry("renamed").WithFields(logrus.Fields{
		"src":  m.Filename,
		"dest": m.Canonical(),
		"hash": m.Hash,
	}).Info("file renamed")

	if s.DryRun {
		fmt.Fprintf(s.Out, "[dry-run] would rename %s to %s\n", m.Filename, m.Canonical())
		return
	}
	fmt.Fprintf(s.Out, "Renamed %s to %s\n", m.Filename, m.Canonical())
}

// LogUnchanged records a file that already has its canonical name.
func (s *RenameSession) LogUnchanged(m *MediaFile) {
	s.stats.Unchanged++
	s.entry("unchanged").WithField("src", m.Filename).Debug("already canonical")
}

// LogUnreadable records a file whose content could not be fingerprinted.
// The file is still renamed; this only feeds the report.
func (s *RenameSession) LogUnreadable(m *MediaFile) {
	s.stats.Unreadable++
	s.record(m.Filename, m.HashErr)
}

// LogSkipped records a per-file failure; the pass carries on with the next file.
func (s *RenameSession) LogSkipped(m *MediaFile, err error) {
	s.stats.Skipped++
	procErr := s.record(m.Filename, err)
	color.New(color.FgRed).Fprintf(s.Out, "Skipped %s: %v\n", m.Filename, procErr.OriginalErr)
}

func (s *RenameSession) record(name string, err error) *ProcessError {
	procErr := CategorizeError(name, err)
	s.errors.Add(procErr)
	s.entry("error").WithFields(logrus.Fields{
		"src":            name,
		"error_category": procErr.Category,
		"error_severity": procErr.Severity,
	}).WithError(err).Warn(procErr.Suggestion)
	return procErr
}

// LogSessionEnd writes the summary line and returns the final statistics.
func (s *RenameSession) LogSessionEnd() RenameStats {
	s.entry("session_end").WithFields(logrus.Fields{
		"total_scanned": s.stats.TotalScanned,
		"renamed":       s.stats.Renamed,
		"unchanged":     s.stats.Unchanged,
		"skipped":       s.stats.Skipped,
		"unreadable":    s.stats.Unreadable,
	}).Info("rename pass finished")
	return s.stats
}

// GetStats returns the current session statistics
func (s *RenameSession) GetStats() RenameStats {
	return s.stats
}

// Errors returns the collected per-file problems.
func (s *RenameSession) Errors() *ErrorStats {
	return s.errors
}
