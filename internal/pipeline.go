package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Pipeline wires classification, duplicate detection, naming and renaming for one folder.
type Pipeline struct {
	cfg       *Config
	log       *Logger
	extractor *Extractor

	// OnFile is forwarded to the classifier for progress reporting.
	OnFile func(*MediaFile)
}

func NewPipeline(cfg *Config, extractor *Extractor, log *Logger) *Pipeline {
	return &Pipeline{cfg: cfg, log: log, extractor: extractor}
}

// CheckFolder validates the folder argument and returns its absolute path.
func CheckFolder(folder string) (string, error) {
	if folder == "" {
		return "", &InvalidFolderError{Path: folder}
	}
	abs, err := filepath.Abs(folder)
	if err != nil {
		return "", &InvalidFolderError{Path: folder, Err: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", &InvalidFolderError{Path: folder, Err: err}
	}
	if !info.IsDir() {
		return "", &InvalidFolderError{Path: folder}
	}
	if _, err := os.ReadDir(abs); err != nil {
		return "", &InvalidFolderError{Path: folder, Err: err}
	}
	return abs, nil
}

func (p *Pipeline) classifier(author string) *Classifier {
	c := NewClassifier(p.cfg, p.extractor, p.log)
	c.AuthorOverride = author
	c.OnFile = p.OnFile
	return c
}

// FindDuplicates classifies folder and returns its duplicate sets.
func (p *Pipeline) FindDuplicates(ctx context.Context, folder string) ([]DuplicateSet, error) {
	dir, err := CheckFolder(folder)
	if err != nil {
		return nil, err
	}
	records, err := p.classifier("").Classify(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to classify folder: %w", err)
	}
	for _, r := range records {
		if !r.Hashed() {
			p.log.WithField("file", r.Filename).WithError(r.HashErr).Warn("excluded from duplicate detection")
		}
	}
	return FindDuplicates(records), nil
}

// RenameOptions controls one rename pass.
type RenameOptions struct {
	Author string // overrides every extracted author when set
	DryRun bool
	Out    io.Writer
}

// Rename classifies folder, resolves canonical names and commits the renames.
// Per-file failures are recorded in the session and never stop the pass. A
// cancelled context stops between files and leaves a renamed prefix.
func (p *Pipeline) Rename(ctx context.Context, folder string, opts RenameOptions) (*RenameSession, error) {
	dir, err := CheckFolder(folder)
	if err != nil {
		return nil, err
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	records, err := p.classifier(opts.Author).Classify(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to classify folder: %w", err)
	}

	session := NewRenameSession(dir, opts.DryRun, out, p.log)
	session.LogSessionStart(len(records))
	for _, m := range records {
		if !m.Hashed() {
			session.LogUnreadable(m)
		}
	}

	existing, err := listNames(dir)
	if err != nil {
		return nil, &InvalidFolderError{Path: folder, Err: err}
	}
	if _, err := NewResolver().ResolveAll(records, existing); err != nil {
		return nil, fmt.Errorf("failed to resolve names: %w", err)
	}

	renamer := &Renamer{DryRun: opts.DryRun}
	for _, m := range records {
		if err := ctx.Err(); err != nil {
			session.LogSessionEnd()
			return session, err
		}
		outcome, err := renamer.Commit(m.Path, filepath.Join(dir, m.Canonical()))
		if err != nil {
			session.LogSkipped(m, err)
			continue
		}
		if outcome == OutcomeRenamed {
			session.LogRenamed(m)
		} else {
			session.LogUnchanged(m)
		}
	}

	session.LogSessionEnd()
	return session, nil
}
