package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// MediaFile is the classified record of one source file. Every field is fixed at
// classification time except the canonical name, which is set once by the resolver.
type MediaFile struct {
	Path        string // absolute source path, identity within a run
	Filename    string // original base name
	Kind        MediaKind
	Hash        string    // SHA-1 hex; empty when HashErr is set
	HashErr     error     // why the content could not be fingerprinted
	CaptureTime time.Time // zero when no time source exists at all
	DateSource  DateSource
	Author      string // fingerprint; empty when unknown
	ModTime     time.Time
	Size        int64

	canonical string
}

var ErrCanonicalSet = errors.New("canonical name already set")

// Canonical returns the resolved target name, or "" before resolution.
func (m *MediaFile) Canonical() string { return m.canonical }

// SetCanonical records the resolved name. It may be called only once.
func (m *MediaFile) SetCanonical(name string) error {
	if m.canonical != "" {
		return fmt.Errorf("%s: %w", m.Filename, ErrCanonicalSet)
	}
	m.canonical = name
	return nil
}

// Hashed reports whether the record has a usable content fingerprint.
func (m *MediaFile) Hashed() bool { return m.HashErr == nil && m.Hash != "" }

// Classifier turns a folder into MediaFile records.
type Classifier struct {
	cfg       *Config
	extractor *Extractor
	log       *Logger

	// AuthorOverride, when set, replaces the extracted author of every file.
	AuthorOverride string
	// OnFile is called after each file is classified (progress reporting).
	OnFile func(*MediaFile)
}

func NewClassifier(cfg *Config, extractor *Extractor, log *Logger) *Classifier {
	return &Classifier{cfg: cfg, extractor: extractor, log: log}
}

// Classify enumerates the direct children of dir and classifies every supported file.
// The result is sorted by filename. Cancellation is honoured between files.
func (c *Classifier) Classify(ctx context.Context, dir string) ([]*MediaFile, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, &InvalidFolderError{Path: dir, Err: err}
	}
	files, err := ScanMediaFiles(abs, c.cfg)
	if err != nil {
		return nil, err
	}

	records := make([]*MediaFile, len(files))

	workers := c.cfg.Workers
	if workers <= 1 {
		for i, path := range files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			records[i] = c.classifyFile(path)
			c.notify(records[i])
		}
		return records, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			records[i] = c.classifyFile(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, r := range records {
		c.notify(r)
	}
	return records, nil
}

func (c *Classifier) notify(m *MediaFile) {
	if c.OnFile != nil {
		c.OnFile(m)
	}
}

// classifyFile never fails as a whole: a hash failure is recorded on the record
// and metadata absence falls back to the modification time.
func (c *Classifier) classifyFile(path string) *MediaFile {
	m := &MediaFile{
		Path:     path,
		Filename: filepath.Base(path),
		Kind:     c.cfg.KindOf(path),
	}
	entry := c.log.WithField("file", m.Filename)

	if info, err := os.Stat(path); err == nil {
		m.ModTime = info.ModTime()
		m.Size = info.Size()
	}

	m.Hash, m.HashErr = HashFile(path)
	if m.HashErr != nil {
		entry.WithError(m.HashErr).Warn("content hash failed")
	}

	md := c.extractor.Extract(path, m.Kind)
	m.CaptureTime, m.DateSource = md.CaptureTime, md.Source
	if m.CaptureTime.IsZero() {
		if mt, err := getFileModTime(path); err == nil {
			m.CaptureTime, m.DateSource = mt, SourceModTime
		} else {
			m.DateSource = SourceNone
		}
		entry.WithField("source", m.DateSource).Debug("no embedded capture time")
	}

	switch {
	case c.AuthorOverride != "":
		m.Author = Fingerprint(c.AuthorOverride)
	case md.Author != "":
		m.Author = Fingerprint(md.Author)
	}

	entry.WithFields(logrus.Fields{
		"kind":   m.Kind.String(),
		"hash":   m.Hash,
		"source": m.DateSource,
	}).Debug("classified")
	return m
}
