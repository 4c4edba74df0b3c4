package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MediaKind is the closed set of media variants a file can belong to.
type MediaKind int

const (
	KindUnsupported MediaKind = iota
	KindImage
	KindVideo
)

func (k MediaKind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	default:
		return "unsupported"
	}
}

// KindOf maps a file name to its media kind using the configured extensions.
func (c *Config) KindOf(name string) MediaKind {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return KindUnsupported
	}
	for _, e := range c.ImageExt {
		if ext == strings.ToLower(e) {
			return KindImage
		}
	}
	for _, e := range c.VideoExt {
		if ext == strings.ToLower(e) {
			return KindVideo
		}
	}
	return KindUnsupported
}

// ScanMediaFiles lists the regular media files directly inside dir, sorted by name.
// Subdirectories are not descended into.
func ScanMediaFiles(dir string, cfg *Config) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error scanning files: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if cfg.KindOf(e.Name()) == KindUnsupported {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Slice(files, func(i, j int) bool {
		return filepath.Base(files[i]) < filepath.Base(files[j])
	})
	return files, nil
}

// listNames returns every entry name in dir, media or not.
func listNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}
