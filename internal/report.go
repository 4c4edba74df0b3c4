package internal

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
)

// duplicateJSON is the machine-readable form of a DuplicateSet.
type duplicateJSON struct {
	Hash  string   `json:"hash"`
	Files []string `json:"files"`
	Size  int64    `json:"size_bytes"`
}

type duplicatesReport struct {
	Folder     string          `json:"folder"`
	Duplicates []duplicateJSON `json:"duplicates"`
	Wasted     int64           `json:"wasted_bytes"`
}

// DisplayDuplicates writes sets to w as "table" or "json".
func DisplayDuplicates(w io.Writer, folder string, sets []DuplicateSet, format string) error {
	switch format {
	case "json":
		return displayJSON(w, folder, sets)
	case "", "table":
		return displayTable(w, sets)
	default:
		return fmt.Errorf("unknown output format %q (want table or json)", format)
	}
}

func displayJSON(w io.Writer, folder string, sets []DuplicateSet) error {
	report := duplicatesReport{Folder: folder, Duplicates: make([]duplicateJSON, 0, len(sets))}
	for _, s := range sets {
		report.Duplicates = append(report.Duplicates, duplicateJSON{Hash: s.Hash, Files: s.Names(), Size: s.Size})
		report.Wasted += s.Size * int64(len(s.Files)-1)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func displayTable(w io.Writer, sets []DuplicateSet) error {
	if len(sets) == 0 {
		_, err := fmt.Fprintln(w, "No duplicate files found.")
		return err
	}

	header := color.New(color.FgYellow, color.Bold)
	header.Fprintln(w, "Found duplicate files:")

	var wasted int64
	for _, s := range sets {
		fmt.Fprintf(w, "  Hash: %s (%s each)\n", s.Hash, formatBytes(s.Size))
		for _, name := range s.Names() {
			fmt.Fprintf(w, "    - %s\n", name)
		}
		wasted += s.Size * int64(len(s.Files)-1)
	}
	_, err := fmt.Fprintf(w, "%d duplicate set(s), %s reclaimable\n", len(sets), formatBytes(wasted))
	return err
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
