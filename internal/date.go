package internal

import (
	"os"
	"time"
)

// getFileModTime fallback to file modification time
func getFileModTime(path string) (time.Time, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return fi.ModTime(), nil
}

// exifLayout is the fixed "YYYY:MM:DD HH:MM:SS" layout used by embedded still-image metadata.
const exifLayout = "2006:01:02 15:04:05"

// parseExifTime parses an embedded timestamp. Trailing sub-seconds or zone offsets
// written by some tools are tolerated; all-zero placeholders are rejected.
func parseExifTime(s string) (time.Time, bool) {
	if len(s) < len(exifLayout) {
		return time.Time{}, false
	}
	if t, err := time.Parse(exifLayout+"-07:00", s); err == nil {
		return t, true
	}
	t, err := time.Parse(exifLayout, s[:len(exifLayout)])
	if err != nil || t.Year() < 1900 {
		return time.Time{}, false
	}
	return t, true
}
