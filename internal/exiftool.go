package internal

import (
	"fmt"

	"github.com/barasher/go-exiftool"
)

// ExifToolReader reads tags through one long-lived exiftool process.
// It covers containers the native readers cannot decode (HEIC, PNG eXIf, odd MOVs).
type ExifToolReader struct {
	et *exiftool.Exiftool
}

// NewExifToolReader starts exiftool. Callers must Close it.
func NewExifToolReader() (*ExifToolReader, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("failed to start exiftool: %w", err)
	}
	return &ExifToolReader{et: et}, nil
}

var exifToolDateTags = []string{"DateTimeOriginal", "CreateDate", "MediaCreateDate"}

func (r *ExifToolReader) Read(path string) (Metadata, error) {
	infos := r.et.ExtractMetadata(path)
	if len(infos) == 0 {
		return Metadata{}, fmt.Errorf("exiftool returned no metadata for %s", path)
	}
	info := infos[0]
	if info.Err != nil {
		return Metadata{}, fmt.Errorf("exiftool metadata: %w", info.Err)
	}

	var md Metadata
	for _, tag := range exifToolDateTags {
		s, err := info.GetString(tag)
		if err != nil {
			continue
		}
		if t, ok := parseExifTime(s); ok {
			md.CaptureTime = t
			md.Source = SourceExifTool
			break
		}
	}

	artist, _ := info.GetString("Artist")
	maker, _ := info.GetString("Make")
	model, _ := info.GetString("Model")
	md.Author = exifAuthor(artist, maker, model)
	return md, nil
}

func (r *ExifToolReader) Close() error {
	return r.et.Close()
}
