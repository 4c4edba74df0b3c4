package internal

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	mp4 "github.com/abema/go-mp4"
	"github.com/evanoberholster/imagemeta"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
)

// DateSource records where a capture time came from.
type DateSource string

const (
	SourceNone      DateSource = "none"
	SourceExif      DateSource = "exif"
	SourceContainer DateSource = "container"
	SourceExifTool  DateSource = "exiftool"
	SourceModTime   DateSource = "mtime"
)

// Metadata is the decoded, best-effort view of a file's embedded tags.
// Author holds the raw author/device string; it is never used in names directly.
type Metadata struct {
	CaptureTime time.Time
	Author      string
	Source      DateSource
}

// MetadataReader decodes one family of containers.
type MetadataReader interface {
	Read(path string) (Metadata, error)
}

var initOnce sync.Once

// InitMetadata registers the maker-note parsers with the EXIF decoder.
// It must run once at program start, before any Extractor is used.
func InitMetadata() {
	initOnce.Do(func() {
		exif.RegisterParsers(mknote.All...)
	})
}

// Extractor dispatches on MediaKind to the image or video reader and, when
// configured, falls back to exiftool for whatever the native reader missed.
// HEIF stills go to their own reader since goexif only understands JPEG and TIFF.
type Extractor struct {
	image    MetadataReader
	heif     MetadataReader
	video    MetadataReader
	fallback MetadataReader
	log      *Logger
}

// NewExtractor builds an Extractor. fallback may be nil.
func NewExtractor(log *Logger, fallback MetadataReader) *Extractor {
	return &Extractor{
		image:    exifReader{},
		heif:     heifReader{},
		video:    mp4Reader{},
		fallback: fallback,
		log:      log,
	}
}

// Extract never fails: missing or unparseable metadata yields zero fields.
func (x *Extractor) Extract(path string, kind MediaKind) Metadata {
	var r MetadataReader
	switch kind {
	case KindImage:
		r = x.image
		if isHEIF(path) && x.heif != nil {
			r = x.heif
		}
	case KindVideo:
		r = x.video
	default:
		return Metadata{Source: SourceNone}
	}

	md, err := r.Read(path)
	if err != nil {
		x.log.WithField("file", path).WithError(err).Debug("native metadata read failed")
		md = Metadata{}
	}

	needAuthor := kind == KindImage && md.Author == ""
	if x.fallback != nil && (md.CaptureTime.IsZero() || needAuthor) {
		fb, err := x.fallback.Read(path)
		if err != nil {
			x.log.WithField("file", path).WithError(err).Debug("exiftool read failed")
		} else {
			if md.CaptureTime.IsZero() && !fb.CaptureTime.IsZero() {
				md.CaptureTime = fb.CaptureTime
				md.Source = SourceExifTool
			}
			if needAuthor {
				md.Author = fb.Author
			}
		}
	}

	// No device fingerprint is derivable for video.
	if kind == KindVideo {
		md.Author = ""
	}
	if md.CaptureTime.IsZero() {
		md.Source = SourceNone
	}
	return md
}

// CaptureTime returns the embedded capture time, if any.
func (x *Extractor) CaptureTime(path string, kind MediaKind) (time.Time, bool) {
	md := x.Extract(path, kind)
	return md.CaptureTime, !md.CaptureTime.IsZero()
}

// AuthorFingerprint returns the one-way fingerprint of the author/device tag, if any.
func (x *Extractor) AuthorFingerprint(path string, kind MediaKind) (string, bool) {
	md := x.Extract(path, kind)
	if md.Author == "" {
		return "", false
	}
	return Fingerprint(md.Author), true
}

// Fingerprint derives a stable identity from an author or device string.
// Case and whitespace variance between writers map to the same value.
func Fingerprint(s string) string {
	norm := strings.ToLower(strings.Join(strings.Fields(s), " "))
	sum := sha1.Sum([]byte(norm))
	return hex.EncodeToString(sum[:])
}

// exifReader reads still-image tags with goexif.
type exifReader struct{}

func (exifReader) Read(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return Metadata{}, fmt.Errorf("exif decode: %w", err)
	}

	var md Metadata
	for _, field := range []exif.FieldName{exif.DateTimeOriginal, exif.DateTime} {
		if s := exifString(x, field); s != "" {
			if t, ok := parseExifTime(s); ok {
				md.CaptureTime = t
				md.Source = SourceExif
				break
			}
		}
	}
	md.Author = exifAuthor(exifString(x, exif.Artist), exifString(x, exif.Make), exifString(x, exif.Model))
	return md, nil
}

func exifString(x *exif.Exif, field exif.FieldName) string {
	tag, err := x.Get(field)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}

// exifAuthor prefers an explicit artist, then the device make and model.
func exifAuthor(artist, maker, model string) string {
	if artist != "" {
		return artist
	}
	if maker != "" && strings.HasPrefix(strings.ToLower(model), strings.ToLower(maker)) {
		return model
	}
	return strings.TrimSpace(maker + " " + model)
}

var heifExts = map[string]bool{".heic": true, ".heif": true, ".hif": true}

func isHEIF(path string) bool {
	return heifExts[strings.ToLower(filepath.Ext(path))]
}

// heifReader reads the EXIF block of HEIC/HEIF stills with imagemeta.
// Author is left to the exiftool fallback.
type heifReader struct{}

func (heifReader) Read(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, err
	}
	defer f.Close()

	e, err := imagemeta.Decode(f)
	if err != nil {
		return Metadata{}, fmt.Errorf("heif exif decode: %w", err)
	}

	var md Metadata
	for _, t := range []time.Time{e.DateTimeOriginal(), e.CreateDate()} {
		if !t.IsZero() && t.Year() >= 1900 {
			md.CaptureTime = t
			md.Source = SourceExif
			break
		}
	}
	return md, nil
}

// appleEpochOffset is the number of seconds between 1904-01-01 and 1970-01-01 (UTC).
const appleEpochOffset = 2082844800

var errNoCreationTime = errors.New("mvhd creation time not set")

// mp4Reader reads the ISO BMFF moov/mvhd creation time.
type mp4Reader struct{}

func (mp4Reader) Read(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, err
	}
	defer f.Close()

	boxes, err := mp4.ExtractBoxesWithPayload(f, nil, []mp4.BoxPath{
		{mp4.BoxTypeMoov(), mp4.BoxTypeMvhd()},
	})
	if err != nil {
		return Metadata{}, fmt.Errorf("error reading mp4 structure: %w", err)
	}

	for _, box := range boxes {
		mvhd, ok := box.Payload.(*mp4.Mvhd)
		if !ok {
			continue
		}
		secs := mvhd.GetCreationTime()
		if secs <= appleEpochOffset {
			return Metadata{}, errNoCreationTime
		}
		t := time.Unix(int64(secs)-appleEpochOffset, 0).UTC()
		return Metadata{CaptureTime: t, Source: SourceContainer}, nil
	}
	return Metadata{}, fmt.Errorf("mvhd box not found in %s", path)
}
