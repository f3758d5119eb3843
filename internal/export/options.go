package export

import (
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/image/tiff"

	"github.com/ironsheep/image-export/internal/storage"
)

const (
	// DefaultPrefix is the filename prefix used when Options.Prefix is empty.
	DefaultPrefix = "image"

	// DefaultConfigName is the manifest filename written next to binary data.
	DefaultConfigName = "conf.json"

	// SuccessMarker is the empty file written after the manifest.
	SuccessMarker = "SUCCESS"
)

// Options control an export call.
type Options struct {
	// Prefix starts every filename: "{prefix}-{key:05d}.{ext}".
	Prefix string

	// Overwrite allows replacing existing files at the destination.
	Overwrite bool

	// Credentials for object-store destinations; nil uses the default chain.
	Credentials *storage.Credentials

	// Logger receives per-image debug logs and a completion record.
	// Nil uses slog.Default().
	Logger *slog.Logger

	// TIFFCompression selects the TIFF codec compression. Only ToTIFF uses it.
	TIFFCompression TIFFCompression
}

// ValidatePrefix rejects prefixes that would place files outside the
// destination.
func ValidatePrefix(prefix string) error {
	if strings.ContainsAny(prefix, `/\`) || prefix == "." || prefix == ".." {
		return fmt.Errorf("invalid prefix %q: must not contain path separators", prefix)
	}
	return nil
}

func (o Options) prefix() string {
	if o.Prefix == "" {
		return DefaultPrefix
	}
	return o.Prefix
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o Options) writerOptions() storage.WriterOptions {
	return storage.WriterOptions{Overwrite: o.Overwrite, Credentials: o.Credentials}
}

// ConfigOptions control WriteConfig.
type ConfigOptions struct {
	// Name is the manifest filename; empty means DefaultConfigName.
	Name string

	Overwrite   bool
	Credentials *storage.Credentials
	Logger      *slog.Logger
}

// TIFFCompression names a TIFF compression scheme.
type TIFFCompression string

const (
	TIFFUncompressed TIFFCompression = "none"
	TIFFDeflate      TIFFCompression = "deflate"
)

// ParseTIFFCompression accepts "none", "deflate", or "" (none).
func ParseTIFFCompression(s string) (TIFFCompression, error) {
	switch c := TIFFCompression(strings.ToLower(strings.TrimSpace(s))); c {
	case "", TIFFUncompressed:
		return TIFFUncompressed, nil
	case TIFFDeflate:
		return TIFFDeflate, nil
	}
	return "", fmt.Errorf("unknown tiff compression %q: want none or deflate", s)
}

func (c TIFFCompression) options() *tiff.Options {
	if c == TIFFDeflate {
		return &tiff.Options{Compression: tiff.Deflate, Predictor: true}
	}
	return &tiff.Options{Compression: tiff.Uncompressed}
}
