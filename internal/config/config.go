package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/ironsheep/image-export/internal/export"
	"github.com/ironsheep/image-export/internal/storage"
)

// LogLevelEnv overrides logging.level when set.
const LogLevelEnv = "IMAGE_EXPORT_LOG_LEVEL"

// Export contains defaults applied to every export.
type Export struct {
	Prefix          string `toml:"prefix"`
	Overwrite       bool   `toml:"overwrite"`
	Parallelism     int    `toml:"parallelism"`
	TIFFCompression string `toml:"tiff_compression"`
}

// Storage contains credentials and endpoint settings for remote destinations.
// Empty fields fall back to the SDK's own environment and profile lookup.
type Storage struct {
	Region          string `toml:"region"`
	Endpoint        string `toml:"endpoint"`
	AccessKeyID     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key"`
	SessionToken    string `toml:"session_token"`
	Insecure        bool   `toml:"insecure"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level string `toml:"level"`
}

// Config encapsulates all configuration values for image-export.
type Config struct {
	Export  Export  `toml:"export"`
	Storage Storage `toml:"storage"`
	Logging Logging `toml:"logging"`
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Export: Export{
			Prefix:          export.DefaultPrefix,
			Parallelism:     1,
			TIFFCompression: string(export.TIFFUncompressed),
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// Load parses and validates the configuration file at path. A missing file is
// not an error: defaults are returned and the boolean result is false. An
// empty path also yields defaults.
func Load(path string) (*Config, bool, error) {
	cfg := Default()

	exists := false
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, false, fmt.Errorf("open config: %w", err)
		default:
			exists = true
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return nil, false, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, false, err
	}
	return &cfg, exists, nil
}

func (c *Config) normalize() {
	c.Export.Prefix = strings.TrimSpace(c.Export.Prefix)
	if c.Export.Prefix == "" {
		c.Export.Prefix = export.DefaultPrefix
	}
	if c.Export.Parallelism < 1 {
		c.Export.Parallelism = 1
	}
	c.Export.TIFFCompression = strings.ToLower(strings.TrimSpace(c.Export.TIFFCompression))

	if lvl := strings.TrimSpace(os.Getenv(LogLevelEnv)); lvl != "" {
		c.Logging.Level = lvl
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := export.ValidatePrefix(c.Export.Prefix); err != nil {
		return fmt.Errorf("export.prefix: %w", err)
	}
	if c.Export.Parallelism < 1 {
		return errors.New("export.parallelism must be at least 1")
	}
	if _, err := export.ParseTIFFCompression(c.Export.TIFFCompression); err != nil {
		return fmt.Errorf("export.tiff_compression: %w", err)
	}
	if (c.Storage.AccessKeyID == "") != (c.Storage.SecretAccessKey == "") {
		return errors.New("storage.access_key_id and storage.secret_access_key must be set together")
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel converts the configured level name.
func (l Logging) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("logging.level: unknown level %q", l.Level)
	}
	return level, nil
}

// Credentials returns the storage credentials, or nil when nothing is
// configured so backends use their default provider chain.
func (s Storage) Credentials() *storage.Credentials {
	if s == (Storage{}) {
		return nil
	}
	return &storage.Credentials{
		AccessKeyID:     s.AccessKeyID,
		SecretAccessKey: s.SecretAccessKey,
		SessionToken:    s.SessionToken,
		Region:          s.Region,
		Endpoint:        s.Endpoint,
		Insecure:        s.Insecure,
	}
}

// ExportOptions builds export options from the configured defaults.
func (c *Config) ExportOptions(logger *slog.Logger) (export.Options, error) {
	comp, err := export.ParseTIFFCompression(c.Export.TIFFCompression)
	if err != nil {
		return export.Options{}, err
	}
	return export.Options{
		Prefix:          c.Export.Prefix,
		Overwrite:       c.Export.Overwrite,
		Credentials:     c.Storage.Credentials(),
		Logger:          logger,
		TIFFCompression: comp,
	}, nil
}

// Marshal renders the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
