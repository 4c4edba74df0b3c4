package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Author      string   `mapstructure:"author"`
	ImageExt    []string `mapstructure:"image_extensions"`
	VideoExt    []string `mapstructure:"video_extensions"`
	UseExifTool bool     `mapstructure:"use_exiftool"`
	Workers     int      `mapstructure:"workers"`
	LogFile     string   `mapstructure:"log_file"`
	LogLevel    string   `mapstructure:"log_level"`
}

// DefaultConfig returns the built-in settings used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		ImageExt: []string{".jpg", ".jpeg", ".png", ".heic"},
		VideoExt: []string{".mov", ".mp4"},
		Workers:  1,
		LogLevel: "info",
	}
}

func LoadConfig() (*Config, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to find user config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigName("memorylane")
	v.SetConfigType("toml")
	v.AddConfigPath(filepath.Join(configDir, "memorylane"))
	v.SetEnvPrefix("memorylane")
	v.AutomaticEnv()

	def := DefaultConfig()
	v.SetDefault("author", def.Author)
	v.SetDefault("image_extensions", def.ImageExt)
	v.SetDefault("video_extensions", def.VideoExt)
	v.SetDefault("use_exiftool", def.UseExifTool)
	v.SetDefault("workers", def.Workers)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("log_level", def.LogLevel)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.normalize()
	return &cfg, nil
}

// normalize lower-cases extensions and makes sure each starts with a dot.
func (c *Config) normalize() {
	c.ImageExt = normalizeExts(c.ImageExt)
	c.VideoExt = normalizeExts(c.VideoExt)
	if c.Workers < 1 {
		c.Workers = 1
	}
}

func normalizeExts(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}
